package db

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedDemoData resets the database and populates it with the demo directory
// used by cmd/demo and manual testing. All demo accounts share the password
// "123456".
func SeedDemoData(db *gorm.DB) error {
	// --- Fresh start ---
	if err := db.Exec("DELETE FROM like_edges").Error; err != nil {
		return fmt.Errorf("failed to clear like edges: %w", err)
	}
	if err := db.Exec("DELETE FROM block_entries").Error; err != nil {
		return fmt.Errorf("failed to clear block entries: %w", err)
	}
	if err := db.Exec("DELETE FROM users").Error; err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}

	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name = 'users'")
	}

	log.Println("Cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	users := []User{
		{FullName: "Tu", Email: "tu@example.com", Age: "21", Gender: "male", City: "Hanoi", Bio: "Bubble tea and late-night coding."},
		{FullName: "Lan", Email: "lan@example.com", Age: "20", Gender: "female", City: "Ho Chi Minh City", Bio: "Movies, cats and coffee."},
		{FullName: "Huy", Email: "huy@example.com", Age: "23", Gender: "male", City: "Da Nang", Bio: "Part-time gamer, full-time dev."},
		{FullName: "Mai", Email: "mai@example.com", Age: "22", Gender: "female", City: "Hanoi", Bio: "Weekend hiker, weekday barista."},
		{FullName: "Khanh", Email: "khanh@example.com", Age: "25", Gender: "male", City: "Ho Chi Minh City", Bio: "Street food explorer."},
		{FullName: "Thao", Email: "thao@example.com", Age: "", Gender: "female", City: "Hue", Bio: "Ask me about pottery."},
	}
	for i := range users {
		users[i].PasswordHash = string(hash)
		if err := db.Create(&users[i]).Error; err != nil {
			return fmt.Errorf("failed to seed user %s: %w", users[i].Email, err)
		}
	}
	log.Printf("Seeded %d users.", len(users))

	// A couple of pre-existing likes so the demo session has matches to show.
	edges := []LikeEdge{
		{ViewerID: users[0].ID, TargetID: users[1].ID},
		{ViewerID: users[0].ID, TargetID: users[3].ID},
	}
	for _, e := range edges {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&e).Error; err != nil {
			return fmt.Errorf("failed to seed like edge: %w", err)
		}
	}

	return nil
}

// SeedMinimalTestData wipes the DB and inserts a tiny deterministic
// directory for repeatable tests. Passwords are stored hashed like
// production data; every account uses the password "pw".
func SeedMinimalTestData(db *gorm.DB) error {
	if err := db.Exec("DELETE FROM like_edges").Error; err != nil {
		return err
	}
	if err := db.Exec("DELETE FROM block_entries").Error; err != nil {
		return err
	}
	if err := db.Exec("DELETE FROM users").Error; err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	if err != nil {
		return err
	}

	users := []User{
		{ID: 1, FullName: "Tu", Email: "tu@test.com", PasswordHash: string(hash), Age: "21", Gender: "male", City: "Hanoi"},
		{ID: 2, FullName: "Lan", Email: "lan@test.com", PasswordHash: string(hash), Age: "20", Gender: "female", City: "Ho Chi Minh City"},
		{ID: 3, FullName: "Huy", Email: "huy@test.com", PasswordHash: string(hash), Age: "23", Gender: "male", City: "Da Nang"},
	}
	return db.Create(&users).Error
}
