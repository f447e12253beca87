package engine

import (
	"fmt"
	"math/rand"

	"github.com/oggyb/sparkmatch/internal/db"
)

// bioTemplates generate a suggested bio from whatever profile fields are
// filled in. The suggestion is returned to the caller, never persisted;
// saving it goes through the normal profile update.
var bioTemplates = []func(db.User) string{
	func(u db.User) string {
		name := u.FullName
		if name == "" {
			name = "a quiet introvert"
		}
		return fmt.Sprintf("I'm %s, into coffee and easy conversations.", name)
	},
	func(u db.User) string {
		city := u.City
		if city == "" {
			city = "a lovely city"
		}
		return fmt.Sprintf("Living in %s, spending free time on walks, movies and music.", city)
	},
	func(u db.User) string {
		age := u.Age
		if age == "" {
			age = "20-something"
		}
		return fmt.Sprintf("%s, nothing too serious, just someone to talk to in the evenings.", age)
	},
	func(u db.User) string {
		city := u.City
		if city == "" {
			city = "this city"
		}
		return fmt.Sprintf("Cat person, allergic to fake people. If you like %s too, we'll get along.", city)
	},
}

func suggestBio(u db.User) string {
	return bioTemplates[rand.Intn(len(bioTemplates))](u)
}
