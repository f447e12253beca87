// Package engine is the matching & session engine: token-based sessions,
// the preference-filtered feed, the like/match/block state machine and the
// activity/notification trail every operation feeds. A presentation layer
// calls it as a library; there is no network transport here.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/oggyb/sparkmatch/internal/activity"
	"github.com/oggyb/sparkmatch/internal/app"
	"github.com/oggyb/sparkmatch/internal/cache"
	"github.com/oggyb/sparkmatch/internal/chat"
	"github.com/oggyb/sparkmatch/internal/db"
	svcErr "github.com/oggyb/sparkmatch/internal/errors"
	"github.com/oggyb/sparkmatch/internal/feed"
	"github.com/oggyb/sparkmatch/internal/repository"
	"github.com/oggyb/sparkmatch/internal/session"
)

// Stats are the session counters kept in Redis.
type Stats struct {
	Viewed         int64
	Liked          int64
	Skipped        int64
	ProfileUpdates int64
}

// sessionState is the per-viewer ephemeral state: preferences, feed cursor,
// derived match statuses, the activity/notification trail and the chat
// scope. It lives for the process (or until Logout) only.
type sessionState struct {
	prefs       feed.Preferences
	cursor      *feed.Cursor
	statuses    map[uint64]MatchStatus
	activityLog *activity.Log
	notifs      *activity.NotificationLog
	activeMatch uint64
	chat        *chat.Session
}

func newSessionState() *sessionState {
	return &sessionState{
		statuses:    make(map[uint64]MatchStatus),
		activityLog: activity.NewLog(),
		notifs:      activity.NewNotificationLog(),
	}
}

// Service implements the engine operations on top of the repository and
// cache layers. A single mutex serializes mutations: that is what keeps
// email uniqueness, the profile read-modify-write and the per-viewer like
// set atomic if several sessions share one process.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
	likes  *repository.LikeRepository
	blocks *repository.BlockRepository

	mu       sync.Mutex
	sessions map[uint64]*sessionState
}

// NewService creates the engine with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		users:    repository.NewUserRepository(appCtx.DB),
		likes:    repository.NewLikeRepository(appCtx.DB),
		blocks:   repository.NewBlockRepository(appCtx.DB),
		sessions: make(map[uint64]*sessionState),
	}
}

// Register creates a directory record and returns its credential-stripped
// snapshot.
//
// Behavior:
//   - Fails with ErrConflict when the email is already present.
//   - Stores the secret hashed; the caller contract is only that login
//     succeeds with the same (email, secret) pair.
//   - Appends one REGISTER activity and notification to the new user's
//     session trail.
func (s *Service) Register(ctx context.Context, fullName, email, secret string) (db.ProfileSnapshot, error) {
	s.appCtx.Logger.Debug("Register called", "email", email)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return db.ProfileSnapshot{}, svcErr.Conflict(email)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.appCtx.Logger.Error("Register lookup failed", "err", err)
		return db.ProfileSnapshot{}, svcErr.Map(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return db.ProfileSnapshot{}, fmt.Errorf("failed to hash secret: %w", err)
	}

	user := db.User{FullName: fullName, Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, &user); err != nil {
		return db.ProfileSnapshot{}, svcErr.Map(err)
	}

	st := s.stateLocked(user.ID)
	st.activityLog.Append(activity.KindRegister, "You registered a new account")
	st.notifs.Append("Registration complete, you can sign in now.")

	return user.Snapshot(), nil
}

// Login checks credentials and opens a session.
//
// Behavior:
//   - Fails with ErrAuth on any mismatch; it never says whether the email
//     or the secret was wrong.
//   - Mints the session token, builds the viewer's feed and re-derives
//     match state from the like ledger.
//   - Appends one LOGIN activity and notification.
func (s *Service) Login(ctx context.Context, email, secret string) (string, db.ProfileSnapshot, error) {
	s.appCtx.Logger.Debug("Login called", "email", email)

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", db.ProfileSnapshot{}, svcErr.ErrAuth
		}
		return "", db.ProfileSnapshot{}, svcErr.Map(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(secret)) != nil {
		return "", db.ProfileSnapshot{}, svcErr.ErrAuth
	}

	token := session.NewToken(user.ID)

	st := s.stateLocked(user.ID)
	if err := s.rebuildFeedLocked(ctx, st, user.ID); err != nil {
		return "", db.ProfileSnapshot{}, svcErr.Map(err)
	}
	if err := s.refreshMatchesLocked(ctx, st, user.ID); err != nil {
		return "", db.ProfileSnapshot{}, svcErr.Map(err)
	}
	st.activityLog.Append(activity.KindLogin, "You signed in")
	st.notifs.Append("Signed in successfully.")

	return token, user.Snapshot(), nil
}

// Validate returns the user id a token is bound to. It is a pure decode:
// no store lookup, no side effects. Any string not minted by Login fails
// with ErrAuth.
func (s *Service) Validate(token string) (uint64, error) {
	return session.Parse(token)
}

// Logout discards the session state (feed, trail, chat, statuses) and
// resets the Redis stats counters. The token itself simply stops being
// presented; there is nothing server-side to revoke.
func (s *Service) Logout(ctx context.Context, token string) error {
	userID, err := session.Parse(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()

	if err := s.appCtx.RedisCache.ResetStats(ctx, userID); err != nil {
		s.appCtx.Logger.Warn("failed to reset stats", "user", userID, "err", err)
	}
	return nil
}

// GetFeed returns the viewer's filtered candidate list. The feed source is
// captured at login and narrowed by preference and block changes; the
// cursor position survives GetFeed calls.
func (s *Service) GetFeed(ctx context.Context, token string) ([]feed.CandidateView, error) {
	userID, st, err := s.auth(token)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if st.cursor == nil {
		if err := s.rebuildFeedLocked(ctx, st, userID); err != nil {
			return nil, svcErr.Map(err)
		}
	}
	return st.cursor.Items(), nil
}

// Current returns the candidate under the feed cursor, or ok=false when the
// viewer has swiped through everyone.
func (s *Service) Current(ctx context.Context, token string) (feed.CandidateView, bool, error) {
	userID, st, err := s.auth(token)
	if err != nil {
		return feed.CandidateView{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if st.cursor == nil {
		if err := s.rebuildFeedLocked(ctx, st, userID); err != nil {
			return feed.CandidateView{}, false, svcErr.Map(err)
		}
	}
	c, ok := st.cursor.Current()
	return c, ok, nil
}

// Skip passes on the current candidate and advances the cursor.
//
// Behavior:
//   - One SKIP activity entry (no notification, matching the original).
//   - Bumps the viewed and skipped counters.
//   - A skip with an exhausted feed is a silent no-op.
func (s *Service) Skip(ctx context.Context, token string) error {
	userID, st, err := s.auth(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if st.cursor == nil {
		if err := s.rebuildFeedLocked(ctx, st, userID); err != nil {
			return svcErr.Map(err)
		}
	}
	current, ok := st.cursor.Current()
	if !ok {
		return nil
	}

	st.cursor.Advance()
	st.activityLog.Append(activity.KindSkip, fmt.Sprintf("You skipped %s", current.Name))
	s.bumpStat(ctx, userID, cache.StatViewed, cache.StatSkipped)
	return nil
}

// Like records a like edge from the viewer to the target.
//
// Behavior:
//   - Idempotent: liking the same target twice leaves one edge.
//   - Fails with ErrNotFound when the target id is not in the directory.
//   - Advances the pair's status to MATCHED (one like is enough, see
//     MatchStatus) and designates the active match if none is set.
//   - Advances the feed cursor when the target is the current candidate.
//   - One LIKE activity + notification; bumps viewed and liked counters;
//     invalidates the cached liked count.
func (s *Service) Like(ctx context.Context, token string, targetID uint64) error {
	userID, st, err := s.auth(token)
	if err != nil {
		return err
	}
	s.appCtx.Logger.Debug("Like called", "viewer", userID, "target", targetID)

	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return svcErr.Map(err)
	}

	if err := s.likes.Like(ctx, userID, targetID); err != nil {
		return svcErr.Map(err)
	}

	st.statuses[targetID] = st.statuses[targetID].advance(StatusMatched)
	if err := s.refreshMatchesLocked(ctx, st, userID); err != nil {
		return svcErr.Map(err)
	}

	if st.cursor != nil {
		if current, ok := st.cursor.Current(); ok && current.ID == targetID {
			st.cursor.Advance()
		}
	}

	st.activityLog.Append(activity.KindLike, fmt.Sprintf("You liked %s", target.FullName))
	st.notifs.Append(fmt.Sprintf("You just liked %s.", target.FullName))
	s.bumpStat(ctx, userID, cache.StatViewed, cache.StatLiked)
	if err := s.appCtx.RedisCache.InvalidateLikedCount(ctx, userID); err != nil {
		s.appCtx.Logger.Warn("failed to invalidate liked count", "user", userID, "err", err)
	}
	return nil
}

// GetLikes returns credential-stripped snapshots of everyone the viewer has
// liked, in directory order.
func (s *Service) GetLikes(ctx context.Context, token string) ([]db.ProfileSnapshot, error) {
	userID, _, err := s.auth(token)
	if err != nil {
		return nil, err
	}

	liked, err := s.likes.ListLiked(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	out := make([]db.ProfileSnapshot, 0, len(liked))
	for _, u := range liked {
		out = append(out, u.Snapshot())
	}
	return out, nil
}

// LikedCount returns how many targets the viewer has liked.
// Cache-first strategy:
//  1. Attempts to read from Redis (likes:count:userID).
//  2. On a miss, falls back to the ledger.
//  3. On a ledger fetch, updates Redis with a 1h TTL.
func (s *Service) LikedCount(ctx context.Context, token string) (int64, error) {
	userID, _, err := s.auth(token)
	if err != nil {
		return 0, err
	}

	if cached, ok, err := s.appCtx.RedisCache.GetLikedCount(ctx, userID); err == nil && ok {
		return cached, nil
	}

	count, err := s.likes.Count(ctx, userID)
	if err != nil {
		return 0, svcErr.Map(err)
	}
	if err := s.appCtx.RedisCache.SetLikedCount(ctx, userID, count); err != nil {
		s.appCtx.Logger.Warn("failed to cache liked count", "user", userID, "err", err)
	}
	return count, nil
}

// GetProfile returns the caller's own credential-stripped snapshot.
func (s *Service) GetProfile(ctx context.Context, token string) (db.ProfileSnapshot, error) {
	userID, _, err := s.auth(token)
	if err != nil {
		return db.ProfileSnapshot{}, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return db.ProfileSnapshot{}, svcErr.Map(err)
	}
	return user.Snapshot(), nil
}

// UpdateProfile applies a field-level merge to the caller's profile: only
// non-nil fields change, id and email never do.
//
// Behavior:
//   - One UPDATE_PROFILE activity + notification.
//   - Bumps the profile-updates counter.
func (s *Service) UpdateProfile(ctx context.Context, token string, upd db.ProfileUpdate) (db.ProfileSnapshot, error) {
	userID, st, err := s.auth(token)
	if err != nil {
		return db.ProfileSnapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.users.Update(ctx, userID, upd)
	if err != nil {
		return db.ProfileSnapshot{}, svcErr.Map(err)
	}

	st.activityLog.Append(activity.KindUpdateProfile, "You updated your profile")
	st.notifs.Append("Your profile has been updated.")
	s.bumpStat(ctx, userID, cache.StatProfileUpdates)
	return user.Snapshot(), nil
}

// SuggestBio generates a bio suggestion from the caller's profile fields.
// The suggestion is returned, not saved; persisting it is a normal
// UpdateProfile call.
func (s *Service) SuggestBio(ctx context.Context, token string) (string, error) {
	userID, st, err := s.auth(token)
	if err != nil {
		return "", err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", svcErr.Map(err)
	}

	bio := suggestBio(user)
	st.activityLog.Append(activity.KindSuggestBio, "You used the bio suggestion")
	st.notifs.Append("A new bio suggestion is ready for you.")
	return bio, nil
}

// SetPreferences replaces the viewer's feed criteria and rebuilds the feed,
// resetting the cursor.
func (s *Service) SetPreferences(ctx context.Context, token string, prefs feed.Preferences) error {
	userID, st, err := s.auth(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st.prefs = prefs
	if err := s.rebuildFeedLocked(ctx, st, userID); err != nil {
		return svcErr.Map(err)
	}

	st.activityLog.Append(activity.KindPreference, "You updated your match preferences")
	st.notifs.Append("Your match preferences have been saved.")
	return nil
}

// Preferences returns the viewer's current feed criteria.
func (s *Service) Preferences(token string) (feed.Preferences, error) {
	_, st, err := s.auth(token)
	if err != nil {
		return feed.Preferences{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return st.prefs, nil
}

// Block adds the target to the viewer's exclusion set.
//
// Behavior:
//   - Idempotent; blocking twice equals blocking once.
//   - Scrubs the target from the liked list and rebuilds the feed.
//   - Clears the active match and its chat scope when the blocked target
//     was the active match.
//   - One BLOCK activity + notification.
//   - Fails with ErrNotFound for an unknown target id.
func (s *Service) Block(ctx context.Context, token string, targetID uint64) error {
	userID, st, err := s.auth(token)
	if err != nil {
		return err
	}
	s.appCtx.Logger.Debug("Block called", "viewer", userID, "target", targetID)

	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return svcErr.Map(err)
	}

	if err := s.blocks.Block(ctx, userID, targetID); err != nil {
		return svcErr.Map(err)
	}
	if err := s.likes.Remove(ctx, userID, targetID); err != nil {
		return svcErr.Map(err)
	}
	delete(st.statuses, targetID)

	if st.activeMatch == targetID {
		st.activeMatch = 0
		st.chat = nil
	}

	if err := s.rebuildFeedLocked(ctx, st, userID); err != nil {
		return svcErr.Map(err)
	}

	st.activityLog.Append(activity.KindBlock, fmt.Sprintf("You blocked %s", target.FullName))
	st.notifs.Append(fmt.Sprintf("You blocked %s. They will no longer be suggested.", target.FullName))
	if err := s.appCtx.RedisCache.InvalidateLikedCount(ctx, userID); err != nil {
		s.appCtx.Logger.Warn("failed to invalidate liked count", "user", userID, "err", err)
	}
	return nil
}

// Report files a report against the target. Reporting only leaves a trail;
// it mutates no store.
func (s *Service) Report(ctx context.Context, token string, targetID uint64) error {
	_, st, err := s.auth(token)
	if err != nil {
		return err
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return svcErr.Map(err)
	}

	st.activityLog.Append(activity.KindReport, fmt.Sprintf("You reported %s", target.FullName))
	st.notifs.Append(fmt.Sprintf("Your report about %s has been recorded.", target.FullName))
	return nil
}

// OpenChat binds the chat scope to one of the viewer's matches.
//
// Behavior:
//   - The target must be in the viewer's liked list (ErrNotFound otherwise).
//   - Switching matches resets the message list and seeds the greeting
//     exactly once; re-opening the same match keeps the conversation.
//   - One OPEN_CHAT activity entry (no notification).
func (s *Service) OpenChat(ctx context.Context, token string, matchID uint64) error {
	userID, st, err := s.auth(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	liked, err := s.likes.Has(ctx, userID, matchID)
	if err != nil {
		return svcErr.Map(err)
	}
	if !liked {
		return svcErr.NotFound("no such match")
	}

	match, err := s.users.FindByID(ctx, matchID)
	if err != nil {
		return svcErr.Map(err)
	}

	if st.activeMatch != matchID {
		st.activeMatch = matchID
		st.chat = chat.NewSession(matchID, match.FullName)
	}
	st.activityLog.Append(activity.KindOpenChat, fmt.Sprintf("You opened the chat with %s", match.FullName))
	return nil
}

// SendChat appends a self-authored message to the active chat.
//
// Behavior:
//   - Empty/whitespace-only text is a silent no-op, not an error.
//   - Sending with no active match is also a no-op.
//   - A delivered message advances the match to CHATTED and appends one
//     CHAT activity + notification.
func (s *Service) SendChat(ctx context.Context, token string, text string) error {
	_, st, err := s.auth(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if st.chat == nil {
		return nil
	}
	if !st.chat.Send(text) {
		return nil
	}

	matchID := st.chat.MatchID()
	st.statuses[matchID] = st.statuses[matchID].advance(StatusChatted)

	name := fmt.Sprintf("match %d", matchID)
	if match, err := s.users.FindByID(ctx, matchID); err == nil {
		name = match.FullName
	}
	st.activityLog.Append(activity.KindChat, fmt.Sprintf("You messaged %s", name))
	st.notifs.Append(fmt.Sprintf("You just sent a message to %s.", name))
	return nil
}

// ChatMessages returns the ordered message list of the active chat scope.
func (s *Service) ChatMessages(token string) ([]chat.Message, error) {
	_, st, err := s.auth(token)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if st.chat == nil {
		return nil, nil
	}
	return st.chat.Messages(), nil
}

// ActiveMatch returns the match currently bound to the chat scope.
func (s *Service) ActiveMatch(token string) (uint64, bool, error) {
	_, st, err := s.auth(token)
	if err != nil {
		return 0, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return st.activeMatch, st.activeMatch != 0, nil
}

// MatchStatusFor reports the derived status of the (viewer, target) pair.
func (s *Service) MatchStatusFor(token string, targetID uint64) (MatchStatus, error) {
	_, st, err := s.auth(token)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if status, ok := st.statuses[targetID]; ok {
		return status, nil
	}
	return StatusPending, nil
}

// Activities returns the session's activity trail in chronological order.
// Most-recent-first display is the presentation layer's job.
func (s *Service) Activities(token string) ([]activity.Event, error) {
	_, st, err := s.auth(token)
	if err != nil {
		return nil, err
	}
	return st.activityLog.Events(), nil
}

// Notifications returns the notification trail in chronological order
// without touching read flags.
func (s *Service) Notifications(token string) ([]activity.Notification, error) {
	_, st, err := s.auth(token)
	if err != nil {
		return nil, err
	}
	return st.notifs.All(), nil
}

// OpenNotifications marks every notification read (opening the panel is the
// bulk mark-read trigger) and returns the trail.
func (s *Service) OpenNotifications(token string) ([]activity.Notification, error) {
	_, st, err := s.auth(token)
	if err != nil {
		return nil, err
	}

	st.notifs.MarkAllRead()
	return st.notifs.All(), nil
}

// UnreadNotifications counts notifications not yet marked read.
func (s *Service) UnreadNotifications(token string) (int, error) {
	_, st, err := s.auth(token)
	if err != nil {
		return 0, err
	}
	return st.notifs.Unread(), nil
}

// SessionStats reads the session counters from Redis.
func (s *Service) SessionStats(ctx context.Context, token string) (Stats, error) {
	userID, _, err := s.auth(token)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{}
	for field, dst := range map[cache.StatField]*int64{
		cache.StatViewed:         &stats.Viewed,
		cache.StatLiked:          &stats.Liked,
		cache.StatSkipped:        &stats.Skipped,
		cache.StatProfileUpdates: &stats.ProfileUpdates,
	} {
		n, err := s.appCtx.RedisCache.GetStat(ctx, userID, field)
		if err != nil {
			return Stats{}, err
		}
		*dst = n
	}
	return stats, nil
}

// --- internals ---

// auth validates the token and returns the session state, creating it
// lazily for tokens minted before this process started tracking state.
func (s *Service) auth(token string) (uint64, *sessionState, error) {
	userID, err := session.Parse(token)
	if err != nil {
		return 0, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return userID, s.stateLocked(userID), nil
}

func (s *Service) stateLocked(userID uint64) *sessionState {
	st, ok := s.sessions[userID]
	if !ok {
		st = newSessionState()
		s.sessions[userID] = st
	}
	return st
}

// rebuildFeedLocked recomputes the filtered candidate list and resets the
// cursor. Called at login and whenever preferences or the block set change.
func (s *Service) rebuildFeedLocked(ctx context.Context, st *sessionState, userID uint64) error {
	candidates, err := s.users.CandidatesFor(ctx, userID)
	if err != nil {
		return err
	}
	blocked, err := s.blocks.BlockedSet(ctx, userID)
	if err != nil {
		return err
	}

	views := make([]feed.CandidateView, 0, len(candidates))
	for _, u := range candidates {
		views = append(views, feed.NewCandidateView(u.Snapshot()))
	}
	st.cursor = feed.NewCursor(feed.Filter(views, st.prefs, blocked))
	return nil
}

// refreshMatchesLocked re-derives match state from the like ledger: every
// liked target is at least MATCHED, and when no match is active the oldest
// liked target in directory order becomes the active match and gets a
// fresh chat scope.
func (s *Service) refreshMatchesLocked(ctx context.Context, st *sessionState, userID uint64) error {
	liked, err := s.likes.ListLiked(ctx, userID)
	if err != nil {
		return err
	}

	for _, u := range liked {
		st.statuses[u.ID] = st.statuses[u.ID].advance(StatusMatched)
	}

	if st.activeMatch == 0 && len(liked) > 0 {
		first := liked[0]
		st.activeMatch = first.ID
		st.chat = chat.NewSession(first.ID, first.FullName)
	}
	return nil
}

// bumpStat increments counters as an advisory side effect; failures are
// logged, never surfaced.
func (s *Service) bumpStat(ctx context.Context, userID uint64, fields ...cache.StatField) {
	for _, f := range fields {
		if err := s.appCtx.RedisCache.IncrStat(ctx, userID, f); err != nil {
			s.appCtx.Logger.Warn("failed to bump stat", "user", userID, "stat", f, "err", err)
		}
	}
}
