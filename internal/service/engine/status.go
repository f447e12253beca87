package engine

// MatchStatus is the derived state of a (viewer, target) pair within a
// session. It only moves forward: PENDING < MATCHED < CHATTED.
//
// Reaching MATCHED takes nothing more than the viewer liking the target.
// The original system has no mutual-like requirement and that one-sided
// simplification is preserved here, not fixed.
type MatchStatus string

const (
	StatusPending MatchStatus = "PENDING"
	StatusMatched MatchStatus = "MATCHED"
	StatusChatted MatchStatus = "CHATTED"
)

func (s MatchStatus) rank() int {
	switch s {
	case StatusMatched:
		return 1
	case StatusChatted:
		return 2
	default:
		return 0
	}
}

// advance returns the higher of the two statuses, enforcing monotonicity.
func (s MatchStatus) advance(to MatchStatus) MatchStatus {
	if to.rank() > s.rank() {
		return to
	}
	return s
}
