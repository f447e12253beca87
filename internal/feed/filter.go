// Package feed builds the candidate sequence a session swipes through:
// a pure preference filter over directory snapshots plus a cursor that
// tracks the session's position in the filtered list.
package feed

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oggyb/sparkmatch/internal/db"
)

// CandidateView is the presentation-shaped candidate handed to callers.
// Age and City fall back to "unknown" when the profile leaves them blank.
type CandidateView struct {
	ID       uint64
	Name     string
	Age      string
	City     string
	Bio      string
	Gender   string
	ImageRef string
}

// NewCandidateView shapes a directory snapshot for the feed.
// ImageRef is a deterministic placeholder keyed by user id; there is no
// media storage in this scope.
func NewCandidateView(s db.ProfileSnapshot) CandidateView {
	v := CandidateView{
		ID:       s.ID,
		Name:     s.FullName,
		Age:      s.Age,
		City:     s.City,
		Bio:      s.Bio,
		Gender:   s.Gender,
		ImageRef: fmt.Sprintf("https://picsum.photos/400/300?random=%d", s.ID),
	}
	if v.Age == "" {
		v.Age = "unknown"
	}
	if v.City == "" {
		v.City = "unknown"
	}
	return v
}

// Preferences are the optional feed criteria. Empty fields mean "no
// constraint"; MinAge/MaxAge that do not parse as integers also mean
// "no constraint", never "exclude everything".
type Preferences struct {
	PreferredGender string
	MinAge          string
	MaxAge          string
	PreferredCity   string
}

// Filter narrows candidates by blocked set and preferences.
//
// Stages run in a fixed order, each over the previous result:
//  1. drop candidates in blocked
//  2. case-insensitive gender equality, if PreferredGender is set
//  3. inclusive age bounds; a candidate whose age does not parse is
//     treated as unknown and kept
//  4. case-insensitive city substring, if PreferredCity is set
//
// The filter is stable: output order is input order, no re-sorting.
func Filter(candidates []CandidateView, prefs Preferences, blocked map[uint64]struct{}) []CandidateView {
	result := make([]CandidateView, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := blocked[c.ID]; ok {
			continue
		}
		result = append(result, c)
	}

	if g := prefs.PreferredGender; g != "" {
		result = keep(result, func(c CandidateView) bool {
			return strings.EqualFold(c.Gender, g)
		})
	}

	min, minOK := parseAge(prefs.MinAge)
	max, maxOK := parseAge(prefs.MaxAge)
	if minOK || maxOK {
		result = keep(result, func(c CandidateView) bool {
			age, ok := parseAge(c.Age)
			if !ok {
				return true // unknown age, do not exclude
			}
			if minOK && age < min {
				return false
			}
			if maxOK && age > max {
				return false
			}
			return true
		})
	}

	if city := prefs.PreferredCity; city != "" {
		keyword := strings.ToLower(city)
		result = keep(result, func(c CandidateView) bool {
			return strings.Contains(strings.ToLower(c.City), keyword)
		})
	}

	return result
}

func keep(in []CandidateView, pred func(CandidateView) bool) []CandidateView {
	out := in[:0]
	for _, c := range in {
		if pred(c) {
			out = append(out, c)
		}
	}
	return out
}

func parseAge(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}
