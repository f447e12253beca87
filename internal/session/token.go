package session

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	svcErr "github.com/oggyb/sparkmatch/internal/errors"
)

// Tokens are opaque to callers. Internally a token is a prefixed Base64
// payload that losslessly encodes the owning user id, so validation is a
// pure decode with no store lookup. There is no expiry in this scope; a
// caller invalidates a token by discarding it.
const tokenPrefix = "sess."

// claims is the encoded token state.
type claims struct {
	UserID uint64 `json:"user_id"`
}

// NewToken mints a token bound to the given user id.
func NewToken(userID uint64) string {
	b, _ := json.Marshal(claims{UserID: userID})
	return tokenPrefix + base64.URLEncoding.EncodeToString(b)
}

// Parse validates a token and returns the owning user id.
// Any string not produced by NewToken fails with ErrAuth.
func Parse(token string) (uint64, error) {
	if !strings.HasPrefix(token, tokenPrefix) {
		return 0, svcErr.Auth("malformed token")
	}

	b, err := base64.URLEncoding.DecodeString(strings.TrimPrefix(token, tokenPrefix))
	if err != nil {
		return 0, svcErr.Auth("malformed token")
	}

	var c claims
	if err := json.Unmarshal(b, &c); err != nil || c.UserID == 0 {
		return 0, svcErr.Auth("invalid token")
	}
	return c.UserID, nil
}
