// Package nonce issues and verifies anti-replay tokens.
//
// A token proves that the request was initiated from a page the platform
// rendered for one user and one purpose ("scope", e.g. "toggle-favorite_5").
// Tokens are stateless: HMAC-SHA256 over scope, user and a time tick. A tick
// is half of the configured lifetime and a token verifies during the tick it
// was minted in and the following one.
//
// Tokens are not single-use: a token verifies any number of times until it
// expires. Replay is bounded by binding each token to one user and one target
// and by accepting action fields from POST bodies only, never from URLs.
package nonce

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ideaboard/ideaboard/shared/domain"
	"golang.org/x/crypto/hkdf"
)

const (
	keyLength   = 32
	tokenLength = 16 // bytes of the MAC kept in the token
	hkdfInfo    = "ideaboard anti-replay token v1"
)

type Verifier struct {
	key      []byte
	halfLife time.Duration
	now      func() time.Time
}

// New derives the signing key from secret. lifetime is the maximum age of a
// token; the minimum age at expiry is lifetime/2.
func New(secret string, lifetime time.Duration) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("nonce secret is empty")
	}
	key := make([]byte, keyLength)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("failed to derive nonce key: %w", err)
	}
	halfLife := lifetime / 2
	if halfLife < time.Second {
		halfLife = time.Second
	}
	return &Verifier{key: key, halfLife: halfLife, now: time.Now}, nil
}

// Create mints a token for userId and scope.
func (v *Verifier) Create(userId domain.UserId, scope domain.Scope) string {
	return v.sign(v.tick(), userId, scope)
}

// Verify reports whether token was minted for exactly this userId and scope
// and has not expired.
func (v *Verifier) Verify(token string, userId domain.UserId, scope domain.Scope) bool {
	if token == "" {
		return false
	}
	tick := v.tick()
	for _, t := range []int64{tick, tick - 1} {
		if hmac.Equal([]byte(token), []byte(v.sign(t, userId, scope))) {
			return true
		}
	}
	return false
}

func (v *Verifier) tick() int64 {
	return v.now().UnixNano() / int64(v.halfLife)
}

func (v *Verifier) sign(tick int64, userId domain.UserId, scope domain.Scope) string {
	mac := hmac.New(sha256.New, v.key)
	// '|' cannot appear in a decimal number, so fields cannot run into each other
	mac.Write([]byte(strconv.FormatInt(tick, 10)))
	mac.Write([]byte("|"))
	mac.Write([]byte(strconv.FormatInt(userId, 10)))
	mac.Write([]byte("|"))
	mac.Write([]byte(scope))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)[:tokenLength])
}
