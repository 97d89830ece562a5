package middleware

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	internal_errors "github.com/ideaboard/ideaboard/shared/errors"
	"github.com/ideaboard/ideaboard/shared/logger"
	"github.com/ideaboard/ideaboard/shared/middleware/ratelimiter"
	"github.com/ideaboard/ideaboard/shared/utils"
)

// Limiter is satisfied by *ratelimiter.KeyedLimiter.
type Limiter interface {
	Allow(identity string) bool
}

var _ Limiter = (*ratelimiter.KeyedLimiter)(nil)

// ErrRateLimited is passed to the RejectFunc of a throttled request.
var ErrRateLimited = internal_errors.New(http.StatusTooManyRequests, "Rate limit exceeded, try again later")

// RejectFunc writes the response for a request RateLimit refused. err is an
// *errors.ErrorWithStatusCode.
type RejectFunc func(w http.ResponseWriter, r *http.Request, err error)

// WriteRejection is the default RejectFunc: a plain-text error with the
// status carried by err.
func WriteRejection(w http.ResponseWriter, _ *http.Request, err error) {
	utils.WriteErrorAndStatusCode(w, err)
}

// RateLimit throttles requests per identity. A nil reject uses WriteRejection.
func RateLimit(rl Limiter, getIdentity func(r *http.Request) (string, error), reject RejectFunc) func(http.Handler) http.Handler {
	if reject == nil {
		reject = WriteRejection
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := GetUserFromContext(r); user != nil && user.Admin { // disable for admin
				next.ServeHTTP(w, r)
				return
			}

			identity, err := getIdentity(r)
			if err != nil {
				logger.FromContext(r.Context()).Warn("can't identify caller for rate limit", "error", err)
				reject(w, r, internal_errors.New(http.StatusBadRequest, "Can't identify the caller"))
				return
			}
			if !rl.Allow(identity) {
				logger.FromContext(r.Context()).Info("rate limit exceeded", "identity", identity)
				reject(w, r, ErrRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Possible if user was authorized with previous middleware
func GetUserIDFromContext(r *http.Request) (string, error) {
	user := GetUserFromContext(r)
	if user == nil {
		return "", errors.New("Can't get user id")
	}
	return fmt.Sprintf("user_%d", user.Id), nil
}

// GetIP extracts the client IP from RemoteAddr. Forwarding headers are not
// trusted.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port
		ip = r.RemoteAddr
	}

	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("invalid IP address: %s", ip)
	}

	return ip, nil
}

// GetUserIDOrIP identifies logged-in callers by user id and anonymous ones
// by IP, so that anonymous toggles cannot exhaust a user's budget.
func GetUserIDOrIP(r *http.Request) (string, error) {
	if id, err := GetUserIDFromContext(r); err == nil {
		return id, nil
	}
	ip, err := GetIP(r)
	if err != nil {
		return "", err
	}
	return "ip_" + ip, nil
}
