package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ideaboard/ideaboard/shared/domain"
	jwt_internal "github.com/ideaboard/ideaboard/shared/jwt"
	"github.com/ideaboard/ideaboard/shared/logger"
	"github.com/ideaboard/ideaboard/shared/utils"
)

// Key to store the user claims in the request context
type key int

const UserClaimsKey key = 0

const accessTokenCookie = "accessToken"

// Auth holds dependencies for authentication middleware
type Auth struct {
	jwtService jwt_internal.JwtService
}

func NewAuth(jwtService jwt_internal.JwtService) *Auth {
	return &Auth{jwtService: jwtService}
}

// OptionalAuth populates the user context if the token is valid but lets
// anonymous requests through. Toggle gates decide what anonymous callers get.
func (a *Auth) OptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.extractUser(r)
			if user == nil {
				if err != nil && !errors.Is(err, errNoToken) {
					logger.FromContext(r.Context()).Debug("ignoring invalid session", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// extractUser reads the session token from the cookie (browsers) or the
// Authorization header (API clients).
func (a *Auth) extractUser(r *http.Request) (*domain.User, error) {
	var tokenString string
	if accessCookie, err := r.Cookie(accessTokenCookie); err == nil {
		tokenString = accessCookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = token
	}

	if tokenString == "" {
		return nil, errNoToken
	}

	token, err := a.jwtService.DecodeToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidClaims
	}

	uidFloat, ok := claims["uid"].(float64)
	if !ok {
		return nil, errInvalidClaims
	}

	isAdmin, ok := claims["admin"].(bool)
	if !ok {
		return nil, errInvalidClaims
	}

	createdAtFloat, ok := claims["created_at"].(float64)
	if !ok {
		return nil, errInvalidClaims
	}

	// absent in sessions issued before accounts could be disabled
	disabled, _ := claims["disabled"].(bool)

	return &domain.User{
		Id:        int64(uidFloat),
		Admin:     isAdmin,
		Disabled:  disabled,
		CreatedAt: time.Unix(int64(createdAtFloat), 0),
	}, nil
}

// Sentinel errors for extractUser
var (
	errNoToken       = errors.New("no token")
	errInvalidClaims = errors.New("invalid claims")
)

// AdminOnly returns middleware that requires an admin session.
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.extractUser(r)
			if err != nil {
				switch {
				case errors.Is(err, errNoToken):
					http.Error(w, "Please sign-in", http.StatusUnauthorized)
				case errors.Is(err, errInvalidClaims):
					logger.Log.Error("invalid jwt claims")
					http.Error(w, "Invalid token", http.StatusUnauthorized)
				default:
					utils.WriteErrorAndStatusCode(w, err)
				}
				return
			}

			if !user.Admin || user.Disabled {
				http.Error(w, "Access denied. Only for admin", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

func withUser(ctx context.Context, user *domain.User) context.Context {
	ctx = context.WithValue(ctx, UserClaimsKey, user)
	return logger.WithContext(ctx, "user_id", user.Id)
}

// GetUserFromContext returns the session user, or nil for anonymous requests.
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(UserClaimsKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
