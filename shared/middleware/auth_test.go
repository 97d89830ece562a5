package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ideaboard/ideaboard/shared/domain"
	jwt_internal "github.com/ideaboard/ideaboard/shared/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminOnly(t *testing.T) {
	jwtService := jwt_internal.New("test_secret", time.Hour)
	admin := &domain.User{Id: 1, Admin: true}
	tokenAdmin, _ := jwtService.NewToken(*admin)
	tokenDisabledAdmin, _ := jwtService.NewToken(domain.User{Id: 3, Admin: true, Disabled: true})
	token, _ := jwtService.NewToken(domain.User{Id: 2, Admin: false})

	tests := []struct {
		name           string
		cookie         *http.Cookie
		bearer         string
		expectedStatus int
	}{
		{
			name:           "Valid token - Admin",
			cookie:         &http.Cookie{Name: "accessToken", Value: tokenAdmin},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Bearer token - Admin",
			bearer:         tokenAdmin,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "No token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid token",
			cookie:         &http.Cookie{Name: "accessToken", Value: "invalid_token"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Non-admin accessing admin route",
			cookie:         &http.Cookie{Name: "accessToken", Value: token},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Disabled admin",
			cookie:         &http.Cookie{Name: "accessToken", Value: tokenDisabledAdmin},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "http://example.com", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}
			rr := httptest.NewRecorder()
			handler := NewAuth(jwtService).AdminOnly()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got := GetUserFromContext(r)
				require.NotNil(t, got, "Auth should always propagate user thru context")
				assert.Equal(t, admin.Id, got.Id)
				assert.True(t, got.Admin)
				w.WriteHeader(http.StatusOK)
			}))
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code, "handler returned wrong status code")
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtService := jwt_internal.New("test_secret", time.Hour)
	token, _ := jwtService.NewToken(domain.User{Id: 7})
	disabledToken, _ := jwtService.NewToken(domain.User{Id: 8, Disabled: true})
	middleware := NewAuth(jwtService).OptionalAuth()

	tests := []struct {
		name         string
		cookie       *http.Cookie
		wantId       *domain.UserId
		wantDisabled bool
	}{
		{name: "anonymous"},
		{name: "invalid token is ignored", cookie: &http.Cookie{Name: "accessToken", Value: "garbage"}},
		{name: "valid token", cookie: &http.Cookie{Name: "accessToken", Value: token}, wantId: func() *domain.UserId { id := domain.UserId(7); return &id }()},
		{name: "disabled account", cookie: &http.Cookie{Name: "accessToken", Value: disabledToken}, wantId: func() *domain.UserId { id := domain.UserId(8); return &id }(), wantDisabled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rr := httptest.NewRecorder()
			called := false
			handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				got := GetUserFromContext(r)
				if tt.wantId == nil {
					assert.Nil(t, got)
					return
				}
				require.NotNil(t, got)
				assert.Equal(t, *tt.wantId, got.Id)
				assert.Equal(t, tt.wantDisabled, got.Disabled)
			}))
			handler.ServeHTTP(rr, req)

			assert.True(t, called)
			assert.Equal(t, http.StatusOK, rr.Code)
		})
	}
}

func TestGetUserFromContext(t *testing.T) {
	t.Run("no user in context", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		assert.Nil(t, GetUserFromContext(req))
	})

	t.Run("user in context", func(t *testing.T) {
		user := &domain.User{Id: 1, Admin: true}
		req := httptest.NewRequest("GET", "/", nil)
		req = req.WithContext(context.WithValue(req.Context(), UserClaimsKey, user))

		assert.Equal(t, user, GetUserFromContext(req))
	})
}
