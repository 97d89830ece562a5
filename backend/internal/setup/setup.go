package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/ideaboard/ideaboard/backend/internal/ajax"
	"github.com/ideaboard/ideaboard/backend/internal/handler"
	"github.com/ideaboard/ideaboard/backend/internal/render"
	"github.com/ideaboard/ideaboard/backend/internal/service"
	"github.com/ideaboard/ideaboard/backend/internal/storage/memory"
	"github.com/ideaboard/ideaboard/backend/internal/storage/pg"
	"github.com/ideaboard/ideaboard/shared/config"
	"github.com/ideaboard/ideaboard/shared/jwt"
	mw "github.com/ideaboard/ideaboard/shared/middleware"
	"github.com/ideaboard/ideaboard/shared/middleware/ratelimiter"
	"github.com/ideaboard/ideaboard/shared/nonce"
)

// Storage is implemented by both the Postgres and the in-memory store.
type Storage interface {
	service.MembershipStorage
	service.Resolver
	Ping(ctx context.Context) error
	Cleanup() error
}

var (
	_ Storage = (*pg.Storage)(nil)
	_ Storage = (*memory.Storage)(nil)
)

type Options struct {
	// InMemory replaces Postgres with the in-process store.
	InMemory bool
}

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        Storage
	Handler        *handler.Handler
	Dispatcher     *ajax.Dispatcher
	AuthMiddleware *mw.Auth
	Jwt            jwt.JwtService
	Nonce          *nonce.Verifier
	// AjaxLimiter is nil when ajax_rps is not configured.
	AjaxLimiter *ratelimiter.KeyedLimiter
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config, opts Options) (*Dependencies, error) {
	var storage Storage
	if opts.InMemory {
		storage = memory.New()
	} else {
		pgStorage, err := pg.New(cfg)
		if err != nil {
			return nil, err
		}
		storage = pgStorage
	}

	deps, err := wire(cfg, storage)
	if err != nil {
		storage.Cleanup()
		return nil, err
	}
	return deps, nil
}

func wire(cfg *config.Config, storage Storage) (*Dependencies, error) {
	verifier, err := nonce.New(cfg.Private.NonceKey, cfg.Public.NonceLifetime)
	if err != nil {
		return nil, err
	}
	links, err := render.New(cfg.Public.Labels, cfg.Public.AjaxBaseURL)
	if err != nil {
		return nil, err
	}

	toggle := service.NewToggle(storage, storage, verifier, cfg.Public.Features)
	h, err := handler.New(toggle, links, storage, cfg)
	if err != nil {
		return nil, err
	}
	registry, err := h.Registry()
	if err != nil {
		return nil, fmt.Errorf("failed to register ajax actions: %w", err)
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	deps := &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Handler:        h,
		Dispatcher:     ajax.NewDispatcher(registry, ajax.WithUnknownActionHook(handler.UnknownAction)),
		AuthMiddleware: mw.NewAuth(jwtService),
		Jwt:            jwtService,
		Nonce:          verifier,
	}
	if rps := cfg.Public.AjaxRPS; rps > 0 {
		deps.AjaxLimiter = ratelimiter.New(rps, max(1, int(rps)), time.Hour)
	}
	return deps, nil
}
