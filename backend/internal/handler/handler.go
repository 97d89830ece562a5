package handler

import (
	"context"

	"github.com/ideaboard/ideaboard/backend/internal/ajax"
	"github.com/ideaboard/ideaboard/backend/internal/service"
	"github.com/ideaboard/ideaboard/shared/config"
	"github.com/ideaboard/ideaboard/shared/domain"
)

type Handler struct {
	toggle  service.ToggleService
	links   LinkRenderer
	health  HealthChecker
	cfg     *config.Config
	ajaxURL string
}

// HealthChecker reports whether the storage backend is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// LinkRenderer renders the toggle link returned as the content of a
// successful toggle.
type LinkRenderer interface {
	Link(kind domain.RelationKind, id domain.ObjectId, isMember bool, token string) (string, error)
}

func New(toggle service.ToggleService, links LinkRenderer, health HealthChecker, cfg *config.Config) (*Handler, error) {
	ajaxURL, err := ajax.URL(cfg.Public.AjaxBaseURL, nil)
	if err != nil {
		return nil, err
	}
	return &Handler{
		toggle:  toggle,
		links:   links,
		health:  health,
		cfg:     cfg,
		ajaxURL: ajaxURL,
	}, nil
}
