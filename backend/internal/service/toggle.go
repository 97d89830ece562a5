package service

import (
	"context"
	"fmt"

	"github.com/ideaboard/ideaboard/shared/config"
	"github.com/ideaboard/ideaboard/shared/domain"
	internal_errors "github.com/ideaboard/ideaboard/shared/errors"
	"github.com/ideaboard/ideaboard/shared/logger"
)

// to mock service in tests
type ToggleService interface {
	Toggle(ctx context.Context, kind domain.RelationKind, req domain.ToggleRequest) (*domain.ToggleResult, error)
	Token(userId domain.UserId, kind domain.RelationKind, id domain.ObjectId) string
	TopicContext(ctx context.Context, caller *domain.User, id domain.ThreadId) (*domain.ScriptContext, error)
	ForumContext(ctx context.Context, caller *domain.User, id domain.ForumId) (*domain.ScriptContext, error)
}

type Toggle struct {
	storage  MembershipStorage
	resolver Resolver
	verifier Verifier
	features config.Features
}

type MembershipStorage interface {
	// Toggle flips the relation atomically and returns whether it is present afterwards.
	Toggle(ctx context.Context, userId domain.UserId, objectId domain.ObjectId, kind domain.RelationKind) (bool, error)
}

type Resolver interface {
	ResolveThread(ctx context.Context, id domain.ThreadId) (domain.Thread, error)
	ResolveForum(ctx context.Context, id domain.ForumId) (domain.Forum, error)
}

type Verifier interface {
	Create(userId domain.UserId, scope domain.Scope) string
	Verify(token string, userId domain.UserId, scope domain.Scope) bool
}

func NewToggle(storage MembershipStorage, resolver Resolver, verifier Verifier, features config.Features) ToggleService {
	return &Toggle{storage: storage, resolver: resolver, verifier: verifier, features: features}
}

// messages of the gates that depend on the relation kind
type toggleMessages struct {
	disabled        string
	unauthenticated string
	notFound        string
}

var messages = map[domain.RelationKind]toggleMessages{
	domain.RelationFavorite: {
		disabled:        "Favorites are no longer active.",
		unauthenticated: "Please login to make this topic a favorite.",
		notFound:        "The topic could not be found.",
	},
	domain.RelationSubscription: {
		disabled:        "Subscriptions are no longer active.",
		unauthenticated: "Please login to subscribe to this topic.",
		notFound:        "The topic could not be found.",
	},
	domain.RelationForumSubscription: {
		disabled:        "Subscriptions are no longer active.",
		unauthenticated: "Please login to subscribe to this forum.",
		notFound:        "The forum could not be found.",
	},
}

const (
	msgUnauthorized = "You do not have permission to do this."
	msgInvalidToken = "Are you sure you meant to do that?"
	msgStoreFailed  = "The request was unsuccessful. Please try again."
)

// Toggle runs the gates in order and flips the relation when all of them
// pass. The first failing gate is returned as an *errors.ErrorWithStatusCode
// and later gates are not evaluated.
func (s *Toggle) Toggle(ctx context.Context, kind domain.RelationKind, req domain.ToggleRequest) (*domain.ToggleResult, error) {
	msg, ok := messages[kind]
	if !ok {
		return nil, fmt.Errorf("unsupported relation kind %q", kind)
	}
	log := logger.FromContext(ctx).With("relation", kind, "object_id", req.ObjectId)

	if !s.enabled(kind) {
		return nil, internal_errors.New(internal_errors.StatusFeatureDisabled, msg.disabled)
	}

	if req.Caller == nil {
		return nil, internal_errors.New(internal_errors.StatusUnauthenticated, msg.unauthenticated)
	}

	userId := req.Caller.Id
	if !req.Caller.CanEditUser(userId) {
		log.Warn("toggle by disabled user denied", "user_id", userId)
		return nil, internal_errors.New(internal_errors.StatusUnauthorized, msgUnauthorized)
	}

	result := &domain.ToggleResult{Kind: kind, UserId: userId}
	if err := s.resolve(ctx, kind, req.ObjectId, result); err != nil {
		if !internal_errors.IsNotFound(err) {
			log.Error("failed to resolve toggle target", "error", err)
		}
		return nil, internal_errors.New(internal_errors.StatusNotFound, msg.notFound)
	}

	if !s.verifier.Verify(req.Nonce, req.Caller.Id, domain.ToggleScope(kind, req.ObjectId)) {
		log.Info("toggle token rejected", "caller_id", req.Caller.Id)
		return nil, internal_errors.New(internal_errors.StatusInvalidToken, msgInvalidToken)
	}

	isMember, err := s.storage.Toggle(ctx, userId, req.ObjectId, kind)
	if err != nil {
		log.Error("failed to toggle membership", "user_id", userId, "error", err)
		return nil, internal_errors.New(internal_errors.StatusStoreWriteFailed, msgStoreFailed)
	}
	result.IsMember = isMember

	log.Debug("membership toggled", "user_id", userId, "is_member", isMember)
	return result, nil
}

// Token mints the anti-replay token a page embeds for toggling kind on id.
func (s *Toggle) Token(userId domain.UserId, kind domain.RelationKind, id domain.ObjectId) string {
	return s.verifier.Create(userId, domain.ToggleScope(kind, id))
}

func (s *Toggle) enabled(kind domain.RelationKind) bool {
	if kind == domain.RelationFavorite {
		return s.features.Favorites
	}
	return s.features.Subscriptions
}

func (s *Toggle) resolve(ctx context.Context, kind domain.RelationKind, id domain.ObjectId, result *domain.ToggleResult) error {
	if kind.OnForum() {
		forum, err := s.resolver.ResolveForum(ctx, id)
		if err != nil {
			return err
		}
		result.Forum = &forum
		return nil
	}
	thread, err := s.resolver.ResolveThread(ctx, id)
	if err != nil {
		return err
	}
	result.Thread = &thread
	return nil
}
