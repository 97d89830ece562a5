package service

import (
	"context"

	"github.com/ideaboard/ideaboard/shared/domain"
)

// TopicContext collects what a topic page script needs to issue toggles.
func (s *Toggle) TopicContext(ctx context.Context, caller *domain.User, id domain.ThreadId) (*domain.ScriptContext, error) {
	if _, err := s.resolver.ResolveThread(ctx, id); err != nil {
		return nil, err
	}
	userId := callerId(caller)
	return &domain.ScriptContext{
		LoggedIn:          caller != nil,
		ObjectId:          id,
		FavoriteNonce:     s.Token(userId, domain.RelationFavorite, id),
		SubscriptionNonce: s.Token(userId, domain.RelationSubscription, id),
	}, nil
}

// ForumContext is TopicContext for forum pages; only subscriptions apply.
func (s *Toggle) ForumContext(ctx context.Context, caller *domain.User, id domain.ForumId) (*domain.ScriptContext, error) {
	if _, err := s.resolver.ResolveForum(ctx, id); err != nil {
		return nil, err
	}
	return &domain.ScriptContext{
		LoggedIn:          caller != nil,
		ObjectId:          id,
		SubscriptionNonce: s.Token(callerId(caller), domain.RelationForumSubscription, id),
	}, nil
}

// anonymous callers get tokens bound to user 0; they never pass the login gate
func callerId(caller *domain.User) domain.UserId {
	if caller == nil {
		return 0
	}
	return caller.Id
}
