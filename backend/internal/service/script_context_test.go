package service

import (
	"context"
	"testing"

	"github.com/ideaboard/ideaboard/shared/domain"
	internal_errors "github.com/ideaboard/ideaboard/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicContext(t *testing.T) {
	f := newFixture(t, allEnabled)
	ctx := context.Background()
	user := &domain.User{Id: 42}

	sc, err := f.service.TopicContext(ctx, user, testThreadId)
	require.NoError(t, err)
	assert.True(t, sc.LoggedIn)
	assert.True(t, f.verifier.Verify(sc.FavoriteNonce, user.Id, "toggle-favorite_5"))
	assert.True(t, f.verifier.Verify(sc.SubscriptionNonce, user.Id, "toggle-subscription_5"))

	// the minted token is accepted by the toggle itself
	result, err := f.service.Toggle(ctx, domain.RelationFavorite, domain.ToggleRequest{
		Caller: user, ObjectId: testThreadId, Nonce: sc.FavoriteNonce,
	})
	require.NoError(t, err)
	assert.True(t, result.IsMember)

	anon, err := f.service.TopicContext(ctx, nil, testThreadId)
	require.NoError(t, err)
	assert.False(t, anon.LoggedIn)

	_, err = f.service.TopicContext(ctx, user, 999)
	assert.True(t, internal_errors.IsNotFound(err))
}

func TestForumContext(t *testing.T) {
	f := newFixture(t, allEnabled)
	ctx := context.Background()
	user := &domain.User{Id: 42}

	sc, err := f.service.ForumContext(ctx, user, testForumId)
	require.NoError(t, err)
	assert.Empty(t, sc.FavoriteNonce)
	assert.True(t, f.verifier.Verify(sc.SubscriptionNonce, user.Id, "toggle-forum_subscription_1"))
	assert.False(t, f.verifier.Verify(sc.SubscriptionNonce, user.Id, "toggle-subscription_1"))

	_, err = f.service.ForumContext(ctx, user, testThreadId)
	assert.True(t, internal_errors.IsNotFound(err))
}
