package ajax

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	reg := Registry{}
	noop := func(context.Context, ActionRequest) *Response { return nil }

	require.NoError(t, reg.Register(ActionFavorite, noop))
	require.NoError(t, reg.Register(ActionFavorite, noop))
	assert.Len(t, reg[ActionFavorite], 2)

	assert.Error(t, reg.Register(Action("heartbeat"), noop))
	assert.Error(t, reg.Register(ActionSubscription, nil))
}

func TestDispatcher_Dispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("not an action request", func(t *testing.T) {
		called := false
		reg := Registry{}
		require.NoError(t, reg.Register(ActionFavorite, func(context.Context, ActionRequest) *Response {
			called = true
			return Success("x", nil)
		}))
		d := NewDispatcher(reg)

		resp, ok := d.Dispatch(ctx, ActionRequest{Action: "favorite"})

		assert.False(t, ok)
		assert.Nil(t, resp)
		assert.False(t, called)
	})

	t.Run("handlers run in order, first response wins", func(t *testing.T) {
		var order []int
		reg := Registry{}
		require.NoError(t, reg.Register(ActionSubscription, func(context.Context, ActionRequest) *Response {
			order = append(order, 1)
			return nil
		}))
		require.NoError(t, reg.Register(ActionSubscription, func(context.Context, ActionRequest) *Response {
			order = append(order, 2)
			return Success("second", nil)
		}))
		require.NoError(t, reg.Register(ActionSubscription, func(context.Context, ActionRequest) *Response {
			order = append(order, 3)
			return Success("third", nil)
		}))
		d := NewDispatcher(reg)

		resp, ok := d.Dispatch(ctx, ActionRequest{Marker: true, Action: "subscription"})

		require.True(t, ok)
		require.NotNil(t, resp)
		assert.Equal(t, "second", resp.Content)
		assert.Equal(t, []int{1, 2}, order)
	})

	t.Run("unknown action answers nothing", func(t *testing.T) {
		var unknown string
		d := NewDispatcher(Registry{}, WithUnknownActionHook(func(action string) { unknown = action }))

		resp, ok := d.Dispatch(ctx, ActionRequest{Marker: true, Action: "delete_everything"})

		assert.True(t, ok)
		assert.Nil(t, resp)
		assert.Equal(t, "delete_everything", unknown)
	})

	t.Run("supported action without handlers", func(t *testing.T) {
		d := NewDispatcher(Registry{})

		resp, ok := d.Dispatch(ctx, ActionRequest{Marker: true, Action: "forum_subscription"})

		assert.True(t, ok)
		assert.Nil(t, resp)
	})
}
