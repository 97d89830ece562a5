package render

import (
	"testing"

	"github.com/ideaboard/ideaboard/shared/config"
	"github.com/ideaboard/ideaboard/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T, labels config.Labels) *Renderer {
	t.Helper()
	r, err := New(labels, "/")
	require.NoError(t, err)
	return r
}

func TestLink_Favorite(t *testing.T) {
	r := newRenderer(t, config.DefaultLabels())

	add, err := r.Link(domain.RelationFavorite, 5, false, "tok")
	require.NoError(t, err)
	assert.Equal(t,
		`<span id="favorite-toggle"><span id="favorite-5">`+
			`<a href="/" class="favorite-toggle" data-topic="5" data-kind="favorite" data-nonce="tok">Favorite</a></span></span>`,
		add)

	remove, err := r.Link(domain.RelationFavorite, 5, true, "tok")
	require.NoError(t, err)
	assert.Contains(t, remove, `<span id="favorite-5" class="is-favorite">`)
	assert.Contains(t, remove, `>Unfavorite</a>`)
}

func TestLink_Subscriptions(t *testing.T) {
	r := newRenderer(t, config.DefaultLabels())

	topic, err := r.Link(domain.RelationSubscription, 5, true, "tok")
	require.NoError(t, err)
	assert.Contains(t, topic, `<span id="subscription-toggle"><span id="subscribe-5" class="is-subscribed">`)
	assert.Contains(t, topic, `data-topic="5"`)
	assert.Contains(t, topic, `data-kind="subscription"`)
	assert.Contains(t, topic, `>Unsubscribe</a>`)

	forum, err := r.Link(domain.RelationForumSubscription, 1, false, "tok")
	require.NoError(t, err)
	assert.Contains(t, forum, `<span id="subscribe-1">`)
	assert.Contains(t, forum, `data-forum="1"`)
	assert.Contains(t, forum, `data-kind="forum_subscription"`)
	assert.Contains(t, forum, `>Subscribe</a>`)
}

func TestLink_SanitizesLabels(t *testing.T) {
	labels := config.DefaultLabels()
	labels.Favorite = `<i class="icon-star"></i> <b>Star</b><script>alert(1)</script>`
	r := newRenderer(t, labels)

	link, err := r.Link(domain.RelationFavorite, 5, false, "tok")
	require.NoError(t, err)
	assert.Contains(t, link, "<b>Star</b>")
	assert.NotContains(t, link, "<script>")
}

func TestLink_HrefCarriesNoAction(t *testing.T) {
	r, err := New(config.DefaultLabels(), "http://localhost:8080/forums/")
	require.NoError(t, err)

	link, err := r.Link(domain.RelationSubscription, 5, false, "tok")
	require.NoError(t, err)
	assert.Contains(t, link, `href="http://localhost:8080/forums/"`)
	assert.NotContains(t, link, "ideaboard-ajax")
	assert.NotContains(t, link, "nonce=")
}

func TestLink_EscapesToken(t *testing.T) {
	r := newRenderer(t, config.DefaultLabels())

	link, err := r.Link(domain.RelationFavorite, 5, false, `"><script>`)
	require.NoError(t, err)
	assert.NotContains(t, link, `"><script>`)
}

func TestLink_UnknownKind(t *testing.T) {
	r := newRenderer(t, config.DefaultLabels())

	_, err := r.Link(domain.RelationKind("like"), 5, false, "tok")
	assert.Error(t, err)
}

func TestNew_InvalidBase(t *testing.T) {
	_, err := New(config.DefaultLabels(), "http://[::1")
	assert.Error(t, err)
}
