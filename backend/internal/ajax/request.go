// Package ajax recognizes asynchronous action requests, routes them to the
// handlers registered for their action and encodes the result envelope.
package ajax

import (
	"context"
	"net/http"

	"github.com/ideaboard/ideaboard/shared/domain"
)

// Marker is the query or body field that flags a request as an action request.
const Marker = "ideaboard-ajax"

type Action string

const (
	ActionFavorite          Action = "favorite"
	ActionSubscription      Action = "subscription"
	ActionForumSubscription Action = "forum_subscription"
)

func (a Action) Valid() bool {
	switch a {
	case ActionFavorite, ActionSubscription, ActionForumSubscription:
		return true
	}
	return false
}

// Relation is the membership set the action toggles.
func (a Action) Relation() domain.RelationKind {
	return domain.RelationKind(a)
}

type ActionRequest struct {
	Marker  bool
	Action  string
	Payload map[string]string
	Caller  *domain.User // nil for anonymous callers
}

// NewActionRequest reads the marker and the action from the query string or
// the form body of r (body values win). The payload comes from the body only,
// so a plain link or prefetch never carries a target or a token.
func NewActionRequest(r *http.Request, caller *domain.User) ActionRequest {
	// a malformed body leaves the query values available
	_ = r.ParseForm()

	payload := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		payload[key] = r.PostForm.Get(key)
	}
	_, marker := r.Form[Marker]

	return ActionRequest{
		Marker:  marker,
		Action:  r.Form.Get("action"),
		Payload: payload,
		Caller:  caller,
	}
}

// Recognize reports whether req is an action request.
func Recognize(req ActionRequest) bool {
	return req.Marker && req.Action != ""
}

type ctxKey int

const doingAjaxKey ctxKey = 0

// WithDoingAjax marks ctx as serving an action request. Errors raised under
// such a context must be written as plain text or an envelope, never as a page.
func WithDoingAjax(ctx context.Context) context.Context {
	return context.WithValue(ctx, doingAjaxKey, true)
}

func DoingAjax(ctx context.Context) bool {
	v, _ := ctx.Value(doingAjaxKey).(bool)
	return v
}
