package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ideaboard/ideaboard/backend/internal/ajax"
	"github.com/ideaboard/ideaboard/shared/api"
	"github.com/ideaboard/ideaboard/shared/domain"
	"github.com/ideaboard/ideaboard/shared/logger"
	mw "github.com/ideaboard/ideaboard/shared/middleware"
	"github.com/ideaboard/ideaboard/shared/middleware/metrics"
	"github.com/ideaboard/ideaboard/shared/utils"
)

// Registry binds every toggle action to its handler.
func (h *Handler) Registry() (ajax.Registry, error) {
	reg := ajax.Registry{}
	for _, action := range []ajax.Action{ajax.ActionFavorite, ajax.ActionSubscription, ajax.ActionForumSubscription} {
		if err := reg.Register(action, h.toggleAction(action)); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Ajax answers action requests with the dispatcher and passes every other
// request to next.
func (h *Handler) Ajax(d *ajax.Dispatcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := ajax.NewActionRequest(r, mw.GetUserFromContext(r))
			if !ajax.Recognize(req) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := ajax.WithDoingAjax(r.Context())
			ctx = logger.WithContext(ctx, "action", req.Action)
			ajax.SetHeaders(w)

			resp := dispatch(ctx, d, req)
			observe(req, resp)
			ajax.Write(w, resp)
		})
	}
}

// dispatch turns a handler panic into a failed envelope; an action request
// must never end in an error page.
func dispatch(ctx context.Context, d *ajax.Dispatcher, req ajax.ActionRequest) (resp *ajax.Response) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.FromContext(ctx).Error("ajax handler panicked", "panic", rec)
			resp = ajax.Failure(fmt.Errorf("panic: %v", rec))
		}
	}()
	resp, _ = d.Dispatch(ctx, req)
	return resp
}

// unknown actions are counted by UnknownAction
func observe(req ajax.ActionRequest, resp *ajax.Response) {
	if !ajax.Action(req.Action).Valid() {
		return
	}
	if resp == nil {
		metrics.ObserveAjax(req.Action, metrics.AjaxStatusNoResponse)
		return
	}
	metrics.ObserveAjax(req.Action, strconv.Itoa(resp.Status))
}

// UnknownAction is the dispatcher hook for unsupported action names. The raw
// name is not used as a label.
func UnknownAction(string) {
	metrics.ObserveAjax("unknown", metrics.AjaxStatusUnknownAction)
}

// RejectAjax writes a rate-limit or identification failure as a failed
// envelope when r is an action request, and as plain text otherwise.
func RejectAjax(w http.ResponseWriter, r *http.Request, err error) {
	req := ajax.NewActionRequest(r, mw.GetUserFromContext(r))
	if !ajax.Recognize(req) {
		mw.WriteRejection(w, r, err)
		return
	}

	ajax.SetHeaders(w)
	resp := ajax.Failure(err)
	observe(req, resp)
	ajax.Write(w, resp)
}

func (h *Handler) toggleAction(action ajax.Action) ajax.HandlerFunc {
	kind := action.Relation()
	return func(ctx context.Context, req ajax.ActionRequest) *ajax.Response {
		toggleReq := decodeToggle(req)

		result, err := h.toggle.Toggle(ctx, kind, toggleReq)
		if err != nil {
			return ajax.Failure(err)
		}

		id := result.ObjectId()
		token := h.toggle.Token(req.Caller.Id, kind, id)
		content, err := h.links.Link(kind, id, result.IsMember, token)
		if err != nil {
			// the flip is committed; report success with an empty fragment
			logger.FromContext(ctx).Error("failed to render toggle link", "error", err)
		}
		return ajax.Success(content, map[string]any{
			"is_member": result.IsMember,
			"nonce":     token,
		})
	}
}

// decodeToggle maps the payload onto a toggle request. Invalid fields are
// dropped: a malformed id resolves to nothing and a malformed token fails
// verification, in gate order.
func decodeToggle(req ajax.ActionRequest) domain.ToggleRequest {
	payload := api.TogglePayload{
		Id:    req.Payload["id"],
		Nonce: req.Payload["nonce"],
	}
	invalid := utils.InvalidFields(&payload)

	out := domain.ToggleRequest{Caller: req.Caller}
	if !invalid["Id"] {
		out.ObjectId, _ = strconv.ParseInt(payload.Id, 10, 64)
	}
	if !invalid["Nonce"] {
		out.Nonce = payload.Nonce
	}
	return out
}
