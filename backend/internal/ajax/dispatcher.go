package ajax

import (
	"context"
	"fmt"

	"github.com/ideaboard/ideaboard/shared/logger"
)

// HandlerFunc handles one action request. A nil response means the handler
// chose not to answer and the next registered handler runs.
type HandlerFunc func(ctx context.Context, req ActionRequest) *Response

type Registry map[Action][]HandlerFunc

// Register appends h to the handlers of action. Only the closed set of
// actions is accepted.
func (r Registry) Register(action Action, h HandlerFunc) error {
	if !action.Valid() {
		return fmt.Errorf("unsupported ajax action %q", action)
	}
	if h == nil {
		return fmt.Errorf("nil handler for ajax action %q", action)
	}
	r[action] = append(r[action], h)
	return nil
}

type Dispatcher struct {
	registry  Registry
	onUnknown func(action string)
}

type Option func(*Dispatcher)

// WithUnknownActionHook is called with the raw action name of every
// recognized request whose action is not supported.
func WithUnknownActionHook(fn func(action string)) Option {
	return func(d *Dispatcher) {
		d.onUnknown = fn
	}
}

func NewDispatcher(registry Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{registry: registry}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs the handlers registered for req's action in registration
// order and returns the first response. ok is false when req is not an
// action request at all; the caller must then serve the request normally.
// A recognized request with no response must be finished with WriteTerminal.
func (d *Dispatcher) Dispatch(ctx context.Context, req ActionRequest) (resp *Response, ok bool) {
	if !Recognize(req) {
		return nil, false
	}

	action := Action(req.Action)
	if !action.Valid() {
		logger.FromContext(ctx).Warn("unknown ajax action", "action", req.Action)
		if d.onUnknown != nil {
			d.onUnknown(req.Action)
		}
		return nil, true
	}

	for _, h := range d.registry[action] {
		if resp := h(ctx, req); resp != nil {
			return resp, true
		}
	}
	return nil, true
}
