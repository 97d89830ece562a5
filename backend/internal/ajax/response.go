package ajax

import (
	"encoding/json"
	"errors"
	"net/http"

	internal_errors "github.com/ideaboard/ideaboard/shared/errors"
	"github.com/ideaboard/ideaboard/shared/logger"
)

// StatusUnset is the envelope status of a failure that carries no code.
const StatusUnset = -1

// TerminalPayload finishes a recognized request that no handler answered.
const TerminalPayload = "0"

const genericFailure = "The request was unsuccessful."

type Response struct {
	Success bool
	Status  int
	Content string
	Extras  map[string]any
}

// Respond builds the envelope. A successful response without a status
// reports 200; a failed one keeps StatusUnset.
func Respond(success bool, content string, status int, extras map[string]any) *Response {
	if success && status == StatusUnset {
		status = http.StatusOK
	}
	return &Response{Success: success, Status: status, Content: content, Extras: extras}
}

func Success(content string, extras map[string]any) *Response {
	return Respond(true, content, StatusUnset, extras)
}

// Failure turns err into a failed envelope, using the status and message of
// an *errors.ErrorWithStatusCode when err carries one.
func Failure(err error) *Response {
	var e *internal_errors.ErrorWithStatusCode
	if errors.As(err, &e) {
		return Respond(false, e.Message, e.StatusCode, nil)
	}
	return Respond(false, genericFailure, StatusUnset, nil)
}

// MarshalJSON flattens extras into the top-level object. Extras override the
// reserved keys on collision.
func (r *Response) MarshalJSON() ([]byte, error) {
	envelope := make(map[string]any, 3+len(r.Extras))
	envelope["success"] = r.Success
	envelope["status"] = r.Status
	envelope["content"] = r.Content
	for k, v := range r.Extras {
		envelope[k] = v
	}
	return json.Marshal(envelope)
}

// SetHeaders prepares w for an action request before any handler runs.
func SetHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
}

// Write encodes resp as the final body of the request. A nil resp writes
// the terminal payload.
func Write(w http.ResponseWriter, resp *Response) {
	if resp == nil {
		WriteTerminal(w)
		return
	}
	body, err := json.Marshal(resp)
	if err != nil {
		logger.Log.Error("failed to encode ajax response", "error", err)
		WriteTerminal(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func WriteTerminal(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(TerminalPayload))
}
