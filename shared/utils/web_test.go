package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	internal_errors "github.com/ideaboard/ideaboard/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Id    string `validate:"required,number"`
	Nonce string `validate:"omitempty,max=4"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		body        testPayload
		expectedErr *internal_errors.ErrorWithStatusCode
	}{
		{name: "valid", body: testPayload{Id: "5", Nonce: "abcd"}},
		{name: "valid without optional", body: testPayload{Id: "5"}},
		{
			name:        "missing required",
			body:        testPayload{Nonce: "a"},
			expectedErr: &internal_errors.ErrorWithStatusCode{Message: "Required fields missing", StatusCode: 400},
		},
		{
			name:        "not a number",
			body:        testPayload{Id: "five"},
			expectedErr: &internal_errors.ErrorWithStatusCode{Message: "Required fields missing", StatusCode: 400},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.body)

			if tt.expectedErr == nil {
				assert.NoError(t, err)
				return
			}
			e, ok := err.(*internal_errors.ErrorWithStatusCode)
			require.True(t, ok, "Error should be ErrorWithStatusCode")
			assert.Equal(t, tt.expectedErr.Message, e.Message)
			assert.Equal(t, tt.expectedErr.StatusCode, e.StatusCode)
		})
	}
}

func TestInvalidFields(t *testing.T) {
	assert.Nil(t, InvalidFields(&testPayload{Id: "1"}))

	fields := InvalidFields(&testPayload{Id: "x", Nonce: "toolong"})
	assert.Equal(t, map[string]bool{"Id": true, "Nonce": true}, fields)
}

func TestWriteErrorAndStatusCode(t *testing.T) {
	t.Run("status error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		WriteErrorAndStatusCode(rr, internal_errors.NotFound("Thread not found"))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Thread not found\n", rr.Body.String())
	})

	t.Run("plain error hides details", func(t *testing.T) {
		rr := httptest.NewRecorder()
		WriteErrorAndStatusCode(rr, errors.New("pq: password authentication failed"))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Internal server error\n", rr.Body.String())
	})
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSON(rr, map[string]int{"a": 1})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"a":1}`, rr.Body.String())
}
