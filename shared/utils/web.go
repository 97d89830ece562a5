package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	internal_errors "github.com/ideaboard/ideaboard/shared/errors"
	"github.com/ideaboard/ideaboard/shared/logger"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	if code, ok := internal_errors.StatusCode(err); ok {
		http.Error(w, err.Error(), code)
		return
	}
	// default error is 500
	logger.Log.Error("internal error", "error", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func WriteJSON(w http.ResponseWriter, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Log.Error("failed to encode response", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// Validate checks the validate tags of body.
func Validate(body any) error {
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("validation failed", "error", err)
		return &internal_errors.ErrorWithStatusCode{Message: "Required fields missing", StatusCode: http.StatusBadRequest}
	}
	return nil
}

// InvalidFields returns the names of the struct fields of body that fail
// their validate tags. A nil map means body is valid.
func InvalidFields(body any) map[string]bool {
	err := validate.Struct(body)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		logger.Log.Error("unexpected validation error", "error", err)
		return nil
	}
	fields := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		fields[fe.StructField()] = true
	}
	return fields
}
