package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/pretty"

	"DrawdownLens/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes data as JSON, indented when the request carries ?pretty.
func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if _, ok := r.URL.Query()["pretty"]; ok {
		body = pretty.Pretty(body)
	} else {
		body = append(body, '\n')
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(body)
}

// statusFor maps an analysis error onto an HTTP status and a user-facing message.
func statusFor(err error) (int, string) {
	var verr *model.ValidationError
	var derr *model.DataUnavailableError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.As(err, &derr):
		return http.StatusNotFound, fmt.Sprintf("no price data found for %q; check the ticker symbol", derr.Symbol)
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "the data provider did not respond in time"
	default:
		return http.StatusInternalServerError, "analysis failed"
	}
}

// validationError converts validator failures into a ValidationError naming
// the first offending field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &model.ValidationError{Field: "request", Reason: err.Error()}
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return &model.ValidationError{Field: field, Reason: "is required"}
	case "gt", "lte":
		return &model.ValidationError{Field: field, Reason: "must be greater than 0% and at most 100%"}
	case "max":
		return &model.ValidationError{Field: field, Reason: "is too long"}
	default:
		return &model.ValidationError{Field: field, Reason: fmt.Sprintf("failed %s check", fe.Tag())}
	}
}
