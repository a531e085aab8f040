// Package response writes the JSON envelope every endpoint answers with:
//
//	{"status": 200, "data": {...}}
//	{"status": 400, "message": "Validation failed", "errors": {"size": "..."}}
package response

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/shirtshop/pkg/apperr"
	"github.com/shashiranjanraj/shirtshop/pkg/logger"
)

type Envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// Write encodes body with status. The envelope's Status is forced to match.
func Write(w http.ResponseWriter, status int, body Envelope) {
	body.Status = status
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("response: encode failed", "status", status, "error", err)
	}
}

func Data(w http.ResponseWriter, status int, data interface{}) {
	Write(w, status, Envelope{Data: data})
}

func Error(w http.ResponseWriter, status int, message string) {
	Write(w, status, Envelope{Message: message})
}

// Invalid sends a 400 with a field → message map.
func Invalid(w http.ResponseWriter, fields map[string]string) {
	Write(w, http.StatusBadRequest, Envelope{Message: "Validation failed", Errors: fields})
}

func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized")
}

// FromError answers with err's apperr status. Internal errors are logged
// with their cause and reported with a generic message.
func FromError(ctx context.Context, w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		logger.WithCtx(ctx).Error("request failed", "error", err)
	}
	Error(w, kind.Status(), apperr.Message(err))
}
