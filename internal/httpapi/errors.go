package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/htpc-tools/kodivoice/internal/domain"
	"github.com/htpc-tools/kodivoice/internal/logger"
)

type errorEnvelope struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Errors  []any  `json:"errors,omitempty"`
}

// writeError translates a handler failure into the shared envelope.
// Typed request errors keep their status (including the non-standard
// 433 validation status); anything else is an opaque 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *domain.RequestError
	if errors.As(err, &reqErr) {
		writeJSON(w, reqErr.Status, errorEnvelope{
			Message: reqErr.Message,
			Code:    reqErr.Code,
			Errors:  reqErr.Errors,
		})
		return
	}
	logger.FromContext(r.Context()).Error("request_failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorEnvelope{
		Message: "Internal server error.",
		Code:    "internal_error",
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]string{"result": "success"})
}
