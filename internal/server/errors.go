package server

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"

	cverrors "github.com/kubeadapt/clusterview/internal/errors"
)

// errorResponse is the JSON body of every non-2xx API response.
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Kind      string `json:"kind,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps a query error to its HTTP status and response body.
func statusFor(err error) (int, errorResponse) {
	code := cverrors.CodeOf(err)
	resp := errorResponse{Error: err.Error(), Code: string(code)}

	switch code {
	case cverrors.ErrAggregationFailed:
		var agg *cverrors.AggregationError
		stderrors.As(err, &agg)
		resp.Error = agg.CauseString()
		resp.Kind = agg.Kind
		return http.StatusBadGateway, resp
	case cverrors.ErrSourceUnavailable:
		var su *cverrors.SourceUnavailableError
		stderrors.As(err, &su)
		resp.Kind = su.Kind
		return http.StatusServiceUnavailable, resp
	case cverrors.ErrNotFound:
		var nf *cverrors.NotFoundError
		stderrors.As(err, &nf)
		resp.Kind = nf.Kind
		return http.StatusNotFound, resp
	default:
		return http.StatusInternalServerError, resp
	}
}

// writeQueryError logs and writes err with its mapped status.
func writeQueryError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Warn("query failed",
			"path", r.URL.Path,
			"status", status,
			"code", resp.Code,
			"error", err,
		)
	}
	writeError(w, r, status, resp)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, resp errorResponse) {
	resp.RequestID = requestIDFrom(r.Context())
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("write response failed", "error", err)
	}
}
