package server

import (
	"cmp"
	"context"
	"net/http"
	"slices"

	cverrors "github.com/kubeadapt/clusterview/internal/errors"
)

type healthResponse struct {
	Status       string                   `json:"status"`
	Message      string                   `json:"message"`
	Errors       []string                 `json:"errors,omitempty"`
	ActiveErrors []cverrors.ReportedError `json:"active_errors,omitempty"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	ready := s.api != nil && s.ready.Load()
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]bool{"ready": ready})
}

// handleAPIHealth reports whether a cluster client exists, along with the
// errors currently active: the distinct codes plus every entry with its
// component and message, ordered by code then component.
func (s *Server) handleAPIHealth(w http.ResponseWriter, _ *http.Request) {
	if s.api == nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:  "unhealthy",
			Message: "Not connected to cluster",
		})
		return
	}

	resp := healthResponse{Status: "healthy", Message: "Connected to cluster"}
	if s.errors != nil {
		resp.Errors = s.errors.GetActiveErrorCodes()
		slices.Sort(resp.Errors)
		resp.ActiveErrors = s.errors.GetActiveErrors()
		slices.SortFunc(resp.ActiveErrors, func(a, b cverrors.ReportedError) int {
			return cmp.Or(cmp.Compare(a.Code, b.Code), cmp.Compare(a.Component, b.Component))
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCluster(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, s.api.GetSnapshot)
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, s.api.GetNodes)
}

func (s *Server) handleNodeDetail(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	serve(s, w, r, func(ctx context.Context) (any, error) {
		return s.api.GetNodeDetail(ctx, name)
	})
}

func (s *Server) handleNamespaces(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, s.api.GetNamespaces)
}

func (s *Server) handlePods(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, s.api.GetPods)
}

func (s *Server) handleDeployments(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, s.api.GetDeployments)
}

func (s *Server) handleServices(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, s.api.GetServices)
}

// serve runs one query under the request timeout and writes its result.
func serve[T any](s *Server, w http.ResponseWriter, r *http.Request, query func(context.Context) (T, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), s.config.RequestTimeout)
	defer cancel()

	v, err := query(ctx)
	if err != nil {
		writeQueryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
