package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AbinjithTK/Jums/internal/agent"
)

func (s *Server) handleListOps(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"operations": s.agent.Registry().Names(),
	})
}

// handleInvokeOp runs any registered operation by name. The body is the
// operation's params object.
func (s *Server) handleInvokeOp(w http.ResponseWriter, r *http.Request) {
	var params agent.Params
	if err := decodeBody(r, &params); err != nil {
		s.respondStoreError(w, err)
		return
	}

	result, err := s.agent.Invoke(r.Context(), chi.URLParam(r, "name"), owner(r), params)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}
