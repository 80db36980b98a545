package server

import (
	"log"
	"net/http"
)

// handlePreview handles POST /preview, returning the composed document as HTML.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}

	data, err := s.decodeResume(w, r)
	if err != nil {
		s.writeInputError(w, err)
		return
	}

	html, err := s.pipeline.BuildHTML(data)
	if err != nil {
		s.errorDetailsResponse(w, HTTPStatus(err), "Preview failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(html)); err != nil {
		log.Printf("[server] failed to write preview: %v", err)
	}
}
