package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/jonathan/ats-resume/internal/metrics"
	"github.com/jonathan/ats-resume/internal/schemas"
	"github.com/jonathan/ats-resume/internal/server/middleware"
	"github.com/jonathan/ats-resume/internal/types"
)

const exportFailedMessage = "PDF export failed"

// readBody reads the request body up to the configured limit.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		return nil, err
	}
	return body, nil
}

// decodeResume reads and validates a résumé request body.
func (s *Server) decodeResume(w http.ResponseWriter, r *http.Request) (types.ResumeData, error) {
	body, err := s.readBody(w, r)
	if err != nil {
		return types.ResumeData{}, err
	}
	raw, err := types.UnwrapJSONBody(body)
	if err != nil {
		return types.ResumeData{}, err
	}
	if err := schemas.ValidateResume(raw); err != nil {
		var loadErr *schemas.SchemaLoadError
		if errors.As(err, &loadErr) {
			return types.ResumeData{}, &types.InputMalformedError{Message: "body is not valid JSON", Cause: err}
		}
		return types.ResumeData{}, err
	}
	return types.ParseResume(raw)
}

// writeInputError answers a request whose body could not be used.
func (s *Server) writeInputError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	switch status {
	case http.StatusRequestEntityTooLarge:
		s.errorResponse(w, status, "Request body too large")
	case http.StatusBadRequest:
		s.errorDetailsResponse(w, status, "Invalid request body", errorDetails(err))
	default:
		s.errorDetailsResponse(w, status, exportFailedMessage, errorDetails(err))
	}
}

// writePDF sends pdf as an attachment and counts it.
func (s *Server) writePDF(w http.ResponseWriter, r *http.Request, pdf []byte) {
	// Count even when the client has already gone away.
	metrics.RecordPDF(context.WithoutCancel(r.Context()), s.metrics)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="cv.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("[server] failed to write pdf: %v", err)
	}
}

// handleExportResumePDF handles POST /api/export-pdf with a résumé body.
func (s *Server) handleExportResumePDF(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}

	data, err := s.decodeResume(w, r)
	if err != nil {
		s.writeInputError(w, err)
		return
	}

	pdf, err := s.pipeline.ExportPDF(r.Context(), data)
	if err != nil {
		log.Printf("[server] export failed (request %s): %v", middleware.GetRequestID(r.Context()), err)
		s.errorDetailsResponse(w, HTTPStatus(err), exportFailedMessage, err.Error())
		return
	}
	s.writePDF(w, r, pdf)
}

// handleExportHTMLPDF handles POST /export-pdf with {"html": "..."}.
func (s *Server) handleExportHTMLPDF(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}

	body, err := s.readBody(w, r)
	if err != nil {
		s.writeInputError(w, err)
		return
	}

	var req types.HTMLExportRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.errorDetailsResponse(w, http.StatusBadRequest, "Missing html", fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing html")
		return
	}

	pdf, err := s.pipeline.ExportHTML(r.Context(), req.HTML)
	if err != nil {
		log.Printf("[server] export failed (request %s): %v", middleware.GetRequestID(r.Context()), err)
		s.errorDetailsResponse(w, HTTPStatus(err), exportFailedMessage, err.Error())
		return
	}
	s.writePDF(w, r, pdf)
}
