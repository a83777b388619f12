package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"impractical.co/folio/internal/site"
	"impractical.co/folio/internal/status"
)

// handleDocPage serves one pre-converted documentation page.
func (s *Server) handleDocPage(page site.DocPage) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rendered, err := s.docs.RenderPage(r.Context(), page)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "error rendering page", "slug", page.Slug, "error", err)
			s.serveError(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write(rendered); err != nil {
			s.logger.ErrorContext(r.Context(), "error writing page", "slug", page.Slug, "error", err)
		}
	})
}

// handleStatusPage queries the latest run per jurisdiction and renders
// the status page from them.
func (s *Server) handleStatusPage() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		runs, err := s.runs.LatestRuns(r.Context())
		if err != nil {
			s.logger.ErrorContext(r.Context(), "error loading latest runs", "error", err)
			s.serveError(w, r)
			return
		}
		rendered, err := s.docs.RenderPage(r.Context(), site.NewStatusPage(s.docs, runs))
		if err != nil {
			s.logger.ErrorContext(r.Context(), "error rendering status page", "error", err)
			s.serveError(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write(rendered); err != nil {
			s.logger.ErrorContext(r.Context(), "error writing status page", "error", err)
		}
	})
}

// serveError responds with the error page under a 500. Responses are
// rendered before any status is committed, so a failed render never
// goes out under the implicit 200.
func (s *Server) serveError(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	s.docs.WritePage(r.Context(), w, site.ErrorPage{})
}

// runReport is the payload scrapers POST after a run.
type runReport struct {
	Jurisdiction string    `json:"jurisdiction"`
	Outcome      string    `json:"outcome"`
	Detail       string    `json:"detail"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}

// handleReportRun records a scraper run reported over the API.
func (s *Server) handleReportRun() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var report runReport
		if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		run := status.Run{
			Jurisdiction: report.Jurisdiction,
			Outcome:      status.Outcome(report.Outcome),
			Detail:       report.Detail,
			StartedAt:    report.StartedAt,
			FinishedAt:   report.FinishedAt,
		}
		if err := s.runs.RecordRun(r.Context(), &run); err != nil {
			if errors.Is(err, status.ErrNoJurisdiction) || errors.Is(err, status.ErrInvalidOutcome) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			s.logger.ErrorContext(r.Context(), "error recording run", "error", err)
			http.Error(w, "error recording run", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(map[string]string{"id": run.ID.String()}); err != nil {
			s.logger.ErrorContext(r.Context(), "error writing run response", "error", err)
		}
	})
}
