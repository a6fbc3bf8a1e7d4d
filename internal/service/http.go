package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"seomonitor-backend/internal/apperr"
	"seomonitor-backend/internal/components/serviceutil"
	"strconv"
)

type websiteRequest struct {
	WebsiteID int64 `json:"website_id"`
}

type response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Result  any    `json:"result,omitempty"`
	Report  any    `json:"report,omitempty"`
	Results any    `json:"results,omitempty"`
	Updated *int   `json:"updated,omitempty"`
	Failed  *int   `json:"failed,omitempty"`
}

// StatusOf maps an error of the pipeline to the http status it is reported with.
func StatusOf(err error) int {
	switch {
	case apperr.IsValidation(err):
		return http.StatusBadRequest
	case apperr.IsNotFound(err):
		return http.StatusNotFound
	case apperr.IsUpstream(err), apperr.IsDelivery(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusOf(err), response{Error: err.Error()})
}

// decode reads an optional json body into out.
func decode(r *http.Request, out any) error {
	err := json.NewDecoder(r.Body).Decode(out)
	if err != nil && !errors.Is(err, io.EOF) {
		return apperr.Invalid("body", err.Error())
	}
	return nil
}

// Handler serves the trigger endpoints, every request must carry accessToken as a
// bearer token unless it is empty.
func (s Service) Handler(accessToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/rankings/track", s.handleTrack)
	mux.HandleFunc("POST /v1/reports/generate", s.handleGenerate)
	mux.HandleFunc("POST /v1/reports/send", s.handleSend)
	mux.HandleFunc("GET /v1/reports/latest", s.handleLatest)
	mux.HandleFunc("POST /v1/reports/scheduled", s.handleScheduled)
	return serviceutil.VerifyAccessToken(accessToken, mux)
}

func (s Service) handleTrack(w http.ResponseWriter, r *http.Request) {
	var req TrackRequest
	err := decode(r, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.Manual {
		result, err := s.TrackOne(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, response{Success: true, Result: result})
		return
	}

	summary, err := s.TrackAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: fmt.Sprintf("updated %d of %d tracked keywords", summary.Updated, len(summary.Results)),
		Results: summary.Results,
		Updated: &summary.Updated,
		Failed:  &summary.Failed,
	})
}

func (s Service) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req websiteRequest
	err := decode(r, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	rep, err := s.GenerateReport(r.Context(), req.WebsiteID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Report: rep})
}

func (s Service) handleSend(w http.ResponseWriter, r *http.Request) {
	var req websiteRequest
	err := decode(r, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := s.SendReport(r.Context(), req.WebsiteID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: fmt.Sprintf("報告已發送至 %s", result.Recipient),
		Result:  result,
	})
}

func (s Service) handleLatest(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("website_id")
	websiteID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, apperr.Invalid("website_id", fmt.Sprintf("%q is not an id", raw)))
		return
	}
	rep, err := s.LatestReport(r.Context(), websiteID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Report: rep})
}

func (s Service) handleScheduled(w http.ResponseWriter, r *http.Request) {
	outcomes, err := s.Scheduled(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Results: outcomes})
}
