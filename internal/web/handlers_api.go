package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/JonMunkholm/userdesk/internal/core"
	"github.com/JonMunkholm/userdesk/internal/logging"
)

// recordRequest is the JSON body for create and update.
type recordRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
	Role   string `json:"role"`
}

func (req recordRequest) input() core.RecordInput {
	return core.RecordInput{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Status: req.Status,
		Role:   req.Role,
	}
}

// validateResponse is returned by POST /api/validate.
type validateResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// decodeRecord reads a recordRequest from a size-limited JSON body.
func decodeRecord(w http.ResponseWriter, r *http.Request) (core.RecordInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxFormSize)

	var req recordRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return core.RecordInput{}, fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return req.input(), nil
}

// handleAPIListUsers returns one processed page as JSON.
func (s *Server) handleAPIListUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.List(s.parseViewParams(r)))
}

// handleExportUsers streams every filtered and sorted record as CSV.
func (s *Server) handleExportUsers(w http.ResponseWriter, r *http.Request) {
	params := s.parseViewParams(r)
	filename := fmt.Sprintf("users-%s.csv", time.Now().Format("20060102"))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := s.service.ExportCSV(w, params); err != nil {
		// Headers are sent; the client gets a truncated file.
		logging.FromContext(r.Context()).Error("export failed", "error", err)
	}
}

func (s *Server) handleAPIGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseRecordID(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	rec, err := s.service.Get(id)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleAPICreateUser(w http.ResponseWriter, r *http.Request) {
	in, err := decodeRecord(w, r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	rec, err := s.service.Create(WithRequestMetadata(r.Context(), r), in)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/users/%d", rec.ID))
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleAPIUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseRecordID(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	in, err := decodeRecord(w, r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	rec, err := s.service.Update(WithRequestMetadata(r.Context(), r), id, in)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleAPIDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseRecordID(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	if _, err := s.service.Delete(WithRequestMetadata(r.Context(), r), id); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAPIValidate checks a record without saving it.
func (s *Server) handleAPIValidate(w http.ResponseWriter, r *http.Request) {
	in, err := decodeRecord(w, r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	verrs := s.service.Validate(in)
	resp := validateResponse{Valid: verrs.Valid(), Errors: map[string]string{}}
	for field, msg := range verrs {
		resp.Errors[field] = msg
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAPIAuditLog returns the most recent audit entries, newest first.
func (s *Server) handleAPIAuditLog(w http.ResponseWriter, r *http.Request) {
	entries := s.service.AuditLog(parseAuditLimit(r))
	if entries == nil {
		entries = []core.AuditEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}
