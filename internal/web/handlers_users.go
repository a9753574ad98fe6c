package web

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/userdesk/internal/core"
	"github.com/JonMunkholm/userdesk/internal/logging"
	"github.com/JonMunkholm/userdesk/internal/web/templates"
)

// handleUsersPage renders the list view. HTMX requests get the table only.
func (s *Server) handleUsersPage(w http.ResponseWriter, r *http.Request) {
	params := s.parseViewParams(r)
	s.renderUsers(w, r, http.StatusOK, params, templates.FormState{}, nil)
}

// handleCreateUser adds a record from the create form.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxFormSize)
	params := s.parseViewParams(r)

	in, err := formInput(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	rec, err := s.service.Create(ctx, in)

	var verrs core.ValidationErrors
	if errors.As(err, &verrs) {
		s.renderUsers(w, r, http.StatusUnprocessableEntity, params, templates.FormState{Input: in, Errors: verrs}, nil)
		return
	}
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	logging.WithFields(ctx, "record_id", rec.ID).Info("user created")
	http.Redirect(w, r, templates.ListURL(params), http.StatusSeeOther)
}

// handleEditPage renders the edit form for one record.
func (s *Server) handleEditPage(w http.ResponseWriter, r *http.Request) {
	params := s.parseViewParams(r)

	rec, ok := s.lookupForPage(w, r, params)
	if !ok {
		return
	}

	s.renderEdit(w, r, http.StatusOK, templates.EditPageParams{
		Record: rec,
		Form:   templates.FormState{Input: rec.Input()},
		Params: params,
	})
}

// handleUpdateUser saves the edit form.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxFormSize)
	params := s.parseViewParams(r)

	rec, ok := s.lookupForPage(w, r, params)
	if !ok {
		return
	}

	in, err := formInput(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	_, err = s.service.Update(ctx, rec.ID, in)

	var verrs core.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		s.renderEdit(w, r, http.StatusUnprocessableEntity, templates.EditPageParams{
			Record: rec,
			Form:   templates.FormState{Input: in, Errors: verrs},
			Params: params,
		})
		return
	case errors.Is(err, core.ErrRecordNotFound):
		s.renderMessage(w, r, http.StatusNotFound, err, params)
		return
	case err != nil:
		respondError(w, r, err, statusFor(err))
		return
	}

	logging.WithFields(ctx, "record_id", rec.ID).Info("user updated")
	http.Redirect(w, r, templates.ListURL(params), http.StatusSeeOther)
}

// handleDeleteUser removes a record and returns to the same list view.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	params := s.parseViewParams(r)

	id, err := parseRecordID(r)
	if err != nil {
		s.renderMessage(w, r, http.StatusBadRequest, err, params)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	if _, err := s.service.Delete(ctx, id); err != nil {
		if errors.Is(err, core.ErrRecordNotFound) {
			s.renderMessage(w, r, http.StatusNotFound, err, params)
			return
		}
		respondError(w, r, err, statusFor(err))
		return
	}

	logging.WithFields(ctx, "record_id", id).Info("user deleted")
	http.Redirect(w, r, templates.ListURL(params), http.StatusSeeOther)
}

// lookupForPage resolves {id} or renders the invalid / not found page.
func (s *Server) lookupForPage(w http.ResponseWriter, r *http.Request, params core.ViewParams) (core.Record, bool) {
	id, err := parseRecordID(r)
	if err != nil {
		s.renderMessage(w, r, http.StatusBadRequest, err, params)
		return core.Record{}, false
	}

	rec, err := s.service.Get(id)
	if err != nil {
		s.renderMessage(w, r, http.StatusNotFound, err, params)
		return core.Record{}, false
	}
	return rec, true
}

// renderUsers processes the list and renders the page or its table fragment.
func (s *Server) renderUsers(w http.ResponseWriter, r *http.Request, status int, params core.ViewParams, form templates.FormState, alert *core.UserMessage) {
	res := s.service.List(params)
	page := templates.UsersPageParams{
		Result:    res,
		Window:    core.PageWindow(res.CurrentPage, res.TotalPages, s.pageWindow()),
		PageSizes: core.PageSizes,
		Form:      form,
		Alert:     alert,
	}

	if s.service.Dirty() && alert == nil {
		msg := core.MapError(core.ErrStorageUnavailable)
		page.Alert = &msg
	}

	if isHTMX(r) && status == http.StatusOK {
		render(w, r, status, templates.UsersTable(page))
		return
	}
	render(w, r, status, templates.UsersPage(page))
}

func (s *Server) renderEdit(w http.ResponseWriter, r *http.Request, status int, p templates.EditPageParams) {
	render(w, r, status, templates.EditPage(p))
}

// renderMessage shows the invalid-id or not-found page.
func (s *Server) renderMessage(w http.ResponseWriter, r *http.Request, status int, err error, params core.ViewParams) {
	msg := core.MapError(err)
	logging.FromContext(r.Context()).Warn("record unavailable",
		"path", r.URL.Path, "status", status, "error", err.Error(), "code", msg.Code)
	render(w, r, status, templates.MessagePage(msg.Message, msg.Action, msg.Code, templates.ListURL(params)))
}

// render writes an HTML component with status.
func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "error", err)
	}
}
