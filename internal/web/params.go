package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/userdesk/internal/core"
	"github.com/JonMunkholm/userdesk/internal/logging"
)

// MaxFormSize bounds form and JSON request bodies.
const MaxFormSize = 64 * 1024

var validate = validator.New(validator.WithRequiredStructEnabled())

// listQuery is the raw list view query string. Fields failing their rule
// fall back to the default.
type listQuery struct {
	Q    string
	By   string `validate:"omitempty,oneof=name email"`
	Sort string `validate:"omitempty,oneof=id name email"`
	Dir  string `validate:"omitempty,oneof=asc desc"`
	Page int    `validate:"min=0"`
	Size int    `validate:"omitempty,oneof=5 10 20"`
}

// auditQuery is the /api/audit-log query string; limit is capped at 500.
type auditQuery struct {
	Limit int `validate:"min=0,max=500"`
}

// atoiOr parses s, returning -1 for anything that is not an integer so the
// validator rejects it.
func atoiOr(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return -1
	}
	return n
}

// parseViewParams reads list view parameters from the request URL.
// Invalid values are dropped and replaced by their defaults.
func (s *Server) parseViewParams(r *http.Request) core.ViewParams {
	q := readListQuery(r.URL.Query())

	if err := validate.Struct(&q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				logging.FromContext(r.Context()).Debug("ignoring invalid list parameter",
					"field", fe.Field(), "rule", fe.Tag())
				q.reset(fe.StructField())
			}
		}
	}

	return q.viewParams(s.defaultPageSize())
}

func readListQuery(v url.Values) listQuery {
	return listQuery{
		Q:    v.Get("q"),
		By:   strings.ToLower(strings.TrimSpace(v.Get("by"))),
		Sort: strings.ToLower(strings.TrimSpace(v.Get("sort"))),
		Dir:  strings.ToLower(strings.TrimSpace(v.Get("dir"))),
		Page: atoiOr(v.Get("page")),
		Size: atoiOr(v.Get("size")),
	}
}

// reset clears a field so its default applies.
func (q *listQuery) reset(field string) {
	switch field {
	case "By":
		q.By = ""
	case "Sort":
		q.Sort = ""
	case "Dir":
		q.Dir = ""
	case "Page":
		q.Page = 0
	case "Size":
		q.Size = 0
	}
}

func (q listQuery) viewParams(defaultSize int) core.ViewParams {
	p := core.DefaultViewParams()
	p.FilterText = q.Q
	p.FilterField = core.ParseFilterField(q.By)
	p.SortField = core.ParseSortField(q.Sort)
	p.SortDirection = core.ParseSortDirection(q.Dir)
	if q.Page > 0 {
		p.Page = q.Page
	}
	p.PageSize = defaultSize
	if q.Size > 0 {
		p.PageSize = q.Size
	}
	return p
}

// parseAuditLimit reads ?limit=, defaulting to 50.
func parseAuditLimit(r *http.Request) int {
	q := auditQuery{Limit: atoiOr(r.URL.Query().Get("limit"))}
	if err := validate.Struct(&q); err != nil || q.Limit == 0 {
		return 50
	}
	return q.Limit
}

func (s *Server) defaultPageSize() int {
	if core.IsAllowedPageSize(s.cfg.List.DefaultPageSize) {
		return s.cfg.List.DefaultPageSize
	}
	return core.DefaultPageSize
}

func (s *Server) pageWindow() int {
	if s.cfg.List.PageWindow > 0 {
		return s.cfg.List.PageWindow
	}
	return core.DefaultPageWindow
}

// parseRecordID reads the {id} route parameter.
func parseRecordID(r *http.Request) (int64, error) {
	return core.ParseRecordID(chi.URLParam(r, "id"))
}

// formInput reads a record from a submitted form.
func formInput(r *http.Request) (core.RecordInput, error) {
	if err := r.ParseForm(); err != nil {
		return core.RecordInput{}, errInvalidBody
	}
	return core.RecordInput{
		Name:   r.PostForm.Get("name"),
		Email:  r.PostForm.Get("email"),
		Phone:  r.PostForm.Get("phone"),
		Status: r.PostForm.Get("status"),
		Role:   r.PostForm.Get("role"),
	}, nil
}
