package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/userdesk/internal/config"
	"github.com/JonMunkholm/userdesk/internal/core"
)

func testConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Driver: config.DriverMemory, Key: "test"},
		List:    config.ListConfig{DefaultPageSize: 5, PageWindow: 5},
		Rate:    config.RateLimitConfig{Enabled: false, RequestsPerMinute: 100, WriteLimit: 30},
		Security: config.SecurityConfig{
			EnableCSP: true,
		},
	}
}

func seedRecords(n int) []core.Record {
	names := []string{"Alice", "Bob", "Carol", "Dave", "Erin", "Frank", "Grace", "Heidi", "Ivan", "Judy", "Mallory", "Niaj"}
	out := make([]core.Record, n)
	for i := range n {
		name := names[i%len(names)]
		out[i] = core.Record{
			ID:    int64(i + 1),
			Name:  name,
			Email: strings.ToLower(name) + "@example.com",
		}
	}
	return out
}

type testServer struct {
	*Server
	store *core.MemoryStore
}

func newTestServer(t *testing.T, cfg *config.Config, records ...core.Record) *testServer {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	store := core.NewMemoryStore(records...)
	svc := core.NewService(t.Context(), store, core.Options{})
	s := NewServer(svc, cfg)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return &testServer{Server: s, store: store}
}

func (ts *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	ts.Router().ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	return ts.do(t, httptest.NewRequest(http.MethodGet, target, nil))
}

func (ts *testServer) postForm(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return ts.do(t, req)
}

func (ts *testServer) sendJSON(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return ts.do(t, req)
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return v
}

func assertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rr.Code, want, rr.Body.String())
	}
}

func assertContains(t *testing.T, body string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(body, want) {
			t.Errorf("body does not contain %q", want)
		}
	}
}

// =============================================================================
// Pages
// =============================================================================

func TestUsersPage_DefaultView(t *testing.T) {
	ts := newTestServer(t, nil, seedRecords(7)...)

	rr := ts.get(t, "/")
	assertStatus(t, rr, http.StatusOK)

	body := rr.Body.String()
	assertContains(t, body,
		"<!doctype html>",
		"Showing 1–5 of 7",
		`<span class="page current" aria-current="page">1</span>`,
		`aria-sort="descending"`,
		"7 total",
	)
	// Newest first: id 7 is on page 1, id 2 is not.
	if !strings.Contains(body, "<td>7</td>") {
		t.Error("expected record 7 on first page")
	}
	if strings.Contains(body, "<td>2</td>") {
		t.Error("record 2 should be on the second page")
	}
}

func TestUsersPage_PageIsClamped(t *testing.T) {
	ts := newTestServer(t, nil, seedRecords(7)...)

	rr := ts.get(t, "/?page=99")
	assertStatus(t, rr, http.StatusOK)
	assertContains(t, rr.Body.String(), "Showing 6–7 of 7")
}

func TestUsersPage_InvalidParamsFallBackToDefaults(t *testing.T) {
	ts := newTestServer(t, nil, seedRecords(12)...)

	rr := ts.get(t, "/?sort=bogus&dir=sideways&size=7&page=abc&by=phone")
	assertStatus(t, rr, http.StatusOK)
	assertContains(t, rr.Body.String(), "Showing 1–5 of 12")
}

func TestUsersPage_FilterHighlightsMatches(t *testing.T) {
	ts := newTestServer(t, nil, seedRecords(7)...)

	rr := ts.get(t, "/?q=ali&by=name")
	assertStatus(t, rr, http.StatusOK)

	body := rr.Body.String()
	assertContains(t, body, "<mark>Ali</mark>ce", "Showing 1–1 of 1")
	if strings.Contains(body, "Bob") {
		t.Error("Bob should be filtered out")
	}
}

func TestUsersPage_EmptyStates(t *testing.T) {
	tests := []struct {
		name    string
		records []core.Record
		target  string
		want    string
	}{
		{"empty collection", nil, "/", "No users yet"},
		{"no filter match", seedRecords(3), "/?q=zzz", "No users match your search"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, nil, tt.records...)
			rr := ts.get(t, tt.target)
			assertStatus(t, rr, http.StatusOK)
			assertContains(t, rr.Body.String(), tt.want, "Showing 0 of 0")
		})
	}
}

func TestUsersPage_EscapesRecordValues(t *testing.T) {
	ts := newTestServer(t, nil, core.Record{ID: 1, Name: "<script>x</script>", Email: "x@y.z"})

	body := ts.get(t, "/").Body.String()
	if strings.Contains(body, "<script>x</script>") {
		t.Error("record name rendered unescaped")
	}
	assertContains(t, body, "&lt;script&gt;x&lt;/script&gt;")
}

func TestUsersPage_HTMXGetsTableFragment(t *testing.T) {
	ts := newTestServer(t, nil, seedRecords(3)...)

	req := httptest.NewRequest(http.MethodGet, "/?sort=name&dir=asc", nil)
	req.Header.Set("HX-Request", "true")
	rr := ts.do(t, req)
	assertStatus(t, rr, http.StatusOK)

	body := rr.Body.String()
	if !strings.HasPrefix(body, `<section id="users-table"`) {
		t.Errorf("fragment should start with the table section, got %.60q", body)
	}
	if strings.Contains(body, "<!doctype html>") {
		t.Error("fragment should not include the layout")
	}
}

func TestCreateUser_RedirectsKeepingView(t *testing.T) {
	ts := newTestServer(t, nil, seedRecords(7)...)

	rr := ts.postForm(t, "/users?page=2&sort=name", url.Values{
		"name":  {"Zed Zulu"},
		"email": {"zed@example.com"},
		"role":  {"admin"},
	})
	assertStatus(t, rr, http.StatusSeeOther)

	if got, want := rr.Header().Get("Location"), "/?page=2&size=5&sort=name"; got != want {
		t.Errorf("Location = %q, want %q", got, want)
	}
	if got := ts.service.Count(); got != 8 {
		t.Errorf("Count = %d, want 8", got)
	}
	if got := ts.store.Saves(); got != 1 {
		t.Errorf("Saves = %d, want 1", got)
	}
}

func TestCreateUser_InvalidRerendersForm(t *testing.T) {
	ts := newTestServer(t, nil, seedRecords(2)...)

	rr := ts.postForm(t, "/users", url.Values{
		"name":  {"Al"},
		"email": {"not-an-email"},
		"phone": {"555 <b>"},
	})
	assertStatus(t, rr, http.StatusUnprocessableEntity)

	body := rr.Body.String()
	assertContains(t, body,
		core.MsgNameTooShort,
		core.MsgEmailInvalid,
		`value="Al"`,
		`value="not-an-email"`,
		`value="555 &lt;b&gt;"`,
		`aria-invalid="true"`,
	)
	if got := ts.service.Count(); got != 2 {
		t.Errorf("Count = %d, want 2", got)
	}
	if got := ts.store.Saves(); got != 0 {
		t.Errorf("Saves = %d, want 0", got)
	}
}

func TestEditPage(t *testing.T) {
	ts := newTestServer(t, nil, seedRecords(3)...)

	tests := []struct {
		name   string
		target string
		status int
		want   string
	}{
		{"existing", "/users/2/edit", http.StatusOK, "Edit user 2"},
		{"invalid id", "/users/abc/edit", http.StatusBadRequest, "Invalid user id"},
		{"missing", "/users/999/edit", http.StatusNotFound, "User not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.get(t, tt.target)
			assertStatus(t, rr, tt.status)
			assertContains(t, rr.Body.String(), tt.want)
		})
	}
}

func TestEditPage_PrefillsRecord(t *testing.T) {
	ts := newTestServer(t, nil, seedRecords(3)...)

	rr := ts.get(t, "/users/2/edit?page=1&q=bo")
	assertStatus(t, rr, http.StatusOK)
	assertContains(t, rr.Body.String(),
		`value="Bob"`,
		`value="bob@example.com"`,
		`action="/users/2?q=bo&amp;size=5"`,
	)
}

func TestUpdateUser(t *testing.T) {
	ts := newTestServer(t, nil, seedRecords(3)...)

	rr := ts.postForm(t, "/users/2?q=bo", url.Values{
		"name":  {"Robert"},
		"email": {"robert@example.com"},
	})
	assertStatus(t, rr, http.StatusSeeOther)

	if got, want := rr.Header().Get("Location"), "/?q=bo&size=5"; got != want {
		t.Errorf("Location = %q, want %q", got, want)
	}

	rec, err := ts.service.Get(2)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Name != "Robert" || rec.Email != "robert@example.com" {
		t.Errorf("record = %+v", rec)
	}
}

func TestUpdateUser_InvalidRerendersEdit(t *testing.T) {
	ts := newTestServer(t, nil, seedRecords(3)...)

	rr := ts.postForm(t, "/users/2", url.Values{"name": {""}, "email": {"bob@example.com"}})
	assertStatus(t, rr, http.StatusUnprocessableEntity)
	assertContains(t, rr.Body.String(), "Edit user 2", core.MsgNameRequired)

	rec, _ := ts.service.Get(2)
	if rec.Name != "Bob" {
		t.Errorf("record changed on invalid update: %+v", rec)
	}
}

func TestUpdateUser_Missing(t *testing.T) {
	ts := newTestServer(t, nil, seedRecords(1)...)

	rr := ts.postForm(t, "/users/42", url.Values{"name": {"Someone"}, "email": {"s@example.com"}})
	assertStatus(t, rr, http.StatusNotFound)
}

func TestDeleteUser(t *testing.T) {
	ts := newTestServer(t, nil, seedRecords(6)...)

	rr := ts.postForm(t, "/users/6/delete?page=2", nil)
	assertStatus(t, rr, http.StatusSeeOther)

	if got, want := rr.Header().Get("Location"), "/?page=2&size=5"; got != want {
		t.Errorf("Location = %q, want %q", got, want)
	}
	if _, err := ts.service.Get(6); err == nil {
		t.Error("record 6 still present")
	}

	// Page 2 no longer exists and is clamped to page 1.
	assertContains(t, ts.get(t, "/?page=2").Body.String(), "Showing 1–5 of 5")

	rr = ts.postForm(t, "/users/6/delete", nil)
	assertStatus(t, rr, http.StatusNotFound)
}

func TestCatchAllRedirectsToList(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.get(t, "/some/unknown/path")
	assertStatus(t, rr, http.StatusFound)
	if got := rr.Header().Get("Location"); got != "/" {
		t.Errorf("Location = %q, want /", got)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, nil, seedRecords(4)...)

	rr := ts.get(t, "/healthz")
	assertStatus(t, rr, http.StatusOK)

	body := decodeBody[map[string]any](t, rr)
	if body["status"] != "ok" {
		t.Errorf("status = %v", body["status"])
	}
	if body["records"] != float64(4) {
		t.Errorf("records = %v, want 4", body["records"])
	}
	if body["dirty"] != false {
		t.Errorf("dirty = %v, want false", body["dirty"])
	}
}

func TestSecurityHeaders(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.get(t, "/")
	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	} {
		if got := rr.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	csp := rr.Header().Get("Content-Security-Policy")
	if csp == "" {
		t.Error("missing Content-Security-Policy")
	}
	// The layout loads htmx from unpkg.
	if !strings.Contains(csp, "script-src 'self' https://unpkg.com") {
		t.Errorf("CSP %q does not allow the htmx script", csp)
	}
}

func TestStaticStylesheet(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.get(t, "/static/app.css")
	assertStatus(t, rr, http.StatusOK)
	assertContains(t, rr.Body.String(), ".pager")
}

// =============================================================================
// JSON API
// =============================================================================

func TestAPIListUsers(t *testing.T) {
	ts := newTestServer(t, nil, seedRecords(12)...)

	rr := ts.get(t, "/api/users?sort=name&dir=asc&size=10&page=2")
	assertStatus(t, rr, http.StatusOK)

	res := decodeBody[core.PageResult](t, rr)
	if res.TotalCount != 12 || res.TotalPages != 2 || res.CurrentPage != 2 {
		t.Errorf("result = total %d pages %d current %d", res.TotalCount, res.TotalPages, res.CurrentPage)
	}
	if len(res.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(res.Items))
	}
	// Sorted names: ... Judy, Mallory, Niaj; page 2 holds the last two.
	if res.Items[0].Name != "Mallory" || res.Items[1].Name != "Niaj" {
		t.Errorf("page 2 = %s, %s", res.Items[0].Name, res.Items[1].Name)
	}
}

func TestAPICreateGetUpdateDelete(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.sendJSON(t, http.MethodPost, "/api/users", `{"name":"Åsa Öberg","email":"asa@example.com","status":"active"}`)
	assertStatus(t, rr, http.StatusCreated)

	created := decodeBody[core.Record](t, rr)
	if created.ID <= 0 {
		t.Fatalf("created ID = %d", created.ID)
	}
	if got, want := rr.Header().Get("Location"), fmt.Sprintf("/api/users/%d", created.ID); got != want {
		t.Errorf("Location = %q, want %q", got, want)
	}

	rr = ts.get(t, fmt.Sprintf("/api/users/%d", created.ID))
	assertStatus(t, rr, http.StatusOK)
	if got := decodeBody[core.Record](t, rr); got != created {
		t.Errorf("get = %+v, want %+v", got, created)
	}

	rr = ts.sendJSON(t, http.MethodPut, fmt.Sprintf("/api/users/%d", created.ID), `{"name":"Åsa Berg","email":"asa@example.com"}`)
	assertStatus(t, rr, http.StatusOK)
	if got := decodeBody[core.Record](t, rr); got.Name != "Åsa Berg" || got.ID != created.ID || got.Status != "" {
		t.Errorf("updated = %+v", got)
	}

	rr = ts.do(t, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/users/%d", created.ID), nil))
	assertStatus(t, rr, http.StatusNoContent)

	rr = ts.get(t, fmt.Sprintf("/api/users/%d", created.ID))
	assertStatus(t, rr, http.StatusNotFound)
	if got := decodeBody[ErrorResponse](t, rr).Code; got != "REC001" {
		t.Errorf("code = %q, want REC001", got)
	}
}

func TestAPIErrors(t *testing.T) {
	ts := newTestServer(t, nil, seedRecords(1)...)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
		code   string
	}{
		{"validation", http.MethodPost, "/api/users", `{"name":"","email":"x"}`, http.StatusUnprocessableEntity, "VAL000"},
		{"malformed json", http.MethodPost, "/api/users", `{"name":`, http.StatusBadRequest, "REQ003"},
		{"unknown field", http.MethodPost, "/api/users", `{"nickname":"x"}`, http.StatusBadRequest, "REQ003"},
		{"invalid id", http.MethodGet, "/api/users/abc", "", http.StatusBadRequest, "REC002"},
		{"update missing", http.MethodPut, "/api/users/99", `{"name":"Someone","email":"s@example.com"}`, http.StatusNotFound, "REC001"},
		{"delete missing", http.MethodDelete, "/api/users/99", "", http.StatusNotFound, "REC001"},
		{"unknown route", http.MethodGet, "/api/nope", "", http.StatusNotFound, "REQ004"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.sendJSON(t, tt.method, tt.target, tt.body)
			assertStatus(t, rr, tt.status)
			if got := decodeBody[ErrorResponse](t, rr).Code; got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestAPIValidationFields(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.sendJSON(t, http.MethodPost, "/api/users", `{"name":"Al","email":""}`)
	assertStatus(t, rr, http.StatusUnprocessableEntity)

	resp := decodeBody[ErrorResponse](t, rr)
	if resp.Fields[core.FieldName] != core.MsgNameTooShort {
		t.Errorf("name field = %q", resp.Fields[core.FieldName])
	}
	if resp.Fields[core.FieldEmail] != core.MsgEmailRequired {
		t.Errorf("email field = %q", resp.Fields[core.FieldEmail])
	}
}

func TestAPIValidate(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name       string
		body       string
		wantValid  bool
		wantFields []string
	}{
		{"valid", `{"name":"Alice","email":"alice@example.com"}`, true, nil},
		{"both invalid", `{"name":"  ","email":"a b@c.d"}`, false, []string{core.FieldName, core.FieldEmail}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.sendJSON(t, http.MethodPost, "/api/validate", tt.body)
			assertStatus(t, rr, http.StatusOK)

			resp := decodeBody[validateResponse](t, rr)
			if resp.Valid != tt.wantValid {
				t.Errorf("valid = %v, want %v", resp.Valid, tt.wantValid)
			}
			if resp.Errors == nil {
				t.Error("errors should be an object, got null")
			}
			if len(resp.Errors) != len(tt.wantFields) {
				t.Errorf("errors = %v, want fields %v", resp.Errors, tt.wantFields)
			}
			for _, f := range tt.wantFields {
				if resp.Errors[f] == "" {
					t.Errorf("missing error for %s", f)
				}
			}
		})
	}

	if ts.service.Count() != 0 {
		t.Error("validate must not create records")
	}
}

func TestAPIExport(t *testing.T) {
	ts := newTestServer(t, nil, seedRecords(7)...)

	rr := ts.get(t, "/api/users/export?sort=name&dir=asc&q=a&page=2")
	assertStatus(t, rr, http.StatusOK)

	if got := rr.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
		t.Errorf("Content-Type = %q", got)
	}
	wantDisposition := fmt.Sprintf(`attachment; filename="users-%s.csv"`, time.Now().Format("20060102"))
	if got := rr.Header().Get("Content-Disposition"); got != wantDisposition {
		t.Errorf("Content-Disposition = %q, want %q", got, wantDisposition)
	}

	// Names containing "a": Alice, Carol, Dave, Frank, Grace; all rows, ignoring page.
	want := "ID,Name,Email,Phone,Status,Role\n" +
		"1,Alice,alice@example.com,,,\n" +
		"3,Carol,carol@example.com,,,\n" +
		"4,Dave,dave@example.com,,,\n" +
		"6,Frank,frank@example.com,,,\n" +
		"7,Grace,grace@example.com,,,\n"
	if got := rr.Body.String(); got != want {
		t.Errorf("csv =\n%s\nwant\n%s", got, want)
	}
}

func TestAPIAuditLog(t *testing.T) {
	ts := newTestServer(t, nil, seedRecords(2)...)

	req := httptest.NewRequest(http.MethodDelete, "/api/users/1", nil)
	req.Header.Set("User-Agent", "audit-test")
	assertStatus(t, ts.do(t, req), http.StatusNoContent)

	rr := ts.get(t, "/api/audit-log?limit=10")
	assertStatus(t, rr, http.StatusOK)

	resp := decodeBody[struct {
		Entries []core.AuditEntry `json:"entries"`
		Count   int               `json:"count"`
	}](t, rr)
	if resp.Count != 1 || len(resp.Entries) != 1 {
		t.Fatalf("count = %d, entries = %d", resp.Count, len(resp.Entries))
	}

	e := resp.Entries[0]
	if e.Action != core.ActionRecordDelete || e.Severity != core.SeverityHigh || e.RecordID != 1 {
		t.Errorf("entry = %+v", e)
	}
	if e.UserAgent != "audit-test" || e.IPAddress != "192.0.2.1" {
		t.Errorf("request metadata = %q / %q", e.UserAgent, e.IPAddress)
	}
	if e.Before == nil || e.Before.Name != "Alice" {
		t.Errorf("before = %+v", e.Before)
	}
}

// =============================================================================
// Auth and rate limiting
// =============================================================================

func TestAPIKeyAuth(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RequireAPIKey = true
	cfg.Security.APIKeys = []string{"k1", "k2"}
	ts := newTestServer(t, cfg, seedRecords(1)...)

	tests := []struct {
		name   string
		key    string
		status int
		code   string
	}{
		{"missing", "", http.StatusUnauthorized, "AUTH001"},
		{"wrong", "nope", http.StatusForbidden, "AUTH002"},
		{"second key", "k2", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			rr := ts.do(t, req)
			assertStatus(t, rr, tt.status)
			if tt.code == "" {
				return
			}
			if got := decodeBody[ErrorResponse](t, rr).Code; got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}

	// Pages are not behind the API key.
	assertStatus(t, ts.get(t, "/"), http.StatusOK)
}

func TestWriteRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate.Enabled = true
	cfg.Rate.WriteLimit = 2
	ts := newTestServer(t, cfg)

	body := `{"name":"Alice","email":"alice@example.com"}`
	for i := range 2 {
		rr := ts.sendJSON(t, http.MethodPost, "/api/users", body)
		if rr.Code != http.StatusCreated {
			t.Fatalf("request %d: status = %d", i, rr.Code)
		}
	}

	// Page form posts share the write budget.
	rr := ts.postForm(t, "/users", url.Values{"name": {"Alice"}, "email": {"alice@example.com"}})
	assertStatus(t, rr, http.StatusTooManyRequests)
	if got := rr.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want 60", got)
	}

	rr = ts.sendJSON(t, http.MethodPost, "/api/users", body)
	assertStatus(t, rr, http.StatusTooManyRequests)
	if got := decodeBody[ErrorResponse](t, rr).Code; got != "RATE001" {
		t.Errorf("code = %q, want RATE001", got)
	}

	// Reads are only subject to the global limit.
	assertStatus(t, ts.get(t, "/api/users"), http.StatusOK)
}

func TestRateLimit_HTMXAlert(t *testing.T) {
	cfg := testConfig()
	cfg.Rate.Enabled = true
	cfg.Rate.RequestsPerMinute = 1
	ts := newTestServer(t, cfg, seedRecords(7)...)

	assertStatus(t, ts.get(t, "/"), http.StatusOK)

	// A pager click after the budget is spent gets an alert for #alerts.
	req := httptest.NewRequest(http.MethodGet, "/?page=2", nil)
	req.Header.Set("HX-Request", "true")
	rr := ts.do(t, req)
	assertStatus(t, rr, http.StatusTooManyRequests)

	if got := rr.Header().Get("HX-Retarget"); got != "#alerts" {
		t.Errorf("HX-Retarget = %q, want #alerts", got)
	}
	if got := rr.Header().Get("HX-Reswap"); got != "innerHTML" {
		t.Errorf("HX-Reswap = %q, want innerHTML", got)
	}
	body := rr.Body.String()
	if !strings.HasPrefix(body, `<div class="alert alert-error" role="alert">`) {
		t.Errorf("body should be the alert fragment, got %.80q", body)
	}
	assertContains(t, body, "Code: RATE001")
}

func TestRateLimiter_WindowResets(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	defer rl.stop()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.allow("a") || !rl.allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.allow("a") {
		t.Error("third request in window should be rejected")
	}
	if !rl.allow("b") {
		t.Error("other clients have their own budget")
	}

	now = now.Add(time.Minute + time.Second)
	if !rl.allow("a") {
		t.Error("budget should reset after the window")
	}

	rl.stop()
	rl.stop() // idempotent
}
