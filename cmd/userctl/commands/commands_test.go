package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/userdesk/internal/core"
)

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes userctl against a file store in dir.
func run(t *testing.T, dir string, args ...string) result {
	t.Helper()

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var out, errOut bytes.Buffer
	root := NewRootCommand(&out, &errOut)
	root.SetArgs(append([]string{"--env-file", "", "--driver", "file", "--dir", dir, "--log-level", "error"}, args...))
	err := root.Execute()
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	res := run(t, dir, args...)
	if res.err != nil {
		t.Fatalf("userctl %v: %v\nstderr: %s", args, res.err, res.stderr)
	}
	return res.stdout
}

func addUser(t *testing.T, dir, name, email string) int64 {
	t.Helper()
	out := mustRun(t, dir, "add", "--name", name, "--email", email)
	var id int64
	if _, err := fmt.Sscanf(out, "added user %d", &id); err != nil {
		t.Fatalf("parse %q: %v", out, err)
	}
	return id
}

func listJSON(t *testing.T, dir string, args ...string) core.PageResult {
	t.Helper()
	out := mustRun(t, dir, append([]string{"list", "--json"}, args...)...)
	var res core.PageResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode list output: %v", err)
	}
	return res
}

func TestList_Empty(t *testing.T) {
	dir := t.TempDir()
	if got := mustRun(t, dir, "list"); got != core.MsgNoRecords+"\n" {
		t.Errorf("list = %q, want %q", got, core.MsgNoRecords)
	}
}

func TestAddAndList(t *testing.T) {
	dir := t.TempDir()
	addUser(t, dir, "Ada Lovelace", "ada@example.com")
	addUser(t, dir, "Grace Hopper", "grace@example.com")

	out := mustRun(t, dir, "list", "--sort", "name", "--dir", "asc")
	for _, want := range []string{"ID", "NAME", "Ada Lovelace", "grace@example.com", "Showing 1–2 of 2 (page 1 of 1)"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Ada") > strings.Index(out, "Grace") {
		t.Error("expected Ada before Grace when sorted by name ascending")
	}

	if got := mustRun(t, dir, "list", "-q", "nobody"); got != core.MsgNoMatches+"\n" {
		t.Errorf("filtered list = %q", got)
	}

	// The collection is persisted in the file store.
	if _, err := os.Stat(filepath.Join(dir, "tsx-crud-users.json")); err != nil {
		t.Errorf("store file: %v", err)
	}
}

func TestAdd_Invalid(t *testing.T) {
	dir := t.TempDir()

	res := run(t, dir, "add", "--name", "Al", "--email", "nope")
	if !errors.Is(res.err, core.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", res.err)
	}
	for _, want := range []string{"name: " + core.MsgNameTooShort, "email: " + core.MsgEmailInvalid} {
		if !strings.Contains(res.stderr, want) {
			t.Errorf("stderr missing %q: %s", want, res.stderr)
		}
	}
	if got := listJSON(t, dir).CollectionSize; got != 0 {
		t.Errorf("CollectionSize = %d, want 0", got)
	}
}

func TestUpdate_KeepsUnsetFields(t *testing.T) {
	dir := t.TempDir()
	id := addUser(t, dir, "Ada Lovelace", "ada@example.com")

	mustRun(t, dir, "update", fmt.Sprint(id), "--role", "admin")

	res := listJSON(t, dir)
	if len(res.Items) != 1 {
		t.Fatalf("items = %d", len(res.Items))
	}
	got := res.Items[0]
	if got.ID != id || got.Name != "Ada Lovelace" || got.Email != "ada@example.com" || got.Role != "admin" {
		t.Errorf("record = %+v", got)
	}

	if res := run(t, dir, "update", fmt.Sprint(id), "--email", ""); !errors.Is(res.err, core.ErrValidation) {
		t.Errorf("clearing email: err = %v, want ErrValidation", res.err)
	}
}

func TestUpdateDelete_Errors(t *testing.T) {
	dir := t.TempDir()

	if res := run(t, dir, "update", "abc", "--name", "Nobody"); !errors.Is(res.err, core.ErrInvalidRecordID) {
		t.Errorf("update abc: err = %v", res.err)
	}
	if res := run(t, dir, "update", "42", "--name", "Nobody"); !errors.Is(res.err, core.ErrRecordNotFound) {
		t.Errorf("update 42: err = %v", res.err)
	}
	if res := run(t, dir, "delete", "42"); !errors.Is(res.err, core.ErrRecordNotFound) {
		t.Errorf("delete 42: err = %v", res.err)
	}
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	id := addUser(t, dir, "Ada Lovelace", "ada@example.com")

	if got, want := mustRun(t, dir, "delete", fmt.Sprint(id)), fmt.Sprintf("deleted user %d\n", id); got != want {
		t.Errorf("delete = %q, want %q", got, want)
	}
	if got := listJSON(t, dir).CollectionSize; got != 0 {
		t.Errorf("CollectionSize = %d, want 0", got)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	if got := mustRun(t, dir, "validate", "--name", "Ada", "--email", "ada@example.com"); got != "valid\n" {
		t.Errorf("validate = %q", got)
	}

	res := run(t, dir, "validate", "--name", " ", "--email", "ada@example.com")
	if !errors.Is(res.err, core.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", res.err)
	}
	if !strings.Contains(res.stderr, "name: "+core.MsgNameRequired) {
		t.Errorf("stderr = %q", res.stderr)
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	addUser(t, dir, "Bob Builder", "bob@example.com")
	addUser(t, dir, "Alice Adams", "alice@example.com")

	out := filepath.Join(t.TempDir(), "users.csv")
	mustRun(t, dir, "export", "--sort", "name", "--dir", "asc", "-o", out)

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3:\n%s", len(lines), data)
	}
	if lines[0] != "ID,Name,Email,Phone,Status,Role" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "Alice Adams") || !strings.Contains(lines[2], "Bob Builder") {
		t.Errorf("rows out of order:\n%s", data)
	}
}

func TestMigrate_RequiresPostgres(t *testing.T) {
	res := run(t, t.TempDir(), "migrate", "up")
	if !errors.Is(res.err, errNotPostgres) {
		t.Errorf("err = %v, want errNotPostgres", res.err)
	}
}

func TestPrintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil",
			err:  nil,
			want: "",
		},
		{
			name: "known error shows code",
			err:  fmt.Errorf("delete 42: %w", core.ErrRecordNotFound),
			want: "Error: User not found (Code: REC001). The user may have been deleted. Go back to the list\n",
		},
		{
			name: "unknown error printed as is",
			err:  errors.New(`unknown command "frobnicate" for "userctl"`),
			want: "Error: unknown command \"frobnicate\" for \"userctl\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			PrintError(&buf, tt.err)
			if got := buf.String(); got != tt.want {
				t.Errorf("PrintError() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintError_CommandFailure(t *testing.T) {
	dir := t.TempDir()

	res := run(t, dir, "update", "abc", "--name", "Nobody")
	var buf bytes.Buffer
	PrintError(&buf, res.err)
	if !strings.Contains(buf.String(), "(Code: REC002)") {
		t.Errorf("PrintError() = %q, want REC002 code", buf.String())
	}
}
