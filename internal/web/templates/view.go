// Package templates holds the HTML components of the user screen.
//
// Components are written in .templ files; run `templ generate` from the
// repository root after editing them and commit the generated *_templ.go files.
package templates

import (
	"strconv"

	"github.com/JonMunkholm/userdesk/internal/core"
)

// Empty-state messages shown in place of table rows.
const (
	EmptyCollection = core.MsgNoRecords
	EmptyFilter     = core.MsgNoMatches
)

// FormState is the content of a record form plus its field messages.
type FormState struct {
	Input  core.RecordInput
	Errors core.ValidationErrors
}

// UsersPageParams is everything the users page renders.
type UsersPageParams struct {
	Result    core.PageResult
	Window    []int // page numbers shown in the pager
	PageSizes []int
	Form      FormState
	Alert     *core.UserMessage
}

// EditPageParams is the edit view of one record.
type EditPageParams struct {
	Record core.Record
	Form   FormState
	Params core.ViewParams // list view to return to
	Alert  *core.UserMessage
}

// htmxConfig lets error responses swap in; the server retargets them to
// the #alerts region.
const htmxConfig = `{"responseHandling":[{"code":"204","swap":false},{"code":"[23]..","swap":true},{"code":"[45]..","swap":true,"error":true}]}`

// option is one <option> of a select box.
type option struct {
	Value string
	Label string
}

var (
	filterFieldOptions = []option{
		{string(core.FilterName), "Name"},
		{string(core.FilterEmail), "Email"},
	}
	sortFieldOptions = []option{
		{string(core.SortByID), "ID"},
		{string(core.SortByName), "Name"},
		{string(core.SortByEmail), "Email"},
	}
	sortDirectionOptions = []option{
		{string(core.SortDesc), "Descending"},
		{string(core.SortAsc), "Ascending"},
	}
)

func pageSizeOptions(sizes []int) []option {
	opts := make([]option, len(sizes))
	for i, n := range sizes {
		opts[i] = option{strconv.Itoa(n), strconv.Itoa(n) + " per page"}
	}
	return opts
}

func ariaSort(dir core.SortDirection) string {
	if dir == core.SortAsc {
		return "ascending"
	}
	return "descending"
}

func sortArrow(dir core.SortDirection) string {
	if dir == core.SortAsc {
		return "▲"
	}
	return "▼"
}

func editTitle(id int64) string {
	return "Edit user " + strconv.FormatInt(id, 10)
}
