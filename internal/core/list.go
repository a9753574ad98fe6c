package core

// list.go implements the list pipeline used by every record listing:
//
//	records -> filter -> stable sort -> paginate -> PageResult
//
// The stages always run in this order. Nothing here mutates the input slice
// and nothing returns an error; out-of-range values are clamped or replaced
// by defaults.

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FilterField is the single record attribute a text filter is matched against.
type FilterField string

const (
	FilterName  FilterField = "name"
	FilterEmail FilterField = "email"
)

// SortField is the attribute records are ordered by.
type SortField string

const (
	SortByID    SortField = "id"
	SortByName  SortField = "name"
	SortByEmail SortField = "email"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// DefaultPageSize is the page size used when none (or an invalid one) is given.
const DefaultPageSize = 5

// PageSizes lists the page sizes offered to users.
var PageSizes = []int{5, 10, 20}

// DefaultPageWindow is how many page buttons the pager shows.
const DefaultPageWindow = 5

// ParseFilterField returns the matching FilterField or FilterName.
func ParseFilterField(s string) FilterField {
	switch FilterField(strings.ToLower(strings.TrimSpace(s))) {
	case FilterEmail:
		return FilterEmail
	default:
		return FilterName
	}
}

// ParseSortField returns the matching SortField or SortByID.
func ParseSortField(s string) SortField {
	switch SortField(strings.ToLower(strings.TrimSpace(s))) {
	case SortByName:
		return SortByName
	case SortByEmail:
		return SortByEmail
	default:
		return SortByID
	}
}

// ParseSortDirection returns the matching SortDirection or SortDesc.
func ParseSortDirection(s string) SortDirection {
	switch SortDirection(strings.ToLower(strings.TrimSpace(s))) {
	case SortAsc:
		return SortAsc
	default:
		return SortDesc
	}
}

// Toggle returns the opposite direction.
func (d SortDirection) Toggle() SortDirection {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// IsAllowedPageSize reports whether n is one of PageSizes.
func IsAllowedPageSize(n int) bool {
	return slices.Contains(PageSizes, n)
}

// ViewParams are the transient list parameters of a view. They are never persisted.
type ViewParams struct {
	FilterText    string        `json:"filterText"`
	FilterField   FilterField   `json:"filterField"`
	SortField     SortField     `json:"sortField"`
	SortDirection SortDirection `json:"sortDirection"`
	Page          int           `json:"page"`     // 1-based
	PageSize      int           `json:"pageSize"` // > 0
}

// DefaultViewParams returns the parameters of a freshly opened list.
func DefaultViewParams() ViewParams {
	return ViewParams{
		FilterField:   FilterName,
		SortField:     SortByID,
		SortDirection: SortDesc,
		Page:          1,
		PageSize:      DefaultPageSize,
	}
}

// normalized replaces unknown enum values and non-positive numbers with defaults.
func (p ViewParams) normalized() ViewParams {
	p.FilterField = ParseFilterField(string(p.FilterField))
	p.SortField = ParseSortField(string(p.SortField))
	p.SortDirection = ParseSortDirection(string(p.SortDirection))
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// PageResult is one page of a processed record list plus pagination metadata.
type PageResult struct {
	Items          []Record   `json:"items"`
	TotalCount     int        `json:"totalCount"`  // records after filtering
	TotalPages     int        `json:"totalPages"`  // always >= 1
	CurrentPage    int        `json:"currentPage"` // requested page clamped to [1, TotalPages]
	PageSize       int        `json:"pageSize"`
	RangeStart     int        `json:"rangeStart"`
	RangeEnd       int        `json:"rangeEndExclusive"`
	CollectionSize int        `json:"collectionSize"` // records before filtering
	Params         ViewParams `json:"params"`
}

// Empty-list messages.
const (
	MsgNoRecords = "No users yet"
	MsgNoMatches = "No users match your search"
)

// EmptyMessage explains an empty page: no records at all, or none matching
// the filter. It is "" when the page has items.
func (r PageResult) EmptyMessage() string {
	switch {
	case r.CollectionSize == 0:
		return MsgNoRecords
	case r.TotalCount == 0:
		return MsgNoMatches
	default:
		return ""
	}
}

// HasPrev reports whether a previous page exists.
func (r PageResult) HasPrev() bool { return r.CurrentPage > 1 }

// HasNext reports whether a next page exists.
func (r PageResult) HasNext() bool { return r.CurrentPage < r.TotalPages }

// RangeLabel describes the visible slice, e.g. "Showing 6–10 of 12".
func (r PageResult) RangeLabel() string {
	if r.TotalCount == 0 {
		return "Showing 0 of 0"
	}
	return fmt.Sprintf("Showing %d–%d of %d", r.RangeStart+1, r.RangeEnd, r.TotalCount)
}

// Process filters, sorts and paginates records according to params.
func Process(records []Record, params ViewParams) PageResult {
	p := params.normalized()

	filtered := filterRecords(records, p.FilterText, p.FilterField)
	sortRecords(filtered, p.SortField, p.SortDirection)

	result := paginate(filtered, p.Page, p.PageSize)
	result.CollectionSize = len(records)
	result.Params = p
	result.Params.Page = result.CurrentPage
	return result
}

// SortedView returns the filtered and sorted records without pagination.
// Used for export.
func SortedView(records []Record, params ViewParams) []Record {
	p := params.normalized()
	filtered := filterRecords(records, p.FilterText, p.FilterField)
	sortRecords(filtered, p.SortField, p.SortDirection)
	return filtered
}

// filterRecords returns a new slice holding the records whose field contains text.
// The returned slice never aliases records.
func filterRecords(records []Record, text string, field FilterField) []Record {
	q := strings.ToLower(trimSpace(text))
	if q == "" {
		return slices.Clone(records)
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.fieldValue(field)), q) {
			out = append(out, r)
		}
	}
	return out
}

// sortRecords stable-sorts records in place.
func sortRecords(records []Record, field SortField, dir SortDirection) {
	sign := 1
	if dir == SortDesc {
		sign = -1
	}

	var compare func(a, b Record) int
	switch field {
	case SortByName, SortByEmail:
		// Collators keep internal buffers; one per call.
		col := collate.New(language.Und, collate.Loose)
		if field == SortByName {
			compare = func(a, b Record) int { return col.CompareString(a.Name, b.Name) }
		} else {
			compare = func(a, b Record) int { return col.CompareString(a.Email, b.Email) }
		}
	default:
		compare = func(a, b Record) int { return cmp.Compare(a.ID, b.ID) }
	}

	slices.SortStableFunc(records, func(a, b Record) int {
		return sign * compare(a, b)
	})
}

// paginate slices sorted into the requested page.
func paginate(sorted []Record, page, pageSize int) PageResult {
	total := len(sorted)

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	current := min(max(page, 1), totalPages)

	start := (current - 1) * pageSize
	end := min(start+pageSize, total)

	items := make([]Record, end-start)
	copy(items, sorted[start:end])

	return PageResult{
		Items:       items,
		TotalCount:  total,
		TotalPages:  totalPages,
		CurrentPage: current,
		PageSize:    pageSize,
		RangeStart:  start,
		RangeEnd:    end,
	}
}

// PageWindow returns up to size consecutive page numbers around current,
// shifted so the window stays inside [1, totalPages].
func PageWindow(current, totalPages, size int) []int {
	if totalPages < 1 {
		totalPages = 1
	}
	if size < 1 {
		size = DefaultPageWindow
	}

	start := max(1, current-size/2)
	end := start + size - 1
	if end > totalPages {
		end = totalPages
		start = max(1, end-size+1)
	}

	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
