package core

// ViewState holds the list parameters of one view and applies the
// navigation policy: changing the filter, the sort or the page size returns
// the view to page 1, explicit page navigation does not.
//
// The zero value is not ready for use; call NewViewState.
type ViewState struct {
	params ViewParams
}

// NewViewState returns a state holding DefaultViewParams.
func NewViewState() *ViewState {
	return &ViewState{params: DefaultViewParams()}
}

// ViewStateFrom returns a state holding p with invalid values replaced.
// Page sizes outside PageSizes fall back to DefaultPageSize.
func ViewStateFrom(p ViewParams) *ViewState {
	p = p.normalized()
	if !IsAllowedPageSize(p.PageSize) {
		p.PageSize = DefaultPageSize
	}
	return &ViewState{params: p}
}

// Params returns the current parameters.
func (s *ViewState) Params() ViewParams {
	return s.params
}

// SetFilterText replaces the filter text and resets to page 1.
func (s *ViewState) SetFilterText(text string) {
	s.params.FilterText = text
	s.params.Page = 1
}

// SetFilterField selects the filtered field and resets to page 1.
func (s *ViewState) SetFilterField(f FilterField) {
	s.params.FilterField = ParseFilterField(string(f))
	s.params.Page = 1
}

// SetSortField selects the sort field and resets to page 1.
func (s *ViewState) SetSortField(f SortField) {
	s.params.SortField = ParseSortField(string(f))
	s.params.Page = 1
}

// SetSortDirection sets the direction and resets to page 1.
func (s *ViewState) SetSortDirection(d SortDirection) {
	s.params.SortDirection = ParseSortDirection(string(d))
	s.params.Page = 1
}

// ToggleSortDirection flips the direction and resets to page 1.
func (s *ViewState) ToggleSortDirection() {
	s.SetSortDirection(s.params.SortDirection.Toggle())
}

// SetPageSize changes the page size and resets to page 1.
// Sizes outside PageSizes fall back to DefaultPageSize.
func (s *ViewState) SetPageSize(n int) {
	if !IsAllowedPageSize(n) {
		n = DefaultPageSize
	}
	s.params.PageSize = n
	s.params.Page = 1
}

// GoTo requests page n. Values below 1 become 1; the upper bound is applied
// by Process.
func (s *ViewState) GoTo(n int) {
	s.params.Page = max(n, 1)
}

// First goes to page 1.
func (s *ViewState) First() {
	s.params.Page = 1
}

// Prev goes back one page, never below 1.
func (s *ViewState) Prev() {
	s.params.Page = max(1, s.params.Page-1)
}

// Next advances one page, never beyond totalPages.
func (s *ViewState) Next(totalPages int) {
	s.params.Page = min(max(totalPages, 1), s.params.Page+1)
}

// Last goes to totalPages.
func (s *ViewState) Last(totalPages int) {
	s.params.Page = max(totalPages, 1)
}

// Apply runs Process with the current parameters.
func (s *ViewState) Apply(records []Record) PageResult {
	return Process(records, s.params)
}
