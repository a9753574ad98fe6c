package core

import "testing"

func TestViewState_Defaults(t *testing.T) {
	p := NewViewState().Params()
	if p != DefaultViewParams() {
		t.Errorf("Params() = %+v, want %+v", p, DefaultViewParams())
	}
	if p.FilterField != FilterName || p.SortField != SortByID || p.SortDirection != SortDesc || p.PageSize != 5 || p.Page != 1 {
		t.Errorf("unexpected defaults %+v", p)
	}
}

func TestViewState_ParameterChangesResetPage(t *testing.T) {
	changes := map[string]func(*ViewState){
		"filter text":    func(s *ViewState) { s.SetFilterText("al") },
		"filter field":   func(s *ViewState) { s.SetFilterField(FilterEmail) },
		"sort field":     func(s *ViewState) { s.SetSortField(SortByName) },
		"sort direction": func(s *ViewState) { s.SetSortDirection(SortAsc) },
		"toggle":         func(s *ViewState) { s.ToggleSortDirection() },
		"page size":      func(s *ViewState) { s.SetPageSize(10) },
	}

	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			s := NewViewState()
			s.GoTo(4)
			change(s)
			if got := s.Params().Page; got != 1 {
				t.Errorf("Page = %d after %s, want 1", got, name)
			}
		})
	}
}

func TestViewState_Navigation(t *testing.T) {
	s := NewViewState()

	s.Prev()
	if s.Params().Page != 1 {
		t.Errorf("Prev from 1 = %d, want 1", s.Params().Page)
	}

	s.Next(3)
	s.Next(3)
	s.Next(3)
	if s.Params().Page != 3 {
		t.Errorf("Next past end = %d, want 3", s.Params().Page)
	}

	s.Prev()
	if s.Params().Page != 2 {
		t.Errorf("Prev = %d, want 2", s.Params().Page)
	}

	s.Last(7)
	if s.Params().Page != 7 {
		t.Errorf("Last = %d, want 7", s.Params().Page)
	}

	s.First()
	if s.Params().Page != 1 {
		t.Errorf("First = %d, want 1", s.Params().Page)
	}

	s.GoTo(-3)
	if s.Params().Page != 1 {
		t.Errorf("GoTo(-3) = %d, want 1", s.Params().Page)
	}

	s.Last(0)
	if s.Params().Page != 1 {
		t.Errorf("Last(0) = %d, want 1", s.Params().Page)
	}
}

func TestViewState_NavigationKeepsOtherParams(t *testing.T) {
	s := NewViewState()
	s.SetFilterText("bo")
	s.SetSortField(SortByEmail)
	s.GoTo(2)

	p := s.Params()
	if p.FilterText != "bo" || p.SortField != SortByEmail || p.Page != 2 {
		t.Errorf("Params() = %+v", p)
	}
}

func TestViewState_PageSizeRestricted(t *testing.T) {
	s := NewViewState()
	s.SetPageSize(20)
	if s.Params().PageSize != 20 {
		t.Errorf("PageSize = %d, want 20", s.Params().PageSize)
	}
	s.SetPageSize(7)
	if s.Params().PageSize != DefaultPageSize {
		t.Errorf("PageSize = %d, want default", s.Params().PageSize)
	}

	from := ViewStateFrom(ViewParams{PageSize: 13, Page: 2, SortField: "bogus"})
	if from.Params().PageSize != DefaultPageSize || from.Params().SortField != SortByID || from.Params().Page != 2 {
		t.Errorf("ViewStateFrom = %+v", from.Params())
	}
}

func TestViewState_Apply(t *testing.T) {
	s := NewViewState()
	s.SetPageSize(5)
	s.GoTo(99)

	got := s.Apply(makeRecords(12))
	if got.CurrentPage != 3 {
		t.Errorf("CurrentPage = %d, want 3", got.CurrentPage)
	}
}
