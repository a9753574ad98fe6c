package templates

import (
	"net/url"
	"strconv"

	"github.com/JonMunkholm/userdesk/internal/core"
)

// Query encodes view parameters as URL query values.
// Defaults for filter field, sort field and direction are omitted.
func Query(p core.ViewParams) url.Values {
	v := url.Values{}
	if p.FilterText != "" {
		v.Set("q", p.FilterText)
	}
	if p.FilterField != "" && p.FilterField != core.FilterName {
		v.Set("by", string(p.FilterField))
	}
	if p.SortField != "" && p.SortField != core.SortByID {
		v.Set("sort", string(p.SortField))
	}
	if p.SortDirection != "" && p.SortDirection != core.SortDesc {
		v.Set("dir", string(p.SortDirection))
	}
	if p.Page > 1 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		v.Set("size", strconv.Itoa(p.PageSize))
	}
	return v
}

// withQuery appends the encoded view parameters to path.
func withQuery(path string, p core.ViewParams) string {
	if q := Query(p).Encode(); q != "" {
		return path + "?" + q
	}
	return path
}

// ListURL is the users page showing p.
func ListURL(p core.ViewParams) string {
	return withQuery("/", p)
}

// PageURL is the users page showing page n of p.
func PageURL(p core.ViewParams, n int) string {
	s := core.ViewStateFrom(p)
	s.GoTo(n)
	return ListURL(s.Params())
}

// SortURL is the users page sorted by field. Choosing the current field
// toggles the direction; any sort change returns to page 1.
func SortURL(p core.ViewParams, field core.SortField) string {
	s := core.ViewStateFrom(p)
	if p.SortField == field {
		s.ToggleSortDirection()
	} else {
		s.SetSortField(field)
	}
	return ListURL(s.Params())
}

// CreateURL is the create form action for p.
func CreateURL(p core.ViewParams) string {
	return withQuery("/users", p)
}

// EditURL is the edit page for id, carrying p back to the list.
func EditURL(id int64, p core.ViewParams) string {
	return withQuery("/users/"+strconv.FormatInt(id, 10)+"/edit", p)
}

// UpdateURL is the update form action for id.
func UpdateURL(id int64, p core.ViewParams) string {
	return withQuery("/users/"+strconv.FormatInt(id, 10), p)
}

// DeleteURL is the delete form action for id.
func DeleteURL(id int64, p core.ViewParams) string {
	return withQuery("/users/"+strconv.FormatInt(id, 10)+"/delete", p)
}

// ExportURL is the CSV export of the filtered and sorted list.
func ExportURL(p core.ViewParams) string {
	p.Page = 0
	return withQuery("/api/users/export", p)
}
