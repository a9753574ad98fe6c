package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ExportHeaders is the header row of a CSV export.
var ExportHeaders = []string{"ID", "Name", "Email", "Phone", "Status", "Role"}

// WriteCSV writes records as CSV with a header row.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ExportHeaders); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.Name,
			r.Email,
			r.Phone,
			r.Status,
			r.Role,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", r.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
