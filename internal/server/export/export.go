// Package export renders a user's contacts as CSV or as an XLSX workbook.
// Both formats share the column order in Header.
package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

// Format is an export file type.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Header is the first row of every export.
var Header = []string{"name", "email", "phone", "address", "category", "isFavorite", "notes", "lastContacted"}

// Filename builds contacts_<userID>_<unix millis>.<ext>.
func Filename(userID string, f Format, now time.Time) string {
	return fmt.Sprintf("contacts_%s_%d.%s", userID, now.UnixMilli(), f)
}

// Row renders c in Header order. Times are RFC 3339 in UTC; a zero time is
// left empty.
func Row(c *models.Contact) []string {
	last := ""
	if !c.LastContacted.IsZero() {
		last = c.LastContacted.UTC().Format(time.RFC3339)
	}
	return []string{
		c.Name,
		c.Email,
		c.Phone,
		c.Address,
		string(c.Category),
		strconv.FormatBool(c.IsFavorite),
		c.Notes,
		last,
	}
}
