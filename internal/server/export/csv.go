package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

// WriteCSV writes the header and one RFC 4180 record per contact.
func WriteCSV(w io.Writer, contacts []*models.Contact) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range contacts {
		if err := cw.Write(Row(c)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
