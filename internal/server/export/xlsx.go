package export

import (
	"fmt"
	"io"

	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/xuri/excelize/v2"
)

// SheetName is the only sheet in an exported workbook.
const SheetName = "Contacts"

// WriteXLSX writes a workbook with a single sheet: the header row followed
// by one row per contact.
func WriteXLSX(w io.Writer, contacts []*models.Contact) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := setRow(f, 1, Header); err != nil {
		return err
	}
	for i, c := range contacts {
		if err := setRow(f, i+2, Row(c)); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
