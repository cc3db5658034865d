package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dmitrijs2005/contactbook/internal/dbx"
	"github.com/dmitrijs2005/contactbook/internal/server/export"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/repomanager"
)

// ExportService renders all of an owner's contacts, sorted by name.
// It never writes to the store.
type ExportService struct {
	runner      dbx.Runner
	repomanager repomanager.RepositoryManager
}

func NewExportService(r dbx.Runner, m repomanager.RepositoryManager) *ExportService {
	return &ExportService{runner: r, repomanager: m}
}

// Export returns the owner's contacts encoded as f.
func (s *ExportService) Export(ctx context.Context, ownerID string, f export.Format) ([]byte, error) {
	contacts, err := s.repomanager.Contacts(s.runner.Conn()).ListAll(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error loading contacts: %w", err)
	}

	var buf bytes.Buffer
	if err := encode(&buf, f, contacts); err != nil {
		return nil, fmt.Errorf("error encoding %s export: %w", f, err)
	}
	return buf.Bytes(), nil
}

// Spreadsheet is Export with export.FormatXLSX.
func (s *ExportService) Spreadsheet(ctx context.Context, ownerID string) ([]byte, error) {
	return s.Export(ctx, ownerID, export.FormatXLSX)
}

// CSV is Export with export.FormatCSV.
func (s *ExportService) CSV(ctx context.Context, ownerID string) ([]byte, error) {
	return s.Export(ctx, ownerID, export.FormatCSV)
}

func encode(buf *bytes.Buffer, f export.Format, contacts []*models.Contact) error {
	switch f {
	case export.FormatXLSX:
		return export.WriteXLSX(buf, contacts)
	case export.FormatCSV:
		return export.WriteCSV(buf, contacts)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}
