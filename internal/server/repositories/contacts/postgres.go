// Package contacts provides the PostgreSQL-backed contact repository.
package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/dbx"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/google/uuid"
)

const contactColumns = `id, user_id, name, email, phone, address, category, is_favorite, notes, last_contacted`

// sortColumns maps API sort fields to columns. Only these names ever reach
// an ORDER BY clause.
var sortColumns = map[string]string{
	models.SortByName:          "name",
	models.SortByEmail:         "email",
	models.SortByPhone:         "phone",
	models.SortByCategory:      "category",
	models.SortByIsFavorite:    "is_favorite",
	models.SortByLastContacted: "last_contacted",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO contacts (` + contactColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 `

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.Name, c.Email, c.Phone, c.Address, string(c.Category), c.IsFavorite, c.Notes, c.LastContacted)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// ownerFilter builds the WHERE clause shared by List and Count. The search
// term matches name, email or phone case-insensitively as a literal substring.
func ownerFilter(ownerID, search string) (string, []any) {
	where := `user_id = $1`
	args := []any{ownerID}
	if search != "" {
		args = append(args, "%"+likeEscaper.Replace(search)+"%")
		where += ` AND (name ILIKE $2 OR email ILIKE $2 OR phone ILIKE $2)`
	}
	return where, args
}

// orderBy returns the ORDER BY clause for q. The id tiebreaker follows the
// same direction so descending is the exact reverse of ascending.
func orderBy(q models.ListQuery) string {
	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = sortColumns[models.SortByName]
	}
	dir := "ASC"
	if q.SortOrder == models.SortDesc {
		dir = "DESC"
	}
	return fmt.Sprintf(`ORDER BY %s %s, id %s`, col, dir, dir)
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string, q models.ListQuery) ([]*models.Contact, error) {
	where, args := ownerFilter(ownerID, q.Search)
	n := len(args)
	args = append(args, q.Limit, q.Offset())

	query := fmt.Sprintf(`SELECT %s FROM contacts WHERE %s %s LIMIT $%d OFFSET $%d`,
		contactColumns, where, orderBy(q), n+1, n+2)

	return r.query(ctx, query, args...)
}

func (r *PostgresRepository) Count(ctx context.Context, ownerID string, search string) (int, error) {
	where, args := ownerFilter(ownerID, search)

	var total int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM contacts WHERE `+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return total, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context, ownerID string) ([]*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1 ORDER BY name ASC, id ASC`
	return r.query(ctx, query, ownerID)
}

// Update applies the non-nil fields of patch in a single statement guarded
// by both id and owner.
func (r *PostgresRepository) Update(ctx context.Context, id string, ownerID string, p models.ContactPatch) (*models.Contact, error) {
	query :=
		`UPDATE contacts SET
			name = COALESCE($3, name),
			email = COALESCE($4, email),
			phone = COALESCE($5, phone),
			address = COALESCE($6, address),
			category = COALESCE($7, category),
			is_favorite = COALESCE($8, is_favorite),
			notes = COALESCE($9, notes),
			last_contacted = COALESCE($10, last_contacted)
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + contactColumns

	var category *string
	if p.Category != nil {
		s := string(*p.Category)
		category = &s
	}

	row := r.db.QueryRowContext(ctx, query, id, ownerID,
		p.Name, p.Email, p.Phone, p.Address, category, p.IsFavorite, p.Notes, p.LastContacted)

	c, err := scanContact(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string, ownerID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*models.Contact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select contacts: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContact(s scanner) (*models.Contact, error) {
	var c models.Contact
	var category string
	if err := s.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Address,
		&category, &c.IsFavorite, &c.Notes, &c.LastContacted); err != nil {
		return nil, err
	}
	c.Category = models.Category(category)
	return &c, nil
}
