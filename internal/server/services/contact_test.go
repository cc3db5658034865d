package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/dbx"
	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createN(t *testing.T, s *ContactService, owner string, n int) []*models.Contact {
	t.Helper()
	out := make([]*models.Contact, 0, n)
	for i := 0; i < n; i++ {
		c, err := s.Create(context.Background(), owner, ContactInput{
			Name:  fmt.Sprintf("Contact %02d", i),
			Email: fmt.Sprintf("c%02d@example.com", i),
			Phone: fmt.Sprintf("555-%04d", i),
		})
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

func TestContactCreate_Defaults(t *testing.T) {
	f := newFixture(t)
	before := time.Now().UTC().Add(-time.Second)

	c, err := f.contacts.Create(context.Background(), "u1", ContactInput{Name: " Bob ", Email: "b@x.com", Phone: "123"})
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "u1", c.UserID)
	assert.Equal(t, "Bob", c.Name)
	assert.Equal(t, models.CategoryOther, c.Category)
	assert.False(t, c.IsFavorite)
	assert.True(t, c.LastContacted.After(before))
}

func TestContactCreate_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, in := range []ContactInput{
		{Email: "b@x.com", Phone: "123"},
		{Name: "Bob", Phone: "123"},
		{Name: "Bob", Email: "b@x.com", Phone: "   "},
		{Name: "Bob", Email: "b@x.com", Phone: "123", Category: "Enemy"},
	} {
		_, err := f.contacts.Create(ctx, "u1", in)
		assert.ErrorIs(t, err, common.ErrorValidation, "%+v", in)
	}
}

func TestContactCreate_KeepsGivenLastContacted(t *testing.T) {
	f := newFixture(t)
	when := time.Date(2023, 6, 1, 12, 0, 0, 0, time.FixedZone("X", 7200))

	c, err := f.contacts.Create(context.Background(), "u1", ContactInput{
		Name: "Bob", Email: "b@x.com", Phone: "123", Category: "Work", IsFavorite: true, LastContacted: &when,
	})
	require.NoError(t, err)
	assert.True(t, when.Equal(c.LastContacted))
	assert.Equal(t, time.UTC, c.LastContacted.Location())
	assert.Equal(t, models.CategoryWork, c.Category)
	assert.True(t, c.IsFavorite)
}

func TestContacts_OwnershipIsOpaque(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mine := createN(t, f.contacts, "owner-a", 3)

	page, err := f.contacts.List(ctx, "owner-b", models.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Total)

	name := "Hijacked"
	for _, c := range mine {
		_, err := f.contacts.Update(ctx, c.ID, "owner-b", models.ContactPatch{Name: &name})
		assert.ErrorIs(t, err, common.ErrorNotFound)
		assert.ErrorIs(t, f.contacts.Delete(ctx, c.ID, "owner-b"), common.ErrorNotFound)
	}

	page, err = f.contacts.List(ctx, "owner-a", models.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	for _, c := range page.Items {
		assert.NotEqual(t, "Hijacked", c.Name)
	}
}

func TestContacts_MalformedIDIsNotFound(t *testing.T) {
	f := newFixture(t)
	name := "x"
	_, err := f.contacts.Update(context.Background(), "not-a-uuid", "u1", models.ContactPatch{Name: &name})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, f.contacts.Delete(context.Background(), "not-a-uuid", "u1"), common.ErrorNotFound)
}

func TestContactList_Pagination(t *testing.T) {
	f := newFixture(t)
	createN(t, f.contacts, "u1", 25)

	want := []int{10, 10, 5, 0}
	for i, n := range want {
		page, err := f.contacts.List(context.Background(), "u1", models.ListQuery{Page: i + 1, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, page.Items, n, "page %d", i+1)
		assert.Equal(t, 25, page.Total, "page %d", i+1)
		assert.Equal(t, i+1, page.Page)
		assert.Equal(t, 10, page.Limit)
	}
}

func TestContactList_HugePageIsEmpty(t *testing.T) {
	f := newFixture(t)
	createN(t, f.contacts, "u1", 3)

	page, err := f.contacts.List(context.Background(), "u1", models.ListQuery{Page: math.MaxInt, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, math.MaxInt, page.Page)
}

func TestContactList_Search(t *testing.T) {
	f := newFixture(t)
	all := createN(t, f.contacts, "u1", 12)

	page, err := f.contacts.List(context.Background(), "u1", models.ListQuery{Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, len(all), page.Total)

	page, err = f.contacts.List(context.Background(), "u1", models.ListQuery{Search: "C07@EXAMPLE"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, all[7].ID, page.Items[0].ID)
	assert.Equal(t, 1, page.Total)
}

func TestContactList_SortReverses(t *testing.T) {
	f := newFixture(t)
	createN(t, f.contacts, "u1", 7)

	asc, err := f.contacts.List(context.Background(), "u1", models.ListQuery{SortBy: "name", SortOrder: "asc"})
	require.NoError(t, err)
	desc, err := f.contacts.List(context.Background(), "u1", models.ListQuery{SortBy: "name", SortOrder: "desc"})
	require.NoError(t, err)

	rev := slices.Clone(desc.Items)
	slices.Reverse(rev)
	assert.Equal(t, asc.Items, rev)
}

func TestContactUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := createN(t, f.contacts, "u1", 1)[0]

	fav := true
	work := models.CategoryWork
	email := " new@x.com "
	got, err := f.contacts.Update(ctx, c.ID, "u1", models.ContactPatch{IsFavorite: &fav, Category: &work, Email: &email})
	require.NoError(t, err)
	assert.True(t, got.IsFavorite)
	assert.Equal(t, models.CategoryWork, got.Category)
	assert.Equal(t, "new@x.com", got.Email)
	assert.Equal(t, c.Name, got.Name)
	assert.Equal(t, "u1", got.UserID)

	empty := "  "
	_, err = f.contacts.Update(ctx, c.ID, "u1", models.ContactPatch{Name: &empty})
	assert.ErrorIs(t, err, common.ErrorValidation)

	bad := models.Category("Enemy")
	_, err = f.contacts.Update(ctx, c.ID, "u1", models.ContactPatch{Category: &bad})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestContactUpdate_ReportsFirstClearedField(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := createN(t, f.contacts, "u1", 1)[0]

	for i := 0; i < 20; i++ {
		name, email, phone := " ", "", ""
		_, err := f.contacts.Update(ctx, c.ID, "u1", models.ContactPatch{Name: &name, Email: &email, Phone: &phone})
		require.ErrorIs(t, err, common.ErrorValidation)
		assert.Contains(t, err.Error(), "name cannot be empty")
	}

	email, phone := "", ""
	_, err := f.contacts.Update(ctx, c.ID, "u1", models.ContactPatch{Email: &email, Phone: &phone})
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Contains(t, err.Error(), "email cannot be empty")
}

func TestContactDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := createN(t, f.contacts, "u1", 1)[0]

	require.NoError(t, f.contacts.Delete(ctx, c.ID, "u1"))
	assert.ErrorIs(t, f.contacts.Delete(ctx, c.ID, "u1"), common.ErrorNotFound)
}

// The end-to-end example: signup, login, create, search, delete, list.
func TestContactBook_EndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Signup(ctx, "a@x.com", "secret1", "")
	require.NoError(t, err)
	token, _, err := f.users.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	id, err := f.tokens.Verify(token, "session")
	require.NoError(t, err)

	c, err := f.contacts.Create(ctx, id.UserID, ContactInput{Name: "Bob", Email: "b@x.com", Phone: "123"})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryOther, c.Category)
	assert.False(t, c.IsFavorite)

	page, err := f.contacts.List(ctx, id.UserID, models.ListQuery{Search: "Bob"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	require.NoError(t, f.contacts.Delete(ctx, c.ID, id.UserID))

	page, err = f.contacts.List(ctx, id.UserID, models.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
}

// --- transaction behaviour with a SQL runner ---

type fakeContactsRepo struct {
	contacts.Repository
	items    []*models.Contact
	total    int
	countErr error
}

func (f *fakeContactsRepo) List(context.Context, string, models.ListQuery) ([]*models.Contact, error) {
	return f.items, nil
}

func (f *fakeContactsRepo) Count(context.Context, string, string) (int, error) {
	return f.total, f.countErr
}

type fakeRepoManager struct {
	c *fakeContactsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context) error   { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository       { return nil }
func (m *fakeRepoManager) Contacts(dbx.DBTX) contacts.Repository { return m.c }

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestContactList_ReadsInOneTransaction(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{c: &fakeContactsRepo{items: []*models.Contact{{ID: "c1"}}, total: 11}}
	s := NewContactService(dbx.NewSQLRunner(db), rm, logging.Nop{})

	page, err := s.List(context.Background(), "u1", models.ListQuery{Page: 2, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 11, page.Total)
	assert.Len(t, page.Items, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContactList_RollsBackOnError(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{c: &fakeContactsRepo{countErr: errors.New("boom")}}
	s := NewContactService(dbx.NewSQLRunner(db), rm, logging.Nop{})

	_, err := s.List(context.Background(), "u1", models.ListQuery{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	require.NoError(t, mock.ExpectationsWereMet())
}
