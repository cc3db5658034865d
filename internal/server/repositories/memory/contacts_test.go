package memory

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, r *ContactRepository, owner string, names ...string) []*models.Contact {
	t.Helper()
	out := make([]*models.Contact, 0, len(names))
	for i, n := range names {
		c, err := r.Create(context.Background(), &models.Contact{
			UserID:        owner,
			Name:          n,
			Email:         fmt.Sprintf("%s@example.com", n),
			Phone:         fmt.Sprintf("555-%04d", i),
			Category:      models.CategoryOther,
			LastContacted: time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

func names(cs []*models.Contact) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func TestContactRepository_ListFiltersByOwner(t *testing.T) {
	ctx := context.Background()
	r := NewContactRepository(NewStore())
	seed(t, r, "u1", "carol", "alice", "bob")
	seed(t, r, "u2", "mallory")

	got, err := r.List(ctx, "u1", models.ListQuery{}.Normalize())
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, names(got))

	n, err := r.Count(ctx, "u1", "")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err = r.List(ctx, "u3", models.ListQuery{}.Normalize())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestContactRepository_ListSearchIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	r := NewContactRepository(NewStore())
	seed(t, r, "u1", "Alice", "Bob", "Malice")

	q := models.ListQuery{Search: "ALIC"}.Normalize()
	got, err := r.List(ctx, "u1", q)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Malice"}, names(got))

	n, err := r.Count(ctx, "u1", "ALIC")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = r.Count(ctx, "u1", "555-0001")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "phone matches")
}

func TestContactRepository_ListSortAndPage(t *testing.T) {
	ctx := context.Background()
	r := NewContactRepository(NewStore())
	seed(t, r, "u1", "a", "b", "c", "d", "e")

	q := models.ListQuery{Page: 2, Limit: 2, SortBy: models.SortByLastContacted, SortOrder: models.SortDesc}.Normalize()
	got, err := r.List(ctx, "u1", q)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, names(got))

	q = models.ListQuery{Page: 9, Limit: 2}.Normalize()
	got, err = r.List(ctx, "u1", q)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestContactRepository_ListTiesBrokenByID(t *testing.T) {
	ctx := context.Background()
	r := NewContactRepository(NewStore())
	seed(t, r, "u1", "same", "same", "same", "same")

	q := models.ListQuery{Limit: 2, SortBy: models.SortByCategory}.Normalize()
	first, err := r.List(ctx, "u1", q)
	require.NoError(t, err)
	q.Page = 2
	second, err := r.List(ctx, "u1", q)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, c := range append(first, second...) {
		assert.False(t, seen[c.ID], "contact %s returned twice", c.ID)
		seen[c.ID] = true
	}
	assert.Len(t, seen, 4)
	assert.Less(t, first[0].ID, first[1].ID)
	assert.Less(t, first[1].ID, second[0].ID)
}

func TestContactRepository_UpdateDeleteOwnership(t *testing.T) {
	ctx := context.Background()
	r := NewContactRepository(NewStore())
	c := seed(t, r, "u1", "bob")[0]

	name := "Robert"
	_, err := r.Update(ctx, c.ID, "u2", models.ContactPatch{Name: &name})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, r.Delete(ctx, c.ID, "u2"), common.ErrorNotFound)

	got, err := r.Update(ctx, c.ID, "u1", models.ContactPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Robert", got.Name)
	assert.Equal(t, "u1", got.UserID)

	require.NoError(t, r.Delete(ctx, c.ID, "u1"))
	assert.ErrorIs(t, r.Delete(ctx, c.ID, "u1"), common.ErrorNotFound)
	_, err = r.Update(ctx, "missing", "u1", models.ContactPatch{Name: &name})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestContactRepository_ListAllSortedByName(t *testing.T) {
	ctx := context.Background()
	r := NewContactRepository(NewStore())
	seed(t, r, "u1", "zed", "Amy", "bob")
	seed(t, r, "u2", "other")

	got, err := r.ListAll(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Amy", "bob", "zed"}, names(got))
}

func TestContactRepository_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	r := NewContactRepository(NewStore())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = r.Create(ctx, &models.Contact{UserID: "u1", Name: fmt.Sprintf("c%d", i)})
			_, _ = r.Count(ctx, "u1", "")
		}(i)
	}
	wg.Wait()

	n, err := r.Count(ctx, "u1", "")
	require.NoError(t, err)
	assert.Equal(t, 50, n)
}

func TestContactRepository_HugePageIsEmpty(t *testing.T) {
	ctx := context.Background()
	r := NewContactRepository(NewStore())
	seed(t, r, "u1", "alice", "bob", "carol")

	got, err := r.List(ctx, "u1", models.ListQuery{Page: math.MaxInt, Limit: 2}.Normalize())
	require.NoError(t, err)
	assert.Empty(t, got)

	got, total, err := r.Page(ctx, "u1", models.ListQuery{Page: math.MaxInt, Limit: 2}.Normalize())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 3, total)
}

func TestContactRepository_PageMatchesListAndCount(t *testing.T) {
	ctx := context.Background()
	r := NewContactRepository(NewStore())
	seed(t, r, "u1", "carol", "alice", "bob", "dave")
	seed(t, r, "u2", "mallory")

	q := models.ListQuery{Page: 2, Limit: 3}.Normalize()
	items, total, err := r.Page(ctx, "u1", q)
	require.NoError(t, err)

	list, err := r.List(ctx, "u1", q)
	require.NoError(t, err)
	count, err := r.Count(ctx, "u1", q.Search)
	require.NoError(t, err)

	assert.Equal(t, names(list), names(items))
	assert.Equal(t, count, total)
	assert.Equal(t, 4, total)
	assert.Equal(t, []string{"dave"}, names(items))
}
