package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/pascalpat/sitelog/internal/backend"
	"github.com/pascalpat/sitelog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient serves canned catalog lists and fails the kinds listed in
// failing.
type stubClient struct {
	backend.Client
	lists   map[domain.CatalogKind][]domain.CatalogItem
	failing map[domain.CatalogKind]bool
}

func (s *stubClient) ListCatalog(_ context.Context, kind domain.CatalogKind) ([]domain.CatalogItem, error) {
	if s.failing[kind] {
		return nil, errors.New("boom")
	}
	return s.lists[kind], nil
}

func workerItems() []domain.CatalogItem {
	return []domain.CatalogItem{
		{ID: "7", Kind: domain.KindWorker, Label: "Marc Gagnon"},
		{ID: "8", Kind: domain.KindWorker, Label: "Alice Roy"},
	}
}

func TestCache_LoadAndLookup(t *testing.T) {
	cache := NewCache(&stubClient{lists: map[domain.CatalogKind][]domain.CatalogItem{
		domain.KindWorker: workerItems(),
		domain.KindActivityCode: {
			{ID: "3", Kind: domain.KindActivityCode, Label: "A1", Description: "Excavation"},
		},
	}})

	require.NoError(t, cache.Load(context.Background(), domain.KindWorker, domain.KindActivityCode))

	assert.True(t, cache.Loaded(domain.KindWorker))
	item, ok := cache.Lookup(domain.KindWorker, "7")
	require.True(t, ok)
	assert.Equal(t, "Marc Gagnon", item.Label)

	assert.Equal(t, "A1 – Excavation", cache.Label(domain.KindActivityCode, "3"))
	assert.Equal(t, "99", cache.Label(domain.KindActivityCode, "99"), "unknown ids fall back to the raw id")
}

func TestCache_ItemsSortedByLabel(t *testing.T) {
	cache := NewCache(&stubClient{lists: map[domain.CatalogKind][]domain.CatalogItem{
		domain.KindWorker: workerItems(),
	}})
	require.NoError(t, cache.Load(context.Background(), domain.KindWorker))

	items := cache.Items(domain.KindWorker)
	require.Len(t, items, 2)
	assert.Equal(t, "Alice Roy", items[0].Label)
	assert.Equal(t, "Marc Gagnon", items[1].Label)
}

func TestCache_PartialFailureLeavesPreviousCacheIntact(t *testing.T) {
	stub := &stubClient{
		lists: map[domain.CatalogKind][]domain.CatalogItem{
			domain.KindWorker:    workerItems(),
			domain.KindEquipment: {{ID: "12", Kind: domain.KindEquipment, Label: "Excavator"}},
		},
		failing: map[domain.CatalogKind]bool{},
	}
	cache := NewCache(stub)
	require.NoError(t, cache.Load(context.Background(), domain.KindWorker, domain.KindEquipment))

	// Second load fails halfway: worker list now empty, equipment errors.
	stub.lists[domain.KindWorker] = nil
	stub.failing[domain.KindEquipment] = true

	err := cache.Load(context.Background(), domain.KindWorker, domain.KindEquipment)
	require.ErrorIs(t, err, ErrCatalogUnavailable)

	// Previous contents survive untouched.
	_, ok := cache.Lookup(domain.KindWorker, "7")
	assert.True(t, ok, "failed reload must not clear the previous cache")
	_, ok = cache.Lookup(domain.KindEquipment, "12")
	assert.True(t, ok)
}

func TestCache_UnloadedKind(t *testing.T) {
	cache := NewCache(&stubClient{})
	assert.False(t, cache.Loaded(domain.KindWorker))
	assert.Empty(t, cache.Items(domain.KindWorker))
	_, ok := cache.Lookup(domain.KindWorker, "7")
	assert.False(t, ok)
}
