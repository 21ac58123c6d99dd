package ledger

import (
	"testing"

	"github.com/pascalpat/sitelog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func laborScope() Scope {
	return Scope{ProjectID: "P1", Date: "2024-05-01", Category: domain.CategoryLabor}
}

func entry(key string) domain.DraftEntry {
	return domain.DraftEntry{
		ClientKey: key,
		Category:  domain.CategoryLabor,
		Identity:  domain.CatalogRef("7"),
		Measure:   8,
		Status:    domain.EntryStaged,
	}
}

func TestLedger_AppendPreservesInsertionOrder(t *testing.T) {
	l := New(laborScope())
	l.Append(entry("e1"))
	l.Append(entry("e2"))
	l.Append(entry("e3"))

	all := l.All()
	require.Len(t, all, 3)
	assert.Equal(t, "e1", all[0].ClientKey)
	assert.Equal(t, "e2", all[1].ClientKey)
	assert.Equal(t, "e3", all[2].ClientKey)
}

func TestLedger_DuplicatesRetained(t *testing.T) {
	l := New(laborScope())
	l.Append(entry("e1"))
	dup := entry("e2")
	l.Append(dup)
	l.Append(dup)

	assert.Equal(t, 3, l.Len(), "identical lines are distinct report lines")
}

func TestLedger_AllReturnsSnapshot(t *testing.T) {
	l := New(laborScope())
	l.Append(entry("e1"))

	snapshot := l.All()
	snapshot[0].ClientKey = "mutated"
	snapshot[0].Measure = 99

	got, ok := l.Get("e1")
	require.True(t, ok)
	assert.Equal(t, 8.0, got.Measure, "callers must not be able to mutate the ledger through All()")
}

func TestLedger_Remove(t *testing.T) {
	l := New(laborScope())
	l.Append(entry("e1"))
	l.Append(entry("e2"))
	l.Append(entry("e3"))

	assert.True(t, l.Remove("e2"))
	assert.False(t, l.Remove("e2"), "second remove of the same key is a no-op")

	all := l.All()
	require.Len(t, all, 2)
	assert.Equal(t, "e1", all[0].ClientKey)
	assert.Equal(t, "e3", all[1].ClientKey)
}

func TestLedger_ClearAndStatus(t *testing.T) {
	l := New(laborScope())
	l.Append(entry("e1"))
	l.Append(entry("e2"))

	l.SetStatus(domain.EntrySubmitting)
	for _, e := range l.All() {
		assert.Equal(t, domain.EntrySubmitting, e.Status)
	}

	l.Clear()
	assert.Zero(t, l.Len())
	assert.Empty(t, l.All())
}
