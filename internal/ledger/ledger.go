// Package ledger holds the staged-but-unconfirmed entries for one
// (project, date, category) scope. Insertion order is the only defined
// ordering and duplicate lines are retained: two identical entries are two
// lines on the report.
package ledger

import "github.com/pascalpat/sitelog/internal/domain"

// Scope identifies the report context a ledger belongs to.
type Scope struct {
	ProjectID string
	Date      string
	Category  domain.Category
}

// Ledger is an ordered collection of draft entries. It is owned by exactly
// one category service; nothing else mutates it.
type Ledger struct {
	scope   Scope
	entries []domain.DraftEntry
}

// New creates an empty ledger for the given scope.
func New(scope Scope) *Ledger {
	return &Ledger{scope: scope}
}

// Scope returns the (project, date, category) context the ledger serves.
func (l *Ledger) Scope() Scope {
	return l.scope
}

// Append adds an entry at the end. No dedup: identical lines are kept.
func (l *Ledger) Append(e domain.DraftEntry) {
	l.entries = append(l.entries, e)
}

// All returns a snapshot copy in insertion order. Mutating the returned
// slice does not affect the ledger.
func (l *Ledger) All() []domain.DraftEntry {
	out := make([]domain.DraftEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Get returns the entry with the given client key, if present.
func (l *Ledger) Get(clientKey string) (domain.DraftEntry, bool) {
	for _, e := range l.entries {
		if e.ClientKey == clientKey {
			return e, true
		}
	}
	return domain.DraftEntry{}, false
}

// Remove drops the entry with the given client key, preserving the order
// of the rest. It reports whether anything was removed.
func (l *Ledger) Remove(clientKey string) bool {
	for i, e := range l.entries {
		if e.ClientKey == clientKey {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// SetStatus updates the status of every entry, e.g. marking the whole
// ledger submitting while a confirm is in flight.
func (l *Ledger) SetStatus(status domain.EntryStatus) {
	for i := range l.entries {
		l.entries[i].Status = status
	}
}

// Clear empties the ledger. Called only after a successful confirm
// round-trip or an explicit user discard.
func (l *Ledger) Clear() {
	l.entries = nil
}

// Len returns the number of staged entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}
