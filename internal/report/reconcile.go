package report

import (
	"context"

	"github.com/pascalpat/sitelog/internal/domain"
)

// Row is one line of the merged table: either a confirmed record or a
// staged draft, never both. Provenance keeps re-renders from ever mixing
// the two sets.
type Row struct {
	Provenance domain.Provenance
	Confirmed  *domain.ConfirmedEntry
	Draft      *domain.DraftEntry
}

// Merged builds the combined view: the backend's confirmed entries first,
// then the staged preview lines in insertion order. The confirmed half is
// always a fresh read; staged drafts are never folded into it.
func (s *Service) Merged(ctx context.Context) ([]Row, error) {
	confirmed, err := s.LoadConfirmed(ctx)
	if err != nil {
		return nil, err
	}

	staged := s.Staged()
	rows := make([]Row, 0, len(confirmed)+len(staged))
	for i := range confirmed {
		rows = append(rows, Row{Provenance: domain.ProvenanceConfirmed, Confirmed: &confirmed[i]})
	}
	for _, d := range staged {
		draft := d
		rows = append(rows, Row{Provenance: domain.ProvenanceStaged, Draft: &draft})
	}
	return rows, nil
}
