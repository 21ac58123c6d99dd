package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftEntry_Validate_Measured(t *testing.T) {
	cases := []struct {
		name    string
		measure float64
		wantErr error
	}{
		{"positive hours", 8, nil},
		{"fractional hours", 0.5, nil},
		{"zero", 0, ErrInvalidMeasure},
		{"negative", -2, ErrInvalidMeasure},
		{"NaN", math.NaN(), ErrInvalidMeasure},
		{"infinite", math.Inf(1), ErrInvalidMeasure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &DraftEntry{
				Category: CategoryLabor,
				Identity: CatalogRef("7"),
				Measure:  tc.measure,
			}
			err := d.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestDraftEntry_Validate_NoteNeedsNoMeasure(t *testing.T) {
	d := &DraftEntry{
		Category: CategoryNote,
		Identity: Manual("general conditions"),
		Note:     "rain delay, morning only",
	}
	require.NoError(t, d.Validate())
}

func TestDraftEntry_Validate_IdentityInvariant(t *testing.T) {
	d := &DraftEntry{Category: CategoryLabor, Measure: 8}
	require.ErrorIs(t, d.Validate(), ErrMissingIdentity)

	d.Identity = Identity{catalogRef: "7", manualName: "Jean"}
	require.ErrorIs(t, d.Validate(), ErrConflictingIdentity)
}

func TestDraftEntry_Validate_UnknownCategory(t *testing.T) {
	d := &DraftEntry{Category: Category("weather"), Identity: Manual("x")}
	err := d.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weather")
}

func TestCatalogItem_DisplayLabel(t *testing.T) {
	ac := CatalogItem{ID: "3", Kind: KindActivityCode, Label: "A1", Description: "Excavation"}
	assert.Equal(t, "A1 – Excavation", ac.DisplayLabel())

	w := CatalogItem{ID: "7", Kind: KindWorker, Label: "Marc Gagnon", Description: "foreman"}
	assert.Equal(t, "Marc Gagnon", w.DisplayLabel())

	bare := CatalogItem{ID: "9", Kind: KindActivityCode, Label: "A9"}
	assert.Equal(t, "A9", bare.DisplayLabel())
}
