package report

import (
	"context"
	"testing"

	"github.com/pascalpat/sitelog/internal/catalog"
	"github.com/pascalpat/sitelog/internal/domain"
	"github.com/pascalpat/sitelog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedCache(t *testing.T) *catalog.Cache {
	t.Helper()
	fake := testutil.NewFakeBackend(t)
	cache := catalog.NewCache(fake.Client())
	require.NoError(t, cache.Load(context.Background()))
	return cache
}

func laborStrategy(t *testing.T) Strategy {
	t.Helper()
	s, err := StrategyFor(domain.CategoryLabor)
	require.NoError(t, err)
	return s
}

func TestBuildDraft_CatalogSelection(t *testing.T) {
	cache := loadedCache(t)

	d, err := BuildDraft(laborStrategy(t), RawForm{
		CatalogID:      "7",
		MeasureText:    "8",
		ActivityCodeID: "A1",
	}, cache)
	require.NoError(t, err)

	assert.False(t, d.Identity.IsManual())
	assert.Equal(t, "7", d.Identity.CatalogID())
	assert.Equal(t, 8.0, d.Measure)
	assert.Equal(t, "A1", d.Classification.ActivityCodeID)
	assert.Equal(t, domain.EntryStaged, d.Status)
}

// Manual mode with text wins over a lingering catalog selection; the
// identity is decided once at build time, not by toggle state later.
func TestBuildDraft_ManualModeWins(t *testing.T) {
	cache := loadedCache(t)

	d, err := BuildDraft(laborStrategy(t), RawForm{
		ManualMode:     true,
		ManualText:     "  Jean Tremblay  ",
		CatalogID:      "7",
		MeasureText:    "4",
		ActivityCodeID: "A2",
	}, cache)
	require.NoError(t, err)

	assert.True(t, d.Identity.IsManual())
	assert.Equal(t, "Jean Tremblay", d.Identity.ManualName())
	assert.Empty(t, d.Identity.CatalogID())
}

// Manual mode on but empty text falls through to the catalog selection.
func TestBuildDraft_EmptyManualFallsThrough(t *testing.T) {
	cache := loadedCache(t)

	d, err := BuildDraft(laborStrategy(t), RawForm{
		ManualMode:     true,
		ManualText:     "   ",
		CatalogID:      "7",
		MeasureText:    "8",
		ActivityCodeID: "A1",
	}, cache)
	require.NoError(t, err)
	assert.Equal(t, "7", d.Identity.CatalogID())
}

func TestBuildDraft_MissingIdentity(t *testing.T) {
	cache := loadedCache(t)

	_, err := BuildDraft(laborStrategy(t), RawForm{
		MeasureText:    "8",
		ActivityCodeID: "A1",
	}, cache)
	require.ErrorIs(t, err, domain.ErrMissingIdentity)
	assert.True(t, IsValidationError(err))
}

func TestBuildDraft_InvalidMeasure(t *testing.T) {
	cache := loadedCache(t)

	for _, text := range []string{"", "abc", "0", "-3", "NaN"} {
		_, err := BuildDraft(laborStrategy(t), RawForm{
			CatalogID:      "7",
			MeasureText:    text,
			ActivityCodeID: "A1",
		}, cache)
		assert.ErrorIs(t, err, domain.ErrInvalidMeasure, "measure %q", text)
	}
}

func TestBuildDraft_MissingActivityCode(t *testing.T) {
	cache := loadedCache(t)

	_, err := BuildDraft(laborStrategy(t), RawForm{
		CatalogID:   "7",
		MeasureText: "8",
	}, cache)
	require.ErrorIs(t, err, domain.ErrMissingClassification)
}

func TestBuildDraft_DanglingClassification(t *testing.T) {
	cache := loadedCache(t)

	_, err := BuildDraft(laborStrategy(t), RawForm{
		CatalogID:      "7",
		MeasureText:    "8",
		ActivityCodeID: "A1",
		PaymentItemID:  "no-such-item",
	}, cache)
	require.ErrorIs(t, err, domain.ErrUnknownCatalogRef)
}

func TestBuildDraft_UnknownIdentityRef(t *testing.T) {
	cache := loadedCache(t)

	_, err := BuildDraft(laborStrategy(t), RawForm{
		CatalogID:      "9999",
		MeasureText:    "8",
		ActivityCodeID: "A1",
	}, cache)
	require.ErrorIs(t, err, domain.ErrUnknownCatalogRef)
}

func TestBuildDraft_MaterialIsManualOnly(t *testing.T) {
	cache := loadedCache(t)
	strategy, err := StrategyFor(domain.CategoryMaterial)
	require.NoError(t, err)

	d, err := BuildDraft(strategy, RawForm{
		ManualText:     "concrete 30MPa",
		MeasureText:    "12.5",
		ActivityCodeID: "A1",
		WorkPackageID:  "CWP-02",
	}, cache)
	require.NoError(t, err)
	assert.True(t, d.Identity.IsManual())
	assert.Equal(t, 12.5, d.Measure)
	assert.Equal(t, "CWP-02", d.Classification.WorkPackageID)

	_, err = BuildDraft(strategy, RawForm{
		MeasureText:    "12.5",
		ActivityCodeID: "A1",
	}, cache)
	require.ErrorIs(t, err, domain.ErrMissingIdentity)
}

func TestBuildDraft_NoteRequiresText(t *testing.T) {
	cache := loadedCache(t)
	strategy, err := StrategyFor(domain.CategoryNote)
	require.NoError(t, err)

	_, err = BuildDraft(strategy, RawForm{ManualText: "general"}, cache)
	require.ErrorIs(t, err, domain.ErrMissingClassification)

	d, err := BuildDraft(strategy, RawForm{ManualText: "general", NoteText: "rain delay, morning only"}, cache)
	require.NoError(t, err)
	assert.Equal(t, "rain delay, morning only", d.Note)
}
