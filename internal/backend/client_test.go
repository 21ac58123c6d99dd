package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/pascalpat/sitelog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.MaxRetries = 0
	return NewClient(cfg, NoopObserver{})
}

func TestConfirmBatch_SendsContextOnceAndDecodesRecords(t *testing.T) {
	var got confirmRequest

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/labor/confirm-labor", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"records": []map[string]any{
				{"id": 101, "name": "Marc Gagnon", "hours": 8, "activity_code": "A1"},
				{"id": 102, "name": "Jean Tremblay", "is_manual": true, "hours": 4, "activity_code": "A2"},
			},
		})
	}))

	lines := []DraftEntryPayload{
		EncodeDraft(domain.DraftEntry{Category: domain.CategoryLabor, Identity: domain.CatalogRef("7"), Measure: 8}),
		EncodeDraft(domain.DraftEntry{Category: domain.CategoryLabor, Identity: domain.Manual("Jean Tremblay"), Measure: 4}),
	}

	records, err := client.ConfirmBatch(context.Background(), domain.CategoryLabor, "P1", "2024-05-01", lines)
	require.NoError(t, err)

	assert.Equal(t, "P1", got.ProjectID)
	assert.Equal(t, "2024-05-01", got.DateOfReport)
	require.Len(t, got.Usage, 2)

	require.Len(t, records, 2)
	assert.Equal(t, "101", records[0].ServerID)
	assert.Equal(t, "102", records[1].ServerID)
	assert.True(t, records[1].IsManual)
}

func TestConfirmBatch_ServerErrorSurfacedVerbatim(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "One or more fields missing in usage line"})
	}))

	_, err := client.ConfirmBatch(context.Background(), domain.CategoryLabor, "P1", "2024-05-01", []DraftEntryPayload{{}})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, err.Error(), "One or more fields missing in usage line")
}

// A response that arrived but could not be decoded must not be retried:
// the backend may already have applied the request.
func TestConfirmBatch_NoRetryAfterReceivedResponse(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"records": [`)
	}))
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.MaxRetries = 2
	client := NewClient(cfg, NoopObserver{})

	lines := []DraftEntryPayload{
		EncodeDraft(domain.DraftEntry{Category: domain.CategoryLabor, Identity: domain.CatalogRef("7"), Measure: 8}),
	}
	_, err := client.ConfirmBatch(context.Background(), domain.CategoryLabor, "P1", "2024-05-01", lines)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
	assert.EqualValues(t, 1, calls.Load(), "one POST only, even with retries configured")
}

func TestListConfirmed_CategoryKeyedResponse(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/materials/by-project-date", r.URL.Path)
		assert.Equal(t, "P1", r.URL.Query().Get("project_id"))
		assert.Equal(t, "2024-05-01", r.URL.Query().Get("date"))

		json.NewEncoder(w).Encode(map[string]any{
			"materials": []map[string]any{
				{"id": 9, "name": "concrete 30MPa", "is_manual": true, "quantity": 12.5, "cwp": "CWP-02"},
			},
		})
	}))

	entries, err := client.ListConfirmed(context.Background(), domain.CategoryMaterial, "P1", "2024-05-01")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "9", entries[0].ServerID)
	assert.Equal(t, 12.5, entries[0].Measure)
	assert.Equal(t, "CWP-02", entries[0].WorkPackage)
}

func TestListConfirmed_StringServerIDs(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"notes": []map[string]any{
				{"id": "note-17", "name": "general conditions", "is_manual": true, "note": "rain delay"},
			},
		})
	}))

	entries, err := client.ListConfirmed(context.Background(), domain.CategoryNote, "P1", "2024-05-01")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "note-17", entries[0].ServerID)
	assert.Equal(t, "rain delay", entries[0].Note)
}

func TestListCatalog_ActivityCodes(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activity_codes/list", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"id": 3, "code": "A1", "description": "Excavation"},
				{"id": 4, "code": "A2", "description": "Backfill"},
			},
		})
	}))

	items, err := client.ListCatalog(context.Background(), domain.KindActivityCode)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "3", items[0].ID)
	assert.Equal(t, "A1", items[0].Label)
	assert.Equal(t, "A1 – Excavation", items[0].DisplayLabel())
}

func TestDeleteEntry_404MatchesErrNotFound(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/labor/delete-entry/101", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "entry not found"})
	}))

	err := client.DeleteEntry(context.Background(), domain.CategoryLabor, "101")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "entry not found")
}

func TestUpdateEntry_SendsOnlySetFields(t *testing.T) {
	var raw map[string]any

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/labor/update-entry/101", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		json.NewEncoder(w).Encode(map[string]string{"message": "updated"})
	}))

	hours := 5.0
	err := client.UpdateEntry(context.Background(), domain.CategoryLabor, "101", EntryUpdate{Hours: &hours})
	require.NoError(t, err)
	assert.Equal(t, 5.0, raw["hours"])
	assert.NotContains(t, raw, "quantity")
	assert.NotContains(t, raw, "activity_code_id")
}

func TestClient_BackendUnavailable(t *testing.T) {
	cfg := DefaultConfig()
	// Closed port: connection refused rather than timeout.
	cfg.BaseURL = "http://127.0.0.1:1"
	cfg.MaxRetries = 1
	cfg.TimeoutMs = 2000
	client := NewClient(cfg, NoopObserver{})

	_, err := client.ListCatalog(context.Background(), domain.KindWorker)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}
