package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/pascalpat/sitelog/internal/backend"
	"github.com/pascalpat/sitelog/internal/domain"
)

// FakeBackend is an httptest server speaking the reporting backend's API:
// catalog lists, batch confirm, by-project-date read-back, and single-row
// update/delete. Confirmed entries live in memory keyed by
// (project, date, category); failures are scripted per operation.
type FakeBackend struct {
	t   *testing.T
	srv *httptest.Server

	mu      sync.Mutex
	catalog map[domain.CatalogKind][]domain.CatalogItem
	nextID  int
	records map[string][]map[string]any // scope key → ordered records

	// Scripted failures: a non-zero status fails the operation with
	// {error: <message>}.
	ConfirmStatus int
	ConfirmError  string
	UpdateStatus  int
	UpdateError   string
	DeleteStatus  int
	DeleteError   string
	CatalogStatus int

	ConfirmCalls int
}

// NewFakeBackend starts a fake backend preloaded with TestCatalog().
// The server is closed when the test completes.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	f := &FakeBackend{
		t:       t,
		catalog: TestCatalog(),
		nextID:  100,
		records: make(map[string][]map[string]any),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

// URL returns the fake server's base URL.
func (f *FakeBackend) URL() string {
	return f.srv.URL
}

// Client returns a backend.Client wired to the fake with retries off.
func (f *FakeBackend) Client() backend.Client {
	cfg := backend.DefaultConfig()
	cfg.BaseURL = f.srv.URL
	cfg.MaxRetries = 0
	return backend.NewClient(cfg, backend.NoopObserver{})
}

// Seed inserts a confirmed record directly, bypassing confirm, and
// returns its server id.
func (f *FakeBackend) Seed(cat domain.Category, projectID, date string, fields map[string]any) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	rec := map[string]any{"id": f.nextID}
	for k, v := range fields {
		rec[k] = v
	}
	key := scopeKey(cat, projectID, date)
	f.records[key] = append(f.records[key], rec)
	return fmt.Sprintf("%d", f.nextID)
}

// RecordCount returns how many confirmed records exist for a scope.
func (f *FakeBackend) RecordCount(cat domain.Category, projectID, date string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records[scopeKey(cat, projectID, date)])
}

func scopeKey(cat domain.Category, projectID, date string) string {
	return string(cat) + "|" + projectID + "|" + date
}

var catalogSegments = map[string]domain.CatalogKind{
	"workers":        domain.KindWorker,
	"activity_codes": domain.KindActivityCode,
	"payment_items":  domain.KindPaymentItem,
	"cwp":            domain.KindWorkPackage,
}

var categoryBases = map[string]domain.Category{
	"labor":          domain.CategoryLabor,
	"equipment":      domain.CategoryEquipment,
	"materials":      domain.CategoryMaterial,
	"daily_notes":    domain.CategoryNote,
	"subcontractors": domain.CategorySubcontractor,
}

func (f *FakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 2 {
		http.NotFound(w, r)
		return
	}
	base, rest := parts[0], parts[1]

	if rest == "list" {
		// /equipment/list is a catalog route even though "equipment"
		// is also a category base.
		kind, ok := catalogSegments[base]
		if base == "equipment" {
			kind, ok = domain.KindEquipment, true
		}
		if !ok {
			http.NotFound(w, r)
			return
		}
		f.handleCatalogList(w, kind)
		return
	}

	cat, ok := categoryBases[base]
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch {
	case rest == "by-project-date":
		f.handleListConfirmed(w, r, cat)
	case strings.HasPrefix(rest, "confirm"):
		f.handleConfirm(w, r, cat)
	case rest == "update-entry" && len(parts) == 3:
		f.handleUpdate(w, r, cat, parts[2])
	case rest == "delete-entry" && len(parts) == 3:
		f.handleDelete(w, cat, parts[2])
	default:
		http.NotFound(w, r)
	}
}

func (f *FakeBackend) handleCatalogList(w http.ResponseWriter, kind domain.CatalogKind) {
	if f.CatalogStatus != 0 {
		writeError(w, f.CatalogStatus, "catalog unavailable")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	items := make([]map[string]any, 0, len(f.catalog[kind]))
	for _, item := range f.catalog[kind] {
		rec := map[string]any{"id": item.ID, "name": item.Label}
		if kind == domain.KindActivityCode || kind == domain.KindPaymentItem {
			rec = map[string]any{"id": item.ID, "code": item.Label, "description": item.Description}
		}
		items = append(items, rec)
	}
	writeJSON(w, map[string]any{"items": items})
}

var confirmedListKeys = map[domain.Category]string{
	domain.CategoryLabor:         "workers",
	domain.CategoryEquipment:     "equipment",
	domain.CategoryMaterial:      "materials",
	domain.CategoryNote:          "notes",
	domain.CategorySubcontractor: "subcontractors",
}

func (f *FakeBackend) handleListConfirmed(w http.ResponseWriter, r *http.Request, cat domain.Category) {
	projectID := r.URL.Query().Get("project_id")
	date := r.URL.Query().Get("date")

	f.mu.Lock()
	defer f.mu.Unlock()
	records := f.records[scopeKey(cat, projectID, date)]
	if records == nil {
		records = []map[string]any{}
	}
	writeJSON(w, map[string]any{confirmedListKeys[cat]: records})
}

var identityKinds = map[domain.Category]domain.CatalogKind{
	domain.CategoryLabor:     domain.KindWorker,
	domain.CategoryEquipment: domain.KindEquipment,
	domain.CategoryMaterial:  "",
}

func (f *FakeBackend) handleConfirm(w http.ResponseWriter, r *http.Request, cat domain.Category) {
	f.mu.Lock()
	f.ConfirmCalls++
	f.mu.Unlock()

	if f.ConfirmStatus != 0 {
		writeError(w, f.ConfirmStatus, f.ConfirmError)
		return
	}

	var req struct {
		ProjectID    string `json:"project_id"`
		DateOfReport string `json:"date_of_report"`
		Usage        []struct {
			EntityID       *string  `json:"entity_id"`
			IsManual       bool     `json:"is_manual"`
			ManualName     string   `json:"manual_name"`
			Hours          *float64 `json:"hours"`
			Quantity       *float64 `json:"quantity"`
			ActivityCodeID *string  `json:"activity_code_id"`
			PaymentItemID  *string  `json:"payment_item_id"`
			CWP            *string  `json:"cwp"`
			Note           string   `json:"note"`
		} `json:"usage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if len(req.Usage) == 0 {
		writeError(w, http.StatusBadRequest, "Missing 'usage' array in request")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	saved := make([]map[string]any, 0, len(req.Usage))
	for _, line := range req.Usage {
		if (line.EntityID == nil) == !line.IsManual {
			writeError(w, http.StatusBadRequest, "usage line must carry exactly one of entity_id or manual_name")
			return
		}

		f.nextID++
		rec := map[string]any{"id": f.nextID, "is_manual": line.IsManual}
		if line.IsManual {
			rec["name"] = line.ManualName
		} else {
			rec["name"] = f.lookupLabel(identityKinds[cat], *line.EntityID)
		}
		if line.Hours != nil {
			rec["hours"] = *line.Hours
		}
		if line.Quantity != nil {
			rec["quantity"] = *line.Quantity
		}
		if line.ActivityCodeID != nil {
			rec["activity_code"] = f.lookupLabel(domain.KindActivityCode, *line.ActivityCodeID)
		}
		if line.PaymentItemID != nil {
			rec["payment_item"] = f.lookupLabel(domain.KindPaymentItem, *line.PaymentItemID)
		}
		if line.CWP != nil {
			rec["cwp"] = *line.CWP
		}
		if line.Note != "" {
			rec["note"] = line.Note
		}
		saved = append(saved, rec)
	}

	key := scopeKey(cat, req.ProjectID, req.DateOfReport)
	f.records[key] = append(f.records[key], saved...)
	writeJSON(w, map[string]any{"records": saved})
}

func (f *FakeBackend) handleUpdate(w http.ResponseWriter, r *http.Request, cat domain.Category, id string) {
	if f.UpdateStatus != 0 {
		writeError(w, f.UpdateStatus, f.UpdateError)
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.findRecord(cat, id)
	if rec == nil {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}
	for k, v := range fields {
		rec[k] = v
	}
	writeJSON(w, map[string]any{"message": "entry updated"})
}

func (f *FakeBackend) handleDelete(w http.ResponseWriter, cat domain.Category, id string) {
	if f.DeleteStatus != 0 {
		writeError(w, f.DeleteStatus, f.DeleteError)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for key, records := range f.records {
		if !strings.HasPrefix(key, string(cat)+"|") {
			continue
		}
		for i, rec := range records {
			if fmt.Sprintf("%v", rec["id"]) == id {
				f.records[key] = append(records[:i], records[i+1:]...)
				writeJSON(w, map[string]any{"message": "entry deleted"})
				return
			}
		}
	}
	writeError(w, http.StatusNotFound, "entry not found")
}

func (f *FakeBackend) findRecord(cat domain.Category, id string) map[string]any {
	for key, records := range f.records {
		if !strings.HasPrefix(key, string(cat)+"|") {
			continue
		}
		for _, rec := range records {
			if fmt.Sprintf("%v", rec["id"]) == id {
				return rec
			}
		}
	}
	return nil
}

func (f *FakeBackend) lookupLabel(kind domain.CatalogKind, id string) string {
	for _, item := range f.catalog[kind] {
		if item.ID == id {
			return item.Label
		}
	}
	return id
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
