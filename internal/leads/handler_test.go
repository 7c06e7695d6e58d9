package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/lodge-realestate-site/internal/observability/metrics"
	"github.com/wolfman30/lodge-realestate-site/pkg/logging"
)

func newTestHandler(t *testing.T, store Store) (*Handler, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewHandler(store, metrics.NewLeadMetrics(reg), logging.New("error")), reg
}

func postLead(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.CreateLead(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) IntakeResponse {
	t.Helper()
	var resp IntakeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func intakeCount(t *testing.T, reg *prometheus.Registry, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "lodge_leads_intake_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			if labelValue(m, "outcome") == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestCreateLead_EmailOnlyStoresDefaults(t *testing.T) {
	store := NewInMemoryStore()
	h, reg := newTestHandler(t, store)

	w := postLead(h, `{"email":"a@b.co"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, IntakeResponse{OK: true}, decodeResponse(t, w))

	stored := store.List()
	require.Len(t, stored, 1)
	lead := stored[0]
	assert.NotEmpty(t, lead.ID)
	assert.False(t, lead.CreatedAt.IsZero())
	assert.Equal(t, "website", lead.Source)
	assert.Equal(t, "unknown", lead.LeadType)
	assert.False(t, lead.Booked)
	assert.Nil(t, lead.Phone)
	assert.Nil(t, lead.PriceMin)
	assert.Equal(t, 1.0, intakeCount(t, reg, metrics.OutcomeStored))
}

func TestCreateLead_ShortPhoneRejected(t *testing.T) {
	store := NewInMemoryStore()
	h, reg := newTestHandler(t, store)

	w := postLead(h, `{"phone":"123456"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.OK)
	assert.Equal(t, "Please provide an email or phone number.", resp.Error)
	assert.Zero(t, store.Count())
	assert.Equal(t, 1.0, intakeCount(t, reg, metrics.OutcomeMissingContact))
}

func TestCreateLead_SevenCharPhoneStored(t *testing.T) {
	store := NewInMemoryStore()
	h, _ := newTestHandler(t, store)

	w := postLead(h, `{"phone":"1234567"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, store.Count())
}

func TestCreateLead_HoneypotLooksLikeSuccess(t *testing.T) {
	store := NewInMemoryStore()
	h, reg := newTestHandler(t, store)

	honeypot := postLead(h, `{"company":"Acme","email":"a@b.co"}`)
	genuine := postLead(NewHandler(NewInMemoryStore(), nil, logging.New("error")), `{"email":"a@b.co"}`)

	require.Equal(t, http.StatusOK, honeypot.Code)
	assert.Zero(t, store.Count())
	assert.Equal(t, genuine.Body.String(), honeypot.Body.String())
	assert.Equal(t, genuine.Header().Get("Content-Type"), honeypot.Header().Get("Content-Type"))
	assert.Equal(t, 1.0, intakeCount(t, reg, metrics.OutcomeHoneypot))
}

func TestCreateLead_HoneypotWithoutContactStillSucceeds(t *testing.T) {
	store := NewInMemoryStore()
	h, _ := newTestHandler(t, store)

	w := postLead(h, `{"company":"bot"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, store.Count())
}

func TestCreateLead_InvalidJSON(t *testing.T) {
	for _, body := range []string{"{", "not json", "[1,2]", "null"} {
		store := NewInMemoryStore()
		h, _ := newTestHandler(t, store)

		w := postLead(h, body)

		require.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		assert.Equal(t, IntakeResponse{Error: "Invalid request"}, decodeResponse(t, w))
		assert.Zero(t, store.Count())
	}
}

func TestCreateLead_TrailingDataRejected(t *testing.T) {
	for _, body := range []string{`{"email":"a@b.co"} garbage`, `{"email":"a@b.co"}{"x":1}`} {
		store := NewInMemoryStore()
		h, _ := newTestHandler(t, store)

		w := postLead(h, body)

		require.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		assert.Equal(t, IntakeResponse{Error: "Invalid request"}, decodeResponse(t, w))
		assert.Zero(t, store.Count())
	}
}

func TestCreateLead_NumericPhoneNotContactable(t *testing.T) {
	store := NewInMemoryStore()
	h, _ := newTestHandler(t, store)

	w := postLead(h, `{"phone":1234567}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, IntakeResponse{Error: "Please provide an email or phone number."}, decodeResponse(t, w))
	assert.Zero(t, store.Count())
}

func TestCreateLead_OversizedBodyRejected(t *testing.T) {
	store := NewInMemoryStore()
	h, _ := newTestHandler(t, store)

	body := fmt.Sprintf(`{"email":"a@b.co","message":%q}`, strings.Repeat("x", maxBodyBytes))
	w := postLead(h, body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, store.Count())
}

func TestCreateLead_DuplicateSubmissionsStoredTwice(t *testing.T) {
	store := NewInMemoryStore()
	h, _ := newTestHandler(t, store)

	body := `{"email":"a@b.co","name":"Dana"}`
	require.Equal(t, http.StatusOK, postLead(h, body).Code)
	require.Equal(t, http.StatusOK, postLead(h, body).Code)

	stored := store.List()
	require.Len(t, stored, 2)
	assert.NotEqual(t, stored[0].ID, stored[1].ID)
}

type failingStore struct {
	err   error
	calls int
}

func (f *failingStore) Insert(context.Context, *Lead) error {
	f.calls++
	return f.err
}

func TestCreateLead_StoreErrorSurfacesMessage(t *testing.T) {
	store := &failingStore{err: fmt.Errorf("leads: insert failed: %w", errors.New("relation \"leads\" does not exist"))}
	h, reg := newTestHandler(t, store)

	w := postLead(h, `{"email":"a@b.co"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, IntakeResponse{Error: `relation "leads" does not exist`}, decodeResponse(t, w))
	assert.Equal(t, 1, store.calls, "no retry expected")
	assert.Equal(t, 1.0, intakeCount(t, reg, metrics.OutcomeStoreError))
}

func TestCreateLead_PgErrorMessage(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23502", Message: `null value in column "source" violates not-null constraint`}
	store := &failingStore{err: fmt.Errorf("leads: insert failed: %w", pgErr)}
	h, _ := newTestHandler(t, store)

	w := postLead(h, `{"email":"a@b.co"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, pgErr.Message, decodeResponse(t, w).Error)
}

func TestCreateLead_InvalidRequestNeverReachesStore(t *testing.T) {
	store := &failingStore{err: errors.New("should not be called")}
	h, _ := newTestHandler(t, store)

	postLead(h, `{"name":"no contact"}`)
	postLead(h, `{"company":"x","email":"a@b.co"}`)
	postLead(h, `{`)

	assert.Zero(t, store.calls)
}

type contextRecordingStore struct {
	ctxErr error
}

func (s *contextRecordingStore) Insert(ctx context.Context, lead *Lead) error {
	s.ctxErr = ctx.Err()
	lead.ID = "lead-1"
	return nil
}

func TestCreateLead_InsertSurvivesClientCancellation(t *testing.T) {
	store := &contextRecordingStore{}
	h, _ := newTestHandler(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewBufferString(`{"email":"a@b.co"}`)).WithContext(ctx)
	w := httptest.NewRecorder()
	h.CreateLead(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, store.ctxErr)
}

func TestStoreMessage(t *testing.T) {
	assert.Equal(t, "boom", storeMessage(errors.New("boom")))
	assert.Equal(t, "boom", storeMessage(fmt.Errorf("a: %w", fmt.Errorf("b: %w", errors.New("boom")))))
	assert.Equal(t, "timeout", storeMessage(fmt.Errorf("x: %w", &pgconn.PgError{Message: "timeout"})))
}
