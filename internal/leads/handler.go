package leads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/wolfman30/lodge-realestate-site/internal/observability/metrics"
	"github.com/wolfman30/lodge-realestate-site/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// maxBodyBytes bounds a lead submission; real forms send well under 2 KiB.
const maxBodyBytes = 64 << 10

var intakeTracer = otel.Tracer("lodge.internal.leads")

// Handler handles HTTP requests for leads
type Handler struct {
	store   Store
	metrics *metrics.LeadMetrics
	logger  *logging.Logger
}

// NewHandler creates a new leads handler. metrics may be nil.
func NewHandler(store Store, m *metrics.LeadMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		store:   store,
		metrics: m,
		logger:  logger,
	}
}

// IntakeResponse is the body of every POST /api/leads response.
type IntakeResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// CreateLead handles POST /api/leads requests
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	ctx, span := intakeTracer.Start(r.Context(), "leads.intake")
	defer span.End()

	payload, err := DecodePayload(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.logger.Warn("invalid lead payload", "error", err)
		span.SetAttributes(attribute.String("lodge.lead.outcome", metrics.OutcomeInvalidPayload))
		h.metrics.ObserveIntake(metrics.OutcomeInvalidPayload)
		writeJSON(w, http.StatusBadRequest, IntakeResponse{Error: ErrInvalidPayload.Error()})
		return
	}

	lead, err := Normalize(payload)
	switch {
	case errors.Is(err, ErrHoneypot):
		// Indistinguishable from a stored lead on the wire.
		h.logger.Info("honeypot submission suppressed", "remote_ip", r.RemoteAddr)
		span.SetAttributes(attribute.String("lodge.lead.outcome", metrics.OutcomeHoneypot))
		h.metrics.ObserveIntake(metrics.OutcomeHoneypot)
		writeJSON(w, http.StatusOK, IntakeResponse{OK: true})
		return
	case err != nil:
		// ErrMissingContact is the only other error Normalize returns.
		span.SetAttributes(attribute.String("lodge.lead.outcome", metrics.OutcomeMissingContact))
		h.metrics.ObserveIntake(metrics.OutcomeMissingContact)
		writeJSON(w, http.StatusBadRequest, IntakeResponse{Error: err.Error()})
		return
	}

	span.SetAttributes(
		attribute.String("lodge.lead.source", lead.Source),
		attribute.String("lodge.lead.type", lead.LeadType),
	)

	// A client hanging up must not abort a write already on the wire.
	storeCtx := context.WithoutCancel(ctx)
	start := time.Now()
	err = h.store.Insert(storeCtx, lead)
	h.metrics.ObserveStoreLatency(err == nil, time.Since(start).Seconds())
	if err != nil {
		h.logger.Error("failed to store lead", "error", err, "source", lead.Source)
		span.RecordError(err)
		span.SetStatus(codes.Error, "store failed")
		span.SetAttributes(attribute.String("lodge.lead.outcome", metrics.OutcomeStoreError))
		h.metrics.ObserveIntake(metrics.OutcomeStoreError)
		writeJSON(w, http.StatusInternalServerError, IntakeResponse{Error: storeMessage(err)})
		return
	}

	h.logger.Info("lead stored", "id", lead.ID, "source", lead.Source, "lead_type", lead.LeadType)
	span.SetAttributes(attribute.String("lodge.lead.outcome", metrics.OutcomeStored))
	h.metrics.ObserveIntake(metrics.OutcomeStored)
	writeJSON(w, http.StatusOK, IntakeResponse{OK: true})
}

// storeMessage extracts the storage layer's own description of a failure,
// dropping the wrapping added on the way up.
func storeMessage(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	for {
		inner := errors.Unwrap(err)
		if inner == nil {
			return err.Error()
		}
		err = inner
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
