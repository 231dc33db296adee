package session

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=session_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/healthyduck/fitnessapi/internal/auth"
	"github.com/healthyduck/fitnessapi/internal/telemetry/metrics"
	"github.com/healthyduck/fitnessapi/internal/telemetry/tracing"
	"github.com/healthyduck/fitnessapi/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type sessionsRepo interface {
	Add(ctx context.Context, rec *Record) error
	Get(ctx context.Context, userID, sessionID string) (*Record, error)
	List(ctx context.Context, userID string, startMillis, endMillis int64) ([]Record, error)
	Update(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, userID, sessionID string) error
}

type Handler struct {
	repo    sessionsRepo
	metrics *metrics.Manager
	now     func() time.Time
}

func NewHandler(repo sessionsRepo, metrics *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metrics,
		now:     time.Now,
	}
}

type ListResponse struct {
	Session []Session `json:"session"`
}

type DeleteResponse struct {
	Message string `json:"message"`
}

// payload wraps the wire session so a present-but-zero activityType can
// be told apart from an absent one.
type payload struct {
	Session
	ActivityType *int `json:"activityType"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.list")
	defer span.End()

	identity, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	var startMillis, endMillis int64
	if startTime := r.URL.Query().Get("startTime"); startTime != "" {
		var err error
		if startMillis, err = strconv.ParseInt(startTime, 10, 64); err != nil {
			pkg.WriteJSONError(w, "Invalid time filter", http.StatusBadRequest)
			return
		}
	}
	if endTime := r.URL.Query().Get("endTime"); endTime != "" {
		var err error
		if endMillis, err = strconv.ParseInt(endTime, 10, 64); err != nil {
			pkg.WriteJSONError(w, "Invalid time filter", http.StatusBadRequest)
			return
		}
	}

	records, err := h.repo.List(ctx, identity.ID, startMillis, endMillis)
	if err != nil {
		log.Errorf("list sessions: %s", err)
		pkg.WriteJSONError(w, "Failed to fetch sessions", http.StatusInternalServerError)
		return
	}

	sessions := make([]Session, 0, len(records))
	for i := range records {
		sessions = append(sessions, records[i].ToWire())
	}

	respBytes, err := json.Marshal(ListResponse{Session: sessions})
	if err != nil {
		log.Errorf("marshal sessions response: %s", err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.add")
	defer span.End()

	identity, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	var req payload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.ID == "" || req.StartTimeMillis == "" || req.EndTimeMillis == "" || req.ActivityType == nil {
		pkg.WriteJSONError(w, "Missing required fields", http.StatusBadRequest)
		return
	}
	req.Session.ActivityType = *req.ActivityType
	span.SetAttributes(attribute.String("session.id", req.ID))

	rec, err := req.Session.ToRecord(identity.ID, h.now())
	if err != nil {
		pkg.WriteJSONError(w, "Invalid session format", http.StatusBadRequest)
		return
	}

	if err := h.repo.Add(ctx, rec); err != nil {
		if errors.Is(err, ErrSessionExists) {
			pkg.WriteJSONError(w, "Session already exists", http.StatusConflict)
			return
		}
		log.Errorf("add session %s: %s", req.ID, err)
		pkg.WriteJSONError(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	h.metrics.CounterSessionsCreated.Inc()

	respBytes, err := json.Marshal(rec.ToWire())
	if err != nil {
		log.Errorf("marshal session response: %s", err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, http.StatusCreated)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.get")
	defer span.End()

	identity, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	sessionID := mux.Vars(r)["sessionId"]
	span.SetAttributes(attribute.String("session.id", sessionID))

	rec, err := h.repo.Get(ctx, identity.ID, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			pkg.WriteJSONError(w, "Session not found", http.StatusNotFound)
			return
		}
		log.Errorf("get session %s: %s", sessionID, err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(rec.ToWire())
	if err != nil {
		log.Errorf("marshal session response: %s", err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.update")
	defer span.End()

	identity, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	sessionID := mux.Vars(r)["sessionId"]
	span.SetAttributes(attribute.String("session.id", sessionID))

	var req Session
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// the path segment names the session, the body id is ignored
	req.ID = sessionID
	// updates always refresh the modified time
	req.ModifiedTimeMillis = ""

	rec, err := req.ToRecord(identity.ID, h.now())
	if err != nil {
		pkg.WriteJSONError(w, "Invalid session format", http.StatusBadRequest)
		return
	}

	if err := h.repo.Update(ctx, rec); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			pkg.WriteJSONError(w, "Session not found", http.StatusNotFound)
			return
		}
		log.Errorf("update session %s: %s", sessionID, err)
		pkg.WriteJSONError(w, "Failed to update session", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(rec.ToWire())
	if err != nil {
		log.Errorf("marshal session response: %s", err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.delete")
	defer span.End()

	identity, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	sessionID := mux.Vars(r)["sessionId"]
	span.SetAttributes(attribute.String("session.id", sessionID))

	if err := h.repo.Delete(ctx, identity.ID, sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			pkg.WriteJSONError(w, "Session not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete session %s: %s", sessionID, err)
		pkg.WriteJSONError(w, "Failed to delete session", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(DeleteResponse{Message: "Session deleted successfully"})
	if err != nil {
		log.Errorf("marshal delete response: %s", err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}
