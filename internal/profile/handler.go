package profile

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=profile_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/healthyduck/fitnessapi/internal/auth"
	"github.com/healthyduck/fitnessapi/internal/telemetry/tracing"
	"github.com/healthyduck/fitnessapi/pkg"

	log "github.com/sirupsen/logrus"
)

type profilesRepo interface {
	Get(ctx context.Context, userID string) (*Record, error)
	UpdateDisplayName(ctx context.Context, userID, displayName string) (*Record, error)
}

// entityCounter counts rows of one fitness entity owned by a user.
type entityCounter interface {
	Count(ctx context.Context, userID string) (int, error)
}

type Handler struct {
	repo        profilesRepo
	dataSources entityCounter
	dataPoints  entityCounter
	sessions    entityCounter
}

func NewHandler(repo profilesRepo, dataSources, dataPoints, sessions entityCounter) *Handler {
	return &Handler{
		repo:        repo,
		dataSources: dataSources,
		dataPoints:  dataPoints,
		sessions:    sessions,
	}
}

type UpdateRequest struct {
	DisplayName string `json:"displayName"`
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.get")
	defer span.End()

	identity, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	rec, err := h.repo.Get(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			pkg.WriteJSONError(w, "Profile not found", http.StatusNotFound)
			return
		}
		log.Errorf("get profile %s: %s", identity.ID, err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	p := rec.ToWire()
	p.Statistics = &Statistics{
		DataSourcesCount: h.count(ctx, h.dataSources, identity.ID),
		DataPointsCount:  h.count(ctx, h.dataPoints, identity.ID),
		SessionsCount:    h.count(ctx, h.sessions, identity.ID),
	}

	respBytes, err := json.Marshal(p)
	if err != nil {
		log.Errorf("marshal profile response: %s", err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.update")
	defer span.End()

	identity, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rec, err := h.repo.UpdateDisplayName(ctx, identity.ID, req.DisplayName)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			pkg.WriteJSONError(w, "Profile not found", http.StatusNotFound)
			return
		}
		log.Errorf("update profile %s: %s", identity.ID, err)
		pkg.WriteJSONError(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(rec.ToWire())
	if err != nil {
		log.Errorf("marshal profile response: %s", err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

// count tolerates storage failures, a missing count renders as zero.
func (h *Handler) count(ctx context.Context, counter entityCounter, userID string) int {
	count, err := counter.Count(ctx, userID)
	if err != nil || count < 0 {
		log.Warnf("count entities for %s: %s", userID, err)
		return 0
	}
	return count
}
