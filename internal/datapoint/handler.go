package datapoint

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=datapoint_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/healthyduck/fitnessapi/internal/auth"
	"github.com/healthyduck/fitnessapi/internal/datasource"
	"github.com/healthyduck/fitnessapi/internal/telemetry/metrics"
	"github.com/healthyduck/fitnessapi/internal/telemetry/tracing"
	"github.com/healthyduck/fitnessapi/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

type pointsRepo interface {
	Upsert(ctx context.Context, rec *Record) error
	ListRange(ctx context.Context, userID string, dataSourceID int, startNanos, endNanos int64) ([]Record, error)
}

type sourceResolver interface {
	GetByStreamID(ctx context.Context, userID, dataStreamID string) (*datasource.Record, error)
}

type Handler struct {
	repo    pointsRepo
	sources sourceResolver
	metrics *metrics.Manager
	now     func() time.Time
}

func NewHandler(repo pointsRepo, sources sourceResolver, metrics *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		sources: sources,
		metrics: metrics,
		now:     time.Now,
	}
}

// DatasetResponse is the dataset GET payload: the requested window plus
// every point contained in it.
type DatasetResponse struct {
	DataSourceID string      `json:"dataSourceId"`
	MaxEndTimeNs string      `json:"maxEndTimeNs"`
	MinStartTime string      `json:"minStartTimeNs"`
	Point        []DataPoint `json:"point"`
}

// DatasetPatchRequest carries the points of a dataset PATCH. The window
// fields are accepted but the dataset id path segment is authoritative.
type DatasetPatchRequest struct {
	DataSourceID string      `json:"dataSourceId,omitempty"`
	MinStartTime string      `json:"minStartTimeNs,omitempty"`
	MaxEndTimeNs string      `json:"maxEndTimeNs,omitempty"`
	Point        []DataPoint `json:"point"`
}

func (h *Handler) HandleGetDataset(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dataset.get")
	defer span.End()

	identity, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	dataStreamID := vars["dataSourceId"]
	datasetID := vars["datasetId"]
	span.SetAttributes(attribute.String("dataset.id", datasetID))

	startNanos, endNanos, err := ParseDatasetID(datasetID)
	if err != nil {
		pkg.WriteJSONError(w, "Invalid dataset ID format", http.StatusBadRequest)
		return
	}

	source, err := h.sources.GetByStreamID(ctx, identity.ID, dataStreamID)
	if err != nil {
		if errors.Is(err, datasource.ErrSourceNotFound) {
			pkg.WriteJSONError(w, "Data source not found", http.StatusNotFound)
			return
		}
		log.Errorf("get dataset %s, resolve source: %s", datasetID, err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	records, err := h.repo.ListRange(ctx, identity.ID, source.ID, startNanos, endNanos)
	if err != nil {
		log.Errorf("get dataset %s: %s", datasetID, err)
		pkg.WriteJSONError(w, "Failed to fetch data points", http.StatusInternalServerError)
		return
	}

	points := make([]DataPoint, 0, len(records))
	for i := range records {
		points = append(points, records[i].ToWire())
	}

	resp := DatasetResponse{
		DataSourceID: dataStreamID,
		MaxEndTimeNs: strconv.FormatInt(endNanos, 10),
		MinStartTime: strconv.FormatInt(startNanos, 10),
		Point:        points,
	}

	respBytes, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal dataset response: %s", err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (h *Handler) HandlePatchDataset(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dataset.patch")
	defer span.End()

	identity, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	dataStreamID := vars["dataSourceId"]
	datasetID := vars["datasetId"]

	if _, _, err := ParseDatasetID(datasetID); err != nil {
		pkg.WriteJSONError(w, "Invalid dataset ID format", http.StatusBadRequest)
		return
	}

	var req DatasetPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	source, err := h.sources.GetByStreamID(ctx, identity.ID, dataStreamID)
	if err != nil {
		if errors.Is(err, datasource.ErrSourceNotFound) {
			pkg.WriteJSONError(w, "Data source not found", http.StatusNotFound)
			return
		}
		log.Errorf("patch dataset %s, resolve source: %s", datasetID, err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	now := h.now()
	records := make([]*Record, 0, len(req.Point))
	for i := range req.Point {
		rec, err := req.Point[i].ToRecord(identity.ID, source.ID, now)
		if err != nil {
			pkg.WriteJSONError(w, "Invalid data point format", http.StatusBadRequest)
			return
		}
		records = append(records, rec)
	}

	// Points of one batch are upserted concurrently. The upsert key is
	// the sole guard, partial success is possible and not rolled back.
	var (
		wg      sync.WaitGroup
		errsMux sync.Mutex
		upsErr  error
	)
	for _, rec := range records {
		wg.Add(1)
		go func(rec *Record) {
			defer wg.Done()
			if err := h.repo.Upsert(ctx, rec); err != nil {
				errsMux.Lock()
				upsErr = multierr.Append(upsErr, err)
				errsMux.Unlock()
			}
		}(rec)
	}
	wg.Wait()

	if upsErr != nil {
		log.Errorf("patch dataset %s: %s", datasetID, upsErr)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.metrics.CounterDataPointsUpserted.Add(float64(len(records)))

	pkg.WriteJSONResponseOK(w, `{"message":"Data points updated successfully"}`)
}
