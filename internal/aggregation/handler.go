package aggregation

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=aggregation_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/healthyduck/fitnessapi/internal/auth"
	"github.com/healthyduck/fitnessapi/internal/datapoint"
	"github.com/healthyduck/fitnessapi/internal/telemetry/metrics"
	"github.com/healthyduck/fitnessapi/internal/telemetry/tracing"
	"github.com/healthyduck/fitnessapi/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const defaultDailyDays = 7

type pointsSource interface {
	ListForAggregation(
		ctx context.Context,
		userID string,
		dataTypeName string,
		dataStreamID string,
		startNanos, endNanos int64,
	) ([]datapoint.Record, error)
}

type Handler struct {
	points  pointsSource
	metrics *metrics.Manager
	now     func() time.Time
}

func NewHandler(points pointsSource, metrics *metrics.Manager) *Handler {
	return &Handler{
		points:  points,
		metrics: metrics,
		now:     time.Now,
	}
}

// Request is the generic aggregation payload: which metrics to fold,
// the bucket width, and the overall window in epoch millis.
type Request struct {
	AggregateBy  []Metric `json:"aggregateBy"`
	BucketByTime struct {
		DurationMillis int64 `json:"durationMillis"`
	} `json:"bucketByTime"`
	StartTimeMillis int64  `json:"startTimeMillis"`
	EndTimeMillis   int64  `json:"endTimeMillis"`
	DataTypeName    string `json:"dataTypeName,omitempty"`
	DataSourceID    string `json:"dataSourceId,omitempty"`
}

type Response struct {
	Bucket []Bucket `json:"bucket"`
}

type DailyResponse struct {
	Aggregates []DailyAggregate `json:"aggregates"`
	DataType   string           `json:"dataType"`
	Period     string           `json:"period"`
}

func (h *Handler) HandleAggregate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.aggregation.aggregate")
	defer span.End()

	identity, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.BucketByTime.DurationMillis <= 0 {
		pkg.WriteJSONError(w, "Invalid bucket duration", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.Int64("aggregation.duration_millis", req.BucketByTime.DurationMillis))

	records, err := h.points.ListForAggregation(
		ctx, identity.ID,
		req.DataTypeName, req.DataSourceID,
		req.StartTimeMillis*int64(time.Millisecond),
		req.EndTimeMillis*int64(time.Millisecond),
	)
	if err != nil {
		log.Errorf("aggregate for %s: %s", identity.ID, err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	buckets := BucketByDuration(records, req.BucketByTime.DurationMillis, req.AggregateBy)
	h.metrics.CounterAggregationRuns.Inc()

	respBytes, err := json.Marshal(Response{Bucket: buckets})
	if err != nil {
		log.Errorf("marshal aggregation response: %s", err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (h *Handler) HandleAggregateDaily(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.aggregation.daily")
	defer span.End()

	identity, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	days := defaultDailyDays
	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		var err error
		if days, err = strconv.Atoi(daysParam); err != nil || days <= 0 {
			pkg.WriteJSONError(w, "Invalid days parameter", http.StatusBadRequest)
			return
		}
	}
	dataType := r.URL.Query().Get("dataType")
	if dataType == "" {
		dataType = DefaultDataType
	}
	span.SetAttributes(
		attribute.Int("aggregation.days", days),
		attribute.String("aggregation.data_type", dataType),
	)

	now := h.now()
	startNanos := now.Add(-time.Duration(days)*24*time.Hour).UnixMilli() * int64(time.Millisecond)
	endNanos := now.UnixMilli() * int64(time.Millisecond)

	records, err := h.points.ListForAggregation(ctx, identity.ID, dataType, "", startNanos, endNanos)
	if err != nil {
		log.Errorf("daily aggregate for %s: %s", identity.ID, err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := DailyResponse{
		Aggregates: AggregateDaily(records, days, now),
		DataType:   dataType,
		Period:     fmt.Sprintf("%d days", days),
	}
	h.metrics.CounterAggregationRuns.Inc()

	respBytes, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal daily aggregation response: %s", err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}
