package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/healthyduck/fitnessapi/internal/auth"
	"github.com/healthyduck/fitnessapi/internal/telemetry/tracing"
	"github.com/healthyduck/fitnessapi/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=datasource_test

type sourcesRepo interface {
	Add(ctx context.Context, rec *Record) (*Record, error)
	GetByStreamID(ctx context.Context, userID, dataStreamID string) (*Record, error)
	List(ctx context.Context, userID string) ([]Record, error)
	Delete(ctx context.Context, userID, dataStreamID string) error
}

type ListResponse struct {
	DataSource []DataSource `json:"dataSource"`
}

type DeleteResponse struct {
	Message string `json:"message"`
}

type Handler struct {
	repo sourcesRepo
}

func NewHandler(repo sourcesRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.datasource.list")
	defer span.End()

	identity, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	records, err := handler.repo.List(ctx, identity.ID)
	if err != nil {
		log.Errorf("list data sources for %s: %s", identity.ID, err)
		pkg.WriteJSONError(w, "Failed to fetch data sources", http.StatusInternalServerError)
		return
	}

	sources := make([]DataSource, 0, len(records))
	for i := range records {
		sources = append(sources, records[i].ToWire())
	}

	respJson, err := json.Marshal(ListResponse{DataSource: sources})
	if err != nil {
		log.Errorf("marshal data sources: %s", err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.datasource.new")
	defer span.End()

	identity, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	var source DataSource
	if err := json.NewDecoder(r.Body).Decode(&source); err != nil {
		log.Errorf("new data source, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if source.DataStreamID == "" || source.DataStreamName == "" ||
		source.Type == "" || source.DataType.Name == "" {
		pkg.WriteJSONError(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	added, err := handler.repo.Add(ctx, source.ToRecord(identity.ID))
	if err != nil {
		if errors.Is(err, ErrSourceExists) {
			pkg.WriteJSONError(w, "Data source already exists", http.StatusConflict)
			return
		}
		log.Errorf("failed to add data source [%s] for %s: %s", source.DataStreamID, identity.ID, err)
		pkg.WriteJSONError(w, "Failed to create data source", http.StatusInternalServerError)
		return
	}

	log.Debugf("new data source added: [%s] for user [%s]: %d", added.DataStreamID, added.UserID, added.ID)

	addedJson, err := json.Marshal(added.ToWire())
	if err != nil {
		log.Errorf("failed to marshal new data source: %s", err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.datasource.get")
	defer span.End()

	identity, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	dataSourceID := mux.Vars(r)["dataSourceId"]
	rec, err := handler.repo.GetByStreamID(ctx, identity.ID, dataSourceID)
	if err != nil {
		if errors.Is(err, ErrSourceNotFound) {
			pkg.WriteJSONError(w, "Data source not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get data source [%s] for %s: %s", dataSourceID, identity.ID, err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	recJson, err := json.Marshal(rec.ToWire())
	if err != nil {
		log.Errorf("failed to marshal data source: %s", err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, recJson)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.datasource.delete")
	defer span.End()

	identity, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	dataSourceID := mux.Vars(r)["dataSourceId"]
	if err := handler.repo.Delete(ctx, identity.ID, dataSourceID); err != nil {
		if errors.Is(err, ErrSourceNotFound) {
			pkg.WriteJSONError(w, "Data source not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete data source [%s] for %s: %s", dataSourceID, identity.ID, err)
		pkg.WriteJSONError(w, "Failed to delete data source", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(DeleteResponse{Message: "Data source deleted successfully"})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}
