package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"go-healthcare-records/internal/delivery/http/middleware"
	"go-healthcare-records/internal/domain/entity"
	"go-healthcare-records/internal/store"
	"go-healthcare-records/internal/usecase"
	"go-healthcare-records/pkg/response"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

// RecordHandler serves create, read, update and delete for every record kind
// under /{kind} and /{kind}/{id}.
type RecordHandler struct {
	recordUsecase usecase.RecordUsecase
	log           *logrus.Logger
}

func NewRecordHandler(recordUsecase usecase.RecordUsecase, log *logrus.Logger) *RecordHandler {
	return &RecordHandler{
		recordUsecase: recordUsecase,
		log:           log,
	}
}

func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromPath(w, r)
	if !ok {
		return
	}

	body, ok := readBody(w, r)
	if !ok {
		return
	}

	rec, err := h.recordUsecase.Create(r.Context(), middleware.ActorID(r.Context()), kind, body)
	if err != nil {
		h.writeError(w, err, "Failed to create record")
		return
	}

	response.Success(w, http.StatusCreated, "Record created successfully", rec)
}

func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromPath(w, r)
	if !ok {
		return
	}
	id, ok := idFromPath(w, r)
	if !ok {
		return
	}

	rec, err := h.recordUsecase.Get(r.Context(), kind, id)
	if err != nil {
		h.writeError(w, err, "Failed to get record")
		return
	}

	response.Success(w, http.StatusOK, "Record retrieved successfully", rec)
}

// List accepts page and limit plus foreign key equality filters, e.g.
// GET /appointments?doctor_id=2&page=1&limit=20.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromPath(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	filter := &entity.RecordFilter{Kind: kind, Page: page, Limit: limit}
	for field, values := range query {
		if field == "page" || field == "limit" || len(values) == 0 {
			continue
		}
		id, err := strconv.ParseInt(values[0], 10, 64)
		if err != nil {
			response.BadRequest(w, "Invalid filter value", map[string]string{field: "must be an integer id"})
			return
		}
		if filter.Equals == nil {
			filter.Equals = make(map[string]int64)
		}
		filter.Equals[field] = id
	}

	result, err := h.recordUsecase.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, err, "Failed to list records")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Records retrieved successfully", result.Records,
		response.NewMeta(result.Page, result.Limit, result.Total))
}

// Update merges the JSON body into the stored record. Omitted attributes keep
// their value.
func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromPath(w, r)
	if !ok {
		return
	}
	id, ok := idFromPath(w, r)
	if !ok {
		return
	}

	body, ok := readBody(w, r)
	if !ok {
		return
	}

	rec, err := h.recordUsecase.Update(r.Context(), middleware.ActorID(r.Context()), kind, id, body)
	if err != nil {
		h.writeError(w, err, "Failed to update record")
		return
	}

	response.Success(w, http.StatusOK, "Record updated successfully", rec)
}

func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromPath(w, r)
	if !ok {
		return
	}
	id, ok := idFromPath(w, r)
	if !ok {
		return
	}

	result, err := h.recordUsecase.Delete(r.Context(), middleware.ActorID(r.Context()), kind, id)
	if err != nil {
		h.writeError(w, err, "Failed to delete record")
		return
	}

	response.Success(w, http.StatusOK, "Record deleted successfully", result)
}

// writeError maps store and usecase errors to HTTP statuses. Anything
// unrecognised is logged and reported as a 500 with fallback as message.
func (h *RecordHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	var (
		validationErr *store.ValidationError
		referenceErr  *store.ReferenceError
		uniqueErr     *store.UniquenessError
	)

	switch {
	case errors.As(err, &validationErr):
		response.ValidationError(w, map[string]string{validationErr.Field: validationErr.Message})
	case errors.As(err, &referenceErr):
		response.UnprocessableEntity(w, "Referenced record does not exist", map[string]string{
			referenceErr.Field: referenceErr.Error(),
		})
	case errors.As(err, &uniqueErr):
		response.Conflict(w, "Duplicate value", map[string]string{uniqueErr.Field: uniqueErr.Error()})
	case errors.Is(err, store.ErrNotFound):
		response.NotFound(w, "Record not found")
	case errors.Is(err, entity.ErrUnknownKind):
		response.NotFound(w, "Unknown record kind")
	case errors.Is(err, usecase.ErrInvalidBody), errors.Is(err, usecase.ErrInvalidFilter):
		response.BadRequest(w, err.Error(), nil)
	default:
		h.log.Errorf("%s: %+v", fallback, err)
		response.InternalServerError(w, fallback)
	}
}

func kindFromPath(w http.ResponseWriter, r *http.Request) (entity.Kind, bool) {
	kind, err := entity.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		response.NotFound(w, "Unknown record kind")
		return "", false
	}
	return kind, true
}

func idFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(w, "Invalid record ID", nil)
		return 0, false
	}
	return id, true
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return nil, false
	}
	return body, true
}
