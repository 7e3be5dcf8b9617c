package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/representative"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/handler/http/response"
)

type RepresentativeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Offices(w http.ResponseWriter, r *http.Request)
}

type representativeHandlerImpl struct {
	repService representative.RepresentativeService
}

func NewRepresentativeHandler(repService representative.RepresentativeService) RepresentativeHandler {
	return &representativeHandlerImpl{repService: repService}
}

func (h *representativeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := representative.RepresentativeFilter{
		Page:      getIntQueryParam(r, "page", 1),
		Limit:     getIntQueryParam(r, "limit", 20),
		Office:    r.URL.Query().Get("office"),
		Status:    r.URL.Query().Get("status"),
		Search:    r.URL.Query().Get("search"),
		SortBy:    r.URL.Query().Get("sort_by"),
		SortOrder: r.URL.Query().Get("sort_order"),
	}

	// active=true/false is shorthand for the status filter.
	switch r.URL.Query().Get("active") {
	case "true":
		filter.Status = string(representative.StatusActive)
	case "false":
		filter.Status = string(representative.StatusInactive)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	reps, total, err := h.repService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := total / filter.Limit
	if total%filter.Limit > 0 {
		totalPages++
	}

	response.SuccessWithMeta(w, reps, &response.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: int64(total),
		TotalPages: totalPages,
	})
}

func (h *representativeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Representative ID is required", nil)
		return
	}

	result, err := h.repService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Offices lists the distinct office names on the roster. Office plan
// screens use it to know which offices can carry a tier table.
func (h *representativeHandlerImpl) Offices(w http.ResponseWriter, r *http.Request) {
	offices, err := h.repService.ListOffices(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, offices)
}
