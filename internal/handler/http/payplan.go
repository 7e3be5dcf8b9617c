package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/audit"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/payplan"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/handler/http/response"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/validator"
)

type PayPlanHandler interface {
	// Pay plans
	GetPayPlan(w http.ResponseWriter, r *http.Request)
	UpsertPayPlan(w http.ResponseWriter, r *http.Request)

	// Office plans
	GetOfficePlan(w http.ResponseWriter, r *http.Request)
	UpsertOfficePlan(w http.ResponseWriter, r *http.Request)
}

type payPlanHandlerImpl struct {
	payPlanService payplan.PayPlanService
	auditService   audit.AuditService
}

func NewPayPlanHandler(payPlanService payplan.PayPlanService, auditService audit.AuditService) PayPlanHandler {
	return &payPlanHandlerImpl{
		payPlanService: payPlanService,
		auditService:   auditService,
	}
}

// periodFromQuery reads the month and year query parameters. Reads may
// omit the pair and get the current UTC period; writes must name the
// period they touch.
func periodFromQuery(r *http.Request, required bool) (int, int, bool) {
	monthStr := r.URL.Query().Get("month")
	yearStr := r.URL.Query().Get("year")

	if monthStr == "" && yearStr == "" && !required {
		now := time.Now().UTC()
		return int(now.Month()), now.Year(), true
	}

	month, errMonth := strconv.Atoi(monthStr)
	year, errYear := strconv.Atoi(yearStr)
	if errMonth != nil || errYear != nil || !validator.IsValidPeriod(month, year) {
		return 0, 0, false
	}

	return month, year, true
}

// ========== PAY PLANS ==========

func (h *payPlanHandlerImpl) GetPayPlan(w http.ResponseWriter, r *http.Request) {
	representativeID := chi.URLParam(r, "representativeId")
	if representativeID == "" {
		response.BadRequest(w, "Representative ID is required", nil)
		return
	}

	month, year, ok := periodFromQuery(r, false)
	if !ok {
		response.BadRequest(w, "Month must be between 1 and 12 and year between 2000 and 2100", nil)
		return
	}

	result, err := h.payPlanService.GetPayPlan(r.Context(), representativeID, month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payPlanHandlerImpl) UpsertPayPlan(w http.ResponseWriter, r *http.Request) {
	representativeID := chi.URLParam(r, "representativeId")
	if representativeID == "" {
		response.BadRequest(w, "Representative ID is required", nil)
		return
	}

	month, year, ok := periodFromQuery(r, true)
	if !ok {
		response.BadRequest(w, "A valid month and year are required", nil)
		return
	}

	var req payplan.UpsertPayPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payPlanService.UpsertPayPlan(r.Context(), representativeID, month, year, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	actorID, actorName := getActorFromRequest(r)
	h.auditService.Record(r.Context(), audit.AuditEntry{
		ActorID:     actorID,
		ActorName:   actorName,
		Action:      audit.ActionPayPlanSave,
		EntityID:    &representativeID,
		PeriodMonth: &month,
		PeriodYear:  &year,
		Detail: map[string]interface{}{
			"base_salary":     req.BaseSalary.String(),
			"line_item_count": len(req.LineItems),
		},
	})

	response.Success(w, result)
}

// ========== OFFICE PLANS ==========

func (h *payPlanHandlerImpl) GetOfficePlan(w http.ResponseWriter, r *http.Request) {
	office := chi.URLParam(r, "office")
	if office == "" {
		response.BadRequest(w, "Office is required", nil)
		return
	}

	month, year, ok := periodFromQuery(r, false)
	if !ok {
		response.BadRequest(w, "Month must be between 1 and 12 and year between 2000 and 2100", nil)
		return
	}

	result, err := h.payPlanService.GetOfficePlan(r.Context(), office, month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payPlanHandlerImpl) UpsertOfficePlan(w http.ResponseWriter, r *http.Request) {
	office := chi.URLParam(r, "office")
	if office == "" {
		response.BadRequest(w, "Office is required", nil)
		return
	}

	month, year, ok := periodFromQuery(r, true)
	if !ok {
		response.BadRequest(w, "A valid month and year are required", nil)
		return
	}

	var req payplan.UpsertOfficePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payPlanService.UpsertOfficePlan(r.Context(), office, month, year, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	actorID, actorName := getActorFromRequest(r)
	h.auditService.Record(r.Context(), audit.AuditEntry{
		ActorID:     actorID,
		ActorName:   actorName,
		Action:      audit.ActionOfficePlanSave,
		EntityID:    &office,
		PeriodMonth: &month,
		PeriodYear:  &year,
		Detail: map[string]interface{}{
			"tier_count": len(req.Tiers),
		},
	})

	response.Success(w, result)
}
