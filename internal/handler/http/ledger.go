package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/audit"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/ledger"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/handler/http/response"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/jwt"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/sse"
)

type LedgerHandler interface {
	// Generation
	Generate(w http.ResponseWriter, r *http.Request)

	// Entries
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reopen(w http.ResponseWriter, r *http.Request)

	// Summary
	Summary(w http.ResponseWriter, r *http.Request)

	// SSE
	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Events(w http.ResponseWriter, r *http.Request)
}

type ledgerHandlerImpl struct {
	ledgerService ledger.LedgerService
	auditService  audit.AuditService
	jwtService    jwt.Service
	hub           *sse.Hub
}

func NewLedgerHandler(ledgerService ledger.LedgerService, auditService audit.AuditService, jwtService jwt.Service, hub *sse.Hub) LedgerHandler {
	return &ledgerHandlerImpl{
		ledgerService: ledgerService,
		auditService:  auditService,
		jwtService:    jwtService,
		hub:           hub,
	}
}

// getActorFromRequest extracts the acting user from JWT context.
func getActorFromRequest(r *http.Request) (string, string) {
	_, claims, _ := jwtauth.FromContext(r.Context())
	actorID, _ := claims["user_id"].(string)
	actorName, _ := claims["name"].(string)
	if actorName == "" {
		actorName, _ = claims["email"].(string)
	}
	return actorID, actorName
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// ========== GENERATION ==========

func (h *ledgerHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req ledger.GenerateLedgerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.ledgerService.Generate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	actorID, actorName := getActorFromRequest(r)
	h.auditService.Record(r.Context(), audit.AuditEntry{
		RunID:       &result.RunID,
		ActorID:     actorID,
		ActorName:   actorName,
		Action:      audit.ActionLedgerGenerate,
		PeriodMonth: &result.PeriodMonth,
		PeriodYear:  &result.PeriodYear,
		Detail: map[string]interface{}{
			"entry_count":    len(result.Entries),
			"unmatched":      len(result.UnmatchedNames),
			"approved_drift": len(result.ApprovedDrift),
		},
	})

	response.SuccessWithMessage(w, "Ledger generated", result)
}

// ========== ENTRIES ==========

func (h *ledgerHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := ledger.LedgerFilter{
		Page:      1,
		Limit:     20,
		SortBy:    "representative_name",
		SortOrder: "asc",
	}

	filter.Month = getIntQueryParam(r, "month", 0)
	filter.Year = getIntQueryParam(r, "year", 0)
	filter.Page = getIntQueryParam(r, "page", 1)
	filter.Limit = getIntQueryParam(r, "limit", 20)
	if repID := r.URL.Query().Get("representative_id"); repID != "" {
		filter.RepresentativeID = repID
	}
	if office := r.URL.Query().Get("office"); office != "" {
		filter.Office = office
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = status
	}
	if sortBy := r.URL.Query().Get("sort_by"); sortBy != "" {
		filter.SortBy = sortBy
	}
	if sortOrder := r.URL.Query().Get("sort_order"); sortOrder != "" {
		filter.SortOrder = sortOrder
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	entries, total, err := h.ledgerService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit > 0 {
		totalPages++
	}

	response.SuccessWithMeta(w, entries, &response.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

func (h *ledgerHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Entry ID is required", nil)
		return
	}

	result, err := h.ledgerService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *ledgerHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Entry ID is required", nil)
		return
	}

	var req ledger.UpdateLedgerEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.ledgerService.Update(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	actorID, actorName := getActorFromRequest(r)
	detail := map[string]interface{}{}
	if req.CancellationDeduction != nil {
		detail["cancellation_deduction"] = req.CancellationDeduction.String()
	}
	if req.Adjustment != nil {
		detail["adjustment"] = req.Adjustment.String()
	}
	if req.Notes != nil {
		detail["notes_changed"] = true
	}
	h.auditService.Record(r.Context(), audit.AuditEntry{
		ActorID:     actorID,
		ActorName:   actorName,
		Action:      audit.ActionLedgerOverride,
		EntityID:    &id,
		PeriodMonth: &result.PeriodMonth,
		PeriodYear:  &result.PeriodYear,
		Detail:      detail,
	})

	response.Success(w, result)
}

func (h *ledgerHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	var req ledger.ApproveLedgerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	count, err := h.ledgerService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	actorID, actorName := getActorFromRequest(r)
	h.auditService.Record(r.Context(), audit.AuditEntry{
		ActorID:   actorID,
		ActorName: actorName,
		Action:    audit.ActionLedgerApprove,
		Detail: map[string]interface{}{
			"requested": len(req.EntryIDs),
			"approved":  count,
		},
	})

	response.SuccessWithMessage(w, "Entries approved", map[string]interface{}{
		"approved_count": count,
	})
}

func (h *ledgerHandlerImpl) Reopen(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Entry ID is required", nil)
		return
	}

	result, err := h.ledgerService.Reopen(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	actorID, actorName := getActorFromRequest(r)
	h.auditService.Record(r.Context(), audit.AuditEntry{
		ActorID:     actorID,
		ActorName:   actorName,
		Action:      audit.ActionLedgerReopen,
		EntityID:    &id,
		PeriodMonth: &result.PeriodMonth,
		PeriodYear:  &result.PeriodYear,
	})

	response.Success(w, result)
}

// ========== SUMMARY ==========

func (h *ledgerHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	month := getIntQueryParam(r, "month", int(now.Month()))
	year := getIntQueryParam(r, "year", now.Year())

	result, err := h.ledgerService.Summary(r.Context(), month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== SSE ==========

// GetSSEToken generates a short-lived token for SSE connections
func (h *ledgerHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	userID, _ := getActorFromRequest(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(userID)
	if err != nil {
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, ledger.SSETokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Events streams ledger activity over SSE: generation runs, entry
// edits, approvals and reopens.
func (h *ledgerHandlerImpl) Events(w http.ResponseWriter, r *http.Request) {
	// Get token from query parameter (SSE doesn't support custom headers)
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	events, cleanup := h.hub.Subscribe(sse.TopicLedger)
	defer cleanup()

	// Send initial connection event
	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"user_id\":\"%s\"}\n\n", userID)
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			// Send keepalive ping
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
