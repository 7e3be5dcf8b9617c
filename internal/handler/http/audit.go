package http

import (
	"net/http"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/audit"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/handler/http/response"
)

type AuditHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type auditHandlerImpl struct {
	auditService audit.AuditService
}

func NewAuditHandler(auditService audit.AuditService) AuditHandler {
	return &auditHandlerImpl{auditService: auditService}
}

func (h *auditHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	month := getIntQueryParam(r, "month", 0)
	year := getIntQueryParam(r, "year", 0)
	limit := getIntQueryParam(r, "limit", 50)

	entries, err := h.auditService.ListByPeriod(r.Context(), month, year, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}
