package payplan

import (
	"context"
	"errors"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/ledger"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/payplan"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/representative"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/validator"
)

type PayPlanServiceImpl struct {
	txManager      ledger.TransactionManager
	payPlanRepo    payplan.PayPlanRepository
	officePlanRepo payplan.OfficePlanRepository
	repRepo        representative.RepresentativeRepository
}

func NewPayPlanService(
	txManager ledger.TransactionManager,
	payPlanRepo payplan.PayPlanRepository,
	officePlanRepo payplan.OfficePlanRepository,
	repRepo representative.RepresentativeRepository,
) payplan.PayPlanService {
	return &PayPlanServiceImpl{
		txManager:      txManager,
		payPlanRepo:    payPlanRepo,
		officePlanRepo: officePlanRepo,
		repRepo:        repRepo,
	}
}

// GetPayPlan returns the representative's plan for the period, or the
// zero default when none is configured. Only an unknown representative
// is an error.
func (s *PayPlanServiceImpl) GetPayPlan(ctx context.Context, representativeID string, month, year int) (*payplan.PayPlanResponse, error) {
	if _, err := s.repRepo.GetByID(ctx, representativeID); err != nil {
		return nil, err
	}

	plan, err := s.payPlanRepo.GetByRepresentativeAndPeriod(ctx, representativeID, month, year)
	if err != nil {
		if errors.Is(err, payplan.ErrPayPlanNotFound) {
			resp := mapToPayPlanResponse(payplan.DefaultPayPlan(representativeID, month, year), true)
			return &resp, nil
		}
		return nil, err
	}

	resp := mapToPayPlanResponse(plan, false)
	return &resp, nil
}

func (s *PayPlanServiceImpl) UpsertPayPlan(ctx context.Context, representativeID string, month, year int, req payplan.UpsertPayPlanRequest) (*payplan.PayPlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repRepo.GetByID(ctx, representativeID); err != nil {
		return nil, err
	}

	// Parent row and item rewrite land in one transaction.
	var saved *payplan.PayPlan
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		saved, err = s.payPlanRepo.Upsert(txCtx, &payplan.PayPlan{
			RepresentativeID: representativeID,
			PeriodMonth:      month,
			PeriodYear:       year,
			BaseSalary:       req.BaseSalary,
			LineItems:        req.LineItems,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := mapToPayPlanResponse(saved, false)
	return &resp, nil
}

// GetOfficePlan returns the office's tier table for the period, or the
// empty default when none is configured. An office that has never been
// set up is not an error; it just earns no tier bonus.
func (s *PayPlanServiceImpl) GetOfficePlan(ctx context.Context, office string, month, year int) (*payplan.OfficePlanResponse, error) {
	if !validator.IsValidOffice(office) {
		return nil, validator.ValidationErrors{
			{Field: "office", Message: "Office name is invalid"},
		}
	}

	tiers, err := s.officePlanRepo.GetTiers(ctx, office, month, year)
	if err != nil {
		if errors.Is(err, payplan.ErrOfficePlanNotFound) {
			resp := mapToOfficePlanResponse(payplan.DefaultOfficePlan(office, month, year), true)
			return &resp, nil
		}
		return nil, err
	}

	return &payplan.OfficePlanResponse{
		Office:      office,
		PeriodMonth: month,
		PeriodYear:  year,
		Tiers:       tiers,
	}, nil
}

func (s *PayPlanServiceImpl) UpsertOfficePlan(ctx context.Context, office string, month, year int, req payplan.UpsertOfficePlanRequest) (*payplan.OfficePlanResponse, error) {
	if !validator.IsValidOffice(office) {
		return nil, validator.ValidationErrors{
			{Field: "office", Message: "Office name is invalid"},
		}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var saved *payplan.OfficePlan
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		saved, err = s.officePlanRepo.Upsert(txCtx, &payplan.OfficePlan{
			Office:      office,
			PeriodMonth: month,
			PeriodYear:  year,
			Tiers:       req.Tiers,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := mapToOfficePlanResponse(saved, false)
	return &resp, nil
}

func mapToPayPlanResponse(plan *payplan.PayPlan, isDefault bool) payplan.PayPlanResponse {
	items := plan.LineItems
	if items == nil {
		items = []payplan.LineItem{}
	}
	resp := payplan.PayPlanResponse{
		RepresentativeID: plan.RepresentativeID,
		PeriodMonth:      plan.PeriodMonth,
		PeriodYear:       plan.PeriodYear,
		BaseSalary:       plan.BaseSalary,
		LineItems:        items,
		IsDefault:        isDefault,
	}
	if !isDefault {
		updatedAt := plan.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

func mapToOfficePlanResponse(plan *payplan.OfficePlan, isDefault bool) payplan.OfficePlanResponse {
	tiers := plan.Tiers
	if tiers == nil {
		tiers = []payplan.Tier{}
	}
	resp := payplan.OfficePlanResponse{
		Office:      plan.Office,
		PeriodMonth: plan.PeriodMonth,
		PeriodYear:  plan.PeriodYear,
		Tiers:       tiers,
		IsDefault:   isDefault,
	}
	if !isDefault {
		updatedAt := plan.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
