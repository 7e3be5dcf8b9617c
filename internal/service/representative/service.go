package representative

import (
	"context"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/representative"
)

type RepresentativeServiceImpl struct {
	repRepo representative.RepresentativeRepository
}

func NewRepresentativeService(repRepo representative.RepresentativeRepository) representative.RepresentativeService {
	return &RepresentativeServiceImpl{repRepo: repRepo}
}

func (s *RepresentativeServiceImpl) List(ctx context.Context, filter representative.RepresentativeFilter) ([]representative.RepresentativeResponse, int, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	reps, total, err := s.repRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]representative.RepresentativeResponse, 0, len(reps))
	for _, rep := range reps {
		responses = append(responses, mapToRepresentativeResponse(rep))
	}

	return responses, total, nil
}

func (s *RepresentativeServiceImpl) GetByID(ctx context.Context, id string) (*representative.RepresentativeResponse, error) {
	rep, err := s.repRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := mapToRepresentativeResponse(*rep)
	return &resp, nil
}

func (s *RepresentativeServiceImpl) ListOffices(ctx context.Context) ([]string, error) {
	return s.repRepo.ListOffices(ctx)
}

func mapToRepresentativeResponse(rep representative.Representative) representative.RepresentativeResponse {
	return representative.RepresentativeResponse{
		ID:        rep.ID,
		FullName:  rep.FullName,
		Email:     rep.Email,
		Office:    rep.Office,
		Status:    string(rep.Status),
		HireDate:  rep.HireDate,
		CreatedAt: rep.CreatedAt,
		UpdatedAt: rep.UpdatedAt,
	}
}
