package representative

import "context"

type RepresentativeService interface {
	List(ctx context.Context, filter RepresentativeFilter) ([]RepresentativeResponse, int, error)
	GetByID(ctx context.Context, id string) (*RepresentativeResponse, error)
	ListOffices(ctx context.Context) ([]string, error)
}
