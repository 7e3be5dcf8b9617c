package representative

import "context"

type RepresentativeRepository interface {
	GetByID(ctx context.Context, id string) (*Representative, error)
	// ListActive returns every active, non deleted representative.
	// Generation runs over this roster.
	ListActive(ctx context.Context) ([]Representative, error)
	List(ctx context.Context, filter RepresentativeFilter) ([]Representative, int, error)
	// ListOffices returns the distinct office names on the roster,
	// sorted. Office plans are keyed by these.
	ListOffices(ctx context.Context) ([]string, error)
}
