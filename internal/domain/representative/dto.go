package representative

import (
	"time"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/validator"
)

type RepresentativeResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Office    string    `json:"office"`
	Status    string    `json:"status"`
	HireDate  time.Time `json:"hire_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RepresentativeFilter holds list filters and pagination.
type RepresentativeFilter struct {
	Office    string
	Status    string
	Search    string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

func (f *RepresentativeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != "" && !validator.IsInSlice(f.Status, []string{string(StatusActive), string(StatusInactive)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "Status must be one of: active, inactive",
		})
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	if f.SortBy != "" && !validator.IsInSlice(f.SortBy, []string{"full_name", "office", "hire_date", "created_at"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "sort_by",
			Message: "Sort by must be one of: full_name, office, hire_date, created_at",
		})
	}
	if f.SortOrder != "" && !validator.IsInSlice(f.SortOrder, []string{"asc", "desc"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "sort_order",
			Message: "Sort order must be asc or desc",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
