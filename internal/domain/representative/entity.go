package representative

import (
	"time"
)

// Representative is a building sales representative as mirrored from
// the order management platform. Orders reference representatives by
// ID in direct mode; external sources only carry the free text sales
// person name, which is reconciled against FullName.
type Representative struct {
	ID        string
	FullName  string
	Email     string
	Office    string
	Status    Status
	HireDate  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)
