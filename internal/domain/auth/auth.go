package auth

// Role is the access level carried in tokens issued by the order
// management platform. This service never issues access tokens itself,
// it only verifies them against the shared signing secret.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
)

// CanReview reports whether the role may generate ledgers, edit plans
// and review entries. Everyone else is read only.
func CanReview(role Role) bool {
	return role == RoleAdmin || role == RoleManager
}
