package domain

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleWorker   Role = "worker"
	RoleAdmin    Role = "admin"
)

// Profile mirrors the identity provider's user in the local store. The id
// is issued externally; this core only reads the role to gate access.
type Profile struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// CanSell reports whether the profile may use the cart and settlement
// flow. Customers browse only.
func (p Profile) CanSell() bool {
	return p.Role == RoleWorker || p.Role == RoleAdmin
}
