package models

// Role represents user roles in the system
type Role string

const (
	RoleOperationManager Role = "Operation Manager"
	RoleMaintenance      Role = "Maintenance"
)

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleOperationManager, RoleMaintenance:
		return true
	default:
		return false
	}
}

// Garage represents a fleet depot, also used as an inventory stocking location
type Garage string

const (
	GarageNorth Garage = "North"
	GarageSouth Garage = "South"
)

// User represents the authenticated identity for a session
type User struct {
	ID             int     `json:"id"`
	Email          string  `json:"email"`
	Role           Role    `json:"role"`
	AssignedGarage *Garage `json:"assigned_garage"` // nil for operation managers
}

// DisplayName returns the part of the email before the @, matching how
// the web UI greets the user.
func (u User) DisplayName() string {
	for i := 0; i < len(u.Email); i++ {
		if u.Email[i] == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}

// TokenResponse represents a successful login response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
