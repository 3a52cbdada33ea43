// Package session holds the authenticated identity for the life of a login
// and resolves what that identity is allowed to see and do. Role logic runs
// once here; every view consumes the resulting Capabilities declaratively.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ukydev/transitland-client/internal/models"
	"github.com/ukydev/transitland-client/internal/query"
)

var (
	ErrNoSession   = errors.New("no active session")
	ErrUnknownRole = errors.New("unknown role")
)

// Route identifies a client screen
type Route string

const (
	RouteDashboard  Route = "/"
	RouteFleet      Route = "/fleet"
	RouteWorkOrders Route = "/work-orders"
	RouteInventory  Route = "/inventory"
	RouteBusDetail  Route = "/bus"
)

// NavItem is one entry in the navigation sidebar
type NavItem struct {
	Route Route
	Label string
}

// Capabilities is the view configuration resolved once per session: nav
// entries in display order, the landing route, the default garage filter
// and the actions the role may take.
type Capabilities struct {
	Nav                []NavItem
	Landing            Route
	DefaultGarage      string // query.All or a garage name
	CanCreateWorkOrder bool
	CanAddUsedPart     bool
	CanMarkFixed       bool
}

// Resolve computes the capabilities for a user. Operation managers land on
// the dashboard and see four nav entries; maintenance technicians land on
// work orders, see three entries and default their data views to the
// assigned garage.
func Resolve(user models.User) (Capabilities, error) {
	switch user.Role {
	case models.RoleOperationManager:
		return Capabilities{
			Nav: []NavItem{
				{Route: RouteDashboard, Label: "Dashboard"},
				{Route: RouteFleet, Label: "Fleet"},
				{Route: RouteWorkOrders, Label: "Work Orders"},
				{Route: RouteInventory, Label: "Inventory"},
			},
			Landing:       RouteDashboard,
			DefaultGarage: query.All,
			CanMarkFixed:  true,
		}, nil
	case models.RoleMaintenance:
		garage := query.All
		if user.AssignedGarage != nil {
			garage = string(*user.AssignedGarage)
		}
		return Capabilities{
			Nav: []NavItem{
				{Route: RouteWorkOrders, Label: "Work Orders"},
				{Route: RouteInventory, Label: "Inventory"},
				{Route: RouteFleet, Label: "Fleet"},
			},
			Landing:            RouteWorkOrders,
			DefaultGarage:      garage,
			CanCreateWorkOrder: true,
			CanAddUsedPart:     true,
			CanMarkFixed:       true,
		}, nil
	default:
		return Capabilities{}, ErrUnknownRole
	}
}

// ResolveRoute maps a requested route to the one the role may actually
// visit. The dashboard is not reachable for maintenance technicians; a
// direct request redirects to work orders.
func (c Capabilities) ResolveRoute(requested Route) Route {
	for _, item := range c.Nav {
		if item.Route == requested {
			return requested
		}
	}
	if requested == RouteBusDetail {
		return requested
	}
	return c.Landing
}

// Session is the client-side login state: the bearer token and the
// identity it authenticates. Created on successful login, discarded on
// logout; nothing is persisted.
type Session struct {
	token string
	user  models.User
	caps  Capabilities
}

// New creates a session for a freshly authenticated user
func New(token string, user models.User) (*Session, error) {
	caps, err := Resolve(user)
	if err != nil {
		return nil, err
	}
	return &Session{token: token, user: user, caps: caps}, nil
}

// Token returns the bearer token for request attachment.
func (s *Session) Token() string {
	return s.token
}

// User returns the authenticated identity.
func (s *Session) User() models.User {
	return s.user
}

// Capabilities returns the resolved view configuration.
func (s *Session) Capabilities() Capabilities {
	return s.caps
}

// ExpiresAt reports the token's expiry claim when the token is a JWT
// carrying one. Opaque tokens (the API may issue plain strings) report
// false and never expire client-side; the server remains authoritative.
func (s *Session) ExpiresAt() (time.Time, bool) {
	token, _, err := jwt.NewParser().ParseUnverified(s.token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether the token carries an expiry claim in the past.
func (s *Session) Expired(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	return ok && now.After(exp)
}
