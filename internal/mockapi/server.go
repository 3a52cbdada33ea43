package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/transitland-client/internal/models"
)

// Server exposes the store over the Transitland REST surface. Error bodies
// use the production server's {"detail": "..."} shape so the client's
// error parsing works unchanged against it.
type Server struct {
	store *Store
}

// NewServer creates a server backed by the given store.
func NewServer(store *Store) *Server {
	return &Server{store: store}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/token", s.login)
	mux.HandleFunc("GET /users/me", s.currentUser)
	mux.HandleFunc("GET /buses", s.listBuses)
	mux.HandleFunc("GET /buses/{id}", s.getBus)
	mux.HandleFunc("PUT /buses/{id}/mileage", s.updateMileage)
	mux.HandleFunc("GET /work-orders", s.listWorkOrders)
	mux.HandleFunc("POST /work-orders", s.createWorkOrder)
	mux.HandleFunc("PUT /work-orders/{id}/fix", s.fixWorkOrder)
	mux.HandleFunc("GET /work-orders/{id}/used-parts", s.listUsedParts)
	mux.HandleFunc("POST /work-orders/{id}/used-parts", s.addUsedPart)
	mux.HandleFunc("GET /inventory", s.listInventory)

	return logRequests(mux)
}

// logRequests logs each request at debug level.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Debug("request")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid form body")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		writeDetail(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	token, err := s.store.Authenticate(username, password)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	writeJSON(w, http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) listBuses(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.store.Buses(r.URL.Query().Get("garage")))
}

func (s *Server) getBus(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}
	bus, err := s.store.Bus(r.PathValue("id"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Bus not found")
		return
	}
	writeJSON(w, http.StatusOK, bus)
}

func (s *Server) updateMileage(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}

	mileage, err := strconv.Atoi(r.URL.Query().Get("mileage"))
	if err != nil || mileage < 0 {
		writeDetail(w, http.StatusBadRequest, "Mileage must be a non-negative integer")
		return
	}

	busID := r.PathValue("id")
	if err := s.store.UpdateMileage(busID, mileage); err != nil {
		writeDetail(w, http.StatusNotFound, "Bus not found")
		return
	}

	bus, err := s.store.Bus(busID)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Bus not found")
		return
	}
	writeJSON(w, http.StatusOK, bus)
}

func (s *Server) listWorkOrders(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.store.WorkOrders())
}

func (s *Server) createWorkOrder(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}

	var req models.CreateWorkOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.BusID == "" || req.Description == "" {
		writeDetail(w, http.StatusBadRequest, "Bus ID and description are required")
		return
	}
	if _, err := s.store.Bus(req.BusID); err != nil {
		writeDetail(w, http.StatusNotFound, "Bus not found")
		return
	}

	wo, err := s.store.CreateWorkOrder(req)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Failed to create work order")
		return
	}
	writeJSON(w, http.StatusCreated, wo)
}

func (s *Server) fixWorkOrder(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid work order ID")
		return
	}
	if err := s.store.FixWorkOrder(id); err != nil {
		writeDetail(w, http.StatusNotFound, "Work order not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Work order fixed"})
}

func (s *Server) listUsedParts(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid work order ID")
		return
	}
	writeJSON(w, http.StatusOK, s.store.UsedParts(id))
}

func (s *Server) addUsedPart(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid work order ID")
		return
	}

	var req models.AddUsedPartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	part, err := s.store.AddUsedPart(user, id, req)
	if err != nil {
		writeDetail(w, statusForPartError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, part)
}

func (s *Server) listInventory(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	garage := r.URL.Query().Get("garage")
	items, err := s.store.Inventory(user, garage)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// authenticate resolves the bearer token. On failure it writes the 401
// itself and returns ok=false.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return models.User{}, false
	}

	user, err := s.store.UserByToken(token)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return models.User{}, false
	}
	return user, true
}

func statusForPartError(err error) int {
	switch {
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
