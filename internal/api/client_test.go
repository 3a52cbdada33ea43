package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/transitland-client/internal/models"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestLogin_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "mike@transitland.com", r.PostFormValue("username"))
		assert.Equal(t, "mike", r.PostFormValue("password"))

		json.NewEncoder(w).Encode(models.TokenResponse{
			AccessToken: "mike@transitland.com",
			TokenType:   "bearer",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	token, err := client.Login(context.Background(), "mike@transitland.com", "mike")
	require.NoError(t, err)
	assert.Equal(t, "mike@transitland.com", token.AccessToken)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect username or password"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Login(context.Background(), "mike@transitland.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_ServerErrorIsNotCredentialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Login(context.Background(), "mike@transitland.com", "mike")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestBuses_AttachesBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "/buses", r.URL.Path)
		json.NewEncoder(w).Encode([]models.Bus{
			{ID: "B1", Model: "Volvo 9700", Status: models.StatusReady},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	client.SetTokenSource(staticToken("tok-123"))

	buses, err := client.Buses(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, buses, 1)
	assert.Equal(t, "B1", buses[0].ID)
}

func TestBuses_GarageFilterParam(t *testing.T) {
	var gotGarage string
	var hadParam bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotGarage = r.URL.Query().Get("garage")
		hadParam = r.URL.Query().Has("garage")
		json.NewEncoder(w).Encode([]models.Bus{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	_, err := client.Buses(context.Background(), "North")
	require.NoError(t, err)
	assert.Equal(t, "North", gotGarage)

	// "all" and empty suppress the parameter entirely.
	_, err = client.Buses(context.Background(), "all")
	require.NoError(t, err)
	assert.False(t, hadParam)
}

func TestCreateWorkOrder(t *testing.T) {
	sev := models.SeveritySEV2
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/work-orders", r.URL.Path)

		var req models.CreateWorkOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "B7", req.BusID)
		assert.Equal(t, "Brake wear", req.Description)
		require.NotNil(t, req.Severity)
		assert.Equal(t, sev, *req.Severity)

		json.NewEncoder(w).Encode(models.WorkOrder{
			ID: 42, BusID: req.BusID, Description: req.Description,
			Severity: req.Severity, Status: models.WorkOrderOpen, Date: time.Now().UTC(),
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	created, err := client.CreateWorkOrder(context.Background(), models.CreateWorkOrderRequest{
		BusID:       "B7",
		Description: "Brake wear",
		Severity:    &sev,
		ReportedBy:  "jeff@transitland.com",
	})
	require.NoError(t, err)
	assert.Equal(t, 42, created.ID)
	assert.Equal(t, models.WorkOrderOpen, created.Status)
}

func TestFixWorkOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/work-orders/7/fix", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"status": "fixed"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	assert.NoError(t, client.FixWorkOrder(context.Background(), 7))
}

func TestAddUsedPart_InjectsWorkOrderID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/work-orders/9/used-parts", r.URL.Path)

		var req models.AddUsedPartRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 9, req.WorkOrderID)
		assert.Equal(t, 4, req.InventoryID)
		assert.Equal(t, 2, req.QuantityUsed)

		json.NewEncoder(w).Encode(models.UsedPart{
			ID: 1, InventoryID: req.InventoryID, WorkOrderID: req.WorkOrderID, QuantityUsed: req.QuantityUsed,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	part, err := client.AddUsedPart(context.Background(), 9, models.AddUsedPartRequest{
		InventoryID:  4,
		QuantityUsed: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 9, part.WorkOrderID)
}

func TestAddUsedPart_InsufficientStock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Insufficient inventory quantity"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.AddUsedPart(context.Background(), 9, models.AddUsedPartRequest{InventoryID: 4, QuantityUsed: 99})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Insufficient inventory quantity", apiErr.Detail)
}

func TestWorkOrders_NullSeverityDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":1,"bus_id":"B1","date":"2025-01-02T10:00:00Z","reported_by":"System",
			 "severity":null,"description":"Periodic Preventive Maintenance","status":"Open","is_pm":true},
			{"id":2,"bus_id":"B2","date":"2025-01-03T11:00:00Z","reported_by":"jeff@transitland.com",
			 "severity":"SEV1","description":"Engine knock","status":"Open","is_pm":false}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	orders, err := client.WorkOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Nil(t, orders[0].Severity)
	assert.True(t, orders[0].IsPM)
	require.NotNil(t, orders[1].Severity)
	assert.Equal(t, models.SeveritySEV1, *orders[1].Severity)
}

func TestUpdateMileage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/buses/B3/mileage", r.URL.Path)
		assert.Equal(t, "61000", r.URL.Query().Get("mileage"))
		json.NewEncoder(w).Encode(map[string]string{"status": "updated"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	assert.NoError(t, client.UpdateMileage(context.Background(), "B3", 61000))
}

func TestContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Buses(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
}
