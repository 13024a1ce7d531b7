package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fieldops/config"
	"fieldops/internal/app"
	"fieldops/internal/controllers"
	"fieldops/internal/database"
	"fieldops/internal/handlers/middleware"
	"fieldops/internal/jobs"
	"fieldops/internal/lifecycle"
	"fieldops/internal/models"
	"fieldops/internal/repositories/memory"
	"fieldops/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = config.Config{
	GeneralVersion:    "test",
	JWTSecret:         "0123456789abcdef0123456789abcdef",
	JWTIssuer:         "fieldops-test",
	OrderNumberPrefix: "JDI",
}

type testServer struct {
	fiber    *fiber.App
	store    *memory.Store
	services services.Service
	tokens   map[string]string
	users    map[string]*models.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	repos := store.Repository()
	svc := services.Compose(repos, store, nil, testConfig, nil)

	a := &app.App{
		Config:      testConfig,
		Repos:       repos,
		Services:    svc,
		Controllers: controllers.New(svc, repos, database.DB{}),
		Middleware:  middleware.New(svc.Identity, testConfig),
	}

	server := fiber.New()
	server.Use(a.Middleware.TraceID())
	require.NoError(t, Router(server, a))

	ts := &testServer{
		fiber:    server,
		store:    store,
		services: svc,
		tokens:   make(map[string]string),
		users:    make(map[string]*models.User),
	}

	add := func(name string, role lifecycle.Role, active bool) {
		user := store.AddUser(&models.User{
			Name:     name,
			Email:    name + "@fieldops.test",
			Role:     role,
			IsActive: active,
		})
		token, err := svc.Identity.IssueToken(user, time.Hour)
		require.NoError(t, err)
		ts.users[name] = user
		ts.tokens[name] = token
	}
	add("supervisor", lifecycle.RoleSupervisor, true)
	add("w1", lifecycle.RoleWorker, true)
	add("w2", lifecycle.RoleWorker, true)
	add("w3", lifecycle.RoleWorker, true)
	add("retired", lifecycle.RoleWorker, false)
	add("admin", lifecycle.RoleAdmin, true)

	return ts
}

func (ts *testServer) do(t *testing.T, method, path, as string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token, ok := ts.tokens[as]; ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.fiber.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}
	return resp.StatusCode, decoded
}

func (ts *testServer) createOrder(t *testing.T) int64 {
	t.Helper()
	status, body := ts.do(t, http.MethodPost, "/api/orders", "supervisor", map[string]any{
		"orderType":     "regular",
		"clientName":    "Riverside School",
		"clientPhone":   "+1 (555) 010-2030",
		"address":       "1 Mill Lane",
		"scheduledDate": "2026-05-04",
	})
	require.Equal(t, http.StatusCreated, status, body)
	order := body["order"].(map[string]any)
	return int64(order["id"].(float64))
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "fieldops", body["service"])
	assert.Equal(t, "test", body["version"])
}

func TestAuthentication(t *testing.T) {
	ts := newTestServer(t)
	ts.tokens["forged"] = "not-a-token"

	tests := []struct {
		name string
		as   string
		want int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"malformed token", "forged", http.StatusUnauthorized},
		{"inactive user", "retired", http.StatusUnauthorized},
		{"worker lacks capability", "w1", http.StatusForbidden},
		{"supervisor", "supervisor", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := ts.do(t, http.MethodPost, "/api/orders", tt.as, map[string]any{})
			assert.Equal(t, tt.want, status)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestTraceIDIsEchoed(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(middleware.TraceIDHeader, "trace-123")
	resp, err := ts.fiber.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "trace-123", resp.Header.Get(middleware.TraceIDHeader))

	resp, err = ts.fiber.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(middleware.TraceIDHeader))
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	orderID := ts.createOrder(t)
	path := fmt.Sprintf("/api/orders/%d", orderID)

	status, body := ts.do(t, http.MethodPost, path+"/assign", "supervisor", map[string]any{
		"workerIds":           []int64{ts.users["w1"].ID, ts.users["w2"].ID},
		"responsibleWorkerId": ts.users["w1"].ID,
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "assigned", body["order"].(map[string]any)["status"])

	status, _ = ts.do(t, http.MethodGet, path, "w3", nil)
	assert.Equal(t, http.StatusForbidden, status, "unassigned workers cannot view the order")

	status, body = ts.do(t, http.MethodPost, path+"/start", "w3", map[string]any{
		"latitude":  -33.8688,
		"longitude": 151.2093,
	})
	assert.Equal(t, http.StatusForbidden, status, body)

	status, body = ts.do(t, http.MethodPost, path+"/start", "w2", map[string]any{
		"latitude":  -33.8688,
		"longitude": 151.2093,
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "in_progress", body["order"].(map[string]any)["status"])

	status, _ = ts.do(t, http.MethodPost, path+"/start", "w1", map[string]any{
		"latitude":  -33.8688,
		"longitude": 151.2093,
	})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = ts.do(t, http.MethodPost, path+"/complete", "w2", nil)
	assert.Equal(t, http.StatusForbidden, status, "only the responsible worker completes")

	status, body = ts.do(t, http.MethodPost, path+"/complete", "w1", map[string]any{
		"signatureClient": "R. Client",
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "completed", body["order"].(map[string]any)["status"])

	status, body = ts.do(t, http.MethodPost, path+"/cancel", "supervisor", nil)
	assert.Equal(t, http.StatusConflict, status, body)

	status, body = ts.do(t, http.MethodGet, path, "w2", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "completed", body["order"].(map[string]any)["status"])
}

func TestOrderRequestErrors(t *testing.T) {
	ts := newTestServer(t)
	orderID := ts.createOrder(t)

	tests := []struct {
		name   string
		method string
		path   string
		as     string
		body   any
		want   int
	}{
		{"non numeric id", http.MethodGet, "/api/orders/abc", "supervisor", nil, http.StatusBadRequest},
		{"zero id", http.MethodGet, "/api/orders/0", "supervisor", nil, http.StatusBadRequest},
		{"missing order", http.MethodGet, "/api/orders/99999", "supervisor", nil, http.StatusNotFound},
		{
			"responsible outside the set",
			http.MethodPost,
			fmt.Sprintf("/api/orders/%d/assign", orderID),
			"supervisor",
			map[string]any{"workerIds": []int64{ts.users["w1"].ID}, "responsibleWorkerId": ts.users["w2"].ID},
			http.StatusBadRequest,
		},
		{
			"start out of range",
			http.MethodPost,
			fmt.Sprintf("/api/orders/%d/start", orderID),
			"w1",
			map[string]any{"latitude": 91, "longitude": 0},
			http.StatusBadRequest,
		},
		{
			"edit without changes",
			http.MethodPut,
			fmt.Sprintf("/api/orders/%d", orderID),
			"supervisor",
			map[string]any{},
			http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := ts.do(t, tt.method, tt.path, tt.as, tt.body)
			assert.Equal(t, tt.want, status, body)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestInvalidJSONBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ts.tokens["supervisor"])

	resp, err := ts.fiber.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReportsAndPhotosOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.do(t, http.MethodPost, "/api/orders", "supervisor", map[string]any{
		"orderType":     "post_construction",
		"clientName":    "Harbour Build",
		"clientPhone":   "555 0101",
		"address":       "4 Quay Street",
		"scheduledDate": "2026-05-04T08:00:00Z",
	})
	require.Equal(t, http.StatusCreated, status, body)
	orderID := int64(body["order"].(map[string]any)["id"].(float64))
	path := fmt.Sprintf("/api/orders/%d", orderID)

	status, body = ts.do(t, http.MethodPost, path+"/assign", "supervisor", map[string]any{
		"workerIds":           []int64{ts.users["w1"].ID},
		"responsibleWorkerId": ts.users["w1"].ID,
	})
	require.Equal(t, http.StatusOK, status, body)
	status, body = ts.do(t, http.MethodPost, path+"/start", "w1", map[string]any{"latitude": 1, "longitude": 1})
	require.Equal(t, http.StatusOK, status, body)

	report := map[string]any{"reportDate": "2026-05-04", "description": "Cleared debris from all floors."}
	status, body = ts.do(t, http.MethodPost, path+"/reports", "w1", report)
	require.Equal(t, http.StatusCreated, status, body)
	reportID := int64(body["report"].(map[string]any)["id"].(float64))

	status, _ = ts.do(t, http.MethodPost, path+"/reports", "w1", report)
	assert.Equal(t, http.StatusConflict, status, "one report per day")

	status, body = ts.do(t, http.MethodPost, path+"/photos", "w1", map[string]any{
		"photoUrl":      "https://files.example/site.jpg",
		"dailyReportId": reportID,
	})
	require.Equal(t, http.StatusCreated, status, body)
	photoID := int64(body["photo"].(map[string]any)["id"].(float64))

	status, body = ts.do(t, http.MethodPut, fmt.Sprintf("/api/photos/%d/caption", photoID), "w1", map[string]any{
		"caption": "North wing",
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "North wing", body["photo"].(map[string]any)["caption"])

	status, _ = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/reports/%d", reportID), "w1", nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/reports/%d", reportID), "supervisor", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.EqualValues(t, 1, body["photosRemoved"])

	status, _ = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/photos/%d", photoID), "w1", nil)
	assert.Equal(t, http.StatusNotFound, status, "the photo went with its report")

	status, body = ts.do(t, http.MethodPost, path+"/photos", "w1", map[string]any{
		"photoUrl": "https://files.example/order.jpg",
	})
	require.Equal(t, http.StatusCreated, status, body)
	photoID = int64(body["photo"].(map[string]any)["id"].(float64))

	status, _ = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/photos/%d", photoID), "w1", nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestTriggerJobOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	repos := ts.store.Repository()

	require.NoError(t, ts.services.Scheduler.AddJob(
		jobs.NewOrderReminderJob(repos, ts.services.Notification, nil, jobs.Daily),
	))

	w1 := ts.users["w1"].ID
	require.NoError(t, repos.Order.Create(ctx, nil, &models.Order{
		OrderNumber:         "JDI-2026-0500",
		OrderType:           lifecycle.OrderTypeRegular,
		Status:              lifecycle.StatusAssigned,
		ClientName:          "Riverside School",
		ClientPhone:         "555 0100",
		Address:             "1 Mill Lane",
		ScheduledDate:       time.Now().UTC(),
		ResponsibleWorkerID: &w1,
	}))

	status, _ := ts.do(t, http.MethodPost, "/api/admin/jobs/OrderReminder/trigger", "supervisor", nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = ts.do(t, http.MethodPost, "/api/admin/jobs/Missing/trigger", "admin", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body := ts.do(t, http.MethodPost, "/api/admin/jobs/OrderReminder/trigger", "admin", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "completed", body["status"])

	reminders := 0
	for _, n := range ts.store.Notifications() {
		if n.Type == models.NotificationOrderReminder && n.UserID == w1 {
			reminders++
		}
	}
	assert.Equal(t, 1, reminders)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", lifecycle.NotFound("order %d not found", 4), fiber.StatusNotFound, "order 4 not found"},
		{"forbidden", lifecycle.Forbidden("nope"), fiber.StatusForbidden, "nope"},
		{"conflict", lifecycle.Conflict("busy"), fiber.StatusConflict, "busy"},
		{"validation", lifecycle.Invalid("bad"), fiber.StatusBadRequest, "bad"},
		{"internal", fmt.Errorf("dial tcp: refused"), fiber.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := statusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Contains(t, message, tt.message)
		})
	}
}
