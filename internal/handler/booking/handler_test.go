package booking

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/salon-booking/internal/calendar"
	"github.com/jwalitptl/salon-booking/internal/catalog"
	"github.com/jwalitptl/salon-booking/internal/repository/memory"
	"github.com/jwalitptl/salon-booking/internal/service/booking"
	"github.com/jwalitptl/salon-booking/internal/service/notification"
	"github.com/jwalitptl/salon-booking/pkg/logger"
	"github.com/jwalitptl/salon-booking/pkg/metrics"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

func setupRouter(t *testing.T) (*gin.Engine, *booking.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat, err := catalog.New(catalog.DefaultServices())
	require.NoError(t, err)
	cal, err := calendar.New(calendar.DefaultHours(), time.UTC)
	require.NoError(t, err)
	store := memory.NewStore(catalog.DefaultServices(), calendar.DefaultHours())

	svc := booking.NewService(cat, cal, store.Bookings(), notification.NewLogNotifier(logger.Nop()), booking.Config{
		Clock: func() time.Time { return time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC) },
	}, metrics.NewNop(), logger.Nop())

	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r, svc
}

func do(r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func bookingBody(serviceID, date, at string) map[string]interface{} {
	return map[string]interface{}{
		"name":             "Ana Lima",
		"email":            "ana@example.com",
		"phone":            "555-0100",
		"service_id":       serviceID,
		"appointment_date": date,
		"appointment_time": at,
		"is_new_client":    true,
	}
}

func TestListServices(t *testing.T) {
	r, _ := setupRouter(t)

	w, env := do(r, http.MethodGet, "/api/v1/services", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var services []struct {
		ID    string  `json:"id"`
		Price float64 `json:"price"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &services))
	require.Len(t, services, 4)
	assert.Equal(t, "4", services[0].ID)
}

func TestGetService(t *testing.T) {
	r, _ := setupRouter(t)

	w, _ := do(r, http.MethodGet, "/api/v1/services/2", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := do(r, http.MethodGet, "/api/v1/services/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", env.Code)
}

func TestBusinessHours(t *testing.T) {
	r, _ := setupRouter(t)

	w, env := do(r, http.MethodGet, "/api/v1/business-hours", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var hours []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &hours))
	require.Len(t, hours, 7)
	assert.Equal(t, "10:00", hours[0]["open_time"])
	assert.Equal(t, "17:00", hours[0]["close_time"])
}

func TestDateAvailability(t *testing.T) {
	r, _ := setupRouter(t)

	_, env := do(r, http.MethodGet, "/api/v1/availability/2024-06-10", nil)
	assert.JSONEq(t, `{"date":"2024-06-10","available":true}`, string(env.Data))

	_, env = do(r, http.MethodGet, "/api/v1/availability/2024-06-01", nil)
	assert.JSONEq(t, `{"date":"2024-06-01","available":false}`, string(env.Data))

	w, env := do(r, http.MethodGet, "/api/v1/availability/June-10", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", env.Code)
}

func TestGetSlots(t *testing.T) {
	r, _ := setupRouter(t)

	w, env := do(r, http.MethodGet, "/api/v1/availability/2024-06-10/slots?service_id=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Date      string `json:"date"`
		ServiceID string `json:"service_id"`
		State     string `json:"state"`
		Slots     []struct {
			Time      string `json:"time"`
			EndTime   string `json:"end_time"`
			Available bool   `json:"available"`
		} `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "available", resp.State)
	require.Len(t, resp.Slots, 17)
	assert.Equal(t, "09:00", resp.Slots[0].Time)
	assert.Equal(t, "11:00", resp.Slots[0].EndTime)
	assert.Equal(t, "17:00", resp.Slots[16].Time)

	_, env = do(r, http.MethodGet, "/api/v1/availability/2024-06-01/slots?service_id=1", nil)
	assert.JSONEq(t, `{"date":"2024-06-01","service_id":"1","state":"closed","slots":[]}`, string(env.Data))

	w, _ = do(r, http.MethodGet, "/api/v1/availability/2024-06-10/slots", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(r, http.MethodGet, "/api/v1/availability/2024-06-10/slots?service_id=99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateAndGetBooking(t *testing.T) {
	r, svc := setupRouter(t)

	w, env := do(r, http.MethodPost, "/api/v1/bookings", bookingBody("1", "2024-06-10", "10:00"))
	require.Equal(t, http.StatusCreated, w.Code)
	svc.Wait()

	var created struct {
		ID              uuid.UUID `json:"id"`
		Status          string    `json:"status"`
		DurationMinutes int       `json:"duration_minutes"`
		AppointmentTime string    `json:"appointment_time"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, 120, created.DurationMinutes)
	assert.Equal(t, "10:00", created.AppointmentTime)

	w, _ = do(r, http.MethodGet, "/api/v1/bookings/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = do(r, http.MethodPost, "/api/v1/bookings", bookingBody("4", "2024-06-10", "11:00"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slot_unavailable", env.Code)
	assert.Equal(t, "this time slot is no longer available, please select another time", env.Message)
}

func TestCreateBookingErrors(t *testing.T) {
	r, _ := setupRouter(t)

	w, env := do(r, http.MethodPost, "/api/v1/bookings", map[string]interface{}{"name": "Ana"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "email is required")

	w, _ = do(r, http.MethodPost, "/api/v1/bookings", "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(r, http.MethodPost, "/api/v1/bookings", bookingBody("99", "2024-06-10", "10:00"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetBookingErrors(t *testing.T) {
	r, _ := setupRouter(t)

	w, _ := do(r, http.MethodGet, "/api/v1/bookings/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := do(r, http.MethodGet, "/api/v1/bookings/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", env.Code)
}
