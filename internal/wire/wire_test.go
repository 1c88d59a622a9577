package wire

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ticket-storefront/internal/catalog"
	"ticket-storefront/internal/data/repository"
	"ticket-storefront/internal/notify"
	"ticket-storefront/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func testConfig() *utils.Config {
	return &utils.Config{
		App: utils.AppConfig{Name: "ticket-storefront", AllowedOrigins: []string{"*"}},
		Identity: utils.IdentityConfig{
			JWTSecret:  "test-secret",
			SessionTTL: time.Hour,
			BcryptCost: 4,
		},
		Catalog: utils.CatalogConfig{Source: "static"},
		Booking: utils.BookingConfig{
			ConfirmDelay:  10 * time.Millisecond,
			SubmitTimeout: 2 * time.Second,
			DeclinedCards: []string{"4000000000000002"},
		},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	repos := &repository.Repository{
		Event:   repository.NewStaticEventRepository(catalog.DefaultRows()),
		User:    repository.NewMemoryUserRepository(),
		Session: repository.NewMemorySessionRepository(),
	}

	app, err := Wiring(ctx, repos, notify.NewLogNotifier(zap.NewNop()), testConfig(), zap.NewNop())
	require.NoError(t, err)

	t.Cleanup(func() {
		cancel()
		app.Service.Close()
	})
	return app
}

func do(t *testing.T, app *App, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func signIn(t *testing.T, app *App, email string) string {
	t.Helper()

	rec, _ := do(t, app, http.MethodPost, "/api/auth/sign-up", "", map[string]string{
		"full_name": "Jane Visitor",
		"email":     email,
		"password":  "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := do(t, app, http.MethodPost, "/api/auth/sign-in", "", map[string]string{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	rec, env := do(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Status)
}

func TestProtectedRoutes_RedirectToAuth(t *testing.T) {
	app := newTestApp(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/events"},
		{http.MethodGet, "/api/events/1"},
		{http.MethodGet, "/api/seat-map"},
		{http.MethodPost, "/api/checkout"},
		{http.MethodGet, "/api/ticket"},
		{http.MethodGet, "/api/auth/session"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec, env := do(t, app, rt.method, rt.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, env.Status)
			assert.JSONEq(t, `{"redirect":"/auth"}`, string(env.Data))
		})
	}

	rec, _ := do(t, app, http.MethodGet, "/api/events", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)
	token := signIn(t, app, "jane@example.com")

	rec, env := do(t, app, http.MethodGet, "/api/auth/session", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "Jane Visitor")

	rec, env = do(t, app, http.MethodPost, "/api/auth/sign-in", "", map[string]string{
		"email":    "jane@example.com",
		"password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password. Please check your credentials and try again.", env.Message)

	rec, env = do(t, app, http.MethodPost, "/api/auth/sign-up", "", map[string]string{
		"full_name": "Jane Again",
		"email":     "jane@example.com",
		"password":  "secret123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "An account with this email already exists. Please sign in instead.", env.Message)

	rec, _ = do(t, app, http.MethodPost, "/api/auth/sign-out", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, app, http.MethodGet, "/api/auth/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignUp_ValidationError(t *testing.T) {
	app := newTestApp(t)

	rec, env := do(t, app, http.MethodPost, "/api/auth/sign-up", "", map[string]string{
		"full_name": "Jane",
		"email":     "jane@example.com",
		"password":  "123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Password must be at least 6 characters", env.Message)
}

func TestEvents_Filter(t *testing.T) {
	app := newTestApp(t)
	token := signIn(t, app, "jane@example.com")

	rec, env := do(t, app, http.MethodGet, "/api/events?category=movie", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Events []struct {
			Category string `json:"category"`
		} `json:"events"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.NotZero(t, list.Count)
	for _, ev := range list.Events {
		assert.Equal(t, "movie", ev.Category)
	}

	rec, _ = do(t, app, http.MethodGet, "/api/events?category=opera", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, app, http.MethodGet, "/api/events/does-not-exist", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSeatMap_ProceedRequiresSelection(t *testing.T) {
	app := newTestApp(t)
	token := signIn(t, app, "jane@example.com")

	rec, _ := do(t, app, http.MethodGet, "/api/seat-map", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, app, http.MethodPost, "/api/events/1/seat-map", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := do(t, app, http.MethodPost, "/api/seat-map/proceed", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"seats":"You need to select at least one seat to proceed."}`, string(env.Errors))

	rec, _ = do(t, app, http.MethodPost, "/api/seat-map/seats/Z99/toggle", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckout_EndToEnd(t *testing.T) {
	app := newTestApp(t)
	token := signIn(t, app, "jane@example.com")

	rec, _ := do(t, app, http.MethodPost, "/api/events/1/seat-map", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, seat := range []string{"B1", "B2"} {
		rec, _ = do(t, app, http.MethodPost, "/api/seat-map/seats/"+seat+"/toggle", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec, env := do(t, app, http.MethodPost, "/api/seat-map/proceed", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary struct {
		TotalPrice float64 `json:"total_price"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 178.0, summary.TotalPrice)

	form := map[string]string{
		"name":        "Jane Visitor",
		"email":       "jane@example.com",
		"phone":       "555-0100",
		"card_number": "4242 4242 4242 4242",
		"expiry":      "12/30",
		"cvv":         "123",
	}
	rec, env = do(t, app, http.MethodPost, "/api/checkout", token, form)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var attempt struct {
		AttemptToken string `json:"attempt_token"`
		Status       string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &attempt))
	assert.Equal(t, "pending", attempt.Status)

	require.Eventually(t, func() bool {
		rec, _ := do(t, app, http.MethodGet, "/api/ticket", token, nil)
		return rec.Code == http.StatusOK
	}, 3*time.Second, 10*time.Millisecond)

	rec, env = do(t, app, http.MethodGet, "/api/checkout/"+attempt.AttemptToken, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Booking Confirmed! Your tickets have been booked successfully.", env.Message)

	rec, env = do(t, app, http.MethodGet, "/api/ticket", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ticket struct {
		QRPayload string   `json:"qr_payload"`
		Seats     []string `json:"seats"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &ticket))
	assert.Equal(t, []string{"B1", "B2"}, ticket.Seats)
	assert.Contains(t, ticket.QRPayload, "|1|B1,B2")

	rec, _ = do(t, app, http.MethodDelete, "/api/ticket", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, app, http.MethodGet, "/api/ticket", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckout_Declined(t *testing.T) {
	app := newTestApp(t)
	token := signIn(t, app, "jane@example.com")

	do(t, app, http.MethodPost, "/api/events/2/seat-map", token, nil)
	do(t, app, http.MethodPost, "/api/seat-map/seats/D4/toggle", token, nil)

	rec, env := do(t, app, http.MethodPost, "/api/checkout", token, map[string]string{
		"name":        "Jane Visitor",
		"email":       "jane@example.com",
		"phone":       "555-0100",
		"card_number": "4000-0000-0000-0002",
		"expiry":      "12/30",
		"cvv":         "123",
	})
	require.Equal(t, http.StatusAccepted, rec.Code)

	var attempt struct {
		AttemptToken string `json:"attempt_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &attempt))

	var last envelope
	require.Eventually(t, func() bool {
		rec, env := do(t, app, http.MethodGet, "/api/checkout/"+attempt.AttemptToken, token, nil)
		last = env
		return rec.Code == http.StatusUnprocessableEntity
	}, 3*time.Second, 10*time.Millisecond)

	assert.False(t, last.Status)
	assert.JSONEq(t, `{"kind":"payment_declined","message":"payment was declined, please use a different card","recoverable":true}`, string(last.Errors))

	// the seat map survives a decline so the visitor can retry
	rec, _ = do(t, app, http.MethodGet, "/api/seat-map", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckout_MissingFields(t *testing.T) {
	app := newTestApp(t)
	token := signIn(t, app, "jane@example.com")

	do(t, app, http.MethodPost, "/api/events/1/seat-map", token, nil)
	do(t, app, http.MethodPost, "/api/seat-map/seats/B1/toggle", token, nil)

	rec, env := do(t, app, http.MethodPost, "/api/checkout", token, map[string]string{"name": "Jane"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please fill in all required fields", env.Message)
}
