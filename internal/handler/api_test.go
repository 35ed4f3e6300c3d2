package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-mentorship/internal/config"
	"github.com/noah-isme/gema-mentorship/internal/engine"
	"github.com/noah-isme/gema-mentorship/internal/handler"
	"github.com/noah-isme/gema-mentorship/internal/middleware"
	"github.com/noah-isme/gema-mentorship/internal/router"
	"github.com/noah-isme/gema-mentorship/internal/service"
	"github.com/noah-isme/gema-mentorship/internal/store"
)

const testSecret = "handler-test-secret"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Details json.RawMessage `json:"details"`
	Meta    map[string]any  `json:"meta"`
}

type apiHarness struct {
	t   *testing.T
	app *fiber.App
}

func newAPI(t *testing.T, seedEnabled bool) *apiHarness {
	t.Helper()
	return newAPIWithStore(t, store.NewMemoryStore(), seedEnabled)
}

func newAPIWithStore(t *testing.T, st store.Store, seedEnabled bool) *apiHarness {
	t.Helper()

	logger := zerolog.Nop()
	eng := engine.New(engine.Dependencies{Store: st, Logger: logger})
	seeder := service.NewSeedService(eng.Locker(), seedEnabled, logger)
	if seedEnabled {
		_, err := seeder.Seed(context.Background())
		require.NoError(t, err)
	}

	cfg := config.Config{AppName: "Mentorship Test", AppEnv: "test", StoreDriver: config.StoreMemory, JWTSecret: testSecret}
	app := fiber.New()
	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ProjectHandler:     handler.NewProjectHandler(eng, logger),
		ApplicationHandler: handler.NewApplicationHandler(eng, logger),
		SubmissionHandler:  handler.NewSubmissionHandler(eng, logger),
		StudentHandler:     handler.NewStudentHandler(eng, logger),
		TestHandler:        handler.NewTestHandler(eng, logger),
		OverviewHandler:    handler.NewOverviewHandler(eng, logger),
		SeedHandler:        handler.NewSeedHandler(seeder, logger),
		Store:              st,
		JWTMiddleware:      middleware.JWTProtected(testSecret),
	})

	return &apiHarness{t: t, app: app}
}

func bearer(t *testing.T, subject, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func (h *apiHarness) raw(method, path, authorization string, body any) (*http.Response, []byte) {
	h.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return resp, data
}

func (h *apiHarness) call(method, path, authorization string, body any) (int, envelope) {
	h.t.Helper()

	resp, data := h.raw(method, path, authorization, body)
	var env envelope
	require.NoError(h.t, json.Unmarshal(data, &env), string(data))
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}
