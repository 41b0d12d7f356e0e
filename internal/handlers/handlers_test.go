package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	llmHandlers "find-usce-backend/internal/llm_handlers"
	"find-usce-backend/internal/listing"
	"find-usce-backend/internal/models"
	"find-usce-backend/internal/repo"
	"find-usce-backend/internal/usce/relay"
)

type scriptedClient struct {
	chunks []string
	err    error
}

func (s *scriptedClient) ChatStream(ctx context.Context, history []llmHandlers.Message, message string, onChunk llmHandlers.ChunkHandler) error {
	for _, c := range s.chunks {
		if err := onChunk(c); err != nil {
			return err
		}
	}
	return s.err
}

// stallingClient sends one chunk and then stays quiet until cancelled
type stallingClient struct{}

func (stallingClient) ChatStream(ctx context.Context, history []llmHandlers.Message, message string, onChunk llmHandlers.ChunkHandler) error {
	if err := onChunk("Hel"); err != nil {
		return err
	}
	<-ctx.Done()
	return ctx.Err()
}

func testPrograms() []models.Program {
	return []models.Program{
		{ID: "p1", Name: "Mount Sinai Observership", City: "New York", State: "New York", StateCode: "NY", Specialty: "Cardiology", AcceptingApplications: true, LOR: true,
			Eligibility: models.Eligibility{USMLESteps: []string{"Step 1"}, VisaTypes: []string{"B1/B2"}}},
		{ID: "p2", Name: "Cleveland Clinic Visiting", City: "Cleveland", State: "Ohio", StateCode: "OH", Specialty: "Internal Medicine",
			Eligibility: models.Eligibility{VisaTypes: []string{models.AnyVisa}}},
		{ID: "p3", Name: "Baylor Externship", City: "Houston", State: "Texas", StateCode: "TX", Specialty: "Internal Medicine", AcceptingApplications: true},
	}
}

func newTestApp(t *testing.T, client llmHandlers.Client) *fiber.App {
	t.Helper()
	log := zaptest.NewLogger(t)

	programRepo, err := repo.NewProgramRepository(testPrograms())
	require.NoError(t, err)

	programs := NewProgramHandler(programRepo, log)
	chat := NewChatHandler(relay.New(client, log), time.Second, log)

	app := fiber.New()
	app.Get("/health", programs.Health)
	app.Get("/programs", programs.ListPrograms)
	app.Get("/programs/:programId", programs.GetProgramByID)
	app.Get("/states", programs.GetStates)
	app.Get("/specialties", programs.GetSpecialties)
	app.Get("/stats", programs.GetStats)
	app.Post("/chat", chat.StreamChat)
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestListPrograms(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/programs?accepting=true&sort=state", nil))
	require.Equal(t, fiber.StatusOK, status)

	var result listing.Result
	require.NoError(t, json.Unmarshal([]byte(body), &result))
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 1, result.TotalPages)
	assert.Equal(t, listing.PageSize, result.PageSize)
	require.Len(t, result.Programs, 2)
	assert.Equal(t, "p1", result.Programs[0].ID)
	assert.Equal(t, "p3", result.Programs[1].ID)
}

func TestListProgramsSearchAndVisa(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/programs?q=cleveland&visa=J1", nil))
	require.Equal(t, fiber.StatusOK, status)

	var result listing.Result
	require.NoError(t, json.Unmarshal([]byte(body), &result))
	require.Len(t, result.Programs, 1)
	assert.Equal(t, "p2", result.Programs[0].ID)
}

func TestListProgramsPastLastPage(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/programs?page=9", nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"programs":[]`)
	assert.Contains(t, body, `"total":3`)
}

func TestListProgramsBadFlag(t *testing.T) {
	app := newTestApp(t, nil)

	status, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/programs?lor=maybe", nil))
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestGetProgramByID(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/programs/p3", nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"name":"Baylor Externship"`)

	status, body = do(t, app, httptest.NewRequest(http.MethodGet, "/programs/nope", nil))
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"Program not found"}`, body)
}

func TestFacetsAndHealth(t *testing.T) {
	app := newTestApp(t, nil)

	_, body := do(t, app, httptest.NewRequest(http.MethodGet, "/states", nil))
	assert.JSONEq(t, `{"states":["New York","Ohio","Texas"]}`, body)

	_, body = do(t, app, httptest.NewRequest(http.MethodGet, "/specialties", nil))
	assert.JSONEq(t, `{"specialties":["Cardiology","Internal Medicine"]}`, body)

	_, body = do(t, app, httptest.NewRequest(http.MethodGet, "/stats", nil))
	assert.JSONEq(t, `{"total":3,"states":3,"accepting":2,"withLor":1}`, body)

	_, body = do(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.JSONEq(t, `{"status":"ok","programs":3}`, body)
}

func chatRequestBody(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func TestStreamChat(t *testing.T) {
	app := newTestApp(t, &scriptedClient{chunks: []string{"Hel", "lo"}})

	resp, err := app.Test(chatRequestBody(`{"messages":[{"role":"user","content":"hi"}]}`), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, "no-cache", resp.Header.Get(fiber.HeaderCacheControl))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "data: {\"text\":\"Hel\"}\n\ndata: {\"text\":\"lo\"}\n\ndata: [DONE]\n\n", string(body))
}

func TestStreamChatMidStreamError(t *testing.T) {
	app := newTestApp(t, &scriptedClient{chunks: []string{"partial"}, err: errors.New("upstream reset")})

	status, body := do(t, app, chatRequestBody(`{"messages":[{"role":"user","content":"hi"}]}`))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "data: {\"text\":\"partial\"}\n\ndata: {\"error\":\"Internal server error\"}\n\n", body)
}

func TestStreamChatErrors(t *testing.T) {
	tests := []struct {
		name   string
		client llmHandlers.Client
		body   string
		status int
		want   string
	}{
		{
			name:   "no credential",
			client: nil,
			body:   `{"messages":[{"role":"user","content":"hi"}]}`,
			status: fiber.StatusInternalServerError,
			want:   `{"error":"API key not configured"}`,
		},
		{
			name:   "malformed body",
			client: &scriptedClient{},
			body:   `{"messages":`,
			status: fiber.StatusBadRequest,
			want:   `{"error":"Invalid request body"}`,
		},
		{
			name:   "empty conversation",
			client: &scriptedClient{},
			body:   `{"messages":[]}`,
			status: fiber.StatusBadRequest,
			want:   `{"error":"Invalid request body"}`,
		},
		{
			name:   "unknown role",
			client: &scriptedClient{},
			body:   `{"messages":[{"role":"system","content":"hi"}]}`,
			status: fiber.StatusBadRequest,
			want:   `{"error":"Invalid request body"}`,
		},
		{
			name:   "upstream fails before streaming",
			client: &scriptedClient{err: errors.New("quota exceeded")},
			body:   `{"messages":[{"role":"user","content":"hi"}]}`,
			status: fiber.StatusInternalServerError,
			want:   `{"error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, tt.client)
			status, body := do(t, app, chatRequestBody(tt.body))
			assert.Equal(t, tt.status, status)
			assert.JSONEq(t, tt.want, body)
		})
	}
}

func TestStreamChatKeepAliveWhileUpstreamIsQuiet(t *testing.T) {
	log := zaptest.NewLogger(t)
	chat := NewChatHandler(relay.New(stallingClient{}, log), 300*time.Millisecond, log)
	chat.keepAlive = 50 * time.Millisecond

	app := fiber.New()
	app.Post("/chat", chat.StreamChat)

	status, body := do(t, app, chatRequestBody(`{"messages":[{"role":"user","content":"hi"}]}`))
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, strings.HasPrefix(body, "data: {\"text\":\"Hel\"}\n\n"), body)
	assert.Contains(t, body, ": ping\n\n")
	assert.True(t, strings.HasSuffix(body, "data: {\"error\":\"Internal server error\"}\n\n"), body)
}
