package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"CommitBuddy_NutritionAdvisor/internal/config"
	"CommitBuddy_NutritionAdvisor/internal/crew"
	"CommitBuddy_NutritionAdvisor/internal/llm"
	"CommitBuddy_NutritionAdvisor/internal/models"
	"CommitBuddy_NutritionAdvisor/internal/render"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLM struct{ answers []string }

func (s *stubLLM) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return &llm.Response{Message: llm.Message{Role: llm.AssistantRole, Content: answer}}, nil
}

// fakePlanner runs a real two-task crew against a stub model and remembers the record.
type fakePlanner struct {
	err     error
	mu      sync.Mutex
	records []models.Record
}

func (f *fakePlanner) recorded() []models.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Record(nil), f.records...)
}

func (f *fakePlanner) Plan(ctx context.Context, rec models.Record, opts ...crew.Option) (*crew.Output, error) {
	f.mu.Lock()
	f.records = append(f.records, rec)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	model := &stubLLM{answers: []string{"2200 kcal per day", "## Meal Plan\n\n- Oatmeal breakfast"}}
	first := &crew.Task{Name: "demographics", Description: "Age: " + rec.Age, Agent: &crew.Agent{Role: "Nutrition Specialist", LLM: model}}
	second := &crew.Task{Name: "diet_plan", Description: "Budget: " + rec.Budget, Agent: &crew.Agent{Role: "Therapeutic Diet Planner", LLM: model}, Context: []*crew.Task{first}}
	return crew.New([]*crew.Task{first, second}, opts...).Kickoff(ctx)
}

func newTestRouter(planner Planner, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, NewPlanHandler(planner, render.New()), cfg)
	return router
}

func validConfig() *config.Config {
	return &config.Config{GroqAPIKey: "g", SerperAPIKey: "s"}
}

func htmlRequest(method, target string, body url.Values) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Accept", "text/html")
	return req
}

func formValues() url.Values {
	return url.Values{
		"age":                {"30"},
		"gender":             {"Female"},
		"height":             {"170 cm"},
		"weight":             {"65 kg"},
		"activity_level":     {"Moderately Active"},
		"goals":              {"Weight Loss", "Muscle Building"},
		"medical_conditions": {""},
		"medications":        {""},
		"allergies":          {"Peanuts"},
		"food_preferences":   {""},
		"cooking_ability":    {"Basic"},
		"budget":             {"Moderate"},
		"cultural_factors":   {""},
	}
}

func TestIndex(t *testing.T) {
	router := newTestRouter(&fakePlanner{}, validConfig())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, htmlRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "CommitBuddy AI")
	assert.Contains(t, body, "Basic Information")
	assert.Contains(t, body, "Health Details")
	assert.Contains(t, body, "Preferences &amp; Lifestyle")
	assert.Contains(t, body, `value="25"`)
	assert.Contains(t, body, "Generate Nutrition Plan")
	assert.Contains(t, body, "Extremely Active")
	assert.NotContains(t, body, "Plan Generated!")
}

func TestIndexWithoutCredentials(t *testing.T) {
	router := newTestRouter(&fakePlanner{}, &config.Config{GroqAPIKey: "g"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, htmlRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), config.MissingKeysMessage)
	assert.NotContains(t, w.Body.String(), "Generate Nutrition Plan")
}

func TestSubmitForm(t *testing.T) {
	planner := &fakePlanner{}
	router := newTestRouter(planner, validConfig())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, htmlRequest(http.MethodPost, "/plan", formValues()))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Plan Generated!")
	assert.Contains(t, body, "<h2>Meal Plan</h2>")
	assert.Contains(t, body, "<li>Oatmeal breakfast</li>")

	require.Len(t, planner.recorded(), 1)
	rec := planner.recorded()[0]
	assert.Equal(t, "30", rec.Age)
	assert.Equal(t, "170 cm", rec.Height)
	assert.Equal(t, "Weight Loss, Muscle Building", rec.Goals)
	assert.Equal(t, "None", rec.MedicalConditions)
	assert.Equal(t, "Peanuts", rec.Allergies)
	assert.Equal(t, "None", rec.CulturalFactors)
}

func TestSubmitFormWithoutGoals(t *testing.T) {
	planner := &fakePlanner{}
	router := newTestRouter(planner, validConfig())
	values := formValues()
	values.Del("goals")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, htmlRequest(http.MethodPost, "/plan", values))

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, planner.recorded(), 1)
	assert.Equal(t, "General Health", planner.recorded()[0].Goals)
}

func TestSubmitFormInvalid(t *testing.T) {
	planner := &fakePlanner{}
	router := newTestRouter(planner, validConfig())
	values := formValues()
	values.Set("age", "0")
	values.Set("budget", "Unlimited")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, htmlRequest(http.MethodPost, "/plan", values))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Age must be between 1 and 120")
	assert.Contains(t, w.Body.String(), "Budget has an unsupported value")
	assert.Empty(t, planner.recorded())
}

func TestSubmitFormPipelineFailure(t *testing.T) {
	planner := &fakePlanner{err: errors.New(`task "demographics": rate limit reached`)}
	router := newTestRouter(planner, validConfig())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, htmlRequest(http.MethodPost, "/plan", formValues()))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Plan generation failed.")
	assert.Contains(t, w.Body.String(), "rate limit reached")
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/plan", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreatePlan(t *testing.T) {
	planner := &fakePlanner{}
	router := newTestRouter(planner, validConfig())
	w := postJSON(router, `{"age": 25, "goals": [], "medications": "Metformin"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp PlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, "## Meal Plan\n\n- Oatmeal breakfast", resp.Plan)
	assert.Contains(t, resp.HTML, "<h2>Meal Plan</h2>")
	require.Len(t, resp.Tasks, 2)
	assert.Equal(t, "2200 kcal per day", resp.Tasks[0].Raw)

	// omitted fields fall back to the form defaults
	rec := planner.recorded()[0]
	assert.Equal(t, "General Health", rec.Goals)
	assert.Equal(t, "Male", rec.Gender)
	assert.Equal(t, `5'10"`, rec.Height)
	assert.Equal(t, "Metformin", rec.Medications)
	assert.Equal(t, "None", rec.Allergies)
}

func TestCreatePlanErrors(t *testing.T) {
	t.Run("malformed json", func(t *testing.T) {
		w := postJSON(newTestRouter(&fakePlanner{}, validConfig()), `{"age":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "JSON parsing error")
	})

	t.Run("invalid choice", func(t *testing.T) {
		planner := &fakePlanner{}
		w := postJSON(newTestRouter(planner, validConfig()), `{"goals": ["Get Rich"]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "invalid profile", resp.Error)
		require.Len(t, resp.Details, 1)
		assert.Contains(t, resp.Details[0], "Goals[0]")
		assert.Empty(t, planner.recorded())
	})

	t.Run("pipeline failure", func(t *testing.T) {
		w := postJSON(newTestRouter(&fakePlanner{err: errors.New("network unreachable")}, validConfig()), `{}`)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.JSONEq(t, `{"error":"network unreachable"}`, w.Body.String())
	})

	t.Run("missing credentials", func(t *testing.T) {
		planner := &fakePlanner{}
		w := postJSON(newTestRouter(planner, &config.Config{}), `{}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Empty(t, planner.recorded())
	})
}

func dialStream(t *testing.T, router *gin.Engine) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/plan", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvents(t *testing.T, conn *websocket.Conn) []StreamEvent {
	t.Helper()
	var events []StreamEvent
	for {
		var ev StreamEvent
		if err := conn.ReadJSON(&ev); err != nil {
			return events
		}
		events = append(events, ev)
	}
}

func TestStreamPlan(t *testing.T) {
	planner := &fakePlanner{}
	conn := dialStream(t, newTestRouter(planner, validConfig()))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"age": 40, "budget": "Flexible"}`)))

	events := readEvents(t, conn)
	require.Len(t, events, 5)
	assert.Equal(t, EventTaskStarted, events[0].Type)
	assert.Equal(t, "demographics", events[0].Task)
	assert.Equal(t, EventTaskCompleted, events[1].Type)
	assert.Equal(t, "2200 kcal per day", events[1].Output)
	assert.Equal(t, EventTaskStarted, events[2].Type)
	assert.Equal(t, "Therapeutic Diet Planner", events[2].Agent)
	assert.Equal(t, EventTaskCompleted, events[3].Type)

	final := events[4]
	assert.Equal(t, EventPlan, final.Type)
	assert.Equal(t, events[0].RunID, final.RunID)
	assert.Contains(t, final.HTML, "<li>Oatmeal breakfast</li>")

	require.Len(t, planner.recorded(), 1)
	assert.Equal(t, "40", planner.recorded()[0].Age)
	assert.Equal(t, "Flexible", planner.recorded()[0].Budget)
}

func TestStreamPlanErrors(t *testing.T) {
	t.Run("invalid profile", func(t *testing.T) {
		planner := &fakePlanner{}
		conn := dialStream(t, newTestRouter(planner, validConfig()))
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"age": 500}`)))

		events := readEvents(t, conn)
		require.Len(t, events, 1)
		assert.Equal(t, EventError, events[0].Type)
		assert.Equal(t, []string{"Age must be between 1 and 120"}, events[0].Details)
		assert.Empty(t, planner.recorded())
	})

	t.Run("pipeline failure", func(t *testing.T) {
		conn := dialStream(t, newTestRouter(&fakePlanner{err: errors.New("quota exhausted")}, validConfig()))
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{}`)))

		events := readEvents(t, conn)
		require.Len(t, events, 1)
		assert.Equal(t, EventError, events[0].Type)
		assert.Equal(t, "quota exhausted", events[0].Error)
	})

	t.Run("binary message", func(t *testing.T) {
		conn := dialStream(t, newTestRouter(&fakePlanner{}, validConfig()))
		require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0x01}))

		events := readEvents(t, conn)
		require.Len(t, events, 1)
		assert.Equal(t, EventError, events[0].Type)
	})
}
