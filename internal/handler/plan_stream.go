package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"CommitBuddy_NutritionAdvisor/internal/crew"
	"CommitBuddy_NutritionAdvisor/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	EventTaskStarted   = "task_started"
	EventTaskCompleted = "task_completed"
	EventPlan          = "plan"
	EventError         = "error"
)

// Upgrade HTTP connection to WebSocket
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamEvent is one server -> client message on /ws/plan.
type StreamEvent struct {
	Type    string   `json:"type"`
	RunID   string   `json:"run_id,omitempty"`
	Task    string   `json:"task,omitempty"`
	Agent   string   `json:"agent,omitempty"`
	Output  string   `json:"output,omitempty"`
	HTML    string   `json:"html,omitempty"`
	Error   string   `json:"error,omitempty"`
	Details []string `json:"details,omitempty"`
}

// StreamPlan godoc
// @Summary      Generate a nutrition plan with progress events (WebSocket)
// @Description  **Not a plain HTTP API.** Connect with `ws://` or `wss://`, then send one profile JSON message.
// @Description  The server answers with `task_started` / `task_completed` events for each stage,
// @Description  then a final `plan` (or `error`) event, and closes the connection.
// @Tags         Plan
// @Success      101 {string} string "101 Switching Protocols"
// @Failure      503 {object} handler.ErrorResponse "API keys not configured"
// @Router       /ws/plan [get]
func (h *PlanHandler) StreamPlan(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("StreamPlan(): Failed to upgrade to WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	send := func(ev StreamEvent) {
		if err := conn.WriteJSON(ev); err != nil {
			log.Printf("StreamPlan(): Error sending %s event: %v", ev.Type, err)
			cancel()
		}
	}
	defer conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

	messageType, message, err := conn.ReadMessage()
	if err != nil {
		log.Printf("StreamPlan(): Error reading profile message: %v", err)
		return
	}
	if messageType != websocket.TextMessage {
		send(StreamEvent{Type: EventError, Error: "expected a text message with the profile JSON"})
		return
	}

	form := models.DefaultProfileForm()
	if err := json.Unmarshal(message, &form); err != nil {
		send(StreamEvent{Type: EventError, Error: "JSON parsing error: " + err.Error()})
		return
	}
	if err := models.ValidateProfile(form); err != nil {
		send(StreamEvent{Type: EventError, Error: "invalid profile", Details: validationMessages(err)})
		return
	}

	// callbacks run on this goroutine, between the crew's blocking LLM calls
	out, err := h.planner.Plan(ctx, models.NewRecord(form),
		crew.WithTaskStartCallback(func(runID string, task *crew.Task) {
			send(StreamEvent{Type: EventTaskStarted, RunID: runID, Task: task.Name, Agent: task.Agent.Role})
		}),
		crew.WithTaskCallback(func(runID string, to crew.TaskOutput) {
			send(StreamEvent{Type: EventTaskCompleted, RunID: runID, Task: to.Name, Agent: to.Agent, Output: to.Raw})
		}),
	)
	if err != nil {
		log.Printf("[ERROR] StreamPlan(): plan generation failed: %v", err)
		send(StreamEvent{Type: EventError, Error: err.Error()})
		return
	}
	send(StreamEvent{Type: EventPlan, RunID: out.RunID, Output: out.Raw, HTML: string(h.renderer.HTML(out.Raw))})
}
