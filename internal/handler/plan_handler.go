/**
* Name: 			plan_handler.go
* Description: 		Gin HTTP handlers for the nutrition form and the JSON plan API
* Workflow: 		bind profile, validate, build record, run crew, render result
 */
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"CommitBuddy_NutritionAdvisor/internal/crew"
	"CommitBuddy_NutritionAdvisor/internal/llm"
	"CommitBuddy_NutritionAdvisor/internal/models"
	"CommitBuddy_NutritionAdvisor/internal/render"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Planner runs the agent crew for one profile record.
type Planner interface {
	Plan(ctx context.Context, rec models.Record, opts ...crew.Option) (*crew.Output, error)
}

type PlanHandler struct {
	planner  Planner
	renderer *render.Renderer
	choices  choicesView
}

func NewPlanHandler(planner Planner, renderer *render.Renderer) *PlanHandler {
	return &PlanHandler{
		planner:  planner,
		renderer: renderer,
		choices:  loadChoices(),
	}
}

// /api/plan response body
type PlanResponse struct {
	RunID string            `json:"run_id" example:"5f0c6a8e-3c1d-4b8e-9a57-2f3f5d1f7c10"`
	Plan  string            `json:"plan" example:"## Your 7-day plan ..."`
	HTML  string            `json:"html" example:"<h2>Your 7-day plan ...</h2>"`
	Tasks []crew.TaskOutput `json:"tasks"`
	Usage llm.Usage         `json:"usage"`
}

type ErrorResponse struct {
	Error   string   `json:"error" example:"invalid profile"`
	Details []string `json:"details,omitempty"`
}

type choicesView struct {
	Genders          []string
	ActivityLevels   []string
	Goals            []string
	CookingAbilities []string
	Budgets          []string
}

func loadChoices() choicesView {
	get := func(key string) []string {
		list, err := models.GetChoices(key)
		if err != nil {
			log.Fatalf("loadChoices(): %s: %v", key, err)
		}
		return list
	}
	return choicesView{
		Genders:          get(models.ChoiceGender),
		ActivityLevels:   get(models.ChoiceActivityLevel),
		Goals:            get(models.ChoiceGoals),
		CookingAbilities: get(models.ChoiceCookingAbility),
		Budgets:          get(models.ChoiceBudget),
	}
}

func (h *PlanHandler) page(form models.ProfileForm) gin.H {
	return gin.H{"Form": form, "Choices": h.choices}
}

// Index renders the empty form with the default widget values.
func (h *PlanHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", h.page(models.DefaultProfileForm()))
}

// SubmitForm handles the "Generate Nutrition Plan" button.
func (h *PlanHandler) SubmitForm(c *gin.Context) {
	form := models.DefaultProfileForm()
	if err := c.ShouldBind(&form); err != nil {
		data := h.page(form)
		data["Errors"] = []string{"Invalid form submission: " + err.Error()}
		c.HTML(http.StatusBadRequest, "index.html", data)
		return
	}
	if err := models.ValidateProfile(form); err != nil {
		data := h.page(form)
		data["Errors"] = validationMessages(err)
		c.HTML(http.StatusBadRequest, "index.html", data)
		return
	}

	out, err := h.planner.Plan(c.Request.Context(), models.NewRecord(form))
	if err != nil {
		log.Printf("[ERROR] SubmitForm(): plan generation failed: %v", err)
		c.HTML(http.StatusBadGateway, "error.html", gin.H{
			"Message": "Plan generation failed.",
			"Detail":  err.Error(),
		})
		return
	}

	data := h.page(form)
	data["Plan"] = h.renderer.HTML(out.Raw)
	data["RunID"] = out.RunID
	c.HTML(http.StatusOK, "index.html", data)
}

// CreatePlan godoc
// @Summary      Generate a nutrition plan
// @Description  Runs the three-stage crew (nutritionist, medical therapist, diet planner) on the profile.
// @Description  Omitted fields take the form's default values. Blank optional text becomes "None".
// @Tags         Plan
// @Accept       json
// @Produce      json
// @Param        request body models.ProfileForm true "User profile"
// @Success      200 {object} handler.PlanResponse
// @Failure      400 {object} handler.ErrorResponse "Invalid profile"
// @Failure      502 {object} handler.ErrorResponse "LLM or search API failure"
// @Failure      503 {object} handler.ErrorResponse "API keys not configured"
// @Router       /api/plan [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	form := models.DefaultProfileForm()

	rawData, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read request body"})
		return
	}
	if err := json.Unmarshal(rawData, &form); err != nil {
		log.Printf("[ERROR] CreatePlan(): json.Unmarshal failed: %v", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "JSON parsing error: " + err.Error()})
		return
	}
	if err := models.ValidateProfile(form); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid profile", Details: validationMessages(err)})
		return
	}

	out, err := h.planner.Plan(c.Request.Context(), models.NewRecord(form))
	if err != nil {
		log.Printf("[ERROR] CreatePlan(): plan generation failed: %v", err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.response(out))
}

func (h *PlanHandler) response(out *crew.Output) PlanResponse {
	return PlanResponse{
		RunID: out.RunID,
		Plan:  out.Raw,
		HTML:  string(h.renderer.HTML(out.Raw)),
		Tasks: out.Tasks,
		Usage: out.Usage,
	}
}

func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must be between 1 and 120", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s has an unsupported value %q", fe.Field(), fe.Value()))
		}
	}
	return msgs
}
