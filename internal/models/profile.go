/**
* Name: 			profile.go
* Description: 		Nutrition profile submitted through the form
* Workflow: 		bind form values, validate enumerations, build the flat prompt record
 */

package models

import (
	"log"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// NoneValue replaces blank optional free-text fields.
	NoneValue   = "None"
	DefaultGoal = "General Health"
)

// Raw form submission, shared by the HTML form and the JSON API
type ProfileForm struct {
	Age           int      `form:"age" json:"age" example:"25" validate:"min=1,max=120"`
	Gender        string   `form:"gender" json:"gender" example:"Male" validate:"choice=gender"`
	Height        string   `form:"height" json:"height" example:"5'10\""`
	Weight        string   `form:"weight" json:"weight" example:"160 lbs"`
	ActivityLevel string   `form:"activity_level" json:"activity_level" example:"Moderately Active" validate:"choice=activity_level"`
	Goals         []string `form:"goals" json:"goals" example:"Weight Loss,Muscle Building" validate:"dive,choice=goals"`

	MedicalConditions string `form:"medical_conditions" json:"medical_conditions" example:"Type 2 diabetes"`
	Medications       string `form:"medications" json:"medications" example:"Metformin"`
	Allergies         string `form:"allergies" json:"allergies" example:"Peanuts"`

	FoodPreferences string `form:"food_preferences" json:"food_preferences" example:"Mediterranean"`
	CookingAbility  string `form:"cooking_ability" json:"cooking_ability" example:"Basic" validate:"choice=cooking_ability"`
	Budget          string `form:"budget" json:"budget" example:"Moderate" validate:"choice=budget"`
	CulturalFactors string `form:"cultural_factors" json:"cultural_factors" example:"Halal"`
}

// DefaultProfileForm returns the values the form shows before any input.
func DefaultProfileForm() ProfileForm {
	return ProfileForm{
		Age:            25,
		Gender:         "Male",
		Height:         `5'10"`,
		Weight:         "160 lbs",
		ActivityLevel:  "Sedentary",
		CookingAbility: "Very Limited",
		Budget:         "Very Limited",
	}
}

// HasGoal is used by the form template to keep goal checkboxes ticked.
func (f ProfileForm) HasGoal(goal string) bool {
	for _, g := range f.Goals {
		if g == goal {
			return true
		}
	}
	return false
}

// Record is the flat, all-string view of a profile that the prompt templates read.
type Record struct {
	Age           string
	Gender        string
	Height        string
	Weight        string
	ActivityLevel string
	Goals         string

	MedicalConditions string
	Medications       string
	Allergies         string

	FoodPreferences string
	CookingAbility  string
	Budget          string
	CulturalFactors string
}

// NewRecord converts a submission into a Record.
// Demographics pass through untouched, blank optional text becomes "None",
// and the goal list is joined or falls back to "General Health".
func NewRecord(f ProfileForm) Record {
	goals := DefaultGoal
	if len(f.Goals) > 0 {
		goals = strings.Join(f.Goals, ", ")
	}
	return Record{
		Age:               strconv.Itoa(f.Age),
		Gender:            f.Gender,
		Height:            f.Height,
		Weight:            f.Weight,
		ActivityLevel:     f.ActivityLevel,
		Goals:             goals,
		MedicalConditions: orNone(f.MedicalConditions),
		Medications:       orNone(f.Medications),
		Allergies:         orNone(f.Allergies),
		FoodPreferences:   orNone(f.FoodPreferences),
		CookingAbility:    f.CookingAbility,
		Budget:            f.Budget,
		CulturalFactors:   orNone(f.CulturalFactors),
	}
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return NoneValue
	}
	return s
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// choice=<list> checks membership in the registry above
	err := v.RegisterValidation("choice", func(fl validator.FieldLevel) bool {
		return IsChoice(fl.Param(), fl.Field().String())
	})
	if err != nil {
		log.Fatalf("newValidator(): register choice rule: %v", err)
	}
	return v
}

// ValidateProfile checks only what the widgets constrain: age range and enumerated choices.
func ValidateProfile(f ProfileForm) error {
	return validate.Struct(f)
}
