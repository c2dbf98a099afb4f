package models

import "errors"

var ErrNoChoices = errors.New("unknown choice list")

const (
	ChoiceGender         = "gender"
	ChoiceActivityLevel  = "activity_level"
	ChoiceGoals          = "goals"
	ChoiceCookingAbility = "cooking_ability"
	ChoiceBudget         = "budget"
)

// Fixed option lists for the form's select, radio and slider widgets.
var choices = map[string][]string{
	ChoiceGender: {"Male", "Female", "Other"},
	ChoiceActivityLevel: {
		"Sedentary",
		"Lightly Active",
		"Moderately Active",
		"Very Active",
		"Extremely Active",
	},
	ChoiceGoals: {
		"Weight Loss",
		"Weight Gain",
		"Maintenance",
		"Muscle Building",
		"General Health",
	},
	ChoiceCookingAbility: {"Very Limited", "Basic", "Average", "Advanced"},
	ChoiceBudget:         {"Very Limited", "Moderate", "Flexible"},
}

// GetChoices returns a copy of the option list registered under key.
func GetChoices(key string) ([]string, error) {
	list, exists := choices[key]
	if !exists {
		return nil, ErrNoChoices
	}
	return append([]string(nil), list...), nil
}

func IsChoice(key, value string) bool {
	for _, v := range choices[key] {
		if v == value {
			return true
		}
	}
	return false
}
