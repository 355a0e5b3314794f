package domains

import "math"

// Fact names usable in question conditions.
const (
	FactHoursSinceLastEntry = "hours_since_last_entry"
	FactExercisedToday      = "exercised_today"
	FactIsBeforeNoon        = "is_before_noon"
	FactGoalsSetToday       = "goals_set_today"
	FactExerciseResponse    = "exercise_response"
)

// Question ids with meaning outside their own template.
const (
	ExerciseQuestionID = "exercise"
	GoalsQuestionID    = "goals"
)

// NoPriorEntry is the HoursSinceLastEntry value for a user without entries.
var NoPriorEntry = math.Inf(1)

// Facts are computed per request and never persisted. ExerciseResponse is not
// derived from storage: it carries the answer to the exercise question from
// the submission currently being filled in, see WithSubmission.
type Facts struct {
	HoursSinceLastEntry float64 `json:"hours_since_last_entry"`
	ExercisedToday      bool    `json:"exercised_today"`
	IsBeforeNoon        bool    `json:"is_before_noon"`
	GoalsSetToday       bool    `json:"goals_set_today"`
	ExerciseResponse    *string `json:"exercise_response,omitempty"`
}

// ConservativeFacts is used when nothing about the user could be computed.
func ConservativeFacts() Facts {
	return Facts{HoursSinceLastEntry: NoPriorEntry}
}

// Values returns the facts keyed by condition identifier. exercise_response is
// only present when a same-request answer was threaded in.
func (f Facts) Values() map[string]any {
	values := map[string]any{
		FactHoursSinceLastEntry: f.HoursSinceLastEntry,
		FactExercisedToday:      f.ExercisedToday,
		FactIsBeforeNoon:        f.IsBeforeNoon,
		FactGoalsSetToday:       f.GoalsSetToday,
	}
	if f.ExerciseResponse != nil {
		values[FactExerciseResponse] = *f.ExerciseResponse
	}
	return values
}

// PartialSubmission holds answers already given in the form being filled,
// keyed by question_id.
type PartialSubmission map[string]string

// WithSubmission returns a copy of f with same-request answers threaded in.
func (f Facts) WithSubmission(partial PartialSubmission) Facts {
	out := f
	out.ExerciseResponse = nil
	if answer, ok := partial[ExerciseQuestionID]; ok && answer != "" {
		value := answer
		if yesNo, ok := ParseYesNo(answer); ok {
			value = yesNo
		}
		out.ExerciseResponse = &value
	}
	return out
}
