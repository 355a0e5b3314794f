package service

import (
	"encoding/json"

	"guidedjournal/internal/domains"
)

// TimeSinceLastEntryToken is replaced with a readable duration at resolution time.
const TimeSinceLastEntryToken = "{time_since_last_entry}"

func cond(expr string) *string { return &expr }

// DefaultQuestions is the built-in question set used when no template is
// selected or the selected one cannot be loaded. Each call returns a fresh slice.
func DefaultQuestions() []domains.Question {
	return []domains.Question{
		{
			QuestionID: "feeling",
			Text:       "How are you feeling right now?",
			Type:       domains.QuestionEmotions,
			Order:      0,
			Required:   true,
			Properties: json.RawMessage(`{"options":["happy","calm","grateful","excited","tired","anxious","sad","angry","stressed"]}`),
		},
		{
			QuestionID: "mood",
			Text:       "On a scale of 1 to 10, how would you rate your day?",
			Type:       domains.QuestionNumber,
			Order:      1,
			Required:   true,
			Properties: json.RawMessage(`{"min":1,"max":10,"step":1}`),
		},
		{
			QuestionID: "since_last",
			Text:       "It has been " + TimeSinceLastEntryToken + " since your last entry. What has happened since then?",
			Type:       domains.QuestionText,
			Order:      2,
			Properties: json.RawMessage(`{"multiline":true}`),
			Condition:  cond("hours_since_last_entry >= 24"),
		},
		{
			QuestionID: domains.ExerciseQuestionID,
			Text:       "Did you exercise today?",
			Type:       domains.QuestionBoolean,
			Order:      3,
			Condition:  cond("exercised_today == false"),
		},
		{
			QuestionID: "exercise_details",
			Text:       "What did you do, and how did it feel?",
			Type:       domains.QuestionText,
			Order:      4,
			Condition:  cond(`exercise_response == "Yes"`),
		},
		{
			QuestionID: domains.GoalsQuestionID,
			Text:       "What do you want to accomplish today?",
			Type:       domains.QuestionText,
			Order:      5,
			Properties: json.RawMessage(`{"multiline":true}`),
			Condition:  cond("is_before_noon == true and goals_set_today == false"),
		},
		{
			QuestionID: "energy",
			Text:       "How is your energy level?",
			Type:       domains.QuestionSelect,
			Order:      6,
			Properties: json.RawMessage(`{"options":["low","medium","high"]}`),
		},
		{
			QuestionID: "gratitude",
			Text:       "What is one thing you are grateful for?",
			Type:       domains.QuestionText,
			Order:      7,
		},
	}
}
