package domains

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProperties(t *testing.T) {
	one, ten := 1.0, 10.0
	tests := []struct {
		name    string
		typ     QuestionType
		raw     string
		want    Properties
		wantErr bool
	}{
		{"number", QuestionNumber, `{"min":1,"max":10}`, NumberProperties{Min: &one, Max: &ten}, false},
		{"number min above max", QuestionNumber, `{"min":10,"max":1}`, NumberProperties{}, true},
		{"text", QuestionText, `{"placeholder":"...","multiline":true,"max_length":200}`, TextProperties{Placeholder: "...", Multiline: true, MaxLength: 200}, false},
		{"boolean ignores keys", QuestionBoolean, `{"anything":1}`, BooleanProperties{}, false},
		{"emotions", QuestionEmotions, `{"options":["calm"]}`, EmotionsProperties{Options: []string{"calm"}}, false},
		{"select", QuestionSelect, `{"options":["a","b"]}`, SelectProperties{Options: []string{"a", "b"}}, false},
		{"empty blob", QuestionSelect, ``, SelectProperties{}, false},
		{"null blob", QuestionText, `null`, TextProperties{}, false},
		{"invalid json", QuestionNumber, `{invalid json`, NumberProperties{}, true},
		{"wrong shape", QuestionEmotions, `{"options":"calm"}`, EmotionsProperties{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProperties(tt.typ, json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.typ, got.QuestionType())
		})
	}
}

func TestParsePropertiesUnknownType(t *testing.T) {
	got, err := ParseProperties("slider", nil)
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestParseYesNo(t *testing.T) {
	for _, raw := range []string{"yes", "Y", " TRUE ", "on", "1"} {
		got, ok := ParseYesNo(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, "Yes", got, raw)
	}
	for _, raw := range []string{"No", "n", "false", "OFF", "0"} {
		got, ok := ParseYesNo(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, "No", got, raw)
	}
	_, ok := ParseYesNo("maybe")
	assert.False(t, ok)
}

func TestFactsWithSubmission(t *testing.T) {
	base := ConservativeFacts()

	values := base.Values()
	assert.NotContains(t, values, FactExerciseResponse)
	assert.True(t, math.IsInf(values[FactHoursSinceLastEntry].(float64), 1))

	withYes := base.WithSubmission(PartialSubmission{ExerciseQuestionID: "true"})
	require.NotNil(t, withYes.ExerciseResponse)
	assert.Equal(t, "Yes", *withYes.ExerciseResponse)
	assert.Equal(t, "Yes", withYes.Values()[FactExerciseResponse])
	assert.Nil(t, base.ExerciseResponse)

	raw := base.WithSubmission(PartialSubmission{ExerciseQuestionID: "Swimming"})
	require.NotNil(t, raw.ExerciseResponse)
	assert.Equal(t, "Swimming", *raw.ExerciseResponse)

	cleared := withYes.WithSubmission(nil)
	assert.Nil(t, cleared.ExerciseResponse)
}

func TestTemplateVisibleTo(t *testing.T) {
	owner := int64(3)
	assert.True(t, Template{IsSystem: true}.VisibleTo(9))
	assert.True(t, Template{OwnerID: &owner}.VisibleTo(3))
	assert.False(t, Template{OwnerID: &owner}.VisibleTo(4))
}

func TestResolutionOffered(t *testing.T) {
	r := Resolution{Questions: []ResolvedQuestion{{ID: "a"}, {ID: "b", Text: "B"}}}

	q, ok := r.Offered("b")
	assert.True(t, ok)
	assert.Equal(t, "B", q.Text)
	_, ok = r.Offered("c")
	assert.False(t, ok)
}
