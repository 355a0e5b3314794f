package seed

import (
	"os"
	"path/filepath"
	"testing"

	"guidedjournal/internal/domains"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadShippedSeeds(t *testing.T) {
	templates, err := Load(filepath.Join("..", "..", "seeds", "system_templates.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, templates)

	for _, tpl := range templates {
		questions, err := tpl.QuestionCreates()
		require.NoError(t, err, tpl.Name)
		for _, q := range questions {
			_, err := domains.ParseProperties(q.Type, q.Properties)
			assert.NoError(t, err, "%s/%s", tpl.Name, q.QuestionID)
		}
	}
}

func TestParseConvertsQuestions(t *testing.T) {
	templates, err := Parse([]byte(`
templates:
  - name: Tiny
    questions:
      - id: mood
        text: Mood?
        type: number
        required: true
        properties: {min: 1, max: 5}
      - id: why
        text: Why?
        type: text
        order: 7
        condition: hours_since_last_entry > 12
`))
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, domains.TemplateCreate{Name: "Tiny"}, templates[0].Create())

	questions, err := templates[0].QuestionCreates()
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.Equal(t, "mood", questions[0].QuestionID)
	assert.Equal(t, 0, *questions[0].Order)
	assert.True(t, questions[0].Required)
	assert.JSONEq(t, `{"min":1,"max":5}`, string(questions[0].Properties))
	assert.Nil(t, questions[0].Condition)

	assert.Equal(t, 7, *questions[1].Order)
	require.NotNil(t, questions[1].Condition)
	assert.Equal(t, "hours_since_last_entry > 12", *questions[1].Condition)
	assert.Nil(t, questions[1].Properties)
}

func TestParseRejects(t *testing.T) {
	tests := map[string]string{
		"empty":              `templates: []`,
		"unknown field":      "templates:\n  - name: A\n    colour: red\n",
		"nameless":           "templates:\n  - description: x\n",
		"duplicate name":     "templates:\n  - name: A\n  - name: A\n",
		"unknown type":       "templates:\n  - name: A\n    questions:\n      - {id: q, text: Q, type: slider}\n",
		"bad condition":      "templates:\n  - name: A\n    questions:\n      - {id: q, text: Q, type: text, condition: \"exercised_today ==\"}\n",
		"unknown identifier": "templates:\n  - name: A\n    questions:\n      - {id: q, text: Q, type: text, condition: \"os == true\"}\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
