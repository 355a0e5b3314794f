package domains

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type QuestionType string

const (
	QuestionNumber   QuestionType = "number"
	QuestionText     QuestionType = "text"
	QuestionBoolean  QuestionType = "boolean"
	QuestionEmotions QuestionType = "emotions"
	QuestionSelect   QuestionType = "select"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionNumber, QuestionText, QuestionBoolean, QuestionEmotions, QuestionSelect:
		return true
	default:
		return false
	}
}

// Properties is the type-specific configuration of a question. Each
// QuestionType has exactly one variant.
type Properties interface {
	QuestionType() QuestionType
}

type NumberProperties struct {
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Step *float64 `json:"step,omitempty"`
}

type TextProperties struct {
	Placeholder string `json:"placeholder,omitempty"`
	Multiline   bool   `json:"multiline,omitempty"`
	MaxLength   int    `json:"max_length,omitempty"`
}

type BooleanProperties struct{}

type EmotionsProperties struct {
	Options []string `json:"options,omitempty"`
}

type SelectProperties struct {
	Options []string `json:"options,omitempty"`
}

func (NumberProperties) QuestionType() QuestionType   { return QuestionNumber }
func (TextProperties) QuestionType() QuestionType     { return QuestionText }
func (BooleanProperties) QuestionType() QuestionType  { return QuestionBoolean }
func (EmotionsProperties) QuestionType() QuestionType { return QuestionEmotions }
func (SelectProperties) QuestionType() QuestionType   { return QuestionSelect }

// EmptyProperties returns the zero variant for t, or nil for an unknown type.
func EmptyProperties(t QuestionType) Properties {
	switch t {
	case QuestionNumber:
		return NumberProperties{}
	case QuestionText:
		return TextProperties{}
	case QuestionBoolean:
		return BooleanProperties{}
	case QuestionEmotions:
		return EmotionsProperties{}
	case QuestionSelect:
		return SelectProperties{}
	default:
		return nil
	}
}

// ParseProperties decodes a stored properties blob into the variant for t.
// On any decode failure the empty variant is returned together with the error.
func ParseProperties(t QuestionType, raw json.RawMessage) (Properties, error) {
	empty := EmptyProperties(t)
	if empty == nil {
		return nil, fmt.Errorf("unknown question type %q", t)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return empty, nil
	}

	var (
		props Properties
		err   error
	)
	switch t {
	case QuestionNumber:
		var p NumberProperties
		err = json.Unmarshal(trimmed, &p)
		if err == nil && p.Min != nil && p.Max != nil && *p.Min > *p.Max {
			err = fmt.Errorf("min %v greater than max %v", *p.Min, *p.Max)
		}
		props = p
	case QuestionText:
		var p TextProperties
		err = json.Unmarshal(trimmed, &p)
		props = p
	case QuestionBoolean:
		var p map[string]any
		err = json.Unmarshal(trimmed, &p)
		props = BooleanProperties{}
	case QuestionEmotions:
		var p EmotionsProperties
		err = json.Unmarshal(trimmed, &p)
		props = p
	case QuestionSelect:
		var p SelectProperties
		err = json.Unmarshal(trimmed, &p)
		props = p
	}
	if err != nil {
		return empty, fmt.Errorf("decode %s properties: %w", t, err)
	}
	return props, nil
}
