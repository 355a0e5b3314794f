// Package seed reads the system templates shipped with the service.
package seed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"guidedjournal/internal/condition"
	"guidedjournal/internal/domains"

	"gopkg.in/yaml.v3"
)

type File struct {
	Templates []Template `yaml:"templates"`
}

type Template struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Questions   []Question `yaml:"questions"`
}

type Question struct {
	ID         string         `yaml:"id"`
	Text       string         `yaml:"text"`
	Type       string         `yaml:"type"`
	Order      *int           `yaml:"order"`
	Required   bool           `yaml:"required"`
	Properties map[string]any `yaml:"properties"`
	Condition  string         `yaml:"condition"`
}

func Load(path string) ([]Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seeds: %w", err)
	}
	return Parse(data)
}

// Parse decodes and checks a seed document. Template names must be unique and
// every condition must compile.
func Parse(data []byte) ([]Template, error) {
	var file File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode seeds: %w", err)
	}
	if len(file.Templates) == 0 {
		return nil, errors.New("seed file has no templates")
	}

	names := make(map[string]struct{}, len(file.Templates))
	for _, t := range file.Templates {
		if strings.TrimSpace(t.Name) == "" {
			return nil, errors.New("seed template without a name")
		}
		if _, dup := names[t.Name]; dup {
			return nil, fmt.Errorf("seed template %q listed twice", t.Name)
		}
		names[t.Name] = struct{}{}

		for _, q := range t.Questions {
			if !domains.QuestionType(q.Type).Valid() {
				return nil, fmt.Errorf("template %q question %q: unknown type %q", t.Name, q.ID, q.Type)
			}
			if q.Condition == "" {
				continue
			}
			if _, err := condition.Compile(q.Condition); err != nil {
				return nil, fmt.Errorf("template %q question %q: %w", t.Name, q.ID, err)
			}
		}
	}
	return file.Templates, nil
}

func (t Template) Create() domains.TemplateCreate {
	return domains.TemplateCreate{Name: t.Name, Description: t.Description}
}

// QuestionCreates converts the questions, defaulting order to list position.
func (t Template) QuestionCreates() ([]domains.QuestionCreate, error) {
	out := make([]domains.QuestionCreate, 0, len(t.Questions))
	for i, q := range t.Questions {
		order := i
		if q.Order != nil {
			order = *q.Order
		}
		qc := domains.QuestionCreate{
			QuestionID: q.ID,
			Text:       q.Text,
			Type:       domains.QuestionType(q.Type),
			Order:      &order,
			Required:   q.Required,
		}
		if len(q.Properties) > 0 {
			raw, err := json.Marshal(q.Properties)
			if err != nil {
				return nil, fmt.Errorf("question %q properties: %w", q.ID, err)
			}
			qc.Properties = raw
		}
		if q.Condition != "" {
			expr := q.Condition
			qc.Condition = &expr
		}
		out = append(out, qc)
	}
	return out, nil
}
