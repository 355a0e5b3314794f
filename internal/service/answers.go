package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"guidedjournal/internal/domains"
)

// EncodeAnswer validates raw against the question and returns the stored form:
// numbers as plain numerals, booleans as "Yes"/"No", emotions as a JSON array,
// text and select unchanged.
func EncodeAnswer(q domains.ResolvedQuestion, raw string) (string, error) {
	switch q.Type {
	case domains.QuestionNumber:
		props, _ := q.Properties.(domains.NumberProperties)
		return encodeNumber(props, raw)
	case domains.QuestionBoolean:
		value, ok := domains.ParseYesNo(raw)
		if !ok {
			return "", fmt.Errorf("%q is not yes or no", raw)
		}
		return value, nil
	case domains.QuestionEmotions:
		props, _ := q.Properties.(domains.EmotionsProperties)
		return encodeEmotions(props, raw)
	case domains.QuestionSelect:
		props, _ := q.Properties.(domains.SelectProperties)
		choice := strings.TrimSpace(raw)
		if len(props.Options) > 0 && !slices.Contains(props.Options, choice) {
			return "", fmt.Errorf("%q is not one of the options", choice)
		}
		return choice, nil
	case domains.QuestionText:
		props, _ := q.Properties.(domains.TextProperties)
		if props.MaxLength > 0 && utf8.RuneCountInString(raw) > props.MaxLength {
			return "", fmt.Errorf("longer than %d characters", props.MaxLength)
		}
		return raw, nil
	default:
		return "", fmt.Errorf("unknown question type %q", q.Type)
	}
}

func encodeNumber(props domains.NumberProperties, raw string) (string, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return "", fmt.Errorf("%q is not a number", raw)
	}
	if props.Min != nil && value < *props.Min {
		return "", fmt.Errorf("%v is below the minimum %v", value, *props.Min)
	}
	if props.Max != nil && value > *props.Max {
		return "", fmt.Errorf("%v is above the maximum %v", value, *props.Max)
	}
	return strconv.FormatFloat(value, 'f', -1, 64), nil
}

func encodeEmotions(props domains.EmotionsProperties, raw string) (string, error) {
	var emotions []string
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &emotions); err != nil {
			return "", fmt.Errorf("emotions must be a list of strings: %v", err)
		}
	} else {
		emotions = strings.Split(trimmed, ",")
	}

	selected := make([]string, 0, len(emotions))
	for _, e := range emotions {
		e = strings.TrimSpace(e)
		if e == "" || slices.Contains(selected, e) {
			continue
		}
		if len(props.Options) > 0 && !slices.Contains(props.Options, e) {
			return "", fmt.Errorf("%q is not a known emotion", e)
		}
		selected = append(selected, e)
	}
	if len(selected) == 0 {
		return "", errors.New("no emotions selected")
	}

	encoded, err := json.Marshal(selected)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}
