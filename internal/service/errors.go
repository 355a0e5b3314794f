package service

import "errors"

var (
	ErrTemplateReadOnly    = errors.New("system templates cannot be modified")
	ErrTemplateNameEmpty   = errors.New("template name is required")
	ErrQuestionIDTaken     = errors.New("question_id already used in this template")
	ErrQuestionIDInvalid   = errors.New("question_id may only contain letters, digits, '_' and '-'")
	ErrQuestionTextEmpty   = errors.New("question text is required")
	ErrQuestionTypeInvalid = errors.New("unknown question type")
	ErrPropertiesInvalid   = errors.New("question properties do not match the question type")
	ErrConditionInvalid    = errors.New("question condition is not a valid expression")
	ErrOrderIncomplete     = errors.New("question order must list every question exactly once")
	ErrAnswerRequired      = errors.New("answer required")
	ErrAnswerInvalid       = errors.New("answer invalid")
)
