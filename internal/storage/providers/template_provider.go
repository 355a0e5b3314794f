package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"guidedjournal/internal/domains"
	"guidedjournal/internal/storage"

	"github.com/jackc/pgx/v5"
)

type TemplateProvider struct {
	db storage.DB
}

func NewTemplateProvider(db storage.DB) *TemplateProvider {
	return &TemplateProvider{
		db: db,
	}
}

const templateColumns = `id, name, description, owner_id, is_system, created_at, updated_at`

const questionColumns = `id, template_id, question_id, text, type, sort_order, required, properties, condition_expr`

func scanTemplate(row pgx.Row) (domains.Template, error) {
	var t domains.Template
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.OwnerID, &t.IsSystem, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return domains.Template{}, err
	}
	return t, nil
}

func scanQuestion(row pgx.Row) (domains.Question, error) {
	var (
		q          domains.Question
		typ        string
		properties string
	)
	if err := row.Scan(&q.ID, &q.TemplateID, &q.QuestionID, &q.Text, &typ, &q.Order, &q.Required, &properties, &q.Condition); err != nil {
		return domains.Question{}, err
	}
	q.Type = domains.QuestionType(typ)
	q.Properties = json.RawMessage(properties)
	return q, nil
}

func propertiesText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}

func (s *TemplateProvider) CreateTemplate(ctx context.Context, template domains.TemplateCreate, ownerID *int64, isSystem bool) (domains.Template, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO templates (name, description, owner_id, is_system)
		VALUES ($1, $2, $3, $4)
		RETURNING `+templateColumns,
		template.Name, template.Description, ownerID, isSystem,
	)
	created, err := scanTemplate(row)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return domains.Template{}, fmt.Errorf("insert template: %w", storage.ErrConflict)
		}
		return domains.Template{}, fmt.Errorf("insert template: %w", err)
	}
	return created, nil
}

// CreateTemplateWithQuestions stores a template and its questions atomically.
func (s *TemplateProvider) CreateTemplateWithQuestions(ctx context.Context, template domains.TemplateCreate, ownerID *int64, isSystem bool, questions []domains.QuestionCreate) (domains.TemplateDetails, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domains.TemplateDetails{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	created, err := scanTemplate(tx.QueryRow(ctx, `
		INSERT INTO templates (name, description, owner_id, is_system)
		VALUES ($1, $2, $3, $4)
		RETURNING `+templateColumns,
		template.Name, template.Description, ownerID, isSystem,
	))
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return domains.TemplateDetails{}, fmt.Errorf("insert template: %w", storage.ErrConflict)
		}
		return domains.TemplateDetails{}, fmt.Errorf("insert template: %w", err)
	}

	saved := make([]domains.Question, 0, len(questions))
	for i, q := range questions {
		order := i
		if q.Order != nil {
			order = *q.Order
		}
		question, err := scanQuestion(tx.QueryRow(ctx, `
			INSERT INTO questions (template_id, question_id, text, type, sort_order, required, properties, condition_expr)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+questionColumns,
			created.ID, q.QuestionID, q.Text, string(q.Type), order, q.Required, propertiesText(q.Properties), q.Condition,
		))
		if err != nil {
			if storage.IsUniqueViolation(err) {
				return domains.TemplateDetails{}, fmt.Errorf("insert question %s: %w", q.QuestionID, storage.ErrConflict)
			}
			return domains.TemplateDetails{}, fmt.Errorf("insert question %s: %w", q.QuestionID, err)
		}
		saved = append(saved, question)
	}

	if err := tx.Commit(ctx); err != nil {
		return domains.TemplateDetails{}, fmt.Errorf("commit: %w", err)
	}
	return domains.TemplateDetails{Template: created, Questions: saved}, nil
}

func (s *TemplateProvider) GetTemplate(ctx context.Context, templateID int64) (domains.Template, error) {
	template, err := scanTemplate(s.db.QueryRow(ctx, `SELECT `+templateColumns+` FROM templates WHERE id = $1`, templateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.Template{}, fmt.Errorf("get template: %w", storage.ErrNotFound)
		}
		return domains.Template{}, fmt.Errorf("get template: %w", err)
	}
	return template, nil
}

func (s *TemplateProvider) FindSystemTemplate(ctx context.Context, name string) (domains.Template, error) {
	template, err := scanTemplate(s.db.QueryRow(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE is_system AND name = $1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.Template{}, fmt.Errorf("find system template: %w", storage.ErrNotFound)
		}
		return domains.Template{}, fmt.Errorf("find system template: %w", err)
	}
	return template, nil
}

// ListTemplatesForUser returns system templates followed by the user's own.
func (s *TemplateProvider) ListTemplatesForUser(ctx context.Context, userID int64) ([]domains.Template, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+templateColumns+`
		FROM templates
		WHERE is_system OR owner_id = $1
		ORDER BY is_system DESC, name, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	templates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domains.Template, error) {
		return scanTemplate(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan templates: %w", err)
	}
	return templates, nil
}

func (s *TemplateProvider) UpdateTemplate(ctx context.Context, templateID int64, template domains.TemplateCreate) (domains.Template, error) {
	updated, err := scanTemplate(s.db.QueryRow(ctx, `
		UPDATE templates
		SET name = $1, description = $2, updated_at = now()
		WHERE id = $3
		RETURNING `+templateColumns,
		template.Name, template.Description, templateID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.Template{}, fmt.Errorf("update template: %w", storage.ErrNotFound)
		}
		return domains.Template{}, fmt.Errorf("update template: %w", err)
	}
	return updated, nil
}

// DeleteTemplate removes the template; its questions go with it (ON DELETE CASCADE).
func (s *TemplateProvider) DeleteTemplate(ctx context.Context, templateID int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM templates WHERE id = $1`, templateID)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete template: %w", storage.ErrNotFound)
	}
	return nil
}

// GetQuestions returns the template's questions by sort_order, ties in
// insertion order. storage.ErrNotFound means the template does not exist.
func (s *TemplateProvider) GetQuestions(ctx context.Context, templateID int64) ([]domains.Question, error) {
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM templates WHERE id = $1)`, templateID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check template: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("get questions: %w", storage.ErrNotFound)
	}

	rows, err := s.db.Query(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		WHERE template_id = $1
		ORDER BY sort_order, id`, templateID)
	if err != nil {
		return nil, fmt.Errorf("get questions: %w", err)
	}

	questions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domains.Question, error) {
		return scanQuestion(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan questions: %w", err)
	}
	return questions, nil
}

// CreateQuestion appends a question. Without an explicit order it goes after
// the current last question.
func (s *TemplateProvider) CreateQuestion(ctx context.Context, templateID int64, q domains.QuestionCreate) (domains.Question, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domains.Question{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	created, err := scanQuestion(tx.QueryRow(ctx, `
		INSERT INTO questions (template_id, question_id, text, type, sort_order, required, properties, condition_expr)
		VALUES ($1, $2, $3, $4,
		        COALESCE($5::int, (SELECT COALESCE(MAX(sort_order) + 1, 0) FROM questions WHERE template_id = $1)),
		        $6, $7, $8)
		RETURNING `+questionColumns,
		templateID, q.QuestionID, q.Text, string(q.Type), q.Order, q.Required, propertiesText(q.Properties), q.Condition,
	))
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return domains.Question{}, fmt.Errorf("insert question: %w", storage.ErrConflict)
		}
		return domains.Question{}, fmt.Errorf("insert question: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE templates SET updated_at = now() WHERE id = $1`, templateID); err != nil {
		return domains.Question{}, fmt.Errorf("touch template: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domains.Question{}, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

func (s *TemplateProvider) UpdateQuestion(ctx context.Context, templateID int64, questionID string, q domains.QuestionCreate) (domains.Question, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domains.Question{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	updated, err := scanQuestion(tx.QueryRow(ctx, `
		UPDATE questions
		SET question_id = $1, text = $2, type = $3, sort_order = COALESCE($4::int, sort_order),
		    required = $5, properties = $6, condition_expr = $7
		WHERE template_id = $8 AND question_id = $9
		RETURNING `+questionColumns,
		q.QuestionID, q.Text, string(q.Type), q.Order, q.Required, propertiesText(q.Properties), q.Condition,
		templateID, questionID,
	))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domains.Question{}, fmt.Errorf("update question: %w", storage.ErrNotFound)
		case storage.IsUniqueViolation(err):
			return domains.Question{}, fmt.Errorf("update question: %w", storage.ErrConflict)
		default:
			return domains.Question{}, fmt.Errorf("update question: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE templates SET updated_at = now() WHERE id = $1`, templateID); err != nil {
		return domains.Question{}, fmt.Errorf("touch template: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domains.Question{}, fmt.Errorf("commit: %w", err)
	}
	return updated, nil
}

func (s *TemplateProvider) DeleteQuestion(ctx context.Context, templateID int64, questionID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM questions WHERE template_id = $1 AND question_id = $2`, templateID, questionID)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete question: %w", storage.ErrNotFound)
	}
	return nil
}

// ReorderQuestions assigns sort_order by position in questionIDs.
func (s *TemplateProvider) ReorderQuestions(ctx context.Context, templateID int64, questionIDs []string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, questionID := range questionIDs {
		tag, err := tx.Exec(ctx,
			`UPDATE questions SET sort_order = $1 WHERE template_id = $2 AND question_id = $3`,
			i, templateID, questionID,
		)
		if err != nil {
			return fmt.Errorf("reorder question %s: %w", questionID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("reorder question %s: %w", questionID, storage.ErrNotFound)
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE templates SET updated_at = now() WHERE id = $1`, templateID); err != nil {
		return fmt.Errorf("touch template: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
