package providers

import (
	"context"
	"testing"
	"time"

	"guidedjournal/internal/domains"
	"guidedjournal/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func strPtr(s string) *string { return &s }

func TestGetQuestions_MissingTemplate(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM templates WHERE id").
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := NewTemplateProvider(mock).GetQuestions(context.Background(), 42)
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetQuestions_ScansRowsInOrder(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM templates WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	columns := []string{"id", "template_id", "question_id", "text", "type", "sort_order", "required", "properties", "condition_expr"}
	mock.ExpectQuery("FROM questions").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(int64(1), int64(7), "mood", "How is your mood?", "number", 0, true, `{"min":1,"max":10}`, (*string)(nil)).
			AddRow(int64(2), int64(7), "exercise", "Did you exercise today?", "boolean", 1, false, "{}", strPtr("exercised_today == false")))

	questions, err := NewTemplateProvider(mock).GetQuestions(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.Equal(t, "mood", questions[0].QuestionID)
	assert.Equal(t, domains.QuestionNumber, questions[0].Type)
	assert.JSONEq(t, `{"min":1,"max":10}`, string(questions[0].Properties))
	assert.Nil(t, questions[0].Condition)

	assert.Equal(t, "exercise", questions[1].QuestionID)
	assert.Equal(t, domains.QuestionBoolean, questions[1].Type)
	require.NotNil(t, questions[1].Condition)
	assert.Equal(t, "exercised_today == false", *questions[1].Condition)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateQuestion_DuplicateKeyIsConflict(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO questions").
		WithArgs(int64(3), "mood", "Mood?", "number", pgxmock.AnyArg(), false, "{}", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	_, err := NewTemplateProvider(mock).CreateQuestion(context.Background(), 3, domains.QuestionCreate{
		QuestionID: "mood",
		Text:       "Mood?",
		Type:       domains.QuestionNumber,
	})
	require.ErrorIs(t, err, storage.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTemplate_NotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("DELETE FROM templates").
		WithArgs(int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := NewTemplateProvider(mock).DeleteTemplate(context.Background(), 9)
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLastEntryBefore_NoEntries(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM entries").
		WithArgs(int64(5), pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	_, ok, err := NewJournalProvider(mock).LastEntryBefore(context.Background(), 5, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkExercised_UsesLocalDate(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("INSERT INTO exercise_logs").
		WithArgs(int64(5), "2026-03-14").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	require.NoError(t, NewJournalProvider(mock).MarkExercised(context.Background(), 5, day))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveEntry_WritesAnswersInOneTransaction(t *testing.T) {
	mock := newMock(t)
	created := time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO entries").
		WithArgs(int64(5), pgxmock.AnyArg(), "dear diary", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), created))
	mock.ExpectExec("INSERT INTO guided_answers").
		WithArgs(int64(11), "mood", "How is your mood?", "7").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO guided_answers").
		WithArgs(int64(11), "exercise", "Did you exercise today?", "Yes").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	entry, err := NewJournalProvider(mock).SaveEntry(context.Background(), domains.EntryToSave{
		UserID:    5,
		Content:   "dear diary",
		CreatedAt: created,
		Answers: []domains.Answer{
			{QuestionID: "mood", QuestionText: "How is your mood?", Value: "7"},
			{QuestionID: "exercise", QuestionText: "Did you exercise today?", Value: "Yes"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), entry.ID)
	assert.Len(t, entry.Answers, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListTemplatesForUser(t *testing.T) {
	mock := newMock(t)
	created := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	owner := int64(5)
	columns := []string{"id", "name", "description", "owner_id", "is_system", "created_at", "updated_at"}
	mock.ExpectQuery("FROM templates").
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(int64(1), "Daily", "", (*int64)(nil), true, created, created).
			AddRow(int64(4), "Evening", "wind down", &owner, false, created, created))

	templates, err := NewTemplateProvider(mock).ListTemplatesForUser(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.True(t, templates[0].IsSystem)
	assert.Nil(t, templates[0].OwnerID)
	require.NotNil(t, templates[1].OwnerID)
	assert.Equal(t, int64(5), *templates[1].OwnerID)
	assert.Equal(t, "wind down", templates[1].Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListTemplatesForUser_EmptyIsNotNil(t *testing.T) {
	mock := newMock(t)
	columns := []string{"id", "name", "description", "owner_id", "is_system", "created_at", "updated_at"}
	mock.ExpectQuery("FROM templates").
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows(columns))

	templates, err := NewTemplateProvider(mock).ListTemplatesForUser(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, templates)
	assert.Empty(t, templates)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEntry_CollectsAnswers(t *testing.T) {
	mock := newMock(t)
	created := time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC)
	mock.ExpectQuery("FROM entries").
		WithArgs(int64(11), int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "template_id", "content", "created_at"}).
			AddRow(int64(11), int64(5), (*int64)(nil), "dear diary", created))
	mock.ExpectQuery("FROM guided_answers").
		WithArgs(int64(11)).
		WillReturnRows(pgxmock.NewRows([]string{"question_id", "question_text", "answer"}).
			AddRow("mood", "How is your mood?", "7").
			AddRow("exercise", "Did you exercise today?", "Yes"))

	entry, err := NewJournalProvider(mock).GetEntry(context.Background(), 5, 11)
	require.NoError(t, err)
	assert.Equal(t, "dear diary", entry.Content)
	assert.Nil(t, entry.TemplateID)
	assert.Equal(t, []domains.Answer{
		{QuestionID: "mood", QuestionText: "How is your mood?", Value: "7"},
		{QuestionID: "exercise", QuestionText: "Did you exercise today?", Value: "Yes"},
	}, entry.Answers)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEntry_NotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM entries").
		WithArgs(int64(11), int64(5)).
		WillReturnError(pgx.ErrNoRows)

	_, err := NewJournalProvider(mock).GetEntry(context.Background(), 5, 11)
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
