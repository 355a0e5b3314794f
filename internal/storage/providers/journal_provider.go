package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guidedjournal/internal/domains"
	"guidedjournal/internal/storage"

	"github.com/jackc/pgx/v5"
)

const dateLayout = "2006-01-02"

// JournalProvider reads and writes entries, guided answers and exercise logs.
type JournalProvider struct {
	db storage.DB
}

func NewJournalProvider(db storage.DB) *JournalProvider {
	return &JournalProvider{
		db: db,
	}
}

// LastEntryBefore returns the creation time of the newest entry strictly
// before the given instant. ok is false when the user has none.
func (s *JournalProvider) LastEntryBefore(ctx context.Context, userID int64, before time.Time) (time.Time, bool, error) {
	var createdAt time.Time
	err := s.db.QueryRow(ctx, `
		SELECT created_at
		FROM entries
		WHERE user_id = $1 AND created_at < $2
		ORDER BY created_at DESC
		LIMIT 1`, userID, before.UTC()).Scan(&createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("last entry: %w", err)
	}
	return createdAt, true, nil
}

// HasExercised reports whether an exercise log with has_exercised is stored
// for the user's local calendar date.
func (s *JournalProvider) HasExercised(ctx context.Context, userID int64, localDate time.Time) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM exercise_logs
			WHERE user_id = $1 AND log_date = $2::date AND has_exercised
		)`, userID, localDate.Format(dateLayout)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exercise log: %w", err)
	}
	return exists, nil
}

// HasAnswerBetween reports whether the user answered questionID on an entry
// created in [from, to).
func (s *JournalProvider) HasAnswerBetween(ctx context.Context, userID int64, questionID string, from, to time.Time) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM guided_answers a
			JOIN entries e ON e.id = a.entry_id
			WHERE e.user_id = $1
			  AND a.question_id = $2
			  AND e.created_at >= $3
			  AND e.created_at < $4
		)`, userID, questionID, from.UTC(), to.UTC()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("answer lookup: %w", err)
	}
	return exists, nil
}

// MarkExercised sets the exercise flag for the local date. Repeating it is
// harmless, concurrent submissions all write true.
func (s *JournalProvider) MarkExercised(ctx context.Context, userID int64, localDate time.Time) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO exercise_logs (user_id, log_date, has_exercised)
		VALUES ($1, $2::date, true)
		ON CONFLICT (user_id, log_date) DO UPDATE SET has_exercised = true`,
		userID, localDate.Format(dateLayout))
	if err != nil {
		return fmt.Errorf("mark exercised: %w", err)
	}
	return nil
}

func (s *JournalProvider) SaveEntry(ctx context.Context, entry domains.EntryToSave) (domains.Entry, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domains.Entry{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	saved := domains.Entry{
		UserID:     entry.UserID,
		TemplateID: entry.TemplateID,
		Content:    entry.Content,
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO entries (user_id, template_id, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		entry.UserID, entry.TemplateID, entry.Content, entry.CreatedAt.UTC(),
	).Scan(&saved.ID, &saved.CreatedAt); err != nil {
		return domains.Entry{}, fmt.Errorf("insert entry: %w", err)
	}

	const insertAnswer = `
		INSERT INTO guided_answers (entry_id, question_id, question_text, answer)
		VALUES ($1, $2, $3, $4)`

	saved.Answers = make([]domains.Answer, 0, len(entry.Answers))
	for _, answer := range entry.Answers {
		if _, err := tx.Exec(ctx, insertAnswer, saved.ID, answer.QuestionID, answer.QuestionText, answer.Value); err != nil {
			return domains.Entry{}, fmt.Errorf("insert answer %s: %w", answer.QuestionID, err)
		}
		saved.Answers = append(saved.Answers, answer)
	}

	if err := tx.Commit(ctx); err != nil {
		return domains.Entry{}, fmt.Errorf("commit: %w", err)
	}
	return saved, nil
}

func (s *JournalProvider) GetEntry(ctx context.Context, userID, entryID int64) (domains.Entry, error) {
	var entry domains.Entry
	err := s.db.QueryRow(ctx, `
		SELECT id, user_id, template_id, content, created_at
		FROM entries
		WHERE id = $1 AND user_id = $2`, entryID, userID,
	).Scan(&entry.ID, &entry.UserID, &entry.TemplateID, &entry.Content, &entry.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.Entry{}, fmt.Errorf("get entry: %w", storage.ErrNotFound)
		}
		return domains.Entry{}, fmt.Errorf("get entry: %w", err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT question_id, question_text, answer
		FROM guided_answers
		WHERE entry_id = $1
		ORDER BY id`, entryID)
	if err != nil {
		return domains.Entry{}, fmt.Errorf("list answers: %w", err)
	}

	entry.Answers, err = pgx.CollectRows(rows, pgx.RowToStructByPos[domains.Answer])
	if err != nil {
		return domains.Entry{}, fmt.Errorf("scan answers: %w", err)
	}
	return entry, nil
}
