package providers

import (
	"context"
	"errors"
	"fmt"

	"guidedjournal/internal/domains"
	"guidedjournal/internal/storage"

	"github.com/jackc/pgx/v5"
)

type UserProvider struct {
	db storage.DB
}

func NewUserProvider(db storage.DB) *UserProvider {
	return &UserProvider{
		db: db,
	}
}

func (u *UserProvider) GetUserByID(ctx context.Context, id int64) (domains.User, error) {
	var user domains.User
	err := u.db.QueryRow(ctx, `
		SELECT id, email, timezone, created_at
		FROM users
		WHERE id = $1`, id,
	).Scan(&user.ID, &user.Email, &user.Timezone, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.User{}, fmt.Errorf("get user: %w", storage.ErrNotFound)
		}
		return domains.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
