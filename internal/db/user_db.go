package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/re-lease-api/internal/models"
)

const userColumns = `id, username, email, password_hash, bio, is_verified,
	verification_code, verification_expires_at, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Bio, &u.IsVerified,
		&u.VerificationCode, &u.VerificationExpiresAt, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser создаёт неподтверждённого пользователя с кодом подтверждения
func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash, code string, expiresAt time.Time) (*models.User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, verification_code, verification_expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns, username, email, passwordHash, code, expiresAt)

	u, err := scanUser(row)
	if err != nil {
		return nil, mapError(err, "ошибка при создании пользователя")
	}
	return u, nil
}

// GetUserByID возвращает пользователя по ID
func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "ошибка при получении пользователя")
	}
	return u, nil
}

// GetUserByUsername возвращает пользователя по имени
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		return nil, mapError(err, "ошибка при получении пользователя")
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, mapError(err, "ошибка при получении пользователя")
	}
	return u, nil
}

// UserExists проверяет существование пользователя
func (s *Store) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, mapError(err, "ошибка проверки пользователя")
	}
	return exists, nil
}

// SetVerificationCode сохраняет новый код подтверждения
func (s *Store) SetVerificationCode(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET verification_code = $2, verification_expires_at = $3
		WHERE id = $1
	`, id, code, expiresAt)
	if err != nil {
		return mapError(err, "ошибка при сохранении кода подтверждения")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkVerified подтверждает email и очищает код
func (s *Store) MarkVerified(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET is_verified = TRUE, verification_code = NULL, verification_expires_at = NULL
		WHERE id = $1
	`, id)
	if err != nil {
		return mapError(err, "ошибка при подтверждении email")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateBio обновляет описание профиля, nil очищает его
func (s *Store) UpdateBio(ctx context.Context, id uuid.UUID, bio *string) (*models.User, error) {
	row := s.pool.QueryRow(ctx, `UPDATE users SET bio = $2 WHERE id = $1 RETURNING `+userColumns, id, bio)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapError(err, "ошибка при обновлении профиля")
	}
	return u, nil
}

// SearchUsers ищет пользователей по подстроке имени или email
func (s *Store) SearchUsers(ctx context.Context, query string, limit int) ([]models.UserSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, username, email FROM users
		WHERE username ILIKE $1 ESCAPE '\' OR email ILIKE $1 ESCAPE '\'
		ORDER BY username
		LIMIT $2
	`, "%"+escapeLike(query)+"%", limit)
	if err != nil {
		return nil, mapError(err, "ошибка поиска пользователей")
	}
	return collectUserSummaries(rows)
}

func collectUserSummaries(rows pgx.Rows) ([]models.UserSummary, error) {
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.UserSummary, error) {
		var u models.UserSummary
		err := row.Scan(&u.ID, &u.Username, &u.Email)
		return u, err
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения пользователей: %w", err)
	}
	return users, nil
}
