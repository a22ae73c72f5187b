package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/re-lease-api/internal/models"
)

func scanListing(row pgx.Row) (*models.Listing, error) {
	var l models.Listing
	err := row.Scan(&l.ID, &l.UserID, &l.UserUsername, &l.Title, &l.Description, &l.Price, &l.Location,
		&l.Bedrooms, &l.Bathrooms, &l.AvailableFrom, &l.Amenities, &l.Images, &l.Status,
		&l.Views, &l.Interested, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func collectListings(rows pgx.Rows) ([]models.Listing, error) {
	listings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Listing, error) {
		l, err := scanListing(row)
		if err != nil {
			return models.Listing{}, err
		}
		return *l, nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения объявлений: %w", err)
	}
	return listings, nil
}

// CreateListing создаёт активное объявление с нулевыми счётчиками
func (s *Store) CreateListing(ctx context.Context, ownerID uuid.UUID, in models.ListingInput) (*models.Listing, error) {
	row := s.pool.QueryRow(ctx, `
		WITH l AS (
			INSERT INTO listings (user_id, title, description, price, location, bedrooms, bathrooms,
				available_from, amenities, images)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING *
		)
		SELECT `+listingColumns+` FROM l JOIN users u ON u.id = l.user_id
	`, ownerID, in.Title, in.Description, in.Price, in.Location, in.Bedrooms, in.Bathrooms,
		in.AvailableFrom.Time, nonNil(in.Amenities), nonNil(in.Images))

	l, err := scanListing(row)
	if err != nil {
		return nil, mapError(err, "ошибка при создании объявления")
	}
	return l, nil
}

// ListListings возвращает активные объявления по фильтру
func (s *Store) ListListings(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	query, args := buildListingQuery(filter)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "ошибка поиска объявлений")
	}
	return collectListings(rows)
}

// GetListing возвращает объявление по ID
func (s *Store) GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	l, err := scanListing(s.pool.QueryRow(ctx, `SELECT `+listingColumns+listingFrom+` WHERE l.id = $1`, id))
	if err != nil {
		return nil, mapError(err, "ошибка при получении объявления")
	}
	return l, nil
}

// ListingExists проверяет существование объявления
func (s *Store) ListingExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM listings WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, mapError(err, "ошибка проверки объявления")
	}
	return exists, nil
}

// ListingsByOwner возвращает все объявления владельца, новые первыми
func (s *Store) ListingsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Listing, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+listingColumns+listingFrom+`
		WHERE l.user_id = $1
		ORDER BY l.created_at DESC, l.id
	`, ownerID)
	if err != nil {
		return nil, mapError(err, "ошибка получения объявлений пользователя")
	}
	return collectListings(rows)
}

// UpdateListing применяет частичное обновление. Если объявления нет
// или оно принадлежит другому пользователю, возвращается ErrNotFound.
func (s *Store) UpdateListing(ctx context.Context, id, ownerID uuid.UUID, patch models.ListingPatch) (*models.Listing, error) {
	sets, args := buildListingUpdate(patch)
	query := `
		WITH l AS (
			UPDATE listings SET ` + strings.Join(sets, ", ") + `
			WHERE id = $1 AND user_id = $2
			RETURNING *
		)
		SELECT ` + listingColumns + ` FROM l JOIN users u ON u.id = l.user_id`

	l, err := scanListing(s.pool.QueryRow(ctx, query, append([]any{id, ownerID}, args...)...))
	if err != nil {
		return nil, mapError(err, "ошибка при обновлении объявления")
	}
	return l, nil
}

// DeleteListing удаляет объявление владельца. false, если удалять нечего.
func (s *Store) DeleteListing(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM listings WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return false, mapError(err, "ошибка при удалении объявления")
	}
	return tag.RowsAffected() > 0, nil
}

// IncrementViews увеличивает счётчик просмотров
func (s *Store) IncrementViews(ctx context.Context, id uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, `UPDATE listings SET views = views + 1 WHERE id = $1`, id); err != nil {
		return mapError(err, "ошибка при увеличении просмотров")
	}
	return nil
}

// IncrementInterested увеличивает счётчик заинтересованных
func (s *Store) IncrementInterested(ctx context.Context, id uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, `UPDATE listings SET interested = interested + 1 WHERE id = $1`, id); err != nil {
		return mapError(err, "ошибка при обновлении счётчика")
	}
	return nil
}

// ListingTitles возвращает заголовки объявлений по списку ID
func (s *Store) ListingTitles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	titles := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}

	rows, err := s.pool.Query(ctx, `SELECT id, title FROM listings WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, mapError(err, "ошибка получения заголовков")
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, fmt.Errorf("ошибка чтения заголовка: %w", err)
		}
		titles[id] = title
	}
	return titles, rows.Err()
}
