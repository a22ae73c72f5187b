package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/rajivgeraev/re-lease-api/internal/models"
)

// AddLike добавляет лайк. false, если лайк уже был.
func (s *Store) AddLike(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO liked_listings (user_id, listing_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, listing_id) DO NOTHING
	`, userID, listingID)
	if err != nil {
		return false, mapError(err, "ошибка добавления лайка")
	}
	return tag.RowsAffected() > 0, nil
}

// RemoveLike снимает лайк. false, если лайка не было.
func (s *Store) RemoveLike(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM liked_listings WHERE user_id = $1 AND listing_id = $2
	`, userID, listingID)
	if err != nil {
		return false, mapError(err, "ошибка удаления лайка")
	}
	return tag.RowsAffected() > 0, nil
}

// IsLiked проверяет, лайкнул ли пользователь объявление
func (s *Store) IsLiked(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM liked_listings WHERE user_id = $1 AND listing_id = $2)
	`, userID, listingID).Scan(&exists)
	if err != nil {
		return false, mapError(err, "ошибка проверки лайка")
	}
	return exists, nil
}

// LikedListings возвращает понравившиеся объявления, последние лайки первыми
func (s *Store) LikedListings(ctx context.Context, userID uuid.UUID) ([]models.Listing, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+listingColumns+listingFrom+`
		JOIN liked_listings ll ON ll.listing_id = l.id
		WHERE ll.user_id = $1
		ORDER BY ll.created_at DESC
	`, userID)
	if err != nil {
		return nil, mapError(err, "ошибка получения понравившихся объявлений")
	}
	return collectListings(rows)
}
