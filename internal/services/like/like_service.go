package like

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rajivgeraev/re-lease-api/internal/apperr"
	"github.com/rajivgeraev/re-lease-api/internal/db"
	"github.com/rajivgeraev/re-lease-api/internal/middleware"
	"github.com/rajivgeraev/re-lease-api/internal/models"
)

// Сообщения о результате; повторный лайк или снятие несуществующего не ошибка
const (
	MsgLiked        = "Listing liked"
	MsgAlreadyLiked = "Already liked"
	MsgUnliked      = "Listing unliked"
	MsgNotLiked     = "Not liked"
)

// LikeRepository хранилище лайков
type LikeRepository interface {
	ListingExists(ctx context.Context, id uuid.UUID) (bool, error)
	AddLike(ctx context.Context, userID, listingID uuid.UUID) (bool, error)
	RemoveLike(ctx context.Context, userID, listingID uuid.UUID) (bool, error)
	IsLiked(ctx context.Context, userID, listingID uuid.UUID) (bool, error)
	LikedListings(ctx context.Context, userID uuid.UUID) ([]models.Listing, error)
}

// LikeService лайки объявлений
type LikeService struct {
	repo LikeRepository
	log  *zap.SugaredLogger
}

// NewLikeService создает новый экземпляр LikeService
func NewLikeService(repo LikeRepository, log *zap.SugaredLogger) *LikeService {
	return &LikeService{repo: repo, log: log}
}

func (s *LikeService) ensureListing(ctx context.Context, listingID uuid.UUID) error {
	exists, err := s.repo.ListingExists(ctx, listingID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Listing not found")
	}
	return nil
}

// Like ставит лайк. Возвращает сообщение о результате.
func (s *LikeService) Like(ctx context.Context, userID, listingID uuid.UUID) (string, error) {
	if err := s.ensureListing(ctx, listingID); err != nil {
		return "", err
	}
	added, err := s.repo.AddLike(ctx, userID, listingID)
	if err != nil {
		return "", err
	}
	if !added {
		return MsgAlreadyLiked, nil
	}
	return MsgLiked, nil
}

// Unlike снимает лайк. Возвращает сообщение о результате.
func (s *LikeService) Unlike(ctx context.Context, userID, listingID uuid.UUID) (string, error) {
	if err := s.ensureListing(ctx, listingID); err != nil {
		return "", err
	}
	removed, err := s.repo.RemoveLike(ctx, userID, listingID)
	if err != nil {
		return "", err
	}
	if !removed {
		return MsgNotLiked, nil
	}
	return MsgUnliked, nil
}

func parseListingID(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid listing ID")
	}
	return id, nil
}

// LikeHandler добавляет объявление в понравившиеся
func (s *LikeService) LikeHandler(c fiber.Ctx) error {
	return s.toggle(c, s.Like)
}

// UnlikeHandler убирает объявление из понравившихся
func (s *LikeService) UnlikeHandler(c fiber.Ctx) error {
	return s.toggle(c, s.Unlike)
}

func (s *LikeService) toggle(c fiber.Ctx, op func(context.Context, uuid.UUID, uuid.UUID) (string, error)) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	listingID, err := parseListingID(c)
	if err != nil {
		return err
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	msg, err := op(ctx, user.ID, listingID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": msg})
}

// GetLikedListings возвращает понравившиеся объявления
func (s *LikeService) GetLikedListings(c fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	listings, err := s.repo.LikedListings(ctx, user.ID)
	if err != nil {
		return err
	}
	return c.JSON(listings)
}

// CheckLiked проверяет, лайкнул ли пользователь объявление
func (s *LikeService) CheckLiked(c fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	listingID, err := parseListingID(c)
	if err != nil {
		return err
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	liked, err := s.repo.IsLiked(ctx, user.ID, listingID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"listing_id": listingID, "is_liked": liked})
}
