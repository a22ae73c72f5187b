package listing

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/re-lease-api/internal/apperr"
	"github.com/rajivgeraev/re-lease-api/internal/db"
	"github.com/rajivgeraev/re-lease-api/internal/middleware"
	"github.com/rajivgeraev/re-lease-api/internal/models"
)

func listingID(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid listing ID")
	}
	return id, nil
}

// CreateListing обрабатывает создание нового объявления
func (s *ListingService) CreateListing(c fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var in models.ListingInput
	if err := c.Bind().Body(&in); err != nil {
		return apperr.Validation("Invalid request body")
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	listing, err := s.Create(ctx, user.ID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(listing)
}

// GetPublicListings публичный поиск по активным объявлениям
func (s *ListingService) GetPublicListings(c fiber.Ctx) error {
	filter, err := ParseFilter(func(key string) string { return c.Query(key) })
	if err != nil {
		return err
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	listings, err := s.List(ctx, filter)
	if err != nil {
		return err
	}
	return c.JSON(listings)
}

// GetListing возвращает объявление и засчитывает просмотр
func (s *ListingService) GetListing(c fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return err
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	listing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(listing)
}

// GetMyListings возвращает объявления текущего пользователя
func (s *ListingService) GetMyListings(c fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	listings, err := s.MyListings(ctx, user.ID)
	if err != nil {
		return err
	}
	return c.JSON(listings)
}

// UpdateListing частично обновляет объявление
func (s *ListingService) UpdateListing(c fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := listingID(c)
	if err != nil {
		return err
	}

	var patch models.ListingPatch
	if err := c.Bind().Body(&patch); err != nil {
		return apperr.Validation("Invalid request body")
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	listing, err := s.Update(ctx, id, user.ID, patch)
	if err != nil {
		return err
	}
	return c.JSON(listing)
}

// DeleteListing удаляет объявление
func (s *ListingService) DeleteListing(c fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := listingID(c)
	if err != nil {
		return err
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	deleted, err := s.Delete(ctx, id, user.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.ErrNotFoundOrForbidden
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkInterestedHandler отмечает интерес к объявлению
func (s *ListingService) MarkInterestedHandler(c fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return err
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	if err := s.MarkInterested(ctx, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Listing marked as interested"})
}
