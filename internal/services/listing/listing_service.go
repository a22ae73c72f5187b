package listing

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rajivgeraev/re-lease-api/internal/apperr"
	"github.com/rajivgeraev/re-lease-api/internal/db"
	"github.com/rajivgeraev/re-lease-api/internal/models"
	"github.com/rajivgeraev/re-lease-api/internal/utils"
)

const (
	DefaultLimit = 100
	MaxLimit     = 100
)

var errListingNotFound = apperr.NotFound("Listing not found")

// ListingRepository хранилище объявлений
type ListingRepository interface {
	CreateListing(ctx context.Context, ownerID uuid.UUID, in models.ListingInput) (*models.Listing, error)
	ListListings(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error)
	GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	ListingExists(ctx context.Context, id uuid.UUID) (bool, error)
	ListingsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Listing, error)
	UpdateListing(ctx context.Context, id, ownerID uuid.UUID, patch models.ListingPatch) (*models.Listing, error)
	DeleteListing(ctx context.Context, id, ownerID uuid.UUID) (bool, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	IncrementInterested(ctx context.Context, id uuid.UUID) error
}

// ListingService представляет сервис для работы с объявлениями
type ListingService struct {
	repo     ListingRepository
	validate *validator.Validate
	log      *zap.SugaredLogger
}

// NewListingService создает новый экземпляр ListingService
func NewListingService(repo ListingRepository, log *zap.SugaredLogger) *ListingService {
	return &ListingService{
		repo:     repo,
		validate: utils.NewValidator(),
		log:      log,
	}
}

// Create создаёт активное объявление владельца
func (s *ListingService) Create(ctx context.Context, ownerID uuid.UUID, in models.ListingInput) (*models.Listing, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Location = strings.TrimSpace(in.Location)

	if err := utils.ValidateStruct(s.validate, in); err != nil {
		return nil, err
	}
	if in.AvailableFrom.IsZero() {
		return nil, apperr.Validation("available_from is required")
	}

	listing, err := s.repo.CreateListing(ctx, ownerID, in)
	if err != nil {
		return nil, err
	}
	s.log.Infow("Объявление создано", "listing_id", listing.ID, "user_id", ownerID)
	return listing, nil
}

// List возвращает активные объявления по фильтру
func (s *ListingService) List(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	return s.repo.ListListings(ctx, NormalizeFilter(filter))
}

// Get увеличивает счётчик просмотров и возвращает объявление.
// Просмотры не дедуплицируются: считаются и повторные, и просмотры владельца.
func (s *ListingService) Get(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	listing, err := s.repo.GetListing(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, errListingNotFound
		}
		return nil, err
	}
	return listing, nil
}

// MyListings возвращает объявления владельца в любом статусе
func (s *ListingService) MyListings(ctx context.Context, ownerID uuid.UUID) ([]models.Listing, error) {
	return s.repo.ListingsByOwner(ctx, ownerID)
}

// Update применяет частичное обновление к объявлению владельца
func (s *ListingService) Update(ctx context.Context, id, ownerID uuid.UUID, patch models.ListingPatch) (*models.Listing, error) {
	if err := ValidatePatch(patch); err != nil {
		return nil, err
	}

	listing, err := s.repo.UpdateListing(ctx, id, ownerID, patch)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, apperr.ErrNotFoundOrForbidden
		}
		return nil, err
	}
	return listing, nil
}

// Delete удаляет объявление владельца. false, если объявления нет или оно чужое.
func (s *ListingService) Delete(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	deleted, err := s.repo.DeleteListing(ctx, id, ownerID)
	if err != nil {
		return false, err
	}
	if deleted {
		s.log.Infow("Объявление удалено", "listing_id", id, "user_id", ownerID)
	}
	return deleted, nil
}

// MarkInterested увеличивает счётчик заинтересованных
func (s *ListingService) MarkInterested(ctx context.Context, id uuid.UUID) error {
	exists, err := s.repo.ListingExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return errListingNotFound
	}
	return s.repo.IncrementInterested(ctx, id)
}

// NormalizeFilter приводит пагинацию к допустимым границам
func NormalizeFilter(f models.ListingFilter) models.ListingFilter {
	f.Search = strings.TrimSpace(f.Search)
	f.Location = strings.TrimSpace(f.Location)
	if f.Skip < 0 {
		f.Skip = 0
	}
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultLimit
	case f.Limit > MaxLimit:
		f.Limit = MaxLimit
	}
	return f
}

// maxTextLen предел длины title и location в символах, как у validator max=200
const maxTextLen = 200

// ValidatePatch проверяет частичное обновление. null допустим только для списков.
func ValidatePatch(p models.ListingPatch) error {
	nulls := []struct {
		name string
		null bool
	}{
		{"title", p.Title.Null},
		{"description", p.Description.Null},
		{"price", p.Price.Null},
		{"location", p.Location.Null},
		{"bedrooms", p.Bedrooms.Null},
		{"bathrooms", p.Bathrooms.Null},
		{"available_from", p.AvailableFrom.Null},
		{"status", p.Status.Null},
	}
	for _, f := range nulls {
		if f.null {
			return apperr.Validation(f.name + " cannot be null")
		}
	}

	switch {
	case p.Title.Set && (strings.TrimSpace(p.Title.Value) == "" || utf8.RuneCountInString(p.Title.Value) > maxTextLen):
		return apperr.Validation("title must be between 1 and 200 characters")
	case p.Description.Set && strings.TrimSpace(p.Description.Value) == "":
		return apperr.Validation("description cannot be empty")
	case p.Price.Set && p.Price.Value < 0:
		return apperr.Validation("price must be greater than or equal to 0")
	case p.Location.Set && (strings.TrimSpace(p.Location.Value) == "" || utf8.RuneCountInString(p.Location.Value) > maxTextLen):
		return apperr.Validation("location must be between 1 and 200 characters")
	case p.Bedrooms.Set && p.Bedrooms.Value < 0:
		return apperr.Validation("bedrooms must be greater than or equal to 0")
	case p.Bathrooms.Set && p.Bathrooms.Value < 0:
		return apperr.Validation("bathrooms must be greater than or equal to 0")
	case p.Status.Set && !models.ValidListingStatus(p.Status.Value):
		return apperr.Validation("status must be one of: active, pending, rented")
	}
	return nil
}
