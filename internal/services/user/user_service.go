package user

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rajivgeraev/re-lease-api/internal/apperr"
	"github.com/rajivgeraev/re-lease-api/internal/db"
	"github.com/rajivgeraev/re-lease-api/internal/models"
	"github.com/rajivgeraev/re-lease-api/internal/utils"
)

const (
	// MinSearchLength короче этого запрос возвращает пустой список
	MinSearchLength = 2
	SearchLimit     = 20
)

// ProfileRepository хранилище профилей
type ProfileRepository interface {
	UpdateBio(ctx context.Context, id uuid.UUID, bio *string) (*models.User, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]models.UserSummary, error)
}

// ProfileUpdate изменяемые поля профиля
type ProfileUpdate struct {
	Bio *string `json:"bio" validate:"omitempty,max=255"`
}

// UserService профиль текущего пользователя и поиск пользователей
type UserService struct {
	repo     ProfileRepository
	validate *validator.Validate
	log      *zap.SugaredLogger
}

// NewUserService создает новый экземпляр UserService
func NewUserService(repo ProfileRepository, log *zap.SugaredLogger) *UserService {
	return &UserService{repo: repo, validate: utils.NewValidator(), log: log}
}

// UpdateProfile обновляет описание профиля. Пустая строка очищает его.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (*models.User, error) {
	if err := utils.ValidateStruct(s.validate, upd); err != nil {
		return nil, err
	}
	if upd.Bio != nil && strings.TrimSpace(*upd.Bio) == "" {
		upd.Bio = nil
	}

	user, err := s.repo.UpdateBio(ctx, userID, upd.Bio)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

// Search ищет пользователей по подстроке имени или email без учёта регистра
func (s *UserService) Search(ctx context.Context, query string) ([]models.UserSummary, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinSearchLength {
		return []models.UserSummary{}, nil
	}
	return s.repo.SearchUsers(ctx, query, SearchLimit)
}
