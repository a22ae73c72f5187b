package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rajivgeraev/re-lease-api/internal/apperr"
	"github.com/rajivgeraev/re-lease-api/internal/config"
	"github.com/rajivgeraev/re-lease-api/internal/db"
	"github.com/rajivgeraev/re-lease-api/internal/models"
	"github.com/rajivgeraev/re-lease-api/internal/notify"
	"github.com/rajivgeraev/re-lease-api/internal/utils"
)

// UserRepository хранилище пользователей
type UserRepository interface {
	CreateUser(ctx context.Context, username, email, passwordHash, code string, expiresAt time.Time) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SetVerificationCode(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error
	MarkVerified(ctx context.Context, id uuid.UUID) error
}

// RegisterRequest данные регистрации
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,username"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

// AuthService регистрация, подтверждение email и выдача токенов
type AuthService struct {
	repo       UserRepository
	notifier   notify.Notifier
	jwtService *utils.JWTService
	validate   *validator.Validate
	cfg        config.AuthConfig
	log        *zap.SugaredLogger
	now        func() time.Time

	// dummyHash сравнивается при неизвестном имени, чтобы время ответа не зависело от существования пользователя
	dummyHash []byte
}

// NewAuthService – конструктор AuthService
func NewAuthService(repo UserRepository, notifier notify.Notifier, jwtService *utils.JWTService, cfg config.AuthConfig, log *zap.SugaredLogger) *AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.CodeTTL == 0 {
		cfg.CodeTTL = 10 * time.Minute
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cfg.BcryptCost)
	if err != nil {
		log.Warnw("Не удалось создать фиктивный хеш", "error", err)
	}

	return &AuthService{
		repo:       repo,
		notifier:   notifier,
		jwtService: jwtService,
		validate:   utils.NewValidator(),
		cfg:        cfg,
		log:        log,
		now:        time.Now,
		dummyHash:  dummy,
	}
}

// Register создаёт неподтверждённого пользователя и отправляет код подтверждения.
// Ошибка отправки не отменяет регистрацию: код можно запросить повторно.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = normalizeEmail(req.Email)

	if err := utils.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}
	if !s.emailDomainAllowed(req.Email) {
		return nil, apperr.Validation(fmt.Sprintf("Only %s emails are allowed", strings.Join(prefixed(s.cfg.AllowedEmailDomains), ", ")))
	}

	if _, err := s.repo.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, apperr.Validation("Username already registered")
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}
	if _, err := s.repo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Validation("Email already registered")
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperr.Validation("password is too long")
		}
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	code, err := GenerateCode()
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, req.Username, req.Email, string(hash), code, s.now().Add(s.cfg.CodeTTL))
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, apperr.Validation("Username or email already registered")
		}
		return nil, err
	}

	s.dispatchCode(ctx, user, code)
	return user, nil
}

// Verify проверяет код подтверждения. Порядок проверок: пользователь,
// наличие кода, срок действия, совпадение.
func (s *AuthService) Verify(ctx context.Context, email, code string) error {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return err
	}

	if user.VerificationCode == nil || user.VerificationExpiresAt == nil {
		return apperr.NotFound("No pending verification code")
	}
	if s.now().After(*user.VerificationExpiresAt) {
		return apperr.ErrExpired
	}
	if strings.TrimSpace(code) != *user.VerificationCode {
		return apperr.ErrMismatch
	}

	if err := s.repo.MarkVerified(ctx, user.ID); err != nil {
		return err
	}
	s.log.Infow("Email подтверждён", "user_id", user.ID)
	return nil
}

// ResendCode выдаёт новый код неподтверждённому пользователю
func (s *AuthService) ResendCode(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return err
	}
	if user.IsVerified {
		return apperr.ErrAlreadyVerified
	}

	code, err := GenerateCode()
	if err != nil {
		return err
	}
	if err := s.repo.SetVerificationCode(ctx, user.ID, code, s.now().Add(s.cfg.CodeTTL)); err != nil {
		return err
	}

	s.dispatchCode(ctx, user, code)
	return nil
}

// Authenticate проверяет имя и пароль. Для неизвестного пользователя
// и неверного пароля возвращается одна и та же ошибка.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, apperr.ErrUnauthenticated
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.ErrUnauthenticated
	}
	return user, nil
}

// IssueToken выдаёт токен доступа подтверждённому пользователю
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	if !user.IsVerified {
		return "", apperr.ErrForbidden
	}
	token, err := s.jwtService.GenerateToken(user.Username, user.ID)
	if err != nil {
		return "", fmt.Errorf("ошибка создания токена: %w", err)
	}
	return token, nil
}

// Authorize проверяет токен и загружает пользователя
func (s *AuthService) Authorize(ctx context.Context, token string) (*models.User, error) {
	_, userID, err := s.jwtService.ParseToken(token)
	if err != nil {
		return nil, apperr.ErrUnauthorized
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, apperr.ErrUnauthorized.WithMessage("User not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) dispatchCode(ctx context.Context, user *models.User, code string) {
	if err := s.notifier.SendVerificationCode(ctx, user.Email, user.Username, code); err != nil {
		s.log.Errorw("Не удалось отправить код подтверждения", "user_id", user.ID, "email", user.Email, "error", err)
		return
	}
	s.log.Infow("Код подтверждения отправлен", "user_id", user.ID)
}

func (s *AuthService) emailDomainAllowed(email string) bool {
	if len(s.cfg.AllowedEmailDomains) == 0 {
		return true
	}
	_, domain, found := strings.Cut(email, "@")
	if !found {
		return false
	}
	for _, allowed := range s.cfg.AllowedEmailDomains {
		if strings.EqualFold(domain, allowed) {
			return true
		}
	}
	return false
}

// GenerateCode возвращает случайный шестизначный код
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("ошибка генерации кода: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func prefixed(domains []string) []string {
	out := make([]string, len(domains))
	for i, d := range domains {
		out[i] = "@" + d
	}
	return out
}
