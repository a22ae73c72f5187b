package cloudinary

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rajivgeraev/re-lease-api/internal/apperr"
	"github.com/rajivgeraev/re-lease-api/internal/config"
	"github.com/rajivgeraev/re-lease-api/internal/middleware"
)

// ErrNotConfigured Cloudinary не настроен
var ErrNotConfigured = errors.New("cloudinary не настроен")

// UploadParams параметры прямой загрузки изображений объявления из клиента
type UploadParams struct {
	Timestamp    string    `json:"timestamp"`
	Signature    string    `json:"signature"`
	APIKey       string    `json:"api_key"`
	CloudName    string    `json:"cloud_name"`
	UploadPreset string    `json:"upload_preset"`
	Folder       string    `json:"folder"`
	ListingID    uuid.UUID `json:"listing_id"`
}

// CloudinaryService предоставляет методы для работы с Cloudinary
type CloudinaryService struct {
	cfg config.CloudinaryConfig
	log *zap.SugaredLogger
	now func() time.Time
}

// NewCloudinaryService создает новый экземпляр CloudinaryService
func NewCloudinaryService(cfg config.CloudinaryConfig, log *zap.SugaredLogger) *CloudinaryService {
	return &CloudinaryService{cfg: cfg, log: log, now: time.Now}
}

// Configured сообщает, заданы ли ключи Cloudinary
func (s *CloudinaryService) Configured() bool {
	return s.cfg.CloudName != "" && s.cfg.APIKey != "" && s.cfg.APISecret != ""
}

// SignUpload подписывает параметры загрузки в папку объявления.
// Подписываются все параметры, которые клиент передаст вместе с файлом.
func (s *CloudinaryService) SignUpload(listingID uuid.UUID) (*UploadParams, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	params := &UploadParams{
		Timestamp:    strconv.FormatInt(s.now().Unix(), 10),
		APIKey:       s.cfg.APIKey,
		CloudName:    s.cfg.CloudName,
		UploadPreset: s.cfg.UploadPreset,
		Folder:       path.Join(s.cfg.UploadFolder, listingID.String()),
		ListingID:    listingID,
	}

	toSign := url.Values{}
	toSign.Set("timestamp", params.Timestamp)
	toSign.Set("folder", params.Folder)
	if params.UploadPreset != "" {
		toSign.Set("upload_preset", params.UploadPreset)
	}

	signature, err := api.SignParameters(toSign, s.cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("ошибка подписи параметров загрузки: %w", err)
	}
	params.Signature = signature
	return params, nil
}

// GenerateUploadParams создаёт параметры для загрузки изображений
func (s *CloudinaryService) GenerateUploadParams(c fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	// Генерируем ID для объявления, если не передан
	listingID := uuid.New()
	if raw := c.Query("listing_id"); raw != "" {
		if listingID, err = uuid.Parse(raw); err != nil {
			return apperr.Validation("Invalid listing ID")
		}
	}

	params, err := s.SignUpload(listingID)
	if errors.Is(err, ErrNotConfigured) {
		return apperr.ErrUnavailable.WithMessage("Image upload is not configured")
	}
	if err != nil {
		return err
	}

	s.log.Debugw("Выданы параметры загрузки", "user_id", user.ID, "listing_id", listingID)
	return c.JSON(params)
}
