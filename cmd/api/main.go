package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rajivgeraev/re-lease-api/internal/config"
	"github.com/rajivgeraev/re-lease-api/internal/db"
	"github.com/rajivgeraev/re-lease-api/internal/logger"
	"github.com/rajivgeraev/re-lease-api/internal/metrics"
	"github.com/rajivgeraev/re-lease-api/internal/middleware"
	"github.com/rajivgeraev/re-lease-api/internal/notify"
	"github.com/rajivgeraev/re-lease-api/internal/services/auth"
	"github.com/rajivgeraev/re-lease-api/internal/services/chat"
	"github.com/rajivgeraev/re-lease-api/internal/services/cloudinary"
	"github.com/rajivgeraev/re-lease-api/internal/services/friend"
	"github.com/rajivgeraev/re-lease-api/internal/services/like"
	"github.com/rajivgeraev/re-lease-api/internal/services/listing"
	"github.com/rajivgeraev/re-lease-api/internal/services/user"
	"github.com/rajivgeraev/re-lease-api/internal/utils"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	sugar, err := logger.New(cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("❌ Ошибка создания логгера: %v", err)
	}
	defer sugar.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Инициализируем базу данных
	pool, err := db.Connect(ctx, cfg, sugar)
	if err != nil {
		sugar.Fatalw("❌ Ошибка при инициализации базы данных", "error", err)
	}
	store := db.NewStore(pool)
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		sugar.Fatalw("❌ Ошибка применения схемы", "error", err)
	}

	httpMetrics := metrics.NewHTTPMetrics()

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Re-Lease API",
		ErrorHandler: middleware.ErrorHandler(sugar),
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(sugar, httpMetrics))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	app.Get("/", func(c fiber.Ctx) error {
		return c.JSON("Health check complete")
	})
	app.Get("/metrics", adaptor.HTTPHandler(httpMetrics.Handler()))

	// Создаём сервисы
	jwtService := utils.NewJWTService(cfg.JWTSecret)
	authService := auth.NewAuthService(store, notify.New(cfg.BrevoConfig, sugar), jwtService, cfg.AuthConfig, sugar)
	listingService := listing.NewListingService(store, sugar)
	likeService := like.NewLikeService(store, sugar)
	chatService := chat.NewChatService(store, sugar)
	friendService := friend.NewFriendService(store, sugar)
	userService := user.NewUserService(store, sugar)
	cloudinaryService := cloudinary.NewCloudinaryService(cfg.CloudinaryConfig, sugar)

	// Настраиваем middleware для аутентификации
	authMiddleware := middleware.AuthMiddleware(authService)

	var publicMiddleware []fiber.Handler
	if limiter := newRateLimiter(ctx, cfg.RedisConfig, sugar); limiter != nil {
		publicMiddleware = append(publicMiddleware, limiter.Handler())
	}

	// Регистрируем маршруты
	authService.SetupRoutes(app, authMiddleware, publicMiddleware...)
	likeService.SetupRoutes(app, authMiddleware)
	chatService.SetupRoutes(app, authMiddleware)
	listingService.SetupRoutes(app, authMiddleware)
	friendService.SetupRoutes(app, authMiddleware)
	userService.SetupRoutes(app, authMiddleware)
	cloudinaryService.SetupRoutes(app, authMiddleware)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			sugar.Errorw("Ошибка остановки сервера", "error", err)
		}
	}()

	// Запускаем сервер
	sugar.Infow("✅ Re-Lease API запущен", "port", cfg.Port, "env", cfg.AppEnv)
	if err := app.Listen(":" + cfg.Port); err != nil {
		sugar.Errorw("Сервер остановлен с ошибкой", "error", err)
	}
}

// newRateLimiter подключается к Redis. Без REDIS_ADDR ограничение отключено.
func newRateLimiter(ctx context.Context, cfg config.RedisConfig, log *zap.SugaredLogger) *middleware.RateLimiter {
	if cfg.Addr == "" {
		log.Info("REDIS_ADDR не задан, ограничение запросов отключено")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		// Ограничитель пропускает запросы, пока Redis недоступен
		log.Warnw("Redis недоступен", "addr", cfg.Addr, "error", err)
	}

	return middleware.NewRateLimiter(middleware.NewRedisCounter(client), "ratelimit:auth", cfg.RateLimit, cfg.RateLimitWindow, log)
}
