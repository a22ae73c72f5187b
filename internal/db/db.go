package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/rajivgeraev/re-lease-api/internal/config"
)

//go:embed schema.sql
var schemaSQL string

var (
	// ErrNotFound запись не найдена
	ErrNotFound = errors.New("запись не найдена")
	// ErrDuplicate нарушено ограничение уникальности
	ErrDuplicate = errors.New("запись уже существует")
)

// Store доступ к PostgreSQL. Реализует репозитории всех сервисов.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore создаёт Store поверх готового пула
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect создаёт пул соединений и проверяет подключение
func Connect(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*pgxpool.Pool, error) {
	log.Infow("Подключение к базе данных", "host", cfg.DatabaseConfig.Host, "database", cfg.DatabaseConfig.Name)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка при разборе URL базы данных: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании пула соединений: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка при проверке соединения: %w", err)
	}

	log.Info("✅ Успешное подключение к базе данных")
	return pool, nil
}

// Migrate применяет схему. Все операторы идемпотентны.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ошибка при применении схемы: %w", err)
	}
	return nil
}

// Ping проверяет соединение с базой
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close закрывает пул соединений
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// GetContext возвращает контекст с таймаутом для запросов к базе данных
func GetContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// mapError приводит ошибки драйвера к ошибкам пакета
func mapError(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w (%s)", op, ErrDuplicate, pgErr.ConstraintName)
		case "23503":
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
