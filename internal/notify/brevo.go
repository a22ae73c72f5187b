package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/rajivgeraev/re-lease-api/internal/config"
)

// ErrUnavailable Brevo временно недоступен, автомат разомкнут
var ErrUnavailable = errors.New("сервис отправки писем недоступен")

type brevoRequest struct {
	Sender      brevoContact   `json:"sender"`
	To          []brevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

type brevoContact struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// BrevoNotifier отправляет письма через транзакционный API Brevo
type BrevoNotifier struct {
	cfg        config.BrevoConfig
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
	log        *zap.SugaredLogger
}

// NewBrevoNotifier создаёт отправителя. После пяти ошибок подряд
// автомат размыкается на 30 секунд.
func NewBrevoNotifier(cfg config.BrevoConfig, log *zap.SugaredLogger) *BrevoNotifier {
	st := gobreaker.Settings{
		Name:        "brevo",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Infow("Состояние circuit breaker", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &BrevoNotifier{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cb:         gobreaker.NewCircuitBreaker(st),
		log:        log,
	}
}

func (n *BrevoNotifier) SendVerificationCode(ctx context.Context, email, username, code string) error {
	subject, body := verificationEmail(username, code)

	_, err := n.cb.Execute(func() (interface{}, error) {
		return nil, n.send(ctx, email, username, subject, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func (n *BrevoNotifier) send(ctx context.Context, email, name, subject, body string) error {
	payload, err := json.Marshal(brevoRequest{
		Sender:      brevoContact{Email: n.cfg.FromEmail, Name: n.cfg.FromName},
		To:          []brevoContact{{Email: email, Name: name}},
		Subject:     subject,
		HTMLContent: body,
	})
	if err != nil {
		return fmt.Errorf("ошибка сериализации письма: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.APIURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("ошибка создания запроса к Brevo: %w", err)
	}
	req.Header.Set("api-key", n.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка запроса к Brevo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("Brevo вернул статус %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
