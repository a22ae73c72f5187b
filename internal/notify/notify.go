// Package notify отправляет пользователям коды подтверждения.
package notify

import (
	"context"
	"fmt"
	"html"

	"go.uber.org/zap"

	"github.com/rajivgeraev/re-lease-api/internal/config"
)

// Notifier доставляет код подтверждения на email
type Notifier interface {
	SendVerificationCode(ctx context.Context, email, username, code string) error
}

// New возвращает Brevo отправителя, если он настроен, иначе пишет коды в лог
func New(cfg config.BrevoConfig, log *zap.SugaredLogger) Notifier {
	if cfg.APIKey == "" || cfg.FromEmail == "" {
		log.Warn("⚠️ Brevo не настроен, коды подтверждения будут только в логах")
		return &LogNotifier{log: log}
	}
	return NewBrevoNotifier(cfg, log)
}

// LogNotifier пишет код в лог. Для локальной разработки.
type LogNotifier struct {
	log *zap.SugaredLogger
}

func (n *LogNotifier) SendVerificationCode(_ context.Context, email, username, code string) error {
	n.log.Infow("Код подтверждения", "email", email, "username", username, "code", code)
	return nil
}

func verificationEmail(username, code string) (subject, body string) {
	subject = "Your Re-Lease verification code"
	body = fmt.Sprintf(`<p>Hi %s,</p>
<p>Your verification code is <strong>%s</strong>.</p>
<p>The code expires in 10 minutes.</p>`, html.EscapeString(username), html.EscapeString(code))
	return subject, body
}
