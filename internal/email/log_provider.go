package email

import (
	"ambassador_backend/internal/logger"
)

// LogProvider пишет письма в лог вместо отправки.
// Используется, когда SMTP не настроен (локальная разработка).
type LogProvider struct{}

func NewLogProvider() *LogProvider {
	return &LogProvider{}
}

func (p *LogProvider) Send(email *Email) error {
	logger.Info("email (not sent, SMTP disabled)",
		"to", email.To,
		"subject", email.Subject,
		"body_bytes", len(email.HTMLBody)+len(email.Body),
	)
	return nil
}

func (p *LogProvider) Validate() error { return nil }
func (p *LogProvider) Close() error    { return nil }
