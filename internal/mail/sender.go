// Package mail sends the transactional emails of the auth flows.
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gomail "github.com/wneessen/go-mail"
	"go.opentelemetry.io/otel/attribute"

	"github.com/aryan0dhankhar/hrportal/internal/observability/metrics"
	"github.com/aryan0dhankhar/hrportal/internal/observability/tracing"
	"github.com/aryan0dhankhar/hrportal/internal/reliability/circuitbreaker"
	"github.com/aryan0dhankhar/hrportal/internal/reliability/retry"
)

// Message is one rendered email.
type Message struct {
	To       string
	Subject  string
	Text     string
	HTML     string
	Template string
}

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig configures SMTPSender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	TLS      bool
}

// SMTPSender delivers mail over SMTP.
type SMTPSender struct {
	cfg  SMTPConfig
	opts []gomail.Option
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTimeout(10 * time.Second),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	if cfg.TLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
	}
	return &SMTPSender{cfg: cfg, opts: opts}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return retry.Permanent(fmt.Errorf("invalid sender address: %w", err))
	}
	if err := m.To(msg.To); err != nil {
		return retry.Permanent(fmt.Errorf("invalid recipient address: %w", err))
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}

	client, err := gomail.NewClient(s.cfg.Host, s.opts...)
	if err != nil {
		return retry.Permanent(fmt.Errorf("smtp client: %w", err))
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogSender writes messages to the log instead of sending them. Used when
// no SMTP host is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("mail not sent, smtp disabled",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("template", msg.Template),
	)
	return nil
}

// Resilient retries transient failures and stops calling a sender that
// keeps failing.
type Resilient struct {
	next    Sender
	retry   *retry.Config
	breaker *circuitbreaker.CircuitBreaker
	logger  *slog.Logger
}

func NewResilient(next Sender, retryCfg *retry.Config, breaker *circuitbreaker.CircuitBreaker, logger *slog.Logger) *Resilient {
	if logger == nil {
		logger = slog.Default()
	}
	if retryCfg == nil {
		retryCfg = retry.DefaultConfig()
	}
	if breaker == nil {
		breaker = circuitbreaker.NewCircuitBreaker(5, 1, time.Minute)
	}
	breaker.SetStateChangeCallback(func(from, to circuitbreaker.State) {
		logger.Warn("mail circuit breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})
	return &Resilient{next: next, retry: retryCfg, breaker: breaker, logger: logger}
}

func (r *Resilient) Send(ctx context.Context, msg Message) error {
	ctx, span := tracing.Start(ctx, "mail.send", attribute.String("mail.template", msg.Template))
	defer span.End()

	_, err := retry.Do(ctx, r.retry, r.logger, "send "+msg.Template+" mail", func(ctx context.Context) (struct{}, error) {
		err := r.breaker.Execute(func() error { return r.next.Send(ctx, msg) })
		if errors.Is(err, circuitbreaker.ErrOpen) {
			return struct{}{}, retry.Permanent(err)
		}
		return struct{}{}, err
	})
	result := "success"
	if err != nil {
		result = "failure"
	}
	if err != nil {
		span.RecordError(err)
	}
	metrics.ObserveMail(msg.Template, result)
	return err
}
