// Package mail delivers out-of-band messages over SMTP.
package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/atom-shop/identity-service/internal/metrics"
)

const defaultTimeout = 10 * time.Second

// Config holds the SMTP relay settings.
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
	StartTLS bool
	Timeout  time.Duration
}

// Client is the subset of *smtp.Client used to send one message.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// DialFunc opens an authenticated session with the relay.
type DialFunc func(ctx context.Context, cfg Config) (Client, error)

// SMTPNotifier sends each message on a fresh connection bounded by cfg.Timeout.
type SMTPNotifier struct {
	cfg  Config
	dial DialFunc
	now  func() time.Time
	log  zerolog.Logger
}

func NewSMTPNotifier(cfg Config, log zerolog.Logger) *SMTPNotifier {
	return newNotifier(cfg, Dial, log)
}

func newNotifier(cfg Config, dial DialFunc, log zerolog.Logger) *SMTPNotifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &SMTPNotifier{cfg: cfg, dial: dial, now: time.Now, log: log}
}

// Send delivers a plain-text message. Any failure is returned to the caller.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, body string) (err error) {
	start := time.Now()
	defer func() {
		result := "sent"
		if err != nil {
			result = "failed"
		}
		metrics.MailDispatchTotal.WithLabelValues(result).Inc()
		metrics.MailDispatchDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	client, err := n.dial(ctx, n.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := client.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			n.log.Debug().Err(cerr).Msg("smtp close")
		}
	}()

	if err := client.Mail(n.cfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := io.WriteString(w, n.message(to, subject, body)); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp end data: %w", err)
	}

	if err := client.Quit(); err != nil {
		n.log.Warn().Err(err).Msg("smtp quit failed after message accepted")
	}
	n.log.Info().Str("to", to).Str("subject", subject).Msg("mail sent")
	return nil
}

func (n *SMTPNotifier) message(to, subject, body string) string {
	headers := []string{
		"From: " + n.cfg.From,
		"To: " + to,
		"Subject: " + mime.QEncoding.Encode("utf-8", subject),
		"Date: " + n.now().UTC().Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"Content-Transfer-Encoding: 8bit",
	}
	return strings.Join(headers, "\r\n") + "\r\n\r\n" + body
}

// Dial connects to cfg.Host:cfg.Port, upgrades with STARTTLS when enabled and
// authenticates when a user is configured. The whole session shares the
// deadline of ctx.
func Dial(ctx context.Context, cfg Config) (Client, error) {
	addr := net.JoinHostPort(cfg.Host, cfg.Port)

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial smtp server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	if cfg.StartTLS {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			_ = client.Close()
			return nil, errors.New("smtp server does not support STARTTLS")
		}
		tlsConfig := &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
		if err := client.StartTLS(tlsConfig); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("start tls: %w", err)
		}
	}

	if cfg.User != "" {
		auth := smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
		if err := client.Auth(auth); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("smtp auth: %w", err)
		}
	}
	return client, nil
}
