// Package mail delivers workflow notifications over SMTP using go-mail.
// Delivery is strictly best-effort: the workflow never fails because a
// notification could not be sent, and a sender left unconfigured puts the
// package in dry-run mode where messages are logged instead of sent.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/campusworks/letterflow/internal/letters"
	"github.com/campusworks/letterflow/pkg/storage"
	gomail "github.com/wneessen/go-mail"
)

// System sends letter notifications. Implementations must be safe to call
// with partially populated letters.
type System interface {
	// Send delivers the notification for letter to the given address,
	// attaching the original scan when it can be fetched from storage.
	Send(ctx context.Context, to string, letter *letters.Letter) error

	// StageAddress derives the institutional address of an approver stage.
	StageAddress(stage letters.Stage) string

	// ClerkAddress derives the originating department clerk's address.
	ClerkAddress(dept string) string

	// AdminAddress is the fallback recipient for system-level notices.
	AdminAddress() string

	// Enabled reports whether real delivery is configured.
	Enabled() bool
}

type sender struct {
	cfg    *Config
	store  storage.System
	logger *slog.Logger
}

func New(cfg *Config, store storage.System, logger *slog.Logger) System {
	s := &sender{
		cfg:    cfg,
		store:  store,
		logger: logger.With("system", "mail"),
	}

	if !cfg.Enabled() {
		s.logger.Warn("smtp sender not configured, notifications will be logged only")
	}

	return s
}

func (s *sender) Enabled() bool {
	return s.cfg.Enabled()
}

func (s *sender) StageAddress(stage letters.Stage) string {
	return fmt.Sprintf("%s@%s", strings.ToLower(string(stage)), s.cfg.Domain)
}

func (s *sender) AdminAddress() string {
	return fmt.Sprintf("admin@%s", s.cfg.Domain)
}

func (s *sender) ClerkAddress(dept string) string {
	if dept == "" {
		return fmt.Sprintf("clerk@%s", s.cfg.Domain)
	}
	return fmt.Sprintf("clerk@%s.com", strings.ToLower(dept))
}

func (s *sender) Send(ctx context.Context, to string, letter *letters.Letter) error {
	subject, body := Compose(letter)

	if !s.Enabled() {
		s.logger.Info("notification skipped (dry run)",
			"to", to,
			"subject", subject,
			"letter_id", letter.ID,
		)
		return nil
	}

	msg := gomail.NewMsg()
	if err := msg.From(s.cfg.Sender); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	s.attachScan(ctx, msg, letter)

	client, err := gomail.NewClient(s.cfg.Host,
		gomail.WithPort(s.cfg.Port),
		gomail.WithSSL(),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.Sender),
		gomail.WithPassword(s.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	s.logger.Info("notification sent",
		"to", to,
		"letter_id", letter.ID,
		"status", letter.Status,
	)

	return nil
}

// attachScan attaches the original letter scan when storage has it. Failures
// only drop the attachment.
func (s *sender) attachScan(ctx context.Context, msg *gomail.Msg, letter *letters.Letter) {
	if letter.FilePath == "" {
		return
	}

	reader, err := s.store.Download(ctx, letter.FilePath)
	if err != nil {
		s.logger.Warn("could not attach letter scan",
			"letter_id", letter.ID,
			"file_path", letter.FilePath,
			"error", err,
		)
		return
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		s.logger.Warn("could not read letter scan",
			"letter_id", letter.ID,
			"error", err,
		)
		return
	}

	if err := msg.AttachReader(filepath.Base(letter.FilePath), bytes.NewReader(data)); err != nil {
		s.logger.Warn("could not attach letter scan",
			"letter_id", letter.ID,
			"error", err,
		)
	}
}
