package mail_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/campusworks/letterflow/internal/letters"
	"github.com/campusworks/letterflow/internal/mail"
)

func TestConfigEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  mail.Config
		want bool
	}{
		{"unset", mail.Config{}, false},
		{"host only", mail.Config{Host: "smtp.gmail.com"}, false},
		{"sender only", mail.Config{Sender: "flow@siddhartha.com"}, false},
		{
			"placeholder sender",
			mail.Config{Host: "smtp.gmail.com", Sender: "your-email@example.com"},
			false,
		},
		{
			"configured",
			mail.Config{Host: "smtp.gmail.com", Sender: "flow@siddhartha.com"},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var cfg mail.Config
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}
		if cfg.Port != 465 {
			t.Errorf("Port = %d, want 465", cfg.Port)
		}
		if cfg.Domain != "siddhartha.com" {
			t.Errorf("Domain = %q, want siddhartha.com", cfg.Domain)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("TEST_MAIL_HOST", "smtp.example.com")
		t.Setenv("TEST_MAIL_PORT", "587")

		var cfg mail.Config
		err := cfg.Finalize(&mail.Env{Host: "TEST_MAIL_HOST", Port: "TEST_MAIL_PORT"})
		if err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}
		if cfg.Host != "smtp.example.com" {
			t.Errorf("Host = %q, want smtp.example.com", cfg.Host)
		}
		if cfg.Port != 587 {
			t.Errorf("Port = %d, want 587", cfg.Port)
		}
	})

	t.Run("invalid port", func(t *testing.T) {
		cfg := mail.Config{Port: 70000}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("Finalize() error = nil, want invalid port error")
		}
	})
}

func TestAddresses(t *testing.T) {
	cfg := &mail.Config{Domain: "siddhartha.com"}
	sender := mail.New(cfg, nil, slog.New(slog.DiscardHandler))

	if got := sender.StageAddress(letters.StageDean); got != "dean@siddhartha.com" {
		t.Errorf("StageAddress(Dean) = %q, want dean@siddhartha.com", got)
	}
	if got := sender.AdminAddress(); got != "admin@siddhartha.com" {
		t.Errorf("AdminAddress() = %q, want admin@siddhartha.com", got)
	}
	if got := sender.ClerkAddress("Physics"); got != "clerk@physics.com" {
		t.Errorf("ClerkAddress(Physics) = %q, want clerk@physics.com", got)
	}
	if got := sender.ClerkAddress(""); got != "clerk@siddhartha.com" {
		t.Errorf("ClerkAddress(\"\") = %q, want clerk@siddhartha.com", got)
	}
}

func TestCompose(t *testing.T) {
	letter := &letters.Letter{
		ID:             uuid.New(),
		Status:         letters.StatusPending,
		Stage:          letters.StageDean,
		Classification: letters.ClassificationPayment,
		Subject:        "Lab Equipment Purchase",
		Dept:           "Physics",
		Date:           time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC),
	}

	t.Run("assignment", func(t *testing.T) {
		subject, body := mail.Compose(letter)

		wantSubject := "New Letter Assigned for Your Review (ID: " + letter.ID.String() + ")"
		if subject != wantSubject {
			t.Errorf("subject = %q, want %q", subject, wantSubject)
		}
		for _, fragment := range []string{
			"Dear Dean,",
			letter.ID.String(),
			"Subject: Lab Equipment Purchase",
			"Department: Physics",
			"Classification: Payment",
			"Submission Date: 2026-08-20",
		} {
			if !strings.Contains(body, fragment) {
				t.Errorf("body missing %q", fragment)
			}
		}
	})

	t.Run("overdue reminder", func(t *testing.T) {
		overdue := *letter
		overdue.Status = letters.StatusOverdue

		subject, body := mail.Compose(&overdue)

		wantSubject := "Reminder: Letter " + letter.ID.String() + " is Overdue for Approval"
		if subject != wantSubject {
			t.Errorf("subject = %q, want %q", subject, wantSubject)
		}
		if !strings.Contains(body, "pending your approval for more than 2 days") {
			t.Error("body missing reminder text")
		}
	})

	t.Run("empty fields become N/A", func(t *testing.T) {
		bare := &letters.Letter{ID: uuid.New(), Status: letters.StatusPending}
		_, body := mail.Compose(bare)

		if !strings.Contains(body, "Subject: N/A") {
			t.Error("empty subject not replaced with N/A")
		}
		if !strings.Contains(body, "Classification: N/A") {
			t.Error("empty classification not replaced with N/A")
		}
	})
}

func TestSendDryRun(t *testing.T) {
	cfg := &mail.Config{Domain: "siddhartha.com"}
	sender := mail.New(cfg, nil, slog.New(slog.DiscardHandler))

	letter := &letters.Letter{ID: uuid.New(), Status: letters.StatusPending}
	if err := sender.Send(context.Background(), "dean@siddhartha.com", letter); err != nil {
		t.Errorf("Send() error = %v, want nil in dry-run mode", err)
	}
}
