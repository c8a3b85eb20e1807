// Package contact accepts contact form submissions: it validates them,
// stores them, mails the owner and the sender, and pings the chat channel.
package contact

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"portfolio/email"
	"portfolio/models"
)

const (
	msgSuccess          = "Thank you for your message! I'll get back to you soon."
	msgValidationFailed = "Validation failed"
	msgSaveFailed       = "Could not save your message. Please try again."
	msgOwnerMailFailed  = "Email service error. Please try again or email us directly."
	msgConfirmFailed    = "We couldn't send your message. Please try again or email us directly."
	msgUnexpected       = "Something went wrong. Please try again or email us directly."
)

// Result is the outcome reported to the sender.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`

	status int
}

// Status is the HTTP status matching the outcome.
func (r Result) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

func failure(status int, msg string) Result {
	return Result{Error: msg, status: status}
}

type ServiceConfig struct {
	OwnerEmail string
	Signature  string
	// Verbose appends the underlying error to unexpected failures.
	Verbose bool
}

type Service struct {
	repo     Repository
	mailer   email.Mailer
	notifier Notifier
	cfg      ServiceConfig
	log      *zap.Logger
}

// NewService wires the submission flow. notifier may be nil.
func NewService(repo Repository, mailer email.Mailer, notifier Notifier, cfg ServiceConfig, log *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		mailer:   mailer,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
	}
}

// Submit runs the whole flow and always returns a Result. Steps run in
// order and the first failure ends the flow; a stored message is kept
// even when mailing fails afterwards.
func (s *Service) Submit(ctx context.Context, f Form) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = s.unexpected(fmt.Errorf("panic: %v", r))
		}
	}()

	if msg := f.Validate(); msg != "" {
		if f.Website != "" {
			s.log.Info("contact honeypot triggered")
		}
		return failure(http.StatusBadRequest, msg)
	}

	record := &models.ContactMessage{
		Name:    f.Name,
		Email:   f.Email,
		Message: f.Message,
	}
	if err := s.repo.Save(ctx, record); err != nil {
		s.log.Error("contact message not saved", zap.Error(err))
		return failure(http.StatusInternalServerError, msgSaveFailed)
	}

	sub := email.Submission{Name: f.Name, Email: f.Email, Message: f.Message}

	owner, err := email.OwnerNotification(s.cfg.OwnerEmail, sub)
	if err != nil {
		return s.unexpected(err)
	}
	if err := s.mailer.Send(ctx, owner); err != nil {
		s.log.Error("owner notification failed", zap.String("id", record.ID), zap.Error(err))
		return failure(http.StatusBadGateway, msgOwnerMailFailed)
	}

	confirmation, err := email.Confirmation(sub, s.cfg.Signature)
	if err != nil {
		return s.unexpected(err)
	}
	if err := s.mailer.Send(ctx, confirmation); err != nil {
		s.log.Error("confirmation mail failed", zap.String("id", record.ID), zap.Error(err))
		return failure(http.StatusBadGateway, msgConfirmFailed)
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, sub); err != nil {
			s.log.Warn("chat notification failed", zap.String("id", record.ID), zap.Error(err))
		}
	}

	s.log.Info("contact message accepted", zap.String("id", record.ID))
	return Result{Success: true, Message: msgSuccess}
}

func (s *Service) unexpected(err error) Result {
	s.log.Error("contact submission failed", zap.Error(err))
	msg := msgUnexpected
	if s.cfg.Verbose {
		msg = fmt.Sprintf("%s (%s)", msgUnexpected, err)
	}
	return failure(http.StatusInternalServerError, msg)
}
