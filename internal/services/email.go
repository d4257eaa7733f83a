package services

import (
	"context"
	"fmt"
	"log/slog"

	"happeningvibe/internal/domain"
)

const (
	templateVerifyEmail   = "verify_email"
	templateResetPassword = "reset_password"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that renders templates and hands them to mailer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

func (s *emailService) SendVerificationCode(ctx context.Context, data *domain.CodeEmailData) error {
	return s.send(ctx, templateVerifyEmail, data)
}

func (s *emailService) SendPasswordResetCode(ctx context.Context, data *domain.CodeEmailData) error {
	return s.send(ctx, templateResetPassword, data)
}

func (s *emailService) send(ctx context.Context, template string, data *domain.CodeEmailData) error {
	if data == nil {
		return fmt.Errorf("%s email data is nil", template)
	}
	subject, htmlBody, textBody, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("render %s template: %w", template, err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send %s email: %w", template, err)
	}
	s.logger.InfoContext(ctx, "email sent", "template", template)
	return nil
}
