// Package email renders and delivers transactional mail for the lead
// pipeline. Delivery runs behind the notification outbox, never inline
// with a request.
package email

import (
	"context"

	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/config"
)

type Sender interface {
	SendLeadAssignedEmail(ctx context.Context, toEmail, designerName, leadName, city, leadURL string) error
	SendProjectKickoffEmail(ctx context.Context, toEmail, designerName, projectTitle, projectURL string) error
}

// NoopSender is used when EMAIL_ENABLED is off. Outbox rows still flow
// through the full pipeline and are marked sent.
type NoopSender struct{}

func (NoopSender) SendLeadAssignedEmail(context.Context, string, string, string, string, string) error {
	return nil
}

func (NoopSender) SendProjectKickoffEmail(context.Context, string, string, string, string) error {
	return nil
}

func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}
