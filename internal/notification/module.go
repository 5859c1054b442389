// Package notification turns lead lifecycle events into designer-facing
// messages. Each event fans out to the in-app feed right away and to the
// email outbox for asynchronous delivery; neither write may fail the lead
// operation that published the event.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/email"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/events"
	apphttp "github.com/BollineniRohith123/GharintoLeap-sub004/internal/http"
	notifhandler "github.com/BollineniRohith123/GharintoLeap-sub004/internal/notification/handler"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/notification/inapp"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/notification/outbox"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/apperr"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/config"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	kindAssigned  = "assigned"
	kindConverted = "converted"

	invalidOutboxPayloadPrefix = "invalid payload: "
	maxOutboxRetryAttempts     = 5
	outboxRetryBaseDelay       = time.Minute
	outboxRetryMaxDelay        = 60 * time.Minute
)

// OutboxStore is the slice of the outbox repository the module writes and
// delivers through.
type OutboxStore interface {
	Insert(ctx context.Context, p outbox.InsertParams) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (outbox.Record, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error
	ScheduleRetry(ctx context.Context, id uuid.UUID, runAt time.Time, lastError string) error
}

// FeedWriter posts entries to a user's in-app notification feed.
type FeedWriter interface {
	Send(ctx context.Context, p inapp.SendParams) error
}

// Module is the notification bounded context module implementing http.Module.
type Module struct {
	outbox OutboxStore
	feed   FeedWriter
	users  auth.UserProvider
	sender email.Sender
	cfg    config.NotificationConfig
	log    *logger.Logger

	inAppHandler *notifhandler.HTTPHandler
}

// New wires the notification module. The user provider is owned by the auth
// module; it is injected so outbox delivery can resolve recipient addresses
// without this package reaching into another context's tables.
func New(pool *pgxpool.Pool, users auth.UserProvider, sender email.Sender, cfg config.NotificationConfig, log *logger.Logger) *Module {
	inAppRepo := inapp.NewRepository(pool)
	inAppSvc := inapp.NewService(inAppRepo, log)

	return &Module{
		outbox:       outbox.New(pool),
		feed:         inAppSvc,
		users:        users,
		sender:       sender,
		cfg:          cfg,
		log:          log,
		inAppHandler: notifhandler.NewHTTPHandler(inAppSvc),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterRoutes mounts the in-app feed routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	if m.inAppHandler == nil {
		return
	}
	m.inAppHandler.RegisterRoutes(ctx.Protected.Group("/notifications"))
}

// RegisterHandlers subscribes the module to the events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadAssigned{}.EventName(), m)
	bus.Subscribe(events.LeadConverted{}.EventName(), m)
	bus.Subscribe(events.NotificationOutboxDue{}.EventName(), m)
}

// Handle dispatches events to their handlers.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadAssigned:
		return m.handleLeadAssigned(ctx, e)
	case events.LeadConverted:
		return m.handleLeadConverted(ctx, e)
	case events.NotificationOutboxDue:
		return m.handleNotificationOutboxDue(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

type leadAssignedOutboxPayload struct {
	LeadID   string `json:"leadId"`
	LeadName string `json:"leadName"`
	City     string `json:"city,omitempty"`
	Auto     bool   `json:"auto"`
}

type leadConvertedOutboxPayload struct {
	LeadID       string `json:"leadId"`
	ProjectID    string `json:"projectId"`
	ProjectTitle string `json:"projectTitle"`
}

func (m *Module) handleLeadAssigned(ctx context.Context, e events.LeadAssigned) error {
	leadName := strings.TrimSpace(e.LeadName)
	if leadName == "" {
		leadName = "a new lead"
	}
	content := fmt.Sprintf("You have been assigned to %s.", leadName)
	if e.City != "" {
		content = fmt.Sprintf("You have been assigned to %s in %s.", leadName, e.City)
	}

	if m.feed != nil {
		_ = m.feed.Send(ctx, inapp.SendParams{
			UserID:        e.AssigneeID,
			Title:         "New lead assigned",
			Content:       content,
			ReferenceID:   &e.LeadID,
			ReferenceType: "lead",
			Category:      "info",
		})
	}

	m.queueEmail(ctx, e.AssigneeID, kindAssigned, e.LeadID, leadAssignedOutboxPayload{
		LeadID:   e.LeadID.String(),
		LeadName: e.LeadName,
		City:     e.City,
		Auto:     e.Auto,
	})
	return nil
}

func (m *Module) handleLeadConverted(ctx context.Context, e events.LeadConverted) error {
	if e.AssigneeID == nil {
		return nil
	}

	if m.feed != nil {
		_ = m.feed.Send(ctx, inapp.SendParams{
			UserID:        *e.AssigneeID,
			Title:         "Lead converted to project",
			Content:       fmt.Sprintf("%q is ready for kickoff.", e.ProjectTitle),
			ReferenceID:   &e.ProjectID,
			ReferenceType: "project",
			Category:      "success",
		})
	}

	m.queueEmail(ctx, *e.AssigneeID, kindConverted, e.ProjectID, leadConvertedOutboxPayload{
		LeadID:       e.LeadID.String(),
		ProjectID:    e.ProjectID.String(),
		ProjectTitle: e.ProjectTitle,
	})
	return nil
}

// queueEmail records an outbox row for the dispatcher to pick up. Insert
// failures are logged and swallowed.
func (m *Module) queueEmail(ctx context.Context, recipientID uuid.UUID, kind string, referenceID uuid.UUID, payload any) {
	if m.outbox == nil {
		return
	}
	if _, err := m.outbox.Insert(ctx, outbox.InsertParams{
		RecipientID: &recipientID,
		Kind:        kind,
		ReferenceID: referenceID,
		Payload:     payload,
	}); err != nil {
		m.log.Error("failed to queue notification email", "kind", kind, "referenceId", referenceID, "error", err)
	}
}

// handleNotificationOutboxDue delivers one claimed outbox record. Retry
// scheduling lives in the outbox row itself, so delivery failures return nil;
// only infrastructure errors before delivery propagate to the task queue.
func (m *Module) handleNotificationOutboxDue(ctx context.Context, e events.NotificationOutboxDue) error {
	if m.outbox == nil {
		m.log.Debug("notification outbox not configured; skipping due event", "outboxId", e.OutboxID)
		return nil
	}

	rec, process, err := m.prepareOutboxRecord(ctx, e.OutboxID)
	if err != nil || !process {
		if err != nil {
			m.log.Error("failed to prepare outbox record", "outboxId", e.OutboxID, "error", err)
		}
		return err
	}

	var deliveryErr error
	switch rec.Kind {
	case kindAssigned:
		deliveryErr = m.deliverLeadAssignedEmail(ctx, rec)
	case kindConverted:
		deliveryErr = m.deliverProjectKickoffEmail(ctx, rec)
	default:
		m.markOutboxUnsupported(ctx, rec)
		return nil
	}

	if deliveryErr != nil {
		m.handleOutboxDeliveryError(ctx, rec, deliveryErr)
		return nil
	}

	m.log.Info("outbox record delivered", "outboxId", rec.ID.String(), "kind", rec.Kind)
	return nil
}

// prepareOutboxRecord loads a record and flips it to processing. The second
// return is false when the record is already finalized and must be skipped.
func (m *Module) prepareOutboxRecord(ctx context.Context, outboxID uuid.UUID) (outbox.Record, bool, error) {
	rec, err := m.outbox.GetByID(ctx, outboxID)
	if err != nil {
		return outbox.Record{}, false, err
	}
	if rec.Status == outbox.StatusSent || rec.Status == outbox.StatusFailed {
		m.log.Debug("outbox record already finalized; skipping", "outboxId", rec.ID.String(), "status", rec.Status)
		return rec, false, nil
	}
	if err := m.outbox.MarkProcessing(ctx, rec.ID); err != nil {
		return outbox.Record{}, false, err
	}
	return rec, true, nil
}

func (m *Module) deliverLeadAssignedEmail(ctx context.Context, rec outbox.Record) error {
	var payload leadAssignedOutboxPayload
	if err := json.Unmarshal(rec.Payload, &payload); err != nil {
		_ = m.outbox.MarkFailed(ctx, rec.ID, invalidOutboxPayloadPrefix+err.Error())
		return nil
	}

	recipient, deliver, err := m.resolveRecipient(ctx, rec)
	if err != nil || !deliver {
		return err
	}

	leadURL := m.buildURL("/leads/" + payload.LeadID)
	if err := m.sender.SendLeadAssignedEmail(ctx, recipient.email, recipient.name, payload.LeadName, payload.City, leadURL); err != nil {
		return err
	}

	_ = m.outbox.MarkSent(ctx, rec.ID)
	return nil
}

func (m *Module) deliverProjectKickoffEmail(ctx context.Context, rec outbox.Record) error {
	var payload leadConvertedOutboxPayload
	if err := json.Unmarshal(rec.Payload, &payload); err != nil {
		_ = m.outbox.MarkFailed(ctx, rec.ID, invalidOutboxPayloadPrefix+err.Error())
		return nil
	}

	recipient, deliver, err := m.resolveRecipient(ctx, rec)
	if err != nil || !deliver {
		return err
	}

	projectURL := m.buildURL("/projects/" + payload.ProjectID)
	if err := m.sender.SendProjectKickoffEmail(ctx, recipient.email, recipient.name, payload.ProjectTitle, projectURL); err != nil {
		return err
	}

	_ = m.outbox.MarkSent(ctx, rec.ID)
	return nil
}

type outboxRecipient struct {
	name  string
	email string
}

// resolveRecipient returns the delivery address for an outbox record. The
// second return is false when the record was finalized here and delivery
// must not proceed; a non-nil error means the lookup should be retried.
func (m *Module) resolveRecipient(ctx context.Context, rec outbox.Record) (outboxRecipient, bool, error) {
	if rec.RecipientEmail != "" {
		return outboxRecipient{name: "there", email: rec.RecipientEmail}, true, nil
	}
	if rec.RecipientID == nil {
		_ = m.outbox.MarkFailed(ctx, rec.ID, "record has no recipient")
		return outboxRecipient{}, false, nil
	}
	if m.users == nil {
		return outboxRecipient{}, false, fmt.Errorf("user provider not configured")
	}

	profile, err := m.users.GetUserByID(ctx, *rec.RecipientID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			_ = m.outbox.MarkFailed(ctx, rec.ID, "recipient no longer exists")
			return outboxRecipient{}, false, nil
		}
		return outboxRecipient{}, false, err
	}
	if !profile.IsActive {
		m.log.Debug("recipient deactivated; skipping email", "outboxId", rec.ID.String(), "userId", profile.ID)
		_ = m.outbox.MarkSent(ctx, rec.ID)
		return outboxRecipient{}, false, nil
	}

	return outboxRecipient{name: profile.FullName, email: profile.Email}, true, nil
}

func (m *Module) handleOutboxDeliveryError(ctx context.Context, rec outbox.Record, deliveryErr error) {
	attempt := rec.Attempts + 1
	if attempt >= maxOutboxRetryAttempts {
		_ = m.outbox.MarkFailed(ctx, rec.ID, deliveryErr.Error())
		m.log.Warn("notification outbox exhausted retries",
			"outboxId", rec.ID.String(),
			"kind", rec.Kind,
			"attempt", attempt,
			"maxAttempts", maxOutboxRetryAttempts,
			"error", deliveryErr,
		)
		return
	}

	retryAt := time.Now().UTC().Add(computeOutboxRetryDelay(attempt))
	if err := m.outbox.ScheduleRetry(ctx, rec.ID, retryAt, deliveryErr.Error()); err != nil {
		_ = m.outbox.MarkFailed(ctx, rec.ID, deliveryErr.Error())
		m.log.Error("notification outbox retry scheduling failed; marked failed",
			"outboxId", rec.ID.String(),
			"attempt", attempt,
			"error", err,
		)
		return
	}

	m.log.Warn("notification outbox scheduled retry",
		"outboxId", rec.ID.String(),
		"kind", rec.Kind,
		"attempt", attempt,
		"maxAttempts", maxOutboxRetryAttempts,
		"retryAt", retryAt,
		"error", deliveryErr,
	)
}

func computeOutboxRetryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := outboxRetryBaseDelay << (attempt - 1)
	if delay > outboxRetryMaxDelay {
		return outboxRetryMaxDelay
	}
	return delay
}

func (m *Module) markOutboxUnsupported(ctx context.Context, rec outbox.Record) {
	msg := fmt.Sprintf("unsupported outbox kind: %s", rec.Kind)
	_ = m.outbox.MarkFailed(ctx, rec.ID, msg)
	m.log.Warn("unsupported outbox record", "outboxId", rec.ID.String(), "kind", rec.Kind)
}

func (m *Module) buildURL(path string) string {
	base := strings.TrimRight(m.cfg.GetAppBaseURL(), "/")
	return base + path
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
