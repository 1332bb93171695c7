package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/notification/domain"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/apperrors"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/mq"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/validation"
)

type NotificationService struct {
	repo     domain.NotificationRepository
	contacts domain.ContactReader
	payments domain.PaymentReader
	sms      domain.SMSSender
	mailer   domain.ReceiptMailer
	logger   *util.Logger
}

// NewNotificationService accepts nil sms and mailer; those channels are then
// skipped.
func NewNotificationService(repo domain.NotificationRepository, contacts domain.ContactReader,
	payments domain.PaymentReader, sms domain.SMSSender, mailer domain.ReceiptMailer, logger *util.Logger) *NotificationService {
	return &NotificationService{
		repo:     repo,
		contacts: contacts,
		payments: payments,
		sms:      sms,
		mailer:   mailer,
		logger:   logger,
	}
}

func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) (*domain.ListResult, error) {
	page, pageSize = validation.NormalizePagination(page, pageSize)
	list, err := s.repo.List(ctx, userID, unreadOnly, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.ListResult{Notifications: list, Unread: unread}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

// HandleEvent turns a status event into in-app notifications and, for some
// statuses, an SMS or a receipt e-mail. Only storage failures are returned
// as retryable errors; a malformed event wraps ErrValidation.
func (s *NotificationService) HandleEvent(ctx context.Context, ev mq.Event) error {
	instance := "NotificationService.HandleEvent"

	if ev.Entity == "" || ev.ID == "" || ev.Status == "" || ev.CustomerID == "" {
		return fmt.Errorf("%w: event %q is missing entity, id, status or customer_id", apperrors.ErrValidation, ev.RoutingKey())
	}

	tmpl, ok := notices[ev.Entity+"."+ev.Status]
	if !ok {
		s.logger.Info(instance, "no notification for "+ev.RoutingKey())
		return nil
	}

	// The customer row marks the event as seen; a redelivery must not text or
	// mail the customer again.
	fresh := false
	if tmpl.customer != "" {
		created, err := s.store(ctx, ev, ev.CustomerID, tmpl.title, render(tmpl.customer, ev))
		if err != nil {
			return err
		}
		fresh = created
	}
	if tmpl.recycler != "" && ev.RecyclerID != "" {
		if _, err := s.store(ctx, ev, ev.RecyclerID, tmpl.title, render(tmpl.recycler, ev)); err != nil {
			return err
		}
	}

	if !fresh {
		s.logger.Info(instance, fmt.Sprintf("%s [id=%s] already delivered", ev.RoutingKey(), ev.ID))
		return nil
	}
	if tmpl.sms {
		s.sendSMS(ctx, ev, render(tmpl.customer, ev))
	}
	if ev.Entity == "payment" && ev.Status == "completed" {
		s.sendReceipt(ctx, ev)
	}

	s.logger.OK(instance, fmt.Sprintf("handled %s [id=%s]", ev.RoutingKey(), ev.ID))
	return nil
}

// store reports whether a new row was written.
func (s *NotificationService) store(ctx context.Context, ev mq.Event, userID, title, message string) (bool, error) {
	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      ev.Entity + "_" + ev.Status,
		Title:     title,
		Message:   message,
		EntityID:  ev.ID,
		DedupeKey: fmt.Sprintf("%s:%s:%s:%s", ev.Entity, ev.ID, ev.Status, userID),
	}
	created, err := s.repo.Create(ctx, n)
	if err != nil {
		return false, err
	}
	if !created {
		s.logger.Info("NotificationService.store", "duplicate event skipped: "+n.DedupeKey)
	}
	return created, nil
}

// Delivery failures below are logged; the in-app notification already exists.

func (s *NotificationService) sendSMS(ctx context.Context, ev mq.Event, message string) {
	instance := "NotificationService.sendSMS"
	if s.sms == nil {
		return
	}

	user, err := s.contacts.GetUser(ctx, ev.CustomerID)
	if err != nil {
		s.logger.Warn(instance, fmt.Sprintf("lookup customer %s: %v", ev.CustomerID, err))
		return
	}
	if user.Phone == "" {
		return
	}
	if err := s.sms.Send(ctx, message, user.Phone); err != nil {
		s.logger.Warn(instance, fmt.Sprintf("sms to customer %s failed: %v", ev.CustomerID, err))
	}
}

func (s *NotificationService) sendReceipt(ctx context.Context, ev mq.Event) {
	instance := "NotificationService.sendReceipt"
	if s.mailer == nil {
		return
	}

	p, err := s.payments.Get(ctx, ev.ID)
	if err != nil {
		s.logger.Warn(instance, fmt.Sprintf("load payment %s: %v", ev.ID, err))
		return
	}
	user, err := s.contacts.GetUser(ctx, p.CustomerID)
	if err != nil {
		s.logger.Warn(instance, fmt.Sprintf("lookup customer %s: %v", p.CustomerID, err))
		return
	}
	if err := s.mailer.SendReceipt(user.Email, user.FullName, p); err != nil {
		s.logger.Warn(instance, err.Error())
	}
}
