// Package services содержит обработку событий обновления курсов и отправку
// почтовых уведомлений подписчикам.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/lms-backend/internal/lib/sl"
	"github.com/magabrotheeeer/lms-backend/internal/lib/smtp"
	"github.com/magabrotheeeer/lms-backend/internal/models"
	"github.com/magabrotheeeer/lms-backend/internal/storage/repository"
)

// CourseRepository отдаёт курс и адреса его подписчиков.
type CourseRepository interface {
	// ReadCourse возвращает курс по ID.
	ReadCourse(ctx context.Context, id int) (*models.Course, error)
	// ListSubscriberEmails возвращает адреса подписчиков курса.
	ListSubscriberEmails(ctx context.Context, courseID int) ([]string, error)
}

// SenderService превращает события обновления курсов в письма подписчикам.
type SenderService struct {
	repo      CourseRepository
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(repo CourseRepository, transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		repo:      repo,
		transport: transport,
		log:       log,
	}
}

// HandleCourseUpdated обрабатывает событие обновления курса из брокера.
// Курс перечитывается из хранилища: если он уже удалён, сообщение
// подтверждается и отбрасывается, переотправка бессмысленна. Курс без
// подписчиков тоже обрабатывается успешно без отправки писем.
func (s *SenderService) HandleCourseUpdated(ctx context.Context, body []byte) error {
	var event models.CourseUpdatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	course, err := s.repo.ReadCourse(ctx, event.CourseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Info("course removed before notification, dropping",
				slog.Int("course_id", event.CourseID))
			return nil
		}
		return err
	}

	emails, err := s.repo.ListSubscriberEmails(ctx, event.CourseID)
	if err != nil {
		return err
	}
	if len(emails) == 0 {
		s.log.Info("course has no subscribers", slog.Int("course_id", event.CourseID))
		return nil
	}

	subject := "Обновление курса: " + course.Title
	bodyText := fmt.Sprintf("Здравствуйте!\n\nМатериалы курса «%s» были обновлены.\n\nЗайдите на платформу, чтобы посмотреть изменения.",
		course.Title)

	if err := s.sendEmail(emails, subject, bodyText); err != nil {
		return err
	}
	s.log.Info("course update notifications sent",
		slog.Int("course_id", event.CourseID), slog.Int("recipients", len(emails)))
	return nil
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}
	return nil
}
