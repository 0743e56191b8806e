package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/lms-backend/internal/models"
)

// CreatePayment вставляет запись платежа без полей шлюза и возвращает её ID.
func (s *Storage) CreatePayment(ctx context.Context, payment models.Payment) (int, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (user_uid, course_id, lesson_id, amount, payment_method)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		payment.UserUID, payment.CourseID, payment.LessonID,
		payment.Amount, payment.PaymentMethod).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadPayment возвращает платёж по его ID.
func (s *Storage) ReadPayment(ctx context.Context, id int) (*models.Payment, error) {
	const op = "storage.ReadPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, payment_date, course_id, lesson_id, amount,
			      payment_method, session_id, link
			  FROM payments
			  WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	payment, err := scanPayment(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payment, nil
}

// SetPaymentSession записывает идентификатор сессии шлюза и ссылку на оплату
// одним обновлением. Вызывается только после успешного завершения всех
// обращений к шлюзу, частичное состояние не сохраняется.
func (s *Storage) SetPaymentSession(ctx context.Context, id int, sessionID, link string) (int, error) {
	const op = "storage.SetPaymentSession"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments
			  SET session_id = $1, link = $2
			  WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, sessionID, link, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListPayments возвращает платежи по фильтру, отсортированные по дате оплаты
// по убыванию, с пагинацией.
func (s *Storage) ListPayments(ctx context.Context, filter models.PaymentFilter) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, payment_date, course_id, lesson_id, amount,
			      payment_method, session_id, link
			  FROM payments
			  WHERE ($1::uuid IS NULL OR user_uid = $1)
			    AND ($2::int IS NULL OR course_id = $2)
			    AND ($3::int IS NULL OR lesson_id = $3)
			    AND ($4::text IS NULL OR payment_method = $4)
			  ORDER BY payment_date DESC, id DESC
			  LIMIT $5 OFFSET $6`
	rows, err := s.DB.QueryContext(ctx, query,
		filter.UserUID, filter.CourseID, filter.LessonID, filter.PaymentMethod,
		filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, payment)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func scanPayment(scan func(dest ...any) error) (*models.Payment, error) {
	var item models.Payment
	var courseID, lessonID sql.NullInt64
	var sessionID, link sql.NullString
	if err := scan(&item.ID, &item.UserUID, &item.PaymentDate, &courseID, &lessonID,
		&item.Amount, &item.PaymentMethod, &sessionID, &link); err != nil {
		return nil, err
	}
	if courseID.Valid {
		v := int(courseID.Int64)
		item.CourseID = &v
	}
	if lessonID.Valid {
		v := int(lessonID.Int64)
		item.LessonID = &v
	}
	if sessionID.Valid {
		item.SessionID = &sessionID.String
	}
	if link.Valid {
		item.Link = &link.String
	}
	return &item, nil
}
