package repository

import (
	"context"
	"fmt"
)

// ToggleSubscription атомарно переключает подписку пользователя на курс.
// Проверка и действие выполняются в одной транзакции: сначала DELETE, и если
// строки не было — INSERT с ON CONFLICT DO NOTHING под уникальным индексом
// (user_uid, course_id). Две конкурирующие одинаковые заявки сводятся к одной
// подписке и одной отписке, дубликат строки невозможен.
// Возвращает true, если подписка в итоге существует.
func (s *Storage) ToggleSubscription(ctx context.Context, userUID string, courseID int) (bool, error) {
	const op = "storage.ToggleSubscription"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE user_uid = $1 AND course_id = $2`,
		userUID, courseID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if deleted > 0 {
		if err = tx.Commit(); err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
		return false, nil
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO subscriptions (user_uid, course_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_uid, course_id) DO NOTHING`,
		userUID, courseID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// ListSubscriberEmails возвращает адреса подписчиков курса. Пользователи
// без email на записи пропускаются.
func (s *Storage) ListSubscriberEmails(ctx context.Context, courseID int) ([]string, error) {
	const op = "storage.ListSubscriberEmails"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.email
			  FROM subscriptions s
			  JOIN users u ON u.uid = s.user_uid
			  WHERE s.course_id = $1
			    AND u.email <> ''
			  ORDER BY u.email`
	rows, err := s.DB.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, email)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// IsSubscribed сообщает, подписан ли пользователь на курс.
func (s *Storage) IsSubscribed(ctx context.Context, userUID string, courseID int) (bool, error) {
	const op = "storage.IsSubscribed"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM subscriptions WHERE user_uid = $1 AND course_id = $2)`,
		userUID, courseID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}
