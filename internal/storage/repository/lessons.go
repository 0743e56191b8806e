package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/lms-backend/internal/models"
)

// CreateLesson вставляет новый урок и возвращает его ID.
func (s *Storage) CreateLesson(ctx context.Context, lesson models.Lesson) (int, error) {
	const op = "storage.CreateLesson"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO lessons (course_id, title, preview, description, video_url, owner_uid)
			  VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		lesson.CourseID, lesson.Title, lesson.Preview, lesson.Description,
		lesson.VideoURL, lesson.OwnerUID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadLesson возвращает урок по его ID.
func (s *Storage) ReadLesson(ctx context.Context, id int) (*models.Lesson, error) {
	const op = "storage.ReadLesson"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, course_id, title, COALESCE(preview, ''), COALESCE(description, ''),
			      video_url, owner_uid, created_at
			  FROM lessons
			  WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Lesson
	var ownerUID sql.NullString
	if err := row.Scan(&result.ID, &result.CourseID, &result.Title, &result.Preview,
		&result.Description, &result.VideoURL, &ownerUID, &result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if ownerUID.Valid {
		result.OwnerUID = &ownerUID.String
	}
	return &result, nil
}

// UpdateLesson обновляет урок и возвращает количество изменённых строк.
func (s *Storage) UpdateLesson(ctx context.Context, req models.DummyLesson, id int) (int, error) {
	const op = "storage.UpdateLesson"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE lessons
			  SET course_id = $1, title = $2, preview = NULLIF($3, ''),
			      description = NULLIF($4, ''), video_url = $5
			  WHERE id = $6`
	result, err := s.DB.ExecContext(ctx, query,
		req.CourseID, req.Title, req.Preview, req.Description, req.VideoURL, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveLesson удаляет урок по ID.
func (s *Storage) RemoveLesson(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveLesson"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListLessons возвращает уроки в порядке добавления с пагинацией.
// При courseID > 0 список ограничивается одним курсом.
func (s *Storage) ListLessons(ctx context.Context, courseID, limit, offset int) ([]*models.Lesson, error) {
	const op = "storage.ListLessons"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, course_id, title, COALESCE(preview, ''), COALESCE(description, ''),
			      video_url, owner_uid, created_at
			  FROM lessons
			  WHERE ($1 = 0 OR course_id = $1)
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, courseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Lesson
	for rows.Next() {
		var item models.Lesson
		var ownerUID sql.NullString
		if err := rows.Scan(&item.ID, &item.CourseID, &item.Title, &item.Preview,
			&item.Description, &item.VideoURL, &ownerUID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if ownerUID.Valid {
			item.OwnerUID = &ownerUID.String
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
