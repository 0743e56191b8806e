package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/lms-backend/internal/models"
)

// CreateCourse вставляет новый курс и возвращает его ID.
func (s *Storage) CreateCourse(ctx context.Context, course models.Course) (int, error) {
	const op = "storage.CreateCourse"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO courses (title, preview, description, owner_uid)
			  VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		course.Title, course.Preview, course.Description, course.OwnerUID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadCourse возвращает курс по его ID вместе с количеством уроков.
func (s *Storage) ReadCourse(ctx context.Context, id int) (*models.Course, error) {
	const op = "storage.ReadCourse"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT c.id, c.title, COALESCE(c.preview, ''), COALESCE(c.description, ''),
			      c.owner_uid, c.updated_at, c.created_at,
			      (SELECT COUNT(*) FROM lessons l WHERE l.course_id = c.id) AS lesson_count
			  FROM courses c
			  WHERE c.id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Course
	var ownerUID sql.NullString
	var updatedAt sql.NullTime
	if err := row.Scan(&result.ID, &result.Title, &result.Preview, &result.Description,
		&ownerUID, &updatedAt, &result.CreatedAt, &result.LessonCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if ownerUID.Valid {
		result.OwnerUID = &ownerUID.String
	}
	if updatedAt.Valid {
		result.UpdatedAt = &updatedAt.Time
	}
	return &result, nil
}

// UpdateCourse обновляет курс, выставляет updated_at и возвращает количество
// изменённых строк.
func (s *Storage) UpdateCourse(ctx context.Context, req models.DummyCourse, id int) (int, error) {
	const op = "storage.UpdateCourse"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE courses
			  SET title = $1, preview = NULLIF($2, ''), description = NULLIF($3, ''),
			      updated_at = now()
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query, req.Title, req.Preview, req.Description, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveCourse удаляет курс по ID. Уроки курса удаляются каскадно схемой.
func (s *Storage) RemoveCourse(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveCourse"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListCourses возвращает список курсов с пагинацией.
func (s *Storage) ListCourses(ctx context.Context, limit, offset int) ([]*models.Course, error) {
	const op = "storage.ListCourses"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT c.id, c.title, COALESCE(c.preview, ''), COALESCE(c.description, ''),
			      c.owner_uid, c.updated_at, c.created_at,
			      (SELECT COUNT(*) FROM lessons l WHERE l.course_id = c.id) AS lesson_count
			  FROM courses c
			  ORDER BY c.id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Course
	for rows.Next() {
		var item models.Course
		var ownerUID sql.NullString
		var updatedAt sql.NullTime
		if err := rows.Scan(&item.ID, &item.Title, &item.Preview, &item.Description,
			&ownerUID, &updatedAt, &item.CreatedAt, &item.LessonCount); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if ownerUID.Valid {
			item.OwnerUID = &ownerUID.String
		}
		if updatedAt.Valid {
			item.UpdatedAt = &updatedAt.Time
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
