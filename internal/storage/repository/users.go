package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/lms-backend/internal/models"
)

// userColumns общий список колонок пользователя с вычисленным членством
// в группе модераторов.
const userColumns = `u.uid, u.email, u.password_hash, u.first_name, u.last_name,
			      u.phone, u.city, u.avatar, u.is_active, u.is_staff, u.is_superuser,
			      u.last_login, u.created_at,
			      EXISTS (
			          SELECT 1 FROM user_groups ug
			          JOIN groups g ON g.id = ug.group_id
			          WHERE ug.user_uid = u.uid AND g.name = $1
			      ) AS is_moderator`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var firstName, lastName, phone, city, avatar sql.NullString
	var lastLogin sql.NullTime
	if err := row.Scan(&u.UID, &u.Email, &u.PasswordHash, &firstName, &lastName,
		&phone, &city, &avatar, &u.IsActive, &u.IsStaff, &u.IsSuperuser,
		&lastLogin, &u.CreatedAt, &u.IsModerator); err != nil {
		return nil, err
	}
	u.FirstName = firstName.String
	u.LastName = lastName.String
	u.Phone = phone.String
	u.City = city.String
	u.Avatar = avatar.String
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return u, nil
}

// RegisterUser сохраняет нового пользователя и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, password_hash, first_name, last_name, phone, city)
			  VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''))
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.Phone, user.City).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByEmail возвращает пользователя по email вместе с признаком модератора.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users u WHERE u.email = $2`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, models.ModeratorGroupName, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID вместе с признаком модератора.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users u WHERE u.uid = $2`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, models.ModeratorGroupName, userUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateProfile обновляет поля профиля пользователя. Email через профиль
// не меняется. Возвращает количество изменённых строк.
func (s *Storage) UpdateProfile(ctx context.Context, userUID string, req models.DummyProfile) (int, error) {
	const op = "storage.UpdateProfile"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET first_name = NULLIF($1, ''), last_name = NULLIF($2, ''),
			      phone = NULLIF($3, ''), city = NULLIF($4, ''), avatar = NULLIF($5, '')
			  WHERE uid = $6`
	result, err := s.DB.ExecContext(ctx, query,
		req.FirstName, req.LastName, req.Phone, req.City, req.Avatar, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveUser удаляет учётную запись пользователя.
func (s *Storage) RemoveUser(ctx context.Context, userUID string) (int, error) {
	const op = "storage.RemoveUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateLastLogin фиксирует время последнего входа пользователя.
func (s *Storage) UpdateLastLogin(ctx context.Context, userUID string) error {
	const op = "storage.UpdateLastLogin"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	_, err := s.DB.ExecContext(ctx,
		`UPDATE users SET last_login = now() WHERE uid = $1`, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// BlockInactiveUsers массово деактивирует пользователей, не входивших
// с момента cutoff. Сотрудники и суперпользователи не блокируются.
// Возвращает количество заблокированных.
func (s *Storage) BlockInactiveUsers(ctx context.Context, cutoff time.Time) (int, error) {
	const op = "storage.BlockInactiveUsers"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_active = false
			  WHERE last_login < $1
			    AND is_active = true
			    AND is_staff = false
			    AND is_superuser = false`
	result, err := s.DB.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// AddUserToGroup добавляет пользователя в группу по имени, создавая группу
// при необходимости.
func (s *Storage) AddUserToGroup(ctx context.Context, userUID, groupName string) error {
	const op = "storage.AddUserToGroup"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `WITH g AS (
			      INSERT INTO groups (name) VALUES ($1)
			      ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			      RETURNING id
			  )
			  INSERT INTO user_groups (user_uid, group_id)
			  SELECT $2, id FROM g
			  ON CONFLICT DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, query, groupName, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
