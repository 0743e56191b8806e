package models

import "time"

// Subscription связывает пользователя с курсом, на обновления которого он
// подписан. Пара (user_uid, course_id) уникальна на уровне схемы.
type Subscription struct {
	ID        int       `json:"id"`
	UserUID   string    `json:"user_uid"`
	CourseID  int       `json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}

// DummyToggle используется для приёма запроса на переключение подписки.
type DummyToggle struct {
	CourseID int `json:"course_id" validate:"required,gt=0"`
}
