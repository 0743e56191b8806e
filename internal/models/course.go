package models

import "time"

// Course представляет курс каталога. Владелец может быть удалён без удаления
// курса, поэтому OwnerUID хранится указателем. UpdatedAt равен nil, пока курс
// ни разу не обновлялся.
type Course struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Preview     string     `json:"preview,omitempty"`
	Description string     `json:"description,omitempty"`
	OwnerUID    *string    `json:"owner_uid,omitempty"`
	LessonCount int        `json:"lesson_count"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// DummyCourse используется для приёма данных курса из JSON-запроса.
type DummyCourse struct {
	Title       string `json:"title" validate:"required,max=100"`
	Preview     string `json:"preview,omitempty" validate:"omitempty,url"`
	Description string `json:"description,omitempty"`
}

// CourseUpdatedEvent сообщение о том, что курс обновлён. Публикуется в брокер
// и переносит только идентификатор: воркер перечитывает курс из хранилища.
type CourseUpdatedEvent struct {
	CourseID int `json:"course_id"`
}
