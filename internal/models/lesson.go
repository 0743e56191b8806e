package models

import "time"

// Lesson представляет урок. Урок всегда принадлежит ровно одному курсу,
// при удалении курса уроки удаляются каскадно.
type Lesson struct {
	ID          int       `json:"id"`
	CourseID    int       `json:"course_id"`
	Title       string    `json:"title"`
	Preview     string    `json:"preview,omitempty"`
	Description string    `json:"description,omitempty"`
	VideoURL    string    `json:"video_url"`
	OwnerUID    *string   `json:"owner_uid,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DummyLesson используется для приёма данных урока из JSON-запроса.
// Ссылка на видео дополнительно проверяется на разрешённый видеохостинг.
type DummyLesson struct {
	CourseID    int    `json:"course_id" validate:"required,gt=0"`
	Title       string `json:"title" validate:"required,max=100"`
	Preview     string `json:"preview,omitempty" validate:"omitempty,url"`
	Description string `json:"description,omitempty"`
	VideoURL    string `json:"video_url" validate:"required,url,video_host"`
}
