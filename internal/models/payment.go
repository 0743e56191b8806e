package models

import "time"

// Способы оплаты.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
)

// Payment представляет платёж пользователя за курс или урок. Оба поля цели
// опциональны. После успешной оркестрации шлюза заполняются SessionID и Link,
// дальше запись меняется только при сверке статуса.
type Payment struct {
	ID            int       `json:"id"`
	UserUID       string    `json:"user_uid"`
	PaymentDate   time.Time `json:"payment_date"`
	CourseID      *int      `json:"course_id,omitempty"`
	LessonID      *int      `json:"lesson_id,omitempty"`
	Amount        float64   `json:"amount"` // Сумма в рублях, два знака после запятой
	PaymentMethod string    `json:"payment_method"`
	SessionID     *string   `json:"session_id,omitempty"`
	Link          *string   `json:"link,omitempty"`
}

// DummyPayment используется для приёма данных платежа из JSON-запроса.
type DummyPayment struct {
	CourseID      *int    `json:"course_id,omitempty" validate:"omitempty,gt=0"`
	LessonID      *int    `json:"lesson_id,omitempty" validate:"omitempty,gt=0"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=cash transfer"`
}

// PaymentFilter параметры фильтрации списка платежей.
type PaymentFilter struct {
	UserUID       *string // nil — платежи всех пользователей (доступно сотрудникам)
	CourseID      *int
	LessonID      *int
	PaymentMethod *string
	Limit         int
	Offset        int
}
