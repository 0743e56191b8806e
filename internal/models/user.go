// Package models содержит доменные структуры системы обучения:
// пользователей, курсы, уроки, подписки и платежи, а также
// вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// ModeratorGroupName имя группы, членство в которой даёт права модератора.
const ModeratorGroupName = "Moderators"

// User представляет учётную запись пользователя системы.
type User struct {
	UID          string     // Уникальный идентификатор пользователя
	Email        string     // Электронная почта (уникальная)
	PasswordHash string     // Хэш пароля
	FirstName    string     // Имя
	LastName     string     // Фамилия
	Phone        string     // Телефон
	City         string     // Город
	Avatar       string     // Ссылка на аватар
	IsActive     bool       // Активна ли учётная запись
	IsStaff      bool       // Признак сотрудника
	IsSuperuser  bool       // Признак суперпользователя
	IsModerator  bool       // Членство в группе Moderators, вычисляется при чтении
	LastLogin    *time.Time // Время последнего входа, nil если не входил
	CreatedAt    time.Time  // Дата регистрации
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName  string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,max=35"`
	City      string `json:"city,omitempty" validate:"omitempty,max=20"`
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// DummyProfile используется для приёма обновления профиля.
// Email через профиль не меняется.
type DummyProfile struct {
	FirstName string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName  string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,max=35"`
	City      string `json:"city,omitempty" validate:"omitempty,max=20"`
	Avatar    string `json:"avatar,omitempty" validate:"omitempty,url"`
}

// PublicProfile проекция профиля для чужих пользователей.
type PublicProfile struct {
	UID       string `json:"uid"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	City      string `json:"city,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
}

// FullProfile проекция профиля для самого владельца: добавляет фамилию
// и историю платежей.
type FullProfile struct {
	PublicProfile
	LastName string     `json:"last_name,omitempty"`
	Payments []*Payment `json:"payments"`
}

// NewPublicProfile строит публичную проекцию пользователя.
func NewPublicProfile(u *User) *PublicProfile {
	return &PublicProfile{
		UID:       u.UID,
		Email:     u.Email,
		FirstName: u.FirstName,
		Phone:     u.Phone,
		City:      u.City,
		Avatar:    u.Avatar,
	}
}

// NewFullProfile строит полную проекцию пользователя с историей платежей.
func NewFullProfile(u *User, payments []*Payment) *FullProfile {
	if payments == nil {
		payments = []*Payment{}
	}
	return &FullProfile{
		PublicProfile: *NewPublicProfile(u),
		LastName:      u.LastName,
		Payments:      payments,
	}
}
