package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lms-backend/internal/models"
	"github.com/magabrotheeeer/lms-backend/internal/policy"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) UpdateProfile(ctx context.Context, userUID string, req models.DummyProfile) (int, error) {
	args := m.Called(ctx, userUID, req)
	return args.Int(0), args.Error(1)
}
func (m *UsersMock) RemoveUser(ctx context.Context, userUID string) (int, error) {
	args := m.Called(ctx, userUID)
	return args.Int(0), args.Error(1)
}

type PaymentsMock struct{ mock.Mock }

func (m *PaymentsMock) ListPayments(ctx context.Context, filter models.PaymentFilter) ([]*models.Payment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const (
	ownerUID    = "3f2c8a4e-0000-0000-0000-000000000001"
	strangerUID = "3f2c8a4e-0000-0000-0000-000000000002"
)

var storedUser = &models.User{
	UID:       ownerUID,
	Email:     "owner@example.com",
	FirstName: "Анна",
	LastName:  "Иванова",
	Phone:     "+70000000000",
	City:      "Москва",
}

func TestProfileService_Read_OwnerGetsFullProfile(t *testing.T) {
	users := new(UsersMock)
	payments := new(PaymentsMock)

	users.On("GetUser", mock.Anything, ownerUID).Return(storedUser, nil).Once()
	payments.On("ListPayments", mock.Anything, mock.MatchedBy(func(f models.PaymentFilter) bool {
		return f.UserUID != nil && *f.UserUID == ownerUID
	})).Return([]*models.Payment{{ID: 1, UserUID: ownerUID}}, nil).Once()

	svc := NewProfileService(users, payments, newNoopLogger())
	subject := policy.Subject{UID: ownerUID, Authenticated: true}

	result, view, err := svc.Read(context.Background(), subject, ownerUID)
	require.NoError(t, err)
	assert.Equal(t, policy.ViewFull, view)

	full, ok := result.(*models.FullProfile)
	require.True(t, ok)
	assert.Equal(t, "Иванова", full.LastName)
	assert.Len(t, full.Payments, 1)
}

func TestProfileService_Read_StrangerGetsPublicProfile(t *testing.T) {
	users := new(UsersMock)
	payments := new(PaymentsMock)

	users.On("GetUser", mock.Anything, ownerUID).Return(storedUser, nil).Once()

	svc := NewProfileService(users, payments, newNoopLogger())
	subject := policy.Subject{UID: strangerUID, Authenticated: true}

	result, view, err := svc.Read(context.Background(), subject, ownerUID)
	require.NoError(t, err)
	assert.Equal(t, policy.ViewPublic, view)

	public, ok := result.(*models.PublicProfile)
	require.True(t, ok)
	assert.Equal(t, "owner@example.com", public.Email)
	// История платежей и фамилия чужим не отдаются.
	payments.AssertNotCalled(t, "ListPayments", mock.Anything, mock.Anything)
}

func TestProfileService_Update_OnlyOwner(t *testing.T) {
	tests := []struct {
		name       string
		subject    policy.Subject
		wantEffect policy.Effect
	}{
		{
			name:       "владелец меняет свой профиль",
			subject:    policy.Subject{UID: ownerUID, Authenticated: true},
			wantEffect: policy.EffectAllow,
		},
		{
			name:       "чужой профиль запрещён",
			subject:    policy.Subject{UID: strangerUID, Authenticated: true},
			wantEffect: policy.EffectForbidden,
		},
		{
			name:       "модератор не имеет обхода для профилей",
			subject:    policy.Subject{UID: strangerUID, Authenticated: true, Moderator: true},
			wantEffect: policy.EffectForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			if tt.wantEffect == policy.EffectAllow {
				users.On("UpdateProfile", mock.Anything, ownerUID, mock.Anything).Return(1, nil).Once()
			}

			svc := NewProfileService(users, new(PaymentsMock), newNoopLogger())
			_, effect, err := svc.Update(context.Background(), tt.subject, ownerUID, models.DummyProfile{City: "Казань"})

			assert.NoError(t, err)
			assert.Equal(t, tt.wantEffect, effect)
			if tt.wantEffect != policy.EffectAllow {
				users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestProfileService_Remove_OnlyOwner(t *testing.T) {
	users := new(UsersMock)
	users.On("RemoveUser", mock.Anything, ownerUID).Return(1, nil).Once()

	svc := NewProfileService(users, new(PaymentsMock), newNoopLogger())

	count, effect, err := svc.Remove(context.Background(),
		policy.Subject{UID: ownerUID, Authenticated: true}, ownerUID)
	assert.NoError(t, err)
	assert.Equal(t, policy.EffectAllow, effect)
	assert.Equal(t, 1, count)

	_, effect, err = svc.Remove(context.Background(),
		policy.Subject{UID: strangerUID, Authenticated: true}, ownerUID)
	assert.NoError(t, err)
	assert.Equal(t, policy.EffectForbidden, effect)
}
