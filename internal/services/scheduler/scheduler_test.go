package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) BlockInactiveUsers(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSchedulerService_RunBlockInactiveUsers(t *testing.T) {
	repo := new(RepoMock)
	repo.On("BlockInactiveUsers", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		expected := time.Now().Add(-30 * 24 * time.Hour)
		diff := cutoff.Sub(expected)
		return diff > -time.Minute && diff < time.Minute
	})).Return(3, nil).Once()

	svc := NewSchedulerService(repo, newNoopLogger())
	svc.RunBlockInactiveUsers(context.Background())

	repo.AssertExpectations(t)
}

func TestSchedulerService_RunBlockInactiveUsers_ErrorDoesNotPanic(t *testing.T) {
	repo := new(RepoMock)
	repo.On("BlockInactiveUsers", mock.Anything, mock.Anything).
		Return(0, errors.New("db error")).Once()

	svc := NewSchedulerService(repo, newNoopLogger())
	assert.NotPanics(t, func() {
		svc.RunBlockInactiveUsers(context.Background())
	})
	repo.AssertExpectations(t)
}
