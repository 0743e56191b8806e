package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/lms-backend/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreatePayment(ctx context.Context, payment models.Payment) (int, error) {
	args := m.Called(ctx, payment)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadPayment(ctx context.Context, id int) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}
func (m *RepoMock) SetPaymentSession(ctx context.Context, id int, sessionID, link string) (int, error) {
	args := m.Called(ctx, id, sessionID, link)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListPayments(ctx context.Context, filter models.PaymentFilter) ([]*models.Payment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

type CatalogMock struct{ mock.Mock }

func (m *CatalogMock) ReadCourse(ctx context.Context, id int) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}
func (m *CatalogMock) ReadLesson(ctx context.Context, id int) (*models.Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) CreateProduct(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}
func (m *GatewayMock) CreatePrice(ctx context.Context, productID string, amountMinor int64) (string, error) {
	args := m.Called(ctx, productID, amountMinor)
	return args.String(0), args.Error(1)
}
func (m *GatewayMock) CreateSession(ctx context.Context, priceID string) (string, string, error) {
	args := m.Called(ctx, priceID)
	return args.String(0), args.String(1), args.Error(2)
}
func (m *GatewayMock) GetStatus(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestPaymentService_Create_FullOrchestration(t *testing.T) {
	const userUID = "3f2c8a4e-0000-0000-0000-000000000001"
	courseID := 10
	sessionID := "cs_test_42"
	link := "https://pay.example/cs_test_42"
	req := models.DummyPayment{
		CourseID:      &courseID,
		Amount:        1999.99,
		PaymentMethod: models.PaymentMethodTransfer,
	}

	repo := new(RepoMock)
	catalog := new(CatalogMock)
	gateway := new(GatewayMock)

	catalog.On("ReadCourse", mock.Anything, 10).
		Return(&models.Course{ID: 10, Title: "Go для начинающих"}, nil).Once()
	repo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p models.Payment) bool {
		return p.UserUID == userUID && p.CourseID != nil && *p.CourseID == 10 && p.SessionID == nil
	})).Return(55, nil).Once()
	gateway.On("CreateProduct", mock.Anything, "Go для начинающих").Return("prod_1", nil).Once()
	gateway.On("CreatePrice", mock.Anything, "prod_1", int64(199999)).Return("price_1", nil).Once()
	gateway.On("CreateSession", mock.Anything, "price_1").Return(sessionID, link, nil).Once()
	repo.On("SetPaymentSession", mock.Anything, 55, sessionID, link).Return(1, nil).Once()
	repo.On("ReadPayment", mock.Anything, 55).
		Return(&models.Payment{ID: 55, UserUID: userUID, SessionID: &sessionID, Link: &link}, nil).Once()

	svc := NewPaymentService(repo, catalog, gateway, newNoopLogger())
	payment, err := svc.Create(context.Background(), userUID, req)

	assert.NoError(t, err)
	assert.Equal(t, 55, payment.ID)
	assert.Equal(t, sessionID, *payment.SessionID)
	assert.Equal(t, link, *payment.Link)
	repo.AssertExpectations(t)
	catalog.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestPaymentService_Create_GatewayFailureLeavesNoSession(t *testing.T) {
	const userUID = "3f2c8a4e-0000-0000-0000-000000000001"
	courseID := 10
	req := models.DummyPayment{
		CourseID:      &courseID,
		Amount:        100,
		PaymentMethod: models.PaymentMethodCash,
	}

	repo := new(RepoMock)
	catalog := new(CatalogMock)
	gateway := new(GatewayMock)

	catalog.On("ReadCourse", mock.Anything, 10).
		Return(&models.Course{ID: 10, Title: "SQL"}, nil).Once()
	repo.On("CreatePayment", mock.Anything, mock.Anything).Return(56, nil).Once()
	gateway.On("CreateProduct", mock.Anything, "SQL").Return("prod_2", nil).Once()
	gateway.On("CreatePrice", mock.Anything, "prod_2", int64(10000)).
		Return("", errors.New("gateway timeout")).Once()

	svc := NewPaymentService(repo, catalog, gateway, newNoopLogger())
	_, err := svc.Create(context.Background(), userUID, req)

	assert.Error(t, err)
	// Частичный прогресс не сохраняется: поля сессии не трогаются.
	repo.AssertNotCalled(t, "SetPaymentSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	gateway.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}

func TestPaymentService_Create_LessonTitleWhenNoCourse(t *testing.T) {
	const userUID = "3f2c8a4e-0000-0000-0000-000000000001"
	lessonID := 4
	sessionID := "cs_test_77"
	link := "https://pay.example/cs_test_77"
	req := models.DummyPayment{
		LessonID:      &lessonID,
		Amount:        50,
		PaymentMethod: models.PaymentMethodCash,
	}

	repo := new(RepoMock)
	catalog := new(CatalogMock)
	gateway := new(GatewayMock)

	catalog.On("ReadLesson", mock.Anything, 4).
		Return(&models.Lesson{ID: 4, Title: "Интерфейсы"}, nil).Once()
	repo.On("CreatePayment", mock.Anything, mock.Anything).Return(57, nil).Once()
	gateway.On("CreateProduct", mock.Anything, "Интерфейсы").Return("prod_3", nil).Once()
	gateway.On("CreatePrice", mock.Anything, "prod_3", int64(5000)).Return("price_3", nil).Once()
	gateway.On("CreateSession", mock.Anything, "price_3").Return(sessionID, link, nil).Once()
	repo.On("SetPaymentSession", mock.Anything, 57, sessionID, link).Return(1, nil).Once()
	repo.On("ReadPayment", mock.Anything, 57).
		Return(&models.Payment{ID: 57, SessionID: &sessionID, Link: &link}, nil).Once()

	svc := NewPaymentService(repo, catalog, gateway, newNoopLogger())
	payment, err := svc.Create(context.Background(), userUID, req)

	assert.NoError(t, err)
	assert.Equal(t, 57, payment.ID)
	catalog.AssertNotCalled(t, "ReadCourse", mock.Anything, mock.Anything)
}

func TestPaymentService_Create_NoTarget(t *testing.T) {
	svc := NewPaymentService(new(RepoMock), new(CatalogMock), new(GatewayMock), newNoopLogger())
	_, err := svc.Create(context.Background(), "uid", models.DummyPayment{
		Amount:        10,
		PaymentMethod: models.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, ErrNoTarget)
}

func TestPaymentService_Status(t *testing.T) {
	sessionID := "cs_test_42"

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, g *GatewayMock)
		wantStatus string
		wantErr    error
	}{
		{
			name: "статус шлюза возвращается как есть",
			setupMocks: func(r *RepoMock, g *GatewayMock) {
				r.On("ReadPayment", mock.Anything, 55).
					Return(&models.Payment{ID: 55, SessionID: &sessionID}, nil).Once()
				g.On("GetStatus", mock.Anything, sessionID).Return("unpaid", nil).Once()
			},
			wantStatus: "unpaid",
		},
		{
			name: "платёж без сессии",
			setupMocks: func(r *RepoMock, _ *GatewayMock) {
				r.On("ReadPayment", mock.Anything, 55).
					Return(&models.Payment{ID: 55}, nil).Once()
			},
			wantErr: ErrNoSession,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			gateway := new(GatewayMock)
			tt.setupMocks(repo, gateway)

			svc := NewPaymentService(repo, new(CatalogMock), gateway, newNoopLogger())
			status, err := svc.Status(context.Background(), 55)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantStatus, status)
			}
			repo.AssertExpectations(t)
			gateway.AssertExpectations(t)
		})
	}
}

func TestPaymentService_List_ScopesToOwnPayments(t *testing.T) {
	const userUID = "3f2c8a4e-0000-0000-0000-000000000001"

	repo := new(RepoMock)
	repo.On("ListPayments", mock.Anything, mock.MatchedBy(func(f models.PaymentFilter) bool {
		return f.UserUID != nil && *f.UserUID == userUID
	})).Return([]*models.Payment{}, nil).Once()

	svc := NewPaymentService(repo, new(CatalogMock), new(GatewayMock), newNoopLogger())
	_, err := svc.List(context.Background(), userUID, false, models.PaymentFilter{Limit: 20})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestPaymentService_List_StaffSeesAll(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListPayments", mock.Anything, mock.MatchedBy(func(f models.PaymentFilter) bool {
		return f.UserUID == nil
	})).Return([]*models.Payment{}, nil).Once()

	svc := NewPaymentService(repo, new(CatalogMock), new(GatewayMock), newNoopLogger())
	_, err := svc.List(context.Background(), "staff-uid", true, models.PaymentFilter{Limit: 20})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
