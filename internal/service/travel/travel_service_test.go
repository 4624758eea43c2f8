package travel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTravelOptionRepository struct {
	mock.Mock
}

func (m *MockTravelOptionRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.TravelOption, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TravelOption), args.Error(1)
}

func (m *MockTravelOptionRepository) GetByID(ctx context.Context, id int64) (*domain.TravelOption, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TravelOption), args.Error(1)
}

func (m *MockTravelOptionRepository) Create(ctx context.Context, option *domain.TravelOption) error {
	return m.Called(ctx, option).Error(0)
}

func (m *MockTravelOptionRepository) ReserveSeats(ctx context.Context, id int64, count int) (*domain.TravelOption, error) {
	args := m.Called(ctx, id, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TravelOption), args.Error(1)
}

func (m *MockTravelOptionRepository) ReleaseSeats(ctx context.Context, id int64, count int) (*domain.TravelOption, error) {
	args := m.Called(ctx, id, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TravelOption), args.Error(1)
}

func (m *MockTravelOptionRepository) Discrepancies(ctx context.Context) ([]domain.InventoryDiscrepancy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryDiscrepancy), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetListings(ctx context.Context, filter domain.ListFilter) ([]domain.TravelOption, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TravelOption), args.Error(1)
}

func (m *MockCache) SetListings(ctx context.Context, filter domain.ListFilter, options []domain.TravelOption) error {
	return m.Called(ctx, filter, options).Error(0)
}

func (m *MockCache) InvalidateListings(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func sampleOptions() []domain.TravelOption {
	return []domain.TravelOption{
		{
			ID:             1,
			Mode:           domain.TravelModeFlight,
			Source:         "Delhi",
			Destination:    "Mumbai",
			DepartureTime:  time.Now().Add(24 * time.Hour),
			Price:          decimal.RequireFromString("100.00"),
			TotalSeats:     5,
			AvailableSeats: 5,
		},
	}
}

func TestTravelService_List_CacheMiss(t *testing.T) {
	mockRepo := &MockTravelOptionRepository{}
	mockCache := &MockCache{}
	log, _ := test.NewNullLogger()
	service := NewTravelService(mockRepo, mockCache, log)

	ctx := context.Background()
	filter := domain.ListFilter{Mode: domain.TravelModeFlight, Source: "Delhi"}
	options := sampleOptions()

	mockCache.On("GetListings", ctx, filter).Return(nil, nil).Once()
	mockRepo.On("List", ctx, filter).Return(options, nil).Once()
	mockCache.On("SetListings", ctx, filter, options).Return(nil).Once()

	result, err := service.List(ctx, filter)

	assert.NoError(t, err)
	assert.Equal(t, options, result)
	mockCache.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestTravelService_List_CacheHit(t *testing.T) {
	mockRepo := &MockTravelOptionRepository{}
	mockCache := &MockCache{}
	log, _ := test.NewNullLogger()
	service := NewTravelService(mockRepo, mockCache, log)

	ctx := context.Background()
	options := sampleOptions()

	mockCache.On("GetListings", ctx, domain.ListFilter{}).Return(options, nil).Once()

	result, err := service.List(ctx, domain.ListFilter{})

	assert.NoError(t, err)
	assert.Equal(t, options, result)
	mockRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestTravelService_List_CacheErrorFallsThrough(t *testing.T) {
	mockRepo := &MockTravelOptionRepository{}
	mockCache := &MockCache{}
	log, hook := test.NewNullLogger()
	service := NewTravelService(mockRepo, mockCache, log)

	ctx := context.Background()
	options := sampleOptions()

	mockCache.On("GetListings", ctx, domain.ListFilter{}).Return(nil, errors.New("redis down")).Once()
	mockRepo.On("List", ctx, domain.ListFilter{}).Return(options, nil).Once()
	mockCache.On("SetListings", ctx, domain.ListFilter{}, options).Return(errors.New("redis down")).Once()

	result, err := service.List(ctx, domain.ListFilter{})

	assert.NoError(t, err)
	assert.Equal(t, options, result)
	assert.Len(t, hook.Entries, 2)
}

func TestTravelService_List_TrimsFilter(t *testing.T) {
	mockRepo := &MockTravelOptionRepository{}
	log, _ := test.NewNullLogger()
	service := NewTravelService(mockRepo, nil, log)

	ctx := context.Background()
	mockRepo.On("List", ctx, domain.ListFilter{Source: "Delhi"}).Return([]domain.TravelOption{}, nil).Once()

	result, err := service.List(ctx, domain.ListFilter{Source: "  Delhi "})

	assert.NoError(t, err)
	assert.Empty(t, result)
	mockRepo.AssertExpectations(t)
}

func TestTravelService_List_InvalidMode(t *testing.T) {
	mockRepo := &MockTravelOptionRepository{}
	log, _ := test.NewNullLogger()
	service := NewTravelService(mockRepo, nil, log)

	result, err := service.List(context.Background(), domain.ListFilter{Mode: "Ferry"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	mockRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestTravelService_GetByID(t *testing.T) {
	mockRepo := &MockTravelOptionRepository{}
	log, _ := test.NewNullLogger()
	service := NewTravelService(mockRepo, nil, log)

	ctx := context.Background()
	option := &sampleOptions()[0]

	mockRepo.On("GetByID", ctx, int64(1)).Return(option, nil).Once()
	mockRepo.On("GetByID", ctx, int64(2)).Return(nil, domain.ErrTravelOptionNotFound).Once()

	result, err := service.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, option, result)

	_, err = service.GetByID(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrTravelOptionNotFound)

	_, err = service.GetByID(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestTravelService_Reconcile(t *testing.T) {
	mockRepo := &MockTravelOptionRepository{}
	log, hook := test.NewNullLogger()
	service := NewTravelService(mockRepo, nil, log)

	ctx := context.Background()
	found := []domain.InventoryDiscrepancy{{TravelOptionID: 4, TotalSeats: 10, AvailableSeats: 9, ConfirmedSeats: 3}}
	mockRepo.On("Discrepancies", ctx).Return(found, nil).Once()

	result, err := service.Reconcile(ctx)

	require.NoError(t, err)
	assert.Equal(t, found, result)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, int64(4), hook.LastEntry().Data["travel_option_id"])
}

func TestTravelService_Reconcile_Error(t *testing.T) {
	mockRepo := &MockTravelOptionRepository{}
	log, _ := test.NewNullLogger()
	service := NewTravelService(mockRepo, nil, log)

	ctx := context.Background()
	mockRepo.On("Discrepancies", ctx).Return(nil, errors.New("db down")).Once()

	result, err := service.Reconcile(ctx)

	assert.Nil(t, result)
	assert.ErrorContains(t, err, "db down")
}

func TestTravelService_InvalidateListings(t *testing.T) {
	mockCache := &MockCache{}
	log, _ := test.NewNullLogger()

	ctx := context.Background()
	mockCache.On("InvalidateListings", ctx).Return(nil).Once()

	assert.NoError(t, NewTravelService(&MockTravelOptionRepository{}, mockCache, log).InvalidateListings(ctx))
	assert.NoError(t, NewTravelService(&MockTravelOptionRepository{}, nil, log).InvalidateListings(ctx))
	mockCache.AssertExpectations(t)
}
