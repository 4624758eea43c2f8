package travel

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type TravelUseCase interface {
	List(ctx context.Context, filter domain.ListFilter) ([]domain.TravelOption, error)
	GetByID(ctx context.Context, id int64) (*domain.TravelOption, error)
}

type ListingsCache interface {
	GetListings(ctx context.Context, filter domain.ListFilter) ([]domain.TravelOption, error)
	SetListings(ctx context.Context, filter domain.ListFilter, options []domain.TravelOption) error
	InvalidateListings(ctx context.Context) error
}

type TravelService struct {
	repo     repository.TravelOptionRepository
	cache    ListingsCache
	validate *validator.Validate
	log      logrus.FieldLogger
}

func NewTravelService(repo repository.TravelOptionRepository, cache ListingsCache, log logrus.FieldLogger) *TravelService {
	return &TravelService{
		repo:     repo,
		cache:    cache,
		validate: validator.New(),
		log:      log,
	}
}

// List returns options ordered by departure, served from the cache when
// possible. Cache failures fall through to the database.
func (s *TravelService) List(ctx context.Context, filter domain.ListFilter) ([]domain.TravelOption, error) {
	filter.Source = strings.TrimSpace(filter.Source)
	filter.Destination = strings.TrimSpace(filter.Destination)
	if err := s.validate.Struct(filter); err != nil {
		return nil, domain.InvalidRequest("%v", err)
	}

	if s.cache != nil {
		cached, err := s.cache.GetListings(ctx, filter)
		if err != nil {
			s.log.WithError(err).Warn("listings cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	options, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetListings(ctx, filter, options); err != nil {
			s.log.WithError(err).Warn("listings cache write failed")
		}
	}
	return options, nil
}

func (s *TravelService) GetByID(ctx context.Context, id int64) (*domain.TravelOption, error) {
	if id <= 0 {
		return nil, domain.InvalidRequest("travel option id must be positive")
	}
	return s.repo.GetByID(ctx, id)
}

// Reconcile logs every option whose available seats plus confirmed bookings do
// not add up to its capacity and returns them.
func (s *TravelService) Reconcile(ctx context.Context) ([]domain.InventoryDiscrepancy, error) {
	found, err := s.repo.Discrepancies(ctx)
	if err != nil {
		return nil, fmt.Errorf("find inventory discrepancies: %w", err)
	}
	for _, d := range found {
		s.log.WithFields(logrus.Fields{
			"travel_option_id": d.TravelOptionID,
			"total_seats":      d.TotalSeats,
			"available_seats":  d.AvailableSeats,
			"confirmed_seats":  d.ConfirmedSeats,
		}).Warn("inventory discrepancy")
	}
	return found, nil
}

func (s *TravelService) InvalidateListings(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.InvalidateListings(ctx)
}

var _ TravelUseCase = (*TravelService)(nil)
