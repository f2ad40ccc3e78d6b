package launch

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"sync"

	"launches-server/internal/shared/config"
	"launches-server/internal/shared/errors"
	"launches-server/internal/shared/metrics"
)

// PlanetResolver reports whether a target names a planet in the catalog.
type PlanetResolver interface {
	Exists(ctx context.Context, keplerName string) (bool, error)
}

type Service struct {
	store     Store
	planets   PlanetResolver
	customers []string
	attempts  int
	logger    *slog.Logger

	// allocMu serializes flight number allocation and the insert that claims it.
	allocMu sync.Mutex
}

func NewService(store Store, planets PlanetResolver, cfg config.LaunchesConfig, logger *slog.Logger) *Service {
	logger.Debug("Initializing launch service")

	attempts := cfg.AllocationAttempts
	if attempts < 1 {
		attempts = 1
	}

	return &Service{
		store:     store,
		planets:   planets,
		customers: append([]string(nil), cfg.DefaultCustomers...),
		attempts:  attempts,
		logger:    logger,
	}
}

// Schedule validates a user supplied launch, resolves its target planet and commits it
// under a freshly allocated flight number.
func (s *Service) Schedule(ctx context.Context, input NewLaunch) (*Launch, error) {
	logger := s.logger.With(
		"component", "launch_service",
		"operation", "schedule",
		"mission", input.Mission,
		"target", input.Target,
	)

	mission := strings.TrimSpace(input.Mission)
	rocket := strings.TrimSpace(input.Rocket)
	target := strings.TrimSpace(input.Target)
	if mission == "" || rocket == "" || target == "" || strings.TrimSpace(input.LaunchDate) == "" {
		return nil, errors.Validation("missing required launch property")
	}

	launchDate, err := ParseLaunchDate(input.LaunchDate)
	if err != nil {
		return nil, errors.WrapValidation("invalid launch date", err)
	}

	found, err := s.planets.Exists(ctx, target)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Validationf("no matching planet was found for target %q", target)
	}

	launch := &Launch{
		Mission:    mission,
		Rocket:     rocket,
		Target:     target,
		LaunchDate: launchDate,
		Customers:  append([]string(nil), s.customers...),
		Upcoming:   true,
		Success:    true,
	}

	s.allocMu.Lock()
	defer s.allocMu.Unlock()

	for attempt := 1; attempt <= s.attempts; attempt++ {
		flightNumber, err := s.NextFlightNumber(ctx)
		if err != nil {
			return nil, err
		}
		launch.FlightNumber = flightNumber

		err = s.store.Insert(ctx, launch)
		if err == nil {
			metrics.LaunchesScheduled.Inc()
			logger.Info("Launch scheduled", "flight_number", flightNumber)
			return launch, nil
		}
		if !stderrors.Is(err, ErrFlightNumberTaken) {
			return nil, errors.WrapPersistence("failed to save launch", err)
		}

		metrics.FlightNumberConflicts.Inc()
		logger.Warn("Flight number taken, reallocating",
			"flight_number", flightNumber,
			"attempt", attempt)
	}

	return nil, errors.Conflictf("could not allocate a flight number after %d attempts", s.attempts)
}

// Save inserts or replaces a launch under its own flight number.
func (s *Service) Save(ctx context.Context, launch *Launch) error {
	if launch.Customers == nil {
		launch.Customers = []string{}
	}
	if err := s.store.Upsert(ctx, launch); err != nil {
		s.logger.Error("Failed to save launch",
			"component", "launch_service",
			"operation", "save",
			"flight_number", launch.FlightNumber,
			"error", err)
		return errors.WrapPersistence("failed to save launch", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, page Pagination) ([]Launch, error) {
	launches, err := s.store.List(ctx, page)
	if err != nil {
		return nil, errors.WrapPersistence("failed to list launches", err)
	}
	if launches == nil {
		launches = []Launch{}
	}
	return launches, nil
}

func (s *Service) ExistsByID(ctx context.Context, flightNumber int) (bool, error) {
	exists, err := s.store.Exists(ctx, flightNumber)
	if err != nil {
		return false, errors.WrapPersistence("failed to look up launch", err)
	}
	return exists, nil
}

// Abort marks a launch as no longer upcoming and unsuccessful.
func (s *Service) Abort(ctx context.Context, flightNumber int) (AbortOutcome, error) {
	logger := s.logger.With(
		"component", "launch_service",
		"operation", "abort",
		"flight_number", flightNumber,
	)

	changed, err := s.store.Abort(ctx, flightNumber)
	if err != nil {
		return AbortNotFound, errors.WrapPersistence("failed to abort launch", err)
	}
	if changed {
		metrics.LaunchesAborted.Inc()
		logger.Info("Launch aborted")
		return Aborted, nil
	}

	exists, err := s.ExistsByID(ctx, flightNumber)
	if err != nil {
		return AbortNotFound, err
	}
	if !exists {
		logger.Debug("Launch not found")
		return AbortNotFound, nil
	}

	logger.Debug("Launch was already aborted")
	return AbortAlreadyAborted, nil
}

// AbortByID reports whether a matching launch was found. Aborting an already aborted
// launch counts as found.
func (s *Service) AbortByID(ctx context.Context, flightNumber int) (bool, error) {
	outcome, err := s.Abort(ctx, flightNumber)
	if err != nil {
		return false, err
	}
	return outcome != AbortNotFound, nil
}

// IsSeeded reports whether the first historical launch is present.
func (s *Service) IsSeeded(ctx context.Context) (bool, error) {
	seeded, err := s.store.Matches(ctx, seedSentinel.FlightNumber, seedSentinel.Rocket, seedSentinel.Mission)
	if err != nil {
		return false, errors.WrapPersistence("failed to check seed state", err)
	}
	return seeded, nil
}
