package launch

import (
	"context"

	"launches-server/internal/shared/errors"
)

// NextFlightNumber returns one past the highest stored flight number, or
// BaselineFlightNumber for an empty store. It reads the store on every call.
func (s *Service) NextFlightNumber(ctx context.Context) (int, error) {
	latest, ok, err := s.store.LatestFlightNumber(ctx)
	if err != nil {
		return 0, errors.WrapPersistence("failed to allocate flight number", err)
	}
	if !ok {
		return BaselineFlightNumber, nil
	}
	return latest + 1, nil
}
