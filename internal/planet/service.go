package planet

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"time"

	"launches-server/internal/shared/cache"
	"launches-server/internal/shared/errors"
	"launches-server/internal/shared/metrics"
)

const listCacheKey = "planets:all"

type Service struct {
	repo     *Repository
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

func NewService(repo *Repository, c cache.Cache, cacheTTL time.Duration, logger *slog.Logger) *Service {
	logger.Debug("Initializing planet service")

	if c == nil {
		c = cache.NewMemory()
	}

	return &Service{
		repo:     repo,
		cache:    c,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// IngestFile loads the habitable planets of the dataset at path.
func (s *Service) IngestFile(ctx context.Context, path string) (int, error) {
	logger := s.logger.With("component", "planet_service", "operation", "ingest_file", "path", path)
	logger.Info("Loading planet dataset")

	f, err := os.Open(path)
	if err != nil {
		logger.Error("Failed to open planet dataset", "error", err)
		return 0, fmt.Errorf("failed to open planet dataset: %w", err)
	}
	defer f.Close()

	return s.Ingest(ctx, ReadDataset(f))
}

// Ingest folds the dataset rows into the catalog and returns how many habitable planets
// the rows contained. Malformed rows are skipped; stream and store failures abort.
func (s *Service) Ingest(ctx context.Context, rows iter.Seq2[DatasetRow, error]) (int, error) {
	logger := s.logger.With("component", "planet_service", "operation", "ingest")

	var habitable, skipped, rejected int
	for row, err := range rows {
		if err != nil {
			var rowErr *RowError
			if stderrors.As(err, &rowErr) {
				logger.Warn("Skipping malformed dataset row", "line", rowErr.Line, "error", rowErr.Err)
				skipped++
				continue
			}
			logger.Error("Planet dataset stream failed", "error", err)
			return habitable, err
		}

		if !IsHabitable(row) {
			rejected++
			continue
		}

		if err := s.repo.Upsert(ctx, row.KeplerName); err != nil {
			return habitable, errors.WrapPersistence("failed to save planet", err)
		}
		habitable++
	}

	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		logger.Warn("Failed to invalidate planet cache", "error", err)
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return habitable, errors.WrapPersistence("failed to count planets", err)
	}
	metrics.HabitablePlanets.Set(float64(total))

	logger.Info("Habitable planets found",
		"habitable", habitable,
		"rejected", rejected,
		"malformed", skipped,
		"catalog_size", total)

	return habitable, nil
}

func (s *Service) ListAll(ctx context.Context) ([]Planet, error) {
	logger := s.logger.With("component", "planet_service", "operation", "list_all")

	if cached, ok, err := s.cache.Get(ctx, listCacheKey); err != nil {
		logger.Warn("Planet cache read failed", "error", err)
	} else if ok {
		var planets []Planet
		if err := json.Unmarshal(cached, &planets); err == nil {
			logger.Debug("Planets served from cache", "count", len(planets))
			return planets, nil
		}
		logger.Warn("Discarding unreadable planet cache entry")
	}

	planets, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, errors.WrapPersistence("failed to list planets", err)
	}

	if encoded, err := json.Marshal(planets); err == nil {
		if err := s.cache.Set(ctx, listCacheKey, encoded, s.cacheTTL); err != nil {
			logger.Warn("Planet cache write failed", "error", err)
		}
	}

	return planets, nil
}

// Exists resolves a launch target against the catalog.
func (s *Service) Exists(ctx context.Context, keplerName string) (bool, error) {
	exists, err := s.repo.Exists(ctx, keplerName)
	if err != nil {
		return false, errors.WrapPersistence("failed to resolve planet", err)
	}
	return exists, nil
}
