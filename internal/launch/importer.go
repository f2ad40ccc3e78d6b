package launch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"launches-server/internal/shared/metrics"
	"launches-server/internal/spacex"
)

// Provider supplies the historical launch record.
type Provider interface {
	FetchLaunches(ctx context.Context) ([]spacex.Launch, error)
}

type ImportState string

const (
	ImportUnchecked     ImportState = "unchecked"
	ImportAlreadySeeded ImportState = "already_seeded"
	ImportImporting     ImportState = "importing"
	ImportSeeded        ImportState = "seeded"
)

// RecordFailure describes a provider record that could not be saved.
type RecordFailure struct {
	FlightNumber int    `json:"flightNumber"`
	Mission      string `json:"mission"`
	Err          error  `json:"-"`
}

func (f RecordFailure) Error() string {
	return fmt.Sprintf("launch %d (%s): %v", f.FlightNumber, f.Mission, f.Err)
}

type ImportReport struct {
	State    ImportState
	Fetched  int
	Saved    int
	Failures []RecordFailure
	Duration time.Duration
}

// Importer seeds the launch store from the provider once.
type Importer struct {
	service  *Service
	provider Provider
	timeout  time.Duration
	logger   *slog.Logger
}

func NewImporter(service *Service, provider Provider, timeout time.Duration, logger *slog.Logger) *Importer {
	return &Importer{
		service:  service,
		provider: provider,
		timeout:  timeout,
		logger:   logger,
	}
}

// Bootstrap imports the provider's launches unless the first historical launch is already
// stored. A failed fetch aborts the import; a record that cannot be mapped or saved is
// reported and skipped.
func (i *Importer) Bootstrap(ctx context.Context) (*ImportReport, error) {
	logger := i.logger.With("component", "launch_importer", "operation", "bootstrap")
	start := time.Now()
	report := &ImportReport{State: ImportUnchecked}

	seeded, err := i.service.IsSeeded(ctx)
	if err != nil {
		return report, err
	}
	if seeded {
		report.State = ImportAlreadySeeded
		logger.Info("Launch data is already loaded")
		return report, nil
	}

	report.State = ImportImporting

	fetchCtx := ctx
	if i.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	docs, err := i.provider.FetchLaunches(fetchCtx)
	if err != nil {
		logger.Error("Launch import failed", "error", err)
		return report, err
	}
	report.Fetched = len(docs)

	for _, doc := range docs {
		launch, err := fromProvider(doc)
		if err == nil {
			err = i.service.Save(ctx, launch)
		}
		if err != nil {
			metrics.ImportedRecords.WithLabelValues("failed").Inc()
			logger.Warn("Skipping launch record",
				"flight_number", doc.FlightNumber,
				"mission", doc.Name,
				"error", err)
			report.Failures = append(report.Failures, RecordFailure{
				FlightNumber: doc.FlightNumber,
				Mission:      doc.Name,
				Err:          err,
			})
			continue
		}

		metrics.ImportedRecords.WithLabelValues("saved").Inc()
		logger.Debug("Launch imported", "flight_number", launch.FlightNumber, "mission", launch.Mission)
		report.Saved++
	}

	report.State = ImportSeeded
	report.Duration = time.Since(start)

	logger.Info("Launch data imported",
		"fetched", report.Fetched,
		"saved", report.Saved,
		"failed", len(report.Failures),
		"duration", report.Duration)

	return report, nil
}

// fromProvider keeps the provider's flight number. A missing success flag is stored as
// false.
func fromProvider(doc spacex.Launch) (*Launch, error) {
	raw := doc.DateLocal
	if raw == "" {
		raw = doc.DateUTC
	}

	launchDate, err := ParseLaunchDate(raw)
	if err != nil {
		return nil, err
	}

	success := false
	if doc.Success != nil {
		success = *doc.Success
	}

	return &Launch{
		FlightNumber: doc.FlightNumber,
		Mission:      doc.Name,
		Rocket:       doc.Rocket.Name,
		LaunchDate:   launchDate,
		Customers:    doc.Customers(),
		Upcoming:     doc.Upcoming,
		Success:      success,
	}, nil
}
