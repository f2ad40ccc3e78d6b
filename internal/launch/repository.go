package launch

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"launches-server/internal/shared/database"
)

// Store is the persistence contract of the launch engine. Every call is atomic for a
// single record; there are no multi-record transactions.
type Store interface {
	// LatestFlightNumber returns the highest stored flight number, or ok=false when empty.
	LatestFlightNumber(ctx context.Context) (flightNumber int, ok bool, err error)
	// Insert stores a new launch, returning ErrFlightNumberTaken if the key exists.
	Insert(ctx context.Context, launch *Launch) error
	// Upsert inserts or replaces the launch with the same flight number.
	Upsert(ctx context.Context, launch *Launch) error
	List(ctx context.Context, page Pagination) ([]Launch, error)
	Get(ctx context.Context, flightNumber int) (*Launch, error)
	Exists(ctx context.Context, flightNumber int) (bool, error)
	// Matches reports whether a launch with all three attributes exists.
	Matches(ctx context.Context, flightNumber int, rocket, mission string) (bool, error)
	// Abort clears upcoming and success, reporting whether a still active launch changed.
	Abort(ctx context.Context, flightNumber int) (bool, error)
}

var _ Store = (*Repository)(nil)

// customerList is stored as a JSON array in a text column so the schema stays portable
// between PostgreSQL and SQLite.
type customerList []string

func (c *customerList) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*c = customerList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported customers type %T", v)
	}

	var customers []string
	if err := json.Unmarshal(raw, &customers); err != nil {
		return fmt.Errorf("failed to decode customers: %w", err)
	}
	if customers == nil {
		customers = []string{}
	}
	*c = customers
	return nil
}

func (c customerList) Value() (driver.Value, error) {
	if len(c) == 0 {
		return "[]", nil
	}
	encoded, err := json.Marshal([]string(c))
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}

type dbLaunch struct {
	FlightNumber int            `db:"flight_number"`
	Mission      string         `db:"mission"`
	Rocket       string         `db:"rocket"`
	Target       sql.NullString `db:"target"`
	LaunchDate   time.Time      `db:"launch_date"`
	Customers    customerList   `db:"customers"`
	Upcoming     bool           `db:"upcoming"`
	Success      bool           `db:"success"`
}

func toDomainLaunch(row *dbLaunch) Launch {
	return Launch{
		FlightNumber: row.FlightNumber,
		Mission:      row.Mission,
		Rocket:       row.Rocket,
		Target:       row.Target.String,
		LaunchDate:   row.LaunchDate.UTC(),
		Customers:    []string(row.Customers),
		Upcoming:     row.Upcoming,
		Success:      row.Success,
	}
}

func launchArgs(launch *Launch) []interface{} {
	return []interface{}{
		launch.FlightNumber,
		launch.Mission,
		launch.Rocket,
		sql.NullString{String: launch.Target, Valid: launch.Target != ""},
		launch.LaunchDate.UTC(),
		customerList(launch.Customers),
		launch.Upcoming,
		launch.Success,
	}
}

const selectLaunchColumns = `SELECT flight_number, mission, rocket, target, launch_date, customers, upcoming, success FROM launches`

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing launch repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) LatestFlightNumber(ctx context.Context) (int, bool, error) {
	var flightNumber int
	err := r.db.GetContext(ctx, &flightNumber, `SELECT flight_number FROM launches ORDER BY flight_number DESC LIMIT 1`)
	if stderrors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		r.logger.Error("Failed to query latest flight number",
			"component", "launch_repository",
			"operation", "latest_flight_number",
			"error", err)
		return 0, false, fmt.Errorf("failed to query latest flight number: %w", err)
	}
	return flightNumber, true, nil
}

func (r *Repository) Insert(ctx context.Context, launch *Launch) error {
	logger := r.logger.With(
		"component", "launch_repository",
		"operation", "insert",
		"flight_number", launch.FlightNumber,
	)

	query := r.db.Rebind(`
		INSERT INTO launches (flight_number, mission, rocket, target, launch_date, customers, upcoming, success)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (flight_number) DO NOTHING
	`)

	result, err := r.db.ExecContext(ctx, query, launchArgs(launch)...)
	if err != nil {
		logger.Error("Failed to insert launch", "error", err)
		return fmt.Errorf("failed to insert launch %d: %w", launch.FlightNumber, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("fetching rows affected: %w", err)
	}
	if rowsAffected == 0 {
		logger.Debug("Flight number already taken")
		return ErrFlightNumberTaken
	}

	logger.Debug("Launch inserted")
	return nil
}

func (r *Repository) Upsert(ctx context.Context, launch *Launch) error {
	query := r.db.Rebind(`
		INSERT INTO launches (flight_number, mission, rocket, target, launch_date, customers, upcoming, success)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (flight_number) DO UPDATE SET
			mission = excluded.mission,
			rocket = excluded.rocket,
			target = excluded.target,
			launch_date = excluded.launch_date,
			customers = excluded.customers,
			upcoming = excluded.upcoming,
			success = excluded.success
	`)

	if _, err := r.db.ExecContext(ctx, query, launchArgs(launch)...); err != nil {
		r.logger.Error("Failed to upsert launch",
			"component", "launch_repository",
			"operation", "upsert",
			"flight_number", launch.FlightNumber,
			"error", err)
		return fmt.Errorf("failed to upsert launch %d: %w", launch.FlightNumber, err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context, page Pagination) ([]Launch, error) {
	logger := r.logger.With(
		"component", "launch_repository",
		"operation", "list",
		"page", page.Page,
		"limit", page.Limit,
	)
	logger.Debug("Listing launches")

	query := selectLaunchColumns + ` ORDER BY flight_number ASC`
	var args []interface{}
	if page.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, page.Limit, page.Skip())
	}

	var rows []*dbLaunch
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		logger.Error("Failed to query launches", "error", err)
		return nil, fmt.Errorf("failed to query launches: %w", err)
	}

	launches := make([]Launch, len(rows))
	for i, row := range rows {
		launches[i] = toDomainLaunch(row)
	}

	logger.Debug("Launches retrieved", "count", len(launches))
	return launches, nil
}

// Get returns nil without an error when the launch does not exist.
func (r *Repository) Get(ctx context.Context, flightNumber int) (*Launch, error) {
	var row dbLaunch
	err := r.db.GetContext(ctx, &row, r.db.Rebind(selectLaunchColumns+` WHERE flight_number = ?`), flightNumber)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get launch %d: %w", flightNumber, err)
	}

	launch := toDomainLaunch(&row)
	return &launch, nil
}

func (r *Repository) Exists(ctx context.Context, flightNumber int) (bool, error) {
	var exists bool
	query := r.db.Rebind(`SELECT EXISTS(SELECT 1 FROM launches WHERE flight_number = ?)`)
	if err := r.db.GetContext(ctx, &exists, query, flightNumber); err != nil {
		return false, fmt.Errorf("failed to check launch %d: %w", flightNumber, err)
	}
	return exists, nil
}

func (r *Repository) Matches(ctx context.Context, flightNumber int, rocket, mission string) (bool, error) {
	var exists bool
	query := r.db.Rebind(`
		SELECT EXISTS(
			SELECT 1 FROM launches WHERE flight_number = ? AND rocket = ? AND mission = ?
		)
	`)
	if err := r.db.GetContext(ctx, &exists, query, flightNumber, rocket, mission); err != nil {
		return false, fmt.Errorf("failed to match launch %d: %w", flightNumber, err)
	}
	return exists, nil
}

func (r *Repository) Abort(ctx context.Context, flightNumber int) (bool, error) {
	logger := r.logger.With(
		"component", "launch_repository",
		"operation", "abort",
		"flight_number", flightNumber,
	)

	query := r.db.Rebind(`
		UPDATE launches SET upcoming = ?, success = ?
		WHERE flight_number = ? AND (upcoming = ? OR success = ?)
	`)

	result, err := r.db.ExecContext(ctx, query, false, false, flightNumber, true, true)
	if err != nil {
		logger.Error("Failed to abort launch", "error", err)
		return false, fmt.Errorf("failed to abort launch %d: %w", flightNumber, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("fetching rows affected: %w", err)
	}

	logger.Debug("Abort applied", "rows_affected", rowsAffected)
	return rowsAffected > 0, nil
}
