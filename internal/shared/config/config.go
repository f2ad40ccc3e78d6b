package config

import (
	"fmt"
	"launches-server/internal/shared/utils"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Frontend  FrontendConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	Planets   PlanetsConfig
	Launches  LaunchesConfig
	SpaceX    SpaceXConfig
}

type ServerConfig struct {
	Port            string
	Environment     string
	PublicDir       string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type FrontendConfig struct {
	URL       string
	CORSDebug bool
}

type LoggingConfig struct {
	Level      string
	JSONFormat bool
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	TrustProxy        bool
}

type PlanetsConfig struct {
	DataPath string
	Watch    bool
}

type LaunchesConfig struct {
	DefaultCustomers   []string
	AllocationAttempts int
}

type SpaceXConfig struct {
	APIURL        string
	Timeout       time.Duration
	ImportEnabled bool
}

// Load reads the environment (and an optional .env file) into a validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	config := load()

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func load() *Config {
	return &Config{
		Server:    loadServerConfig(),
		Database:  loadDatabaseConfig(),
		Redis:     loadRedisConfig(),
		Frontend:  loadFrontendConfig(),
		Logging:   loadLoggingConfig(),
		RateLimit: loadRateLimitConfig(),
		Planets:   loadPlanetsConfig(),
		Launches:  loadLaunchesConfig(),
		SpaceX:    loadSpaceXConfig(),
	}
}

func loadServerConfig() ServerConfig {
	readTimeout := utils.GetEnvInt("SERVER_READ_TIMEOUT_SECONDS", 15)
	writeTimeout := utils.GetEnvInt("SERVER_WRITE_TIMEOUT_SECONDS", 15)
	idleTimeout := utils.GetEnvInt("SERVER_IDLE_TIMEOUT_SECONDS", 60)
	shutdownTimeout := utils.GetEnvInt("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 10)

	return ServerConfig{
		Port:            utils.GetEnv("SERVER_PORT", "8000"),
		Environment:     utils.GetEnv("ENVIRONMENT", "development"),
		PublicDir:       utils.GetEnv("PUBLIC_DIR", "public"),
		ReadTimeout:     time.Duration(readTimeout) * time.Second,
		WriteTimeout:    time.Duration(writeTimeout) * time.Second,
		IdleTimeout:     time.Duration(idleTimeout) * time.Second,
		ShutdownTimeout: time.Duration(shutdownTimeout) * time.Second,
	}
}

func loadDatabaseConfig() DatabaseConfig {
	connMaxLifetime := utils.GetEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 5)

	return DatabaseConfig{
		Driver:          utils.GetEnv("DB_DRIVER", DriverPostgres),
		Host:            utils.GetEnv("DB_HOST", "localhost"),
		Port:            utils.GetEnv("DB_PORT", "5432"),
		User:            utils.GetEnv("DB_USER", "postgres"),
		Password:        utils.GetEnv("DB_PASSWORD", "postgres"),
		Name:            utils.GetEnv("DB_NAME", "launches"),
		SSLMode:         utils.GetEnv("DB_SSLMODE", "disable"),
		SQLitePath:      utils.GetEnv("DB_SQLITE_PATH", "launches.db"),
		MaxOpenConns:    utils.GetEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    utils.GetEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: time.Duration(connMaxLifetime) * time.Minute,
	}
}

func loadRedisConfig() RedisConfig {
	cacheTTL := utils.GetEnvInt("PLANETS_CACHE_TTL_SECONDS", 300)

	return RedisConfig{
		Enabled:  utils.GetEnv("REDIS_ENABLED", "false") == "true",
		URL:      utils.GetEnv("REDIS_URL", ""),
		Host:     utils.GetEnv("REDIS_HOST", "localhost"),
		Port:     utils.GetEnv("REDIS_PORT", "6379"),
		Password: utils.GetEnv("REDIS_PASSWORD", ""),
		DB:       utils.GetEnvInt("REDIS_DB", 0),
		CacheTTL: time.Duration(cacheTTL) * time.Second,
	}
}

func loadFrontendConfig() FrontendConfig {
	return FrontendConfig{
		URL:       utils.GetEnv("FRONTEND_URL", "http://localhost:3000"),
		CORSDebug: utils.GetEnv("CORS_DEBUG", "") == "true",
	}
}

func loadLoggingConfig() LoggingConfig {
	environment := utils.GetEnv("ENVIRONMENT", "development")

	return LoggingConfig{
		Level:      utils.GetEnv("LOG_LEVEL", "debug"),
		JSONFormat: environment == "production",
	}
}

func loadRateLimitConfig() RateLimitConfig {
	requestsPerSecond, err := strconv.ParseFloat(utils.GetEnv("RATE_LIMIT_REQUESTS_PER_SECOND", "10"), 64)
	if err != nil {
		requestsPerSecond = 10
	}

	return RateLimitConfig{
		Enabled:           utils.GetEnv("RATE_LIMIT_ENABLED", "true") == "true",
		RequestsPerSecond: requestsPerSecond,
		BurstSize:         utils.GetEnvInt("RATE_LIMIT_BURST_SIZE", 20),
		TrustProxy:        utils.GetEnv("RATE_LIMIT_TRUST_PROXY", "false") == "true",
	}
}

func loadPlanetsConfig() PlanetsConfig {
	return PlanetsConfig{
		DataPath: utils.GetEnv("PLANETS_DATA_PATH", "data/kepler_data.csv"),
		Watch:    utils.GetEnv("PLANETS_WATCH", "false") == "true",
	}
}

func loadLaunchesConfig() LaunchesConfig {
	return LaunchesConfig{
		DefaultCustomers:   utils.GetEnvList("LAUNCH_DEFAULT_CUSTOMERS", []string{"Zero To Mastery", "NASA"}),
		AllocationAttempts: utils.GetEnvInt("LAUNCH_ALLOCATION_ATTEMPTS", 5),
	}
}

func loadSpaceXConfig() SpaceXConfig {
	timeout := utils.GetEnvInt("SPACEX_TIMEOUT_SECONDS", 120)

	return SpaceXConfig{
		APIURL:        utils.GetEnv("SPACEX_API_URL", "https://api.spacexdata.com/v4"),
		Timeout:       time.Duration(timeout) * time.Second,
		ImportEnabled: utils.GetEnv("SPACEX_IMPORT_ENABLED", "true") == "true",
	}
}

func (c *Config) validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("DB_SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.Planets.DataPath == "" {
		return fmt.Errorf("PLANETS_DATA_PATH is required")
	}

	if c.SpaceX.ImportEnabled && c.SpaceX.APIURL == "" {
		return fmt.Errorf("SPACEX_API_URL is required when the launch import is enabled")
	}

	if c.Launches.AllocationAttempts < 1 {
		return fmt.Errorf("LAUNCH_ALLOCATION_ATTEMPTS must be at least 1")
	}

	return nil
}

// DataSourceName returns the driver specific connection string.
func (c *Config) DataSourceName() string {
	if c.Database.Driver == DriverSQLite {
		return fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", c.Database.SQLitePath)
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
