package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config holds runtime settings for the FishLog client.
//
// Durations are time.Duration values; JSON accepts "3s" style strings or
// nanoseconds, the environment accepts "3s" style strings.
type Config struct {
	Endpoint           string `env:"ENDPOINT"`
	ProjectID          string `env:"PROJECT_ID"`
	DatabaseID         string `env:"DATABASE_ID"`
	CatchesCollection  string `env:"CATCHES_COLLECTION"`
	GroupsCollection   string `env:"GROUPS_COLLECTION"`
	EventsCollection   string `env:"EVENTS_COLLECTION"`
	CommentsCollection string `env:"COMMENTS_COLLECTION"`

	LocalDBPath string `env:"LOCAL_DB_PATH"`
	// IdentityStoreURL selects where the signed-in user is cached: empty for
	// the local database, redis://... for Redis.
	IdentityStoreURL string `env:"IDENTITY_STORE_URL"`

	OnlineCheckInterval time.Duration `env:"ONLINE_CHECK_INTERVAL"`
	ProbeTimeout        time.Duration `env:"PROBE_TIMEOUT"`
	// HealthGRPCAddr, when set, probes a grpc.health.v1 endpoint instead of
	// the platform's REST health route.
	HealthGRPCAddr string `env:"HEALTH_GRPC_ADDR"`

	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT"`
	RetryMaxAttempts int           `env:"RETRY_MAX_ATTEMPTS"`
	RetryStep        time.Duration `env:"RETRY_STEP"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`

	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Endpoint = "http://localhost/v1"
	c.ProjectID = "fishlog"
	c.DatabaseID = "fishlog"
	c.CatchesCollection = "catches"
	c.GroupsCollection = "groups"
	c.EventsCollection = "events"
	c.CommentsCollection = "comments"
	c.LocalDBPath = "fishlog.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.ProbeTimeout = 3 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.RetryMaxAttempts = 3
	c.RetryStep = time.Second
	c.S3Region = "us-east-1"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate reports settings the client cannot start with.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("endpoint %q must be an http(s) URL", c.Endpoint))
	}
	if c.ProjectID == "" {
		errs = append(errs, errors.New("project id is required"))
	}
	if c.OnlineCheckInterval <= 0 {
		errs = append(errs, errors.New("online check interval must be positive"))
	}
	if c.RetryMaxAttempts < 1 {
		errs = append(errs, errors.New("retry max attempts must be at least 1"))
	}

	return errors.Join(errs...)
}

// LoadConfig applies defaults, then environment variables, then a JSON file
// (if requested), then command-line flags. Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
