package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/fishlog/internal/flagx"
	"github.com/dmitrijs2005/fishlog/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	Endpoint           string `json:"endpoint"`
	ProjectID          string `json:"project_id"`
	DatabaseID         string `json:"database_id"`
	CatchesCollection  string `json:"catches_collection"`
	GroupsCollection   string `json:"groups_collection"`
	EventsCollection   string `json:"events_collection"`
	CommentsCollection string `json:"comments_collection"`

	LocalDBPath      string `json:"local_db_path"`
	IdentityStoreURL string `json:"identity_store_url"`

	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	ProbeTimeout        timex.Duration `json:"probe_timeout"`
	HealthGRPCAddr      string         `json:"health_grpc_addr"`

	RequestTimeout   timex.Duration `json:"request_timeout"`
	RetryMaxAttempts int            `json:"retry_max_attempts"`
	RetryStep        timex.Duration `json:"retry_step"`

	S3Bucket    string `json:"s3_bucket"`
	S3Region    string `json:"s3_region"`
	S3Endpoint  string `json:"s3_endpoint"`
	S3AccessKey string `json:"s3_access_key"`
	S3SecretKey string `json:"s3_secret_key"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
}

// parseJson overlays cfg with the file named by -c/-config. Keys missing
// from the file keep their current value. Panics on read or decode errors.
func parseJson(cfg *Config) {
	path := flagx.JSONConfigPath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.applyTo(cfg)
}

func (jc *JsonConfig) applyTo(cfg *Config) {
	setString(&cfg.Endpoint, jc.Endpoint)
	setString(&cfg.ProjectID, jc.ProjectID)
	setString(&cfg.DatabaseID, jc.DatabaseID)
	setString(&cfg.CatchesCollection, jc.CatchesCollection)
	setString(&cfg.GroupsCollection, jc.GroupsCollection)
	setString(&cfg.EventsCollection, jc.EventsCollection)
	setString(&cfg.CommentsCollection, jc.CommentsCollection)
	setString(&cfg.LocalDBPath, jc.LocalDBPath)
	setString(&cfg.IdentityStoreURL, jc.IdentityStoreURL)
	setString(&cfg.HealthGRPCAddr, jc.HealthGRPCAddr)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)

	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.ProbeTimeout.Duration != 0 {
		cfg.ProbeTimeout = jc.ProbeTimeout.Duration
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RetryStep.Duration != 0 {
		cfg.RetryStep = jc.RetryStep.Duration
	}
	if jc.RetryMaxAttempts != 0 {
		cfg.RetryMaxAttempts = jc.RetryMaxAttempts
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
