// Package config loads runtime configuration for the FishLog client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed with FISHLOG_ (see parseEnv).
//  3. Optional JSON file selected with -c or -config (see parseJson).
//  4. Command-line flags (see parseFlags), which override everything else.
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "endpoint": "https://cloud.example.com/v1",
//	  "project_id": "fishlog",
//	  "online_check_interval": "3s",
//	  "identity_store_url": "redis://localhost:6379/0",
//	  "s3_bucket": "fishlog-photos"
//	}
package config
