package config

import "github.com/caarlos0/env/v11"

// EnvPrefix is prepended to every variable name, e.g. FISHLOG_ENDPOINT.
const EnvPrefix = "FISHLOG_"

// parseEnv overlays cfg with the environment. Unset variables leave the
// current value alone. Panics on malformed values.
func parseEnv(cfg *Config) {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		panic(err)
	}
}
