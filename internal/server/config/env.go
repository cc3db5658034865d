package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays Config with any variables named in the struct's env tags.
// Unset variables leave the current value alone. A malformed value panics,
// same as a malformed JSON file.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
