package config

import "net/url"

// validate checks that the final merged [Config] satisfies the SDK's
// invariants before any component is constructed from it.
func (cfg *Config) validate() error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidBaseURL
	}

	if cfg.API.Key == "" {
		return ErrMissingAPIKey
	}

	return nil
}
