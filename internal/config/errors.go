package config

import "errors"

var (
	ErrMissingAPIKey  = errors.New("config: api key is required")
	ErrInvalidBaseURL = errors.New("config: api base url must include scheme and host")
)
