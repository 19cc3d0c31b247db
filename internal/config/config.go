package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// New parses environment variables into a struct of type T. Nested section
// structs are parsed recursively, so each command declares exactly the
// sections it needs.
func New[T any]() (T, error) {
	cfg, err := env.ParseAs[T]()
	if err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}
