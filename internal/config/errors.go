package config

import "errors"

var (
	// ErrUnknownPreset indicates a preset name that is not in the table.
	ErrUnknownPreset = errors.New("config: unknown preset")

	// ErrUnsupportedFormat indicates a config file extension other than yaml or toml.
	ErrUnsupportedFormat = errors.New("config: unsupported file format")

	// ErrInvalid indicates a config that cannot describe a runnable scenario.
	ErrInvalid = errors.New("config: invalid scenario")
)
