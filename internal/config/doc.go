// Package config loads and validates application settings from the
// environment and optional config files. The HEARTHSIDE_ prefix maps
// environment variables onto typed config structs so the rest of the
// application never reads raw environment state directly.
package config
