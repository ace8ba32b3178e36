// Package config manages the feedform configuration file.
//
// The file is YAML at the platform's user config dir (for example
// ~/.config/feedform/config.yaml) and records known feedd servers plus
// client-side preferences such as the default server and discovery timeout.
// API tokens are never written to the file; servers reference an environment
// variable instead.
//
// Saves are atomic (write to a temp file, then rename) so a crash mid-save
// cannot corrupt an existing configuration.
package config
