// Package config loads audiokit SDK and CLI configuration from an
// audiokit.yml document, an optional .env file, and AUDIOKIT_* environment
// variables, in that order of increasing precedence.
package config
