// SPDX-License-Identifier: MPL-2.0

// Package config handles capwire CLI configuration using Viper with CUE as
// the file format.
//
// Configuration is read from config.cue in the capwire configuration
// directory ($XDG_CONFIG_HOME/capwire on Linux, ~/Library/Application
// Support/capwire on macOS, %APPDATA%\capwire on Windows), or from an
// explicit file. The file is validated against the embedded
// config_schema.cue. CAPWIRE_* environment variables override file values,
// e.g. CAPWIRE_CHECK_ALLOW_UNUSED=true.
package config
