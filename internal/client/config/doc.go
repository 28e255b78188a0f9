// Package config loads runtime configuration for the UniRent CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional YAML or JSON file selected via flags: -c or -config.
//  3. Environment variables prefixed with UNIRENT_.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   backend base URL
//	-m string   store mode: auto, online or offline
//	-d string   path of the local SQLite database
//
// # File schema
//
//	server_url: http://localhost:8080
//	mode: auto
//	database_path: unirent.db
//	request_timeout: 10s
//	page_size: 50
//	log:
//	  level: info
//	  format: text
//
// Environment variables use the same keys upper-cased, with the section
// folded into the name: UNIRENT_SERVER_URL, UNIRENT_LOG_LEVEL.
//
// The result is validated before it is returned.
package config
