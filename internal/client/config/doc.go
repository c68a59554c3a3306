// Package config loads runtime configuration for the DupliVerse CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend HTTP API
//	-k string   project API key
//	-d string   sqlite DSN for the local cache
//	-i int      background sync interval (seconds)
//	-t int      staleness threshold (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "5m" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "api_key": "dev-anon-key",
//	  "cache_dsn": "dupliverse.db",
//	  "sync_interval": "5m",
//	  "stale_after": "2m",
//	  "fetch_timeout": "15s"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
