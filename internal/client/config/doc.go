// Package config loads runtime configuration for the Pass-Manager CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   REST API base URL
//	-i int      session poll interval (seconds)
//	-t int      request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:5000/api",
//	  "session_poll_interval": "30s",
//	  "request_timeout": "10s"
//	}
//
// This package does not read environment variables.
package config
