// Package config loads runtime configuration for the gophauth CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with --config / -c.
//  3. GOPHAUTH_SERVER_ADDR and GOPHAUTH_REQUEST_TIMEOUT.
//  4. Command-line flags (--addr, --timeout), applied by the CLI.
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "10s"
//	}
package config
