// Package config loads runtime configuration for the todoctl CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file, selected with the -c/--config flag.
//  3. Command-line flags bound by the cli package, which override both.
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "token_file": "/home/me/.config/todoctl/token.json",
//	  "request_timeout": "10s"
//	}
package config
