// Package config loads runtime configuration for the gymdesk client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory (or the file named by
//     GYMDESK_ENV_FILE), read with godotenv without touching the process
//     environment.
//  3. Process environment variables (GYMDESK_*).
//  4. Optional JSON file selected with -c / --config.
//  5. Command-line flags, which override everything above.
//
// Supported flags
//
//	-a string   backend base URL (the /api prefix is added by the gateway)
//	-s string   path of the local secure store database
//	-t int      HTTP request timeout in seconds (0 keeps the transport default)
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
//	{
//	  "backend_url": "https://gym.example.com",
//	  "store_path": "/home/me/.gymdesk/store.db",
//	  "request_timeout": "30s",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
package config
