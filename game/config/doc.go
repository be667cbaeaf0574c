// Package config loads server settings from the environment.
//
// Every field of Config maps to one environment variable through
// caarlos0/env struct tags, with defaults for everything except the optional
// fixed seed, the trace endpoint and the ngrok credentials. The entry point
// loads a .env file first, parses the environment, then lets command-line
// flags override individual fields before calling Validate.
//
//	KLONDIKE_HOST              listen host (localhost)
//	KLONDIKE_PORT              listen port (8080)
//	KLONDIKE_DEBUG             file:line in log output (false)
//	KLONDIKE_SEED              fixed seed for new games (random when unset)
//	KLONDIKE_SESSION_TTL       idle time before a session is dropped (4h)
//	KLONDIKE_CLEANUP_INTERVAL  how often idle sessions are swept (10m)
//	KLONDIKE_OTEL_ENDPOINT     OTLP/HTTP trace endpoint (disabled when unset)
//	NGROK_ENABLED              expose the server through an ngrok tunnel (false)
//	NGROK_AUTHTOKEN            ngrok auth token
//	NGROK_DOMAIN               reserved ngrok domain
package config
