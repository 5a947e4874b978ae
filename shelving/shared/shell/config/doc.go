// Package config loads the TOML configuration and builds what it describes: database connections
// for the three storage engines, the event store on top of them, retry options and the logger.
//
// Defaults come from the embedded config.example.toml; a config file only needs the keys it changes.
package config
