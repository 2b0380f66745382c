// Package tables registers the built-in table definitions with the core
// registry and loads additional definitions from TOML files.
// Import this package to ensure the built-in tables are registered.
package tables

// This file exists to provide a single import point.
// Each table file uses init() to register its tables.
