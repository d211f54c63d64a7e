// Package devicedb provides stable device identity and naming across
// Govee API outages by persisting device metadata to a local JSON file.
//
// The database is source of truth for naming: entity IDs and display names
// come from here, not from whichever API most recently discovered the
// device. APIs enrich existing entries; they never overwrite a user's
// manual name/room override. The database is deliberately separate from
// internal/cache — clearing the cache never loses device identity.
package devicedb
