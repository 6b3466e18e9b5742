// Package models contains the GORM models behind the notification store.
// They are kept apart from the domain types so the schema can evolve alone.
package models
