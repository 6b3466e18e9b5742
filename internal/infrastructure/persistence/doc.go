// Package persistence stores delivery history with GORM on sqlite or postgres.
package persistence
