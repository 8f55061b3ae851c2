// Package migrations contains the database migration files. Each migration
// registers itself from init(), and the package is blank-imported by
// cmd/ferremat/main.go so registration happens at CLI startup.
package migrations
