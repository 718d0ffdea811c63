// Package database holds the table layout shared by the Postgres and
// PostgREST backends and the seed CLI.
package database

import "fmt"

// TableNames holds the prefixed table names for the current environment
type TableNames struct {
	Prefix    string
	Reviews   string
	Favorites string
	Users     string
	Cafes     string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Prefix:    prefix,
		Reviews:   fmt.Sprintf("%sreviews", prefix),
		Favorites: fmt.Sprintf("%sfavorites", prefix),
		Users:     fmt.Sprintf("%susers", prefix),
		Cafes:     fmt.Sprintf("%scafes", prefix),
	}
}

// All returns every table, in drop order
func (t *TableNames) All() []string {
	return []string{t.Reviews, t.Favorites, t.Users, t.Cafes}
}

// GetTableName returns a prefixed table name
func (t *TableNames) GetTableName(baseName string) string {
	switch baseName {
	case "reviews":
		return t.Reviews
	case "favorites":
		return t.Favorites
	case "users":
		return t.Users
	case "cafes":
		return t.Cafes
	default:
		return t.Prefix + baseName
	}
}
