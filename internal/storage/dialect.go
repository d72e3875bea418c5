package storage

import (
	"strconv"
	"strings"
)

// Dialect describes the differences between the supported SQL engines.
type Dialect struct {
	// Name selects the migration directory and the migrate database driver.
	Name string
	// DriverName is the database/sql driver.
	DriverName string
	// numbered placeholders ($1, $2, ...) instead of '?'.
	numbered bool
}

var (
	SQLite   = Dialect{Name: "sqlite", DriverName: "sqlite"}
	Postgres = Dialect{Name: "postgres", DriverName: "postgres", numbered: true}
)

// Rebind rewrites '?' placeholders into the dialect's form.
// Queries in this package never contain a literal '?'.
func (d Dialect) Rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
