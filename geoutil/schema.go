package geoutil

import (
	"fmt"
	"regexp"
	"strings"
)

// VersionTable records a change counter per places table. Triggers installed
// by EnsureSchema bump it on every insert, update and delete.
const VersionTable = "geo_table_version"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// PlacesTableDDL returns the DDL for a places table.
func PlacesTableDDL(table string) string {
	return `CREATE TABLE IF NOT EXISTS ` + table + ` (
    id   TEXT PRIMARY KEY,
    name TEXT,
    lat  REAL NOT NULL,
    lon  REAL NOT NULL
);`
}

// VersionTableDDL returns the DDL for the version table in the schema of
// table.
func VersionTableDDL(table string) string {
	return `CREATE TABLE IF NOT EXISTS ` + versionTableFor(table) + ` (
    table_name TEXT PRIMARY KEY,
    version    INTEGER NOT NULL
);`
}

// VersionTriggers returns the trigger DDL statements that advance the
// version of table on any row change, using SQLite syntax. Triggers live in
// the schema of table and may not qualify the tables they reference.
func VersionTriggers(table string) []string {
	schema, name := splitTable(table)
	base := sanitizeIdentifier(table)
	if schema != "" {
		base = schema + "." + sanitizeIdentifier(table)
	}
	advance := fmt.Sprintf(`INSERT INTO %s(table_name, version)
    VALUES (%s, 1)
    ON CONFLICT(table_name) DO UPDATE SET version = version + 1;`, VersionTable, quoteLiteral(table))
	out := make([]string, 0, 3)
	for _, t := range []struct{ suffix, event string }{
		{"ai", "INSERT"},
		{"au", "UPDATE"},
		{"ad", "DELETE"},
	} {
		out = append(out, fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS %s_geo_%s AFTER %s ON %s
BEGIN
    %s
END;`, base, t.suffix, t.event, name, advance))
	}
	return out
}

// versionTableFor returns the version table qualified like table.
func versionTableFor(table string) string {
	if schema, _ := splitTable(table); schema != "" {
		return schema + "." + VersionTable
	}
	return VersionTable
}

func splitTable(table string) (schema, name string) {
	if i := strings.IndexByte(table, '.'); i >= 0 {
		return table[:i], table[i+1:]
	}
	return "", table
}

func validateTable(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("geoutil: invalid table name %q", name)
	}
	return nil
}

// sanitizeIdentifier converts a qualified name into a safe trigger prefix.
func sanitizeIdentifier(name string) string {
	if name == "" {
		return ""
	}
	replacer := strings.NewReplacer(".", "_", "-", "_")
	return replacer.Replace(name)
}

// quoteLiteral returns s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
