// Package listquery turns list query-string parameters into GORM clauses.
package listquery

import (
	"strings"

	"gorm.io/gorm"
)

// Search adds a case-insensitive OR of LIKE matches over columns. A blank term
// leaves db unchanged.
func Search(db *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return db
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"

	clauses := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ? ESCAPE '!'"
		args[i] = pattern
	}
	return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)
	return r.Replace(s)
}

// Ordering converts an "ordering" value such as "-created_at,name" into an
// ORDER BY clause, keeping only allowed columns. It returns fallback when
// nothing usable remains.
func Ordering(raw string, allowed []string, fallback string) string {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	allow := make(map[string]struct{}, len(allowed))
	for _, col := range allowed {
		allow[col] = struct{}{}
	}

	parts := make([]string, 0, 2)
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		dir := "ASC"
		if strings.HasPrefix(field, "-") {
			dir = "DESC"
			field = field[1:]
		}
		if _, ok := allow[field]; !ok {
			continue
		}
		parts = append(parts, field+" "+dir)
	}
	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, ", ")
}

// Bool parses a boolean filter value. ok is false when raw is blank or not a
// recognised boolean.
func Bool(raw string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	default:
		return false, false
	}
}

// Equal adds column = value when value is not blank.
func Equal(db *gorm.DB, column, value string) *gorm.DB {
	value = strings.TrimSpace(value)
	if value == "" {
		return db
	}
	return db.Where(column+" = ?", value)
}

// EqualBool adds column = value when raw parses as a boolean.
func EqualBool(db *gorm.DB, column, raw string) *gorm.DB {
	v, ok := Bool(raw)
	if !ok {
		return db
	}
	return db.Where(column+" = ?", v)
}
