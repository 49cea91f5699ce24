package services

import (
	"regexp"
	"strings"

	"factory-gpt-service/internal/core/domain"
)

// restrictedRe matches destructive statement keywords on word boundaries, so
// column names like updated_at or insert_count never trip the gate.
var restrictedRe = regexp.MustCompile(`(?i)\b(DELETE|DROP|UPDATE|INSERT|TRUNCATE|ALTER|EXEC|EXECUTE|GRANT|REVOKE|CREATE)\b`)

// GuardReadOnly rejects generated SQL unless it is a single SELECT (or CTE)
// statement free of restricted keywords.
func GuardReadOnly(sql string) error {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(sql), ";"))
	if trimmed == "" {
		return domain.ErrNotSelectStatement
	}
	if strings.Contains(trimmed, ";") {
		return domain.ErrNotSelectStatement
	}

	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return domain.ErrNotSelectStatement
	}

	if restrictedRe.MatchString(trimmed) {
		return domain.ErrRestrictedStatement
	}
	return nil
}
