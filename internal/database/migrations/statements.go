// internal/database/migrations/statements.go
package migrations

import (
	"regexp"
	"strings"

	"gorm.io/gorm"
)

var (
	triggerPattern = regexp.MustCompile(`(?is)^CREATE\s+(?:TEMP\s+|TEMPORARY\s+)?TRIGGER\b`)
	endPattern     = regexp.MustCompile(`(?is)\bEND$`)

	addColumnPattern  = regexp.MustCompile("(?is)^ALTER\\s+TABLE\\s+[`\"\\[]?(\\w+)[`\"\\]]?\\s+ADD\\s+(?:COLUMN\\s+)?[`\"\\[]?(\\w+)")
	dropColumnPattern = regexp.MustCompile("(?is)^ALTER\\s+TABLE\\s+[`\"\\[]?(\\w+)[`\"\\]]?\\s+DROP\\s+(?:COLUMN\\s+)?[`\"\\[]?(\\w+)")
)

// splitStatements breaks a script into single statements. Comments are
// dropped; semicolons inside quoted text or trigger bodies do not split.
func splitStatements(script string) []string {
	var (
		statements []string
		current    strings.Builder
	)

	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	runes := []rune(script)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '-' && i+1 < len(runes) && runes[i+1] == '-':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			current.WriteRune('\n')

		case r == '/' && i+1 < len(runes) && runes[i+1] == '*':
			i += 2
			for i < len(runes) && !(runes[i] == '*' && i+1 < len(runes) && runes[i+1] == '/') {
				i++
			}
			i++
			current.WriteRune(' ')

		case r == '\'' || r == '"' || r == '`' || r == '[':
			closer := r
			if r == '[' {
				closer = ']'
			}
			current.WriteRune(r)
			for i++; i < len(runes); i++ {
				current.WriteRune(runes[i])
				if runes[i] != closer {
					continue
				}
				// doubled quote is an escaped quote
				if closer != ']' && i+1 < len(runes) && runes[i+1] == closer {
					i++
					current.WriteRune(runes[i])
					continue
				}
				break
			}

		case r == ';':
			if inTriggerBody(current.String()) {
				current.WriteRune(r)
				continue
			}
			flush()

		default:
			current.WriteRune(r)
		}
	}
	flush()

	return statements
}

func inTriggerBody(partial string) bool {
	stmt := strings.TrimSpace(partial)
	return triggerPattern.MatchString(stmt) && !endPattern.MatchString(stmt)
}

// skipStatement reports whether stmt is already satisfied by the current
// schema. SQLite has no IF NOT EXISTS form for column changes.
func skipStatement(tx *gorm.DB, stmt string) (bool, error) {
	if match := addColumnPattern.FindStringSubmatch(stmt); match != nil {
		return hasColumn(tx, match[1], match[2])
	}

	if match := dropColumnPattern.FindStringSubmatch(stmt); match != nil {
		exists, err := hasColumn(tx, match[1], match[2])
		return !exists, err
	}

	return false, nil
}

func hasColumn(tx *gorm.DB, table, column string) (bool, error) {
	var count int64
	err := tx.Raw("SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ? COLLATE NOCASE", table, column).
		Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
