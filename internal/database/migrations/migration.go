// internal/database/migrations/migration.go
package migrations

import (
	"crypto/sha512"
	"errors"
	"fmt"
)

// Kind is the direction of a migration script.
type Kind int

const (
	KindUp Kind = iota + 1
	KindDown
)

func (k Kind) String() string {
	switch k {
	case KindUp:
		return "up"
	case KindDown:
		return "down"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Migration is one versioned unit of schema or data change.
type Migration struct {
	Version     int64
	Description string
	SQL         string
	Kind        Kind
}

// Checksum is the SHA-384 digest of the script, the same digest the desktop
// shell records in its history table.
func (m Migration) Checksum() []byte {
	sum := sha512.Sum384([]byte(m.SQL))
	return sum[:]
}

var (
	ErrInvalidVersion   = errors.New("migration version must be positive")
	ErrInvalidKind      = errors.New("migration kind must be up or down")
	ErrEmptyScript      = errors.New("migration script is empty")
	ErrDuplicateVersion = errors.New("migration version already registered")
	ErrMissingUp        = errors.New("down migration has no matching up migration")
	ErrIrreversible     = errors.New("migration has no down script")
	ErrDirty            = errors.New("migration was recorded as failed")
	ErrUnknownTarget    = errors.New("rollback target is not a registered version")
)

// MigrationError reports a failure of the schema layer. Op is one of
// "register", "open", "history", "apply" or "rollback".
type MigrationError struct {
	Op          string
	Version     int64
	Description string
	Statement   string
	Err         error
}

func (e *MigrationError) Error() string {
	msg := "migration " + e.Op
	if e.Version > 0 {
		msg += fmt.Sprintf(" version %d", e.Version)
		if e.Description != "" {
			msg += fmt.Sprintf(" (%s)", e.Description)
		}
	}
	if e.Statement != "" {
		msg += fmt.Sprintf(" at %q", abbreviate(e.Statement, 80))
	}
	return msg + ": " + e.Err.Error()
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}

func abbreviate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
