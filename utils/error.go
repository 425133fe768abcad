package utils

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// Error kinds surfaced by the bookkeeping layer. Callers classify failures
// with errors.Is rather than string matching.
var (
	ErrValidation       = errors.New("validation failed")
	ErrRecordNotFound   = errors.New("record not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrStore            = errors.New("store failure")
)

func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s %q", ErrRecordNotFound, resource, id)
}

func PermissionDeniedError(resource string, id string) error {
	return fmt.Errorf("%w: %s %q belongs to another user", ErrPermissionDenied, resource, id)
}

// StoreError wraps an underlying persistence failure so that both ErrStore
// and the driver error remain matchable with errors.Is/As.
func StoreError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrStore, err))
}

// IsDuplicateEntry reports whether err is a MySQL duplicate-key violation.
func IsDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
