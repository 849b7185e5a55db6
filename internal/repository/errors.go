package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

// ErrorFields extracts Postgres diagnostics from err for structured logging.
// It returns nil when err carries none.
func ErrorFields(err error) logrus.Fields {
	fields := logrus.Fields{}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		fields["pg_code"] = pgErr.Code
		fields["pg_severity"] = pgErr.Severity
		if pgErr.ConstraintName != "" {
			fields["pg_constraint"] = pgErr.ConstraintName
		}
		if pgErr.TableName != "" {
			fields["pg_table"] = pgErr.TableName
		}
	}
	if IsConnectivityError(err) {
		fields["storage_unavailable"] = true
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

// IsConnectivityError reports whether err means the store could not be
// reached or did not answer in time, as opposed to rejecting a statement.
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exception; class 57: operator intervention.
		return strings.HasPrefix(pgErr.Code, "08") || strings.HasPrefix(pgErr.Code, "57")
	}

	var connectErr *pgconn.ConnectError
	return errors.As(err, &connectErr)
}
