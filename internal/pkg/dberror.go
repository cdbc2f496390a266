package pkg

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/simp-lee/blogbase/internal/domain"
)

const (
	pgUniqueViolation   = "23505"
	mysqlDuplicateEntry = 1062
)

// ClassifyDBError sorts a driver level error into a DBFailure class.
// It is total and pure: the same class of input always yields the same class.
func ClassifyDBError(err error) domain.DBFailure {
	switch {
	case err == nil:
		return domain.DBFailureOther
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, sql.ErrNoRows),
		errors.Is(err, pgx.ErrNoRows):
		return domain.DBFailureNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.DBFailureConflict
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return domain.DBFailureConflict
	}

	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return domain.DBFailureConflict
	}

	if isDuplicateKeyMessage(err) {
		return domain.DBFailureConflict
	}
	return domain.DBFailureOther
}

// DBError converts a driver level error into a *domain.DatabaseError.
// Errors that already belong to the taxonomy are returned unchanged.
func DBError(err error) error {
	if err == nil {
		return nil
	}
	var coded domain.CodedError
	if errors.As(err, &coded) {
		return err
	}
	return &domain.DatabaseError{Failure: ClassifyDBError(err), Err: err}
}

// isDuplicateKeyMessage detects unique constraint violations by examining the
// error message. This is needed because not all GORM dialectors translate
// driver-level errors to gorm.ErrDuplicatedKey (e.g. the pure-Go SQLite driver).
func isDuplicateKeyMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

// LogFailure logs err from operation op at a level matching its kind:
// unhandled database and unknown errors at Error, business errors at Warn.
// Not found and validation errors are expected and stay silent.
func LogFailure(ctx context.Context, op string, err error) {
	if err == nil {
		return
	}
	var dbErr *domain.DatabaseError
	var bizErr *domain.BusinessError
	switch {
	case errors.As(err, &dbErr) && dbErr.Failure == domain.DBFailureOther:
		slog.ErrorContext(ctx, op+" failed", "error", err)
	case errors.As(err, &bizErr):
		slog.WarnContext(ctx, op+" rejected", "code", bizErr.ErrorCode(), "error", err)
	case domain.IsNotFound(err), domain.IsValidation(err), domain.IsConflict(err), domain.IsUnauthorized(err):
	default:
		if c := domain.AsCoded(err); c.ErrorCode() == domain.CodeUnknown {
			slog.ErrorContext(ctx, op+" failed", "error", err)
		}
	}
}
