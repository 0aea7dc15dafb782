package ledger

import (
	"errors"
	"strings"

	ledgererrors "leavedesk/internal/ledger/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ledgererrors.ErrBalanceNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return ledgererrors.ErrBalanceAlreadyProvisioned
		}
	}

	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
		return ledgererrors.ErrBalanceAlreadyProvisioned
	}

	return err
}
