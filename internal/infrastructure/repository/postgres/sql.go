package postgres

import (
	"database/sql"
	"database/sql/driver"
	"net"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"

	"github.com/willowlytics/cricketstats/internal/usecase"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// markStoreErr tags connection-level failures so callers can tell a dead
// store apart from bad data. Constraint violations and query errors pass
// through unmarked.
func markStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if isStoreUnavailable(err) {
		return errors.Mark(err, usecase.ErrStoreUnavailable)
	}
	return err
}

func isStoreUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "53", "57": // connection, resources, operator intervention
			return true
		}
	}
	return false
}
