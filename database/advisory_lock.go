package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
)

// lockSession is the pooled connection holding a session-level advisory lock
type lockSession interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Release()
}

// TryAdvisoryLock attempts to take a session-level PostgreSQL advisory lock on a dedicated
// pooled connection. When acquired, the returned release function unlocks and returns the
// connection to the pool; it must always be called.
func (db *DB) TryAdvisoryLock(ctx context.Context, key int64) (release func(), acquired bool, err error) {
	conn, err := db.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire connection for advisory lock: %w", err)
	}

	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&acquired); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("failed to try advisory lock %d: %w", key, err)
	}

	if !acquired {
		conn.Release()
		return func() {}, false, nil
	}

	closeSession := func() error {
		return conn.Conn().Close(context.Background())
	}
	return func() { releaseAdvisoryLock(conn, closeSession, key) }, true, nil
}

// releaseAdvisoryLock unlocks key and hands the session back to the pool. A session whose
// unlock failed still holds the lock, so it is closed instead and the pool discards it.
func releaseAdvisoryLock(session lockSession, closeSession func() error, key int64) {
	defer session.Release()

	// The caller's context may already be cancelled at shutdown
	if _, err := session.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", key); err != nil {
		log.WithFields(log.Fields{
			"lockKey": key,
			"error":   err,
		}).Error("Failed to release advisory lock, closing its session")

		if closeErr := closeSession(); closeErr != nil {
			log.WithFields(log.Fields{
				"lockKey": key,
				"error":   closeErr,
			}).Error("Failed to close advisory lock session")
		}
	}
}
