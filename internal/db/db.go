package db

import (
	"database/sql"

	_ "github.com/lib/pq"
)

// Connect opens the single process-wide connection pool and verifies it with
// a ping. The pool is closed at shutdown by the caller.
func Connect(connString string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}

	return db, nil
}
