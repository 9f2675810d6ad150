package identity

import (
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// OpenDatabase opens a sqlite-backed bun.DB. The shim picks a CGo-free driver
// when CGo is unavailable, so ":memory:" works in tests everywhere.
func OpenDatabase(dsn string) (*bun.DB, error) {
	db, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	return bun.NewDB(db, sqlitedialect.New()), nil
}
