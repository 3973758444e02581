//go:build sqlite

package main

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newDialector(dsn string) gorm.Dialector {
	return sqlite.Open(dsn)
}

func configureDB(db *gorm.DB) error {
	// sqlite leaves foreign keys off unless asked
	return db.Exec("PRAGMA foreign_keys = ON").Error
}
