//go:build !sqlite

package main

import (
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// defaultDSNOptions are appended to every DSN. parseTime is required for
// gorm's time.Time scanning.
const defaultDSNOptions = "charset=utf8mb4&parseTime=True&loc=Local"

func newDialector(dsn string) gorm.Dialector {
	if strings.Contains(dsn, "?") {
		dsn += "&" + defaultDSNOptions
	} else {
		dsn += "?" + defaultDSNOptions
	}
	return mysql.Open(dsn)
}

func configureDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return nil
}
