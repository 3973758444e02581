package main

import (
	"github.com/alecthomas/kong"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Context struct {
	Debug     bool
	Dialector gorm.Dialector

	gorm.Config
}

var cli struct {
	DSN   string `help:"data source name" default:"mastodon:mastodon@tcp(localhost:3306)/mastodon"`
	Debug bool   `help:"Enable debug mode."`

	Serve         ServeCmd         `cmd:"" help:"Serve the API and run the background processors."`
	AutoMigrate   AutoMigrateCmd   `cmd:"" help:"Create or update the database schema."`
	CreateAccount CreateAccountCmd `cmd:"" help:"Create a new account."`
	Housekeeping  HousekeepingCmd  `cmd:"" help:"Purge stale requests and orphaned records."`
}

func main() {
	ctx := kong.Parse(&cli)
	err := ctx.Run(&Context{
		Debug:     cli.Debug,
		Dialector: newDialector(cli.DSN),
		Config: gorm.Config{
			Logger: logger.Default.LogMode(func() logger.LogLevel {
				if cli.Debug {
					return logger.Info
				}
				return logger.Warn
			}()),
		},
	})
	ctx.FatalIfErrorf(err)
}
