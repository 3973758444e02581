package models

import (
	"golang.org/x/exp/slog"
	"gorm.io/gorm"
)

// Env holds the dependencies shared by every API handler.
type Env struct {
	DB     *gorm.DB
	Logger *slog.Logger
}
