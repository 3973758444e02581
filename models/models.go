// Package models contains the gorm models and repositories for the server.
package models

import "gorm.io/gorm"

// forEach runs each fn against tx, stopping at the first error.
func forEach(tx *gorm.DB, fns ...func(*gorm.DB) error) error {
	for _, fn := range fns {
		if err := fn(tx); err != nil {
			return err
		}
	}
	return nil
}
