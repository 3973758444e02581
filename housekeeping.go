package main

import (
	"fmt"

	"gorm.io/gorm"
)

type HousekeepingCmd struct {
}

func (c *HousekeepingCmd) Run(ctx *Context) error {
	db, err := gorm.Open(ctx.Dialector, &ctx.Config)
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		// delete background requests that have exhausted their attempts
		for _, table := range []string{
			"media_processing_requests",
			"preview_card_requests",
			"status_reprocess_requests",
			"status_update_delivery_requests",
		} {
			res := tx.Exec(`DELETE FROM ` + table + ` WHERE attempts >= 3`)
			if res.Error != nil {
				return res.Error
			}
			fmt.Println("deleted", res.RowsAffected, "exhausted requests from", table)
		}

		// delete preview cards whose status is gone
		res := tx.Exec(`
			DELETE FROM preview_cards
			WHERE status_id NOT IN (SELECT id FROM statuses)
		`)
		if res.Error != nil {
			return res.Error
		}
		fmt.Println("deleted", res.RowsAffected, "orphaned preview cards")

		// delete votes whose poll is gone
		res = tx.Exec(`
			DELETE FROM poll_votes
			WHERE status_poll_id NOT IN (SELECT id FROM status_polls)
		`)
		if res.Error != nil {
			return res.Error
		}
		fmt.Println("deleted", res.RowsAffected, "orphaned poll votes")

		// delete tags that no status uses
		res = tx.Exec(`
			DELETE FROM tags
			WHERE id NOT IN (SELECT tag_id FROM status_tags)
		`)
		if res.Error != nil {
			return res.Error
		}
		fmt.Println("deleted", res.RowsAffected, "unused tags")

		return nil
	})
}
