package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/boxmein-forks/mastodon/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateAccountCmd struct {
	Email    string `required:"" help:"email address of the account to create"`
	Password string `required:"" help:"password of the account to create"`
}

func (c *CreateAccountCmd) Run(ctx *Context) error {
	db, err := gorm.Open(ctx.Dialector, &ctx.Config)
	if err != nil {
		return err
	}

	parts := strings.Split(c.Email, "@")
	if len(parts) != 2 {
		return errors.New("invalid email address")
	}
	username, domain := parts[0], parts[1]

	account, err := models.NewAccounts(db).Create(username, domain, c.Email, c.Password)
	if err != nil {
		return err
	}

	token := &models.Token{
		AccessToken: uuid.New().String(),
		AccountID:   account.ID,
		TokenType:   "Bearer",
		Scope:       "read write follow push",
	}
	if err := db.Create(token).Error; err != nil {
		return err
	}
	fmt.Println("account created:", account.ID)
	fmt.Println("access token:", token.AccessToken)
	return nil
}
