package models

import (
	"fmt"
	"time"

	"github.com/boxmein-forks/mastodon/internal/crypto"
	"github.com/boxmein-forks/mastodon/internal/snowflake"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// An Account is a local user account.
// An Account belongs to an Actor.
type Account struct {
	snowflake.ID      `gorm:"primarykey;autoIncrement:false"`
	UpdatedAt         time.Time
	ActorID           snowflake.ID
	Actor             *Actor `gorm:"constraint:OnDelete:CASCADE;<-:false;"`
	Email             string `gorm:"size:64;not null"`
	EncryptedPassword []byte `gorm:"size:60;not null"`
	PrivateKey        []byte `gorm:"not null"`
}

func (a *Account) Name() string {
	return a.Actor.Name
}

func (a *Account) Domain() string {
	return a.Actor.Domain
}

type Accounts struct {
	db *gorm.DB
}

func NewAccounts(db *gorm.DB) *Accounts {
	return &Accounts{db: db}
}

func (a *Accounts) AccountForActor(actor *Actor) (*Account, error) {
	var account Account
	if err := a.db.Joins("Actor").First(&account, "actor_id = ?", actor.ID).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// Create creates a new local account, and the actor that backs it.
func (a *Accounts) Create(name, domain, email, password string) (*Account, error) {
	var account Account
	err := a.db.Transaction(func(tx *gorm.DB) error {
		keypair, err := crypto.GenerateRSAKeypair()
		if err != nil {
			return err
		}

		passwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		actor := &Actor{
			ID:          snowflake.Now(),
			Type:        "LocalPerson",
			URI:         fmt.Sprintf("https://%s/u/%s", domain, name),
			Name:        name,
			Domain:      domain,
			DisplayName: name,
			InboxURL:    fmt.Sprintf("https://%s/u/%s/inbox", domain, name),
			PublicKey:   keypair.PublicKey,
		}
		if err := tx.Create(actor).Error; err != nil {
			return err
		}

		account = Account{
			ID:                actor.ID,
			ActorID:           actor.ID,
			Email:             email,
			EncryptedPassword: passwd,
			PrivateKey:        keypair.PrivateKey,
		}
		return tx.Create(&account).Error
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}
