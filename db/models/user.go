package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// User : User Model
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID               string          `json:"id" bun:",pk"`
	Username         string          `json:"username" bun:",unique,notnull"`
	Email            string          `json:"email" bun:",unique,notnull"`
	Password         string          `json:"-" bun:",notnull"`
	Role             string          `json:"role" bun:",notnull,default:'member'"`
	Status           string          `json:"status" bun:",notnull,default:'active'"`
	WalletBalance    decimal.Decimal `json:"wallet_balance" bun:"type:numeric(20,2),notnull,default:0"`
	FullName         string          `json:"full_name,omitempty" bun:",nullzero"`
	Phone            string          `json:"phone,omitempty" bun:",nullzero"`
	Avatar           string          `json:"avatar,omitempty" bun:",nullzero"`
	Address          string          `json:"address,omitempty" bun:",nullzero"`
	EmailVerified    bool            `json:"email_verified" bun:",notnull,default:false"`
	ProfileCompleted bool            `json:"profile_completed" bun:",notnull,default:false"`
	LastLogin        bun.NullTime    `json:"last_login"`
	CreatedAt        time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt        bun.NullTime    `json:"updated_at"`
}

func (u *User) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		u.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

// DisplayName is what listings show as the agent for a promoted post.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

var _ bun.BeforeAppendModelHook = (*User)(nil)
