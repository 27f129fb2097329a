package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// MemberPost : a listing draft submitted by a member, awaiting review
type MemberPost struct {
	bun.BaseModel `bun:"table:member_posts"`

	ID           string          `json:"id" bun:",pk"`
	Title        string          `json:"title" bun:",notnull"`
	Description  string          `json:"description" bun:",notnull"`
	PostType     string          `json:"post_type" bun:",notnull"`
	Status       string          `json:"status" bun:",notnull,default:'pending'"`
	AuthorID     string          `json:"author_id" bun:",notnull"`
	Author       *User           `json:"-" bun:"rel:belongs-to,join:author_id=id"`
	Price        decimal.Decimal `json:"price" bun:"type:numeric(20,2),notnull"`
	FeePaid      decimal.Decimal `json:"fee_paid" bun:"type:numeric(20,2),notnull,default:0"`
	Images       []string        `json:"images" bun:",array"`
	ContactPhone string          `json:"contact_phone" bun:",notnull"`
	ContactEmail string          `json:"contact_email,omitempty" bun:",nullzero"`

	// property
	PropertyType   string   `json:"property_type,omitempty" bun:",nullzero"`
	PropertyStatus string   `json:"property_status,omitempty" bun:",nullzero"`
	Area           *float64 `json:"area,omitempty"`
	Bedrooms       *int     `json:"bedrooms,omitempty"`
	Bathrooms      *int     `json:"bathrooms,omitempty"`
	Address        string   `json:"address,omitempty" bun:",nullzero"`
	District       string   `json:"district,omitempty" bun:",nullzero"`
	City           string   `json:"city,omitempty" bun:",nullzero"`

	// land
	LandType    string   `json:"land_type,omitempty" bun:",nullzero"`
	Width       *float64 `json:"width,omitempty"`
	Length      *float64 `json:"length,omitempty"`
	LegalStatus string   `json:"legal_status,omitempty" bun:",nullzero"`
	Orientation string   `json:"orientation,omitempty" bun:",nullzero"`
	RoadWidth   *float64 `json:"road_width,omitempty"`

	// sim
	PhoneNumber string   `json:"phone_number,omitempty" bun:",nullzero"`
	Network     string   `json:"network,omitempty" bun:",nullzero"`
	SimType     string   `json:"sim_type,omitempty" bun:",nullzero"`
	IsVip       bool     `json:"is_vip" bun:",notnull,default:false"`
	Features    []string `json:"features" bun:",array"`

	Featured        bool         `json:"featured" bun:",notnull,default:false"`
	AdminNotes      string       `json:"admin_notes,omitempty" bun:",nullzero"`
	RejectionReason string       `json:"rejection_reason,omitempty" bun:",nullzero"`
	ApprovedBy      string       `json:"approved_by,omitempty" bun:",nullzero"`
	ApprovedAt      bun.NullTime `json:"approved_at"`
	ExpiresAt       bun.NullTime `json:"expires_at"`
	Views           int64        `json:"views" bun:",notnull,default:0"`
	CreatedAt       time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt       bun.NullTime `json:"updated_at"`
}

func (p *MemberPost) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		p.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*MemberPost)(nil)
