package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Property : public property listing
type Property struct {
	bun.BaseModel `bun:"table:properties"`

	ID           string           `json:"id" bun:",pk"`
	Title        string           `json:"title" bun:",notnull"`
	Description  string           `json:"description" bun:",notnull"`
	PropertyType string           `json:"property_type" bun:",notnull"`
	Status       string           `json:"status" bun:",notnull"`
	Price        decimal.Decimal  `json:"price" bun:"type:numeric(20,2),notnull"`
	PricePerSqm  *decimal.Decimal `json:"price_per_sqm,omitempty" bun:"type:numeric(20,2)"`
	Area         float64          `json:"area" bun:",notnull"`
	Bedrooms     int              `json:"bedrooms" bun:",notnull,default:0"`
	Bathrooms    int              `json:"bathrooms" bun:",notnull,default:0"`
	Address      string           `json:"address" bun:",notnull"`
	District     string           `json:"district" bun:",notnull"`
	City         string           `json:"city" bun:",notnull"`
	Latitude     *float64         `json:"latitude,omitempty"`
	Longitude    *float64         `json:"longitude,omitempty"`
	Images       []string         `json:"images" bun:",array"`
	Featured     bool             `json:"featured" bun:",notnull,default:false"`
	Views        int64            `json:"views" bun:",notnull,default:0"`
	ContactPhone string           `json:"contact_phone" bun:",notnull"`
	ContactEmail string           `json:"contact_email,omitempty" bun:",nullzero"`
	AgentName    string           `json:"agent_name,omitempty" bun:",nullzero"`
	CreatedAt    time.Time        `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt    bun.NullTime     `json:"updated_at"`
}

// Land : public land parcel listing
type Land struct {
	bun.BaseModel `bun:"table:lands"`

	ID           string           `json:"id" bun:",pk"`
	Title        string           `json:"title" bun:",notnull"`
	Description  string           `json:"description" bun:",notnull"`
	LandType     string           `json:"land_type" bun:",notnull"`
	Status       string           `json:"status" bun:",notnull"`
	Price        decimal.Decimal  `json:"price" bun:"type:numeric(20,2),notnull"`
	PricePerSqm  *decimal.Decimal `json:"price_per_sqm,omitempty" bun:"type:numeric(20,2)"`
	Area         float64          `json:"area" bun:",notnull"`
	Width        *float64         `json:"width,omitempty"`
	Length       *float64         `json:"length,omitempty"`
	Address      string           `json:"address" bun:",notnull"`
	District     string           `json:"district" bun:",notnull"`
	City         string           `json:"city" bun:",notnull"`
	Latitude     *float64         `json:"latitude,omitempty"`
	Longitude    *float64         `json:"longitude,omitempty"`
	Images       []string         `json:"images" bun:",array"`
	Featured     bool             `json:"featured" bun:",notnull,default:false"`
	LegalStatus  string           `json:"legal_status" bun:",notnull"`
	Orientation  string           `json:"orientation,omitempty" bun:",nullzero"`
	RoadWidth    *float64         `json:"road_width,omitempty"`
	Views        int64            `json:"views" bun:",notnull,default:0"`
	ContactPhone string           `json:"contact_phone" bun:",notnull"`
	ContactEmail string           `json:"contact_email,omitempty" bun:",nullzero"`
	AgentName    string           `json:"agent_name,omitempty" bun:",nullzero"`
	CreatedAt    time.Time        `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt    bun.NullTime     `json:"updated_at"`
}

// Sim : public SIM card listing
type Sim struct {
	bun.BaseModel `bun:"table:sims"`

	ID          string          `json:"id" bun:",pk"`
	PhoneNumber string          `json:"phone_number" bun:",notnull"`
	Network     string          `json:"network" bun:",notnull"`
	SimType     string          `json:"sim_type" bun:",notnull"`
	Price       decimal.Decimal `json:"price" bun:"type:numeric(20,2),notnull"`
	IsVip       bool            `json:"is_vip" bun:",notnull,default:false"`
	Features    []string        `json:"features" bun:",array"`
	Description string          `json:"description" bun:",notnull"`
	Status      string          `json:"status" bun:",notnull,default:'available'"`
	Views       int64           `json:"views" bun:",notnull,default:0"`
	CreatedAt   time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt   bun.NullTime    `json:"updated_at"`
}

// NewsArticle : admin authored news, never fed by member drafts
type NewsArticle struct {
	bun.BaseModel `bun:"table:news_articles"`

	ID            string       `json:"id" bun:",pk"`
	Title         string       `json:"title" bun:",notnull"`
	Slug          string       `json:"slug" bun:",notnull"`
	Content       string       `json:"content" bun:",notnull"`
	Excerpt       string       `json:"excerpt" bun:",notnull"`
	FeaturedImage string       `json:"featured_image,omitempty" bun:",nullzero"`
	Category      string       `json:"category" bun:",notnull"`
	Tags          []string     `json:"tags" bun:",array"`
	Published     bool         `json:"published" bun:",notnull,default:true"`
	Author        string       `json:"author" bun:",notnull"`
	Views         int64        `json:"views" bun:",notnull,default:0"`
	CreatedAt     time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt     bun.NullTime `json:"updated_at"`
}

func (p *Property) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.UpdateQuery); ok {
		p.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

func (l *Land) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.UpdateQuery); ok {
		l.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

func (s *Sim) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.UpdateQuery); ok {
		s.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

func (n *NewsArticle) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.UpdateQuery); ok {
		n.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var (
	_ bun.BeforeAppendModelHook = (*Property)(nil)
	_ bun.BeforeAppendModelHook = (*Land)(nil)
	_ bun.BeforeAppendModelHook = (*Sim)(nil)
	_ bun.BeforeAppendModelHook = (*NewsArticle)(nil)
)
