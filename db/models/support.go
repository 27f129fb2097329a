package models

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Ticket : support ticket sent through the contact form
type Ticket struct {
	bun.BaseModel `bun:"table:tickets"`

	ID         string       `json:"id" bun:",pk"`
	Name       string       `json:"name" bun:",notnull"`
	Email      string       `json:"email" bun:",notnull"`
	Phone      string       `json:"phone,omitempty" bun:",nullzero"`
	Subject    string       `json:"subject" bun:",notnull"`
	Message    string       `json:"message" bun:",notnull"`
	Status     string       `json:"status" bun:",notnull,default:'open'"`
	Priority   string       `json:"priority" bun:",notnull,default:'medium'"`
	AdminNotes string       `json:"admin_notes,omitempty" bun:",nullzero"`
	AssignedTo string       `json:"assigned_to,omitempty" bun:",nullzero"`
	CreatedAt  time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt  bun.NullTime `json:"updated_at"`
}

func (t *Ticket) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.UpdateQuery); ok {
		t.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

// Message : chat line between a member and an admin, optionally about a ticket or a deposit
type Message struct {
	bun.BaseModel `bun:"table:messages"`

	ID          string       `json:"id" bun:",pk"`
	TicketID    string       `json:"ticket_id,omitempty" bun:",nullzero"`
	DepositID   string       `json:"deposit_id,omitempty" bun:",nullzero"`
	FromUserID  string       `json:"from_user_id" bun:",notnull"`
	ToUserID    string       `json:"to_user_id" bun:",notnull"`
	FromType    string       `json:"from_type" bun:",notnull"`
	ToType      string       `json:"to_type" bun:",notnull"`
	Message     string       `json:"message" bun:",notnull"`
	MessageType string       `json:"message_type" bun:",notnull,default:'text'"`
	Read        bool         `json:"read" bun:",notnull,default:false"`
	CreatedAt   time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt   bun.NullTime `json:"updated_at"`
}

// PageView : one tracked page hit
type PageView struct {
	bun.BaseModel `bun:"table:page_views"`

	ID        string    `json:"id" bun:",pk"`
	PagePath  string    `json:"page_path" bun:",notnull"`
	UserAgent string    `json:"user_agent" bun:",notnull"`
	IPAddress string    `json:"ip_address" bun:",notnull"`
	Referrer  string    `json:"referrer,omitempty" bun:",nullzero"`
	SessionID string    `json:"session_id" bun:",notnull"`
	Duration  *int      `json:"duration,omitempty"`
	Timestamp time.Time `json:"timestamp" bun:",nullzero,notnull,default:current_timestamp"`
}

// ContactButton : one of the floating contact buttons on the public site
type ContactButton struct {
	Name    string `json:"name"`
	Icon    string `json:"icon"`
	URL     string `json:"url"`
	Color   string `json:"color"`
	Enabled bool   `json:"enabled"`
}

// SiteSettings : singleton settings record
type SiteSettings struct {
	bun.BaseModel `bun:"table:site_settings"`

	ID                string          `json:"id" bun:",pk"`
	SiteTitle         string          `json:"site_title"`
	CompanyName       string          `json:"company_name"`
	SiteDescription   string          `json:"site_description"`
	SiteKeywords      string          `json:"site_keywords"`
	ContactEmail      string          `json:"contact_email"`
	ContactPhone      string          `json:"contact_phone"`
	ContactAddress    string          `json:"contact_address"`
	CompanyAddress    string          `json:"company_address"`
	LogoURL           string          `json:"logo_url,omitempty" bun:",nullzero"`
	FaviconURL        string          `json:"favicon_url,omitempty" bun:",nullzero"`
	BannerImage       string          `json:"banner_image,omitempty" bun:",nullzero"`
	BankAccountNumber string          `json:"bank_account_number"`
	BankAccountHolder string          `json:"bank_account_holder"`
	BankName          string          `json:"bank_name"`
	BankBranch        string          `json:"bank_branch,omitempty" bun:",nullzero"`
	BankQRCode        string          `json:"bank_qr_code,omitempty" bun:",nullzero"`
	ContactButtons    []ContactButton `json:"contact_buttons" bun:"type:jsonb"`
	WorkingHours      string          `json:"working_hours,omitempty" bun:",nullzero"`
	Holidays          string          `json:"holidays,omitempty" bun:",nullzero"`
	UpdatedAt         time.Time       `json:"updated_at" bun:",nullzero,notnull,default:current_timestamp"`
}

var (
	_ bun.BeforeAppendModelHook = (*Ticket)(nil)
)
