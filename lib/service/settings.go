package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/uptrace/bun"
)

const siteSettingsID = "site"

func DefaultSiteSettings() *models.SiteSettings {
	return &models.SiteSettings{
		ID:                siteSettingsID,
		SiteTitle:         "BDS Việt Nam",
		CompanyName:       "Công ty TNHH BDS Việt Nam",
		SiteDescription:   "Premium Real Estate Platform",
		SiteKeywords:      "bất động sản, nhà đất, căn hộ, biệt thự",
		ContactEmail:      "info@bdsvietnam.com",
		ContactPhone:      "1900 123 456",
		ContactAddress:    "123 Nguyễn Huệ, Quận 1, TP. Hồ Chí Minh",
		CompanyAddress:    "123 Nguyễn Huệ, Quận 1, TP. Hồ Chí Minh",
		BankAccountNumber: "1234567890",
		BankAccountHolder: "CONG TY TNHH BDS VIET NAM",
		BankName:          "Ngân hàng Vietcombank",
		BankBranch:        "Chi nhánh TP.HCM",
		ContactButtons: []models.ContactButton{
			{Name: "Zalo", Icon: "zalo", URL: "https://zalo.me/123456789", Color: "#0068ff", Enabled: true},
			{Name: "Telegram", Icon: "telegram", URL: "https://t.me/bdsvietnam", Color: "#229ed9", Enabled: true},
			{Name: "WhatsApp", Icon: "whatsapp", URL: "https://wa.me/1234567890", Color: "#25d366", Enabled: true},
		},
		WorkingHours: "8:00 - 18:00, Thứ 2 - Chủ nhật",
		Holidays:     "Tết Nguyên Đán, 30/4, 1/5",
		UpdatedAt:    time.Now(),
	}
}

type SettingsPatch struct {
	SiteTitle         *string                 `json:"site_title"`
	CompanyName       *string                 `json:"company_name"`
	SiteDescription   *string                 `json:"site_description"`
	SiteKeywords      *string                 `json:"site_keywords"`
	ContactEmail      *string                 `json:"contact_email" validate:"omitempty,email"`
	ContactPhone      *string                 `json:"contact_phone"`
	ContactAddress    *string                 `json:"contact_address"`
	CompanyAddress    *string                 `json:"company_address"`
	LogoURL           *string                 `json:"logo_url"`
	FaviconURL        *string                 `json:"favicon_url"`
	BannerImage       *string                 `json:"banner_image"`
	BankAccountNumber *string                 `json:"bank_account_number"`
	BankAccountHolder *string                 `json:"bank_account_holder"`
	BankName          *string                 `json:"bank_name"`
	BankBranch        *string                 `json:"bank_branch"`
	BankQRCode        *string                 `json:"bank_qr_code"`
	ContactButtons    *[]models.ContactButton `json:"contact_buttons"`
	WorkingHours      *string                 `json:"working_hours"`
	Holidays          *string                 `json:"holidays"`
}

func (p *SettingsPatch) applyTo(s *models.SiteSettings) {
	setString(&s.SiteTitle, p.SiteTitle)
	setString(&s.CompanyName, p.CompanyName)
	setString(&s.SiteDescription, p.SiteDescription)
	setString(&s.SiteKeywords, p.SiteKeywords)
	setString(&s.ContactEmail, p.ContactEmail)
	setString(&s.ContactPhone, p.ContactPhone)
	setString(&s.ContactAddress, p.ContactAddress)
	setString(&s.CompanyAddress, p.CompanyAddress)
	setString(&s.LogoURL, p.LogoURL)
	setString(&s.FaviconURL, p.FaviconURL)
	setString(&s.BannerImage, p.BannerImage)
	setString(&s.BankAccountNumber, p.BankAccountNumber)
	setString(&s.BankAccountHolder, p.BankAccountHolder)
	setString(&s.BankName, p.BankName)
	setString(&s.BankBranch, p.BankBranch)
	setString(&s.BankQRCode, p.BankQRCode)
	if p.ContactButtons != nil {
		s.ContactButtons = *p.ContactButtons
	}
	setString(&s.WorkingHours, p.WorkingHours)
	setString(&s.Holidays, p.Holidays)
}

// GetSettings returns the settings record, creating it from the defaults on
// first use.
func (svc *BdshubService) GetSettings(ctx context.Context) (*models.SiteSettings, error) {
	return svc.loadSettings(ctx, svc.DB)
}

func (svc *BdshubService) loadSettings(ctx context.Context, db bun.IDB) (*models.SiteSettings, error) {
	settings := DefaultSiteSettings()
	_, err := db.NewInsert().Model(settings).On("CONFLICT (id) DO NOTHING").Exec(ctx)
	if err != nil {
		return nil, err
	}
	settings = &models.SiteSettings{}
	if err := db.NewSelect().Model(settings).Where("id = ?", siteSettingsID).Scan(ctx); err != nil {
		return nil, err
	}
	return settings, nil
}

func (svc *BdshubService) UpdateSettings(ctx context.Context, patch *SettingsPatch) (*models.SiteSettings, error) {
	for _, img := range []*string{patch.LogoURL, patch.FaviconURL, patch.BannerImage, patch.BankQRCode} {
		if img != nil && *img != "" {
			if err := CheckInlineImages([]string{*img}); err != nil {
				return nil, err
			}
		}
	}
	var settings *models.SiteSettings
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var err error
		settings, err = svc.loadSettings(ctx, tx)
		if err != nil {
			return err
		}
		patch.applyTo(settings)
		settings.UpdatedAt = time.Now()
		_, err = tx.NewUpdate().Model(settings).WherePK().Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return settings, nil
}
