package service

import (
	"bytes"
	"testing"

	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/stretchr/testify/assert"
)

func TestDefaultSiteSettings(t *testing.T) {
	s := DefaultSiteSettings()
	assert.Equal(t, siteSettingsID, s.ID)
	assert.NotEmpty(t, s.BankAccountNumber)
	assert.Len(t, s.ContactButtons, 3)
	for _, b := range s.ContactButtons {
		assert.True(t, b.Enabled)
	}
}

func TestSettingsPatchOnlyTouchesSetFields(t *testing.T) {
	s := DefaultSiteSettings()
	title := "BDS Hà Nội"
	buttons := []models.ContactButton{}
	(&SettingsPatch{SiteTitle: &title, ContactButtons: &buttons}).applyTo(s)
	assert.Equal(t, "BDS Hà Nội", s.SiteTitle)
	assert.Empty(t, s.ContactButtons)
	assert.Equal(t, DefaultSiteSettings().BankName, s.BankName)
}

func TestTransferNoteAndQRCode(t *testing.T) {
	assert.Equal(t, "NapTien nguyenvana", TransferNote("nguyenvana"))

	png, err := TransferQRCode("1234567890", "Vietcombank", TransferNote("nguyenvana"))
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
