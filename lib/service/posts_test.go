package service

import (
	"testing"
	"time"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func float(v float64) *float64 { return &v }

func TestMissingFieldsProperty(t *testing.T) {
	p := &PostPayload{PostType: common.PostTypeProperty, Price: decimal.NewFromInt(-1)}
	missing := p.MissingFields()
	for _, field := range []string{"price", "property_type", "area", "address", "district", "city"} {
		assert.Contains(t, missing, field)
	}

	p = &PostPayload{
		PostType:     common.PostTypeProperty,
		Price:        decimal.NewFromInt(3000000000),
		PropertyType: "apartment",
		Area:         float(75),
		Address:      "12 Lê Lợi",
		District:     "Quận 1",
		City:         "TP. Hồ Chí Minh",
	}
	assert.Empty(t, p.MissingFields())
}

func TestMissingFieldsSimAndNews(t *testing.T) {
	p := &PostPayload{PostType: common.PostTypeSim}
	missing := p.MissingFields()
	assert.Len(t, missing, 3)
	assert.Contains(t, missing, "phone_number")
	assert.Contains(t, missing, "network")
	assert.Contains(t, missing, "sim_type")

	p = &PostPayload{PostType: common.PostTypeNews}
	assert.Empty(t, p.MissingFields())
}

func TestPropertyFromPost(t *testing.T) {
	post := &models.MemberPost{
		ID:           "post-1",
		Title:        "Căn hộ Quận 7",
		PostType:     common.PostTypeProperty,
		PropertyType: "apartment",
		Price:        decimal.NewFromInt(2000000000),
		Area:         float(80),
		City:         "TP. Hồ Chí Minh",
		Featured:     true,
		CreatedAt:    time.Now(),
	}
	p := propertyFromPost(post, "Nguyễn Văn A")
	assert.Equal(t, "post-1", p.ID)
	assert.Equal(t, common.PropertyStatusForSale, p.Status)
	assert.Equal(t, "Nguyễn Văn A", p.AgentName)
	assert.Equal(t, []string{}, p.Images)
	assert.True(t, p.Featured)
	assert.Equal(t, 0, p.Bedrooms)
	if assert.NotNil(t, p.PricePerSqm) {
		assert.True(t, decimal.NewFromInt(25000000).Equal(*p.PricePerSqm))
	}

	post.PropertyStatus = common.PropertyStatusForRent
	assert.Equal(t, common.PropertyStatusForRent, propertyFromPost(post, "").Status)
}

func TestLandFromPostDefaults(t *testing.T) {
	post := &models.MemberPost{
		ID:       "post-2",
		PostType: common.PostTypeLand,
		LandType: "residential",
		Price:    decimal.NewFromInt(1000000000),
	}
	l := landFromPost(post, "agent")
	assert.Equal(t, common.DefaultLegalStatus, l.LegalStatus)
	assert.Equal(t, common.PropertyStatusForSale, l.Status)
	assert.Nil(t, l.PricePerSqm)

	post.LegalStatus = "Sổ hồng"
	assert.Equal(t, "Sổ hồng", landFromPost(post, "agent").LegalStatus)
}

func TestSimFromPost(t *testing.T) {
	post := &models.MemberPost{
		ID:          "post-3",
		PostType:    common.PostTypeSim,
		PhoneNumber: "0909999999",
		Network:     "viettel",
		SimType:     "prepaid",
		IsVip:       true,
		Price:       decimal.NewFromInt(15000000),
	}
	s := simFromPost(post)
	assert.Equal(t, common.SimStatusAvailable, s.Status)
	assert.Equal(t, []string{}, s.Features)
	assert.True(t, s.IsVip)
	assert.Equal(t, "0909999999", s.PhoneNumber)
}

func TestPayloadApplyNormalizesSlices(t *testing.T) {
	post := &models.MemberPost{}
	(&PostPayload{Title: "t", PostType: common.PostTypeNews}).apply(post)
	assert.NotNil(t, post.Images)
	assert.NotNil(t, post.Features)
}
