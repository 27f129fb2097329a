package service

import (
	"context"
	"database/sql"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type PropertyInput struct {
	Title        string          `json:"title" validate:"required"`
	Description  string          `json:"description" validate:"required"`
	PropertyType string          `json:"property_type" validate:"required,oneof=apartment house villa shophouse office land"`
	Status       string          `json:"status" validate:"required,oneof=for_sale for_rent sold rented"`
	Price        decimal.Decimal `json:"price"`
	Area         float64         `json:"area" validate:"gt=0"`
	Bedrooms     int             `json:"bedrooms" validate:"gte=0"`
	Bathrooms    int             `json:"bathrooms" validate:"gte=0"`
	Address      string          `json:"address" validate:"required"`
	District     string          `json:"district" validate:"required"`
	City         string          `json:"city" validate:"required"`
	Latitude     *float64        `json:"latitude"`
	Longitude    *float64        `json:"longitude"`
	Images       []string        `json:"images" validate:"max=10"`
	Featured     bool            `json:"featured"`
	ContactPhone string          `json:"contact_phone" validate:"required"`
	ContactEmail string          `json:"contact_email" validate:"omitempty,email"`
	AgentName    string          `json:"agent_name"`
}

// PropertyPatch only updates the non-nil fields.
type PropertyPatch struct {
	Title        *string          `json:"title"`
	Description  *string          `json:"description"`
	PropertyType *string          `json:"property_type" validate:"omitempty,oneof=apartment house villa shophouse office land"`
	Status       *string          `json:"status" validate:"omitempty,oneof=for_sale for_rent sold rented"`
	Price        *decimal.Decimal `json:"price"`
	Area         *float64         `json:"area" validate:"omitempty,gt=0"`
	Bedrooms     *int             `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms    *int             `json:"bathrooms" validate:"omitempty,gte=0"`
	Address      *string          `json:"address"`
	District     *string          `json:"district"`
	City         *string          `json:"city"`
	Latitude     *float64         `json:"latitude"`
	Longitude    *float64         `json:"longitude"`
	Images       []string         `json:"images" validate:"omitempty,max=10"`
	Featured     *bool            `json:"featured"`
	ContactPhone *string          `json:"contact_phone"`
	ContactEmail *string          `json:"contact_email" validate:"omitempty,email"`
	AgentName    *string          `json:"agent_name"`
}

func (p *PropertyPatch) applyTo(prop *models.Property) {
	setString(&prop.Title, p.Title)
	setString(&prop.Description, p.Description)
	setString(&prop.PropertyType, p.PropertyType)
	setString(&prop.Status, p.Status)
	if p.Price != nil {
		prop.Price = *p.Price
	}
	if p.Area != nil {
		prop.Area = *p.Area
	}
	if p.Bedrooms != nil {
		prop.Bedrooms = *p.Bedrooms
	}
	if p.Bathrooms != nil {
		prop.Bathrooms = *p.Bathrooms
	}
	setString(&prop.Address, p.Address)
	setString(&prop.District, p.District)
	setString(&prop.City, p.City)
	if p.Latitude != nil {
		prop.Latitude = p.Latitude
	}
	if p.Longitude != nil {
		prop.Longitude = p.Longitude
	}
	if p.Images != nil {
		prop.Images = p.Images
	}
	if p.Featured != nil {
		prop.Featured = *p.Featured
	}
	setString(&prop.ContactPhone, p.ContactPhone)
	setString(&prop.ContactEmail, p.ContactEmail)
	setString(&prop.AgentName, p.AgentName)
}

type PropertyFilter struct {
	ListingFilter
	PropertyType string
	Bedrooms     *int
	Bathrooms    *int
}

func (svc *BdshubService) CreateProperty(ctx context.Context, in *PropertyInput) (*models.Property, error) {
	if err := CheckInlineImages(in.Images); err != nil {
		return nil, err
	}
	prop := &models.Property{
		ID:           newID(),
		Title:        in.Title,
		Description:  in.Description,
		PropertyType: in.PropertyType,
		Status:       in.Status,
		Price:        in.Price,
		Area:         in.Area,
		Bedrooms:     in.Bedrooms,
		Bathrooms:    in.Bathrooms,
		Address:      in.Address,
		District:     in.District,
		City:         in.City,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		Images:       nonNil(in.Images),
		Featured:     in.Featured,
		ContactPhone: in.ContactPhone,
		ContactEmail: in.ContactEmail,
		AgentName:    in.AgentName,
	}
	prop.PricePerSqm = PricePerSqm(prop.Price, prop.Area)
	if _, err := svc.DB.NewInsert().Model(prop).Returning("*").Exec(ctx); err != nil {
		return nil, err
	}
	return prop, nil
}

func (svc *BdshubService) UpdateProperty(ctx context.Context, id string, patch *PropertyPatch) (*models.Property, error) {
	if err := CheckInlineImages(patch.Images); err != nil {
		return nil, err
	}
	prop := &models.Property{}
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(prop).Where("id = ?", id).For("UPDATE").Scan(ctx); err != nil {
			return notFound(err)
		}
		patch.applyTo(prop)
		prop.PricePerSqm = PricePerSqm(prop.Price, prop.Area)
		_, err := tx.NewUpdate().Model(prop).
			ExcludeColumn("id", "views", "created_at").
			WherePK().
			Returning("*").
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return prop, nil
}

func (svc *BdshubService) DeleteProperty(ctx context.Context, id string) error {
	return svc.deleteByID(ctx, (*models.Property)(nil), id)
}

// GetProperty returns the property and counts the view.
func (svc *BdshubService) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	prop := &models.Property{}
	if err := svc.incrementViews(ctx, prop, "id = ?", id); err != nil {
		return nil, err
	}
	return prop, nil
}

func (svc *BdshubService) ListProperties(ctx context.Context, filter PropertyFilter) ([]models.Property, error) {
	page := filter.Page.Normalize(common.DefaultPageLimit, common.MaxPageLimit)
	props := []models.Property{}
	q := svc.DB.NewSelect().Model(&props)
	filter.ListingFilter.apply(q)
	if filter.PropertyType != "" {
		q.Where("property_type = ?", filter.PropertyType)
	}
	if filter.Bedrooms != nil {
		q.Where("bedrooms = ?", *filter.Bedrooms)
	}
	if filter.Bathrooms != nil {
		q.Where("bathrooms = ?", *filter.Bathrooms)
	}
	err := q.OrderExpr(OrderExpr(filter.SortBy, filter.Order, true)).
		Offset(page.Skip).
		Limit(page.Limit).
		Scan(ctx)
	return props, err
}

func (svc *BdshubService) FeaturedProperties(ctx context.Context, limit int) ([]models.Property, error) {
	props := []models.Property{}
	err := svc.DB.NewSelect().Model(&props).
		Where("featured = TRUE").
		OrderExpr("created_at DESC").
		Limit(featuredLimit(limit)).
		Scan(ctx)
	return props, err
}

func (svc *BdshubService) SearchProperties(ctx context.Context, query string, page Page) ([]models.Property, error) {
	page = page.Normalize(common.DefaultPageLimit, common.MaxPageLimit)
	props := []models.Property{}
	q := svc.DB.NewSelect().Model(&props)
	err := searchColumns(q, query, "title", "description", "address", "district", "city").
		OrderExpr("created_at DESC").
		Offset(page.Skip).
		Limit(page.Limit).
		Scan(ctx)
	return props, err
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
