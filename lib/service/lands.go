package service

import (
	"context"
	"database/sql"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type LandInput struct {
	Title        string          `json:"title" validate:"required"`
	Description  string          `json:"description" validate:"required"`
	LandType     string          `json:"land_type" validate:"required,oneof=residential commercial industrial agricultural"`
	Status       string          `json:"status" validate:"required,oneof=for_sale for_rent sold rented"`
	Price        decimal.Decimal `json:"price"`
	Area         float64         `json:"area" validate:"gt=0"`
	Width        *float64        `json:"width" validate:"omitempty,gt=0"`
	Length       *float64        `json:"length" validate:"omitempty,gt=0"`
	Address      string          `json:"address" validate:"required"`
	District     string          `json:"district" validate:"required"`
	City         string          `json:"city" validate:"required"`
	Latitude     *float64        `json:"latitude"`
	Longitude    *float64        `json:"longitude"`
	Images       []string        `json:"images" validate:"max=10"`
	Featured     bool            `json:"featured"`
	LegalStatus  string          `json:"legal_status"`
	Orientation  string          `json:"orientation"`
	RoadWidth    *float64        `json:"road_width" validate:"omitempty,gt=0"`
	ContactPhone string          `json:"contact_phone" validate:"required"`
	ContactEmail string          `json:"contact_email" validate:"omitempty,email"`
	AgentName    string          `json:"agent_name"`
}

type LandPatch struct {
	Title        *string          `json:"title"`
	Description  *string          `json:"description"`
	LandType     *string          `json:"land_type" validate:"omitempty,oneof=residential commercial industrial agricultural"`
	Status       *string          `json:"status" validate:"omitempty,oneof=for_sale for_rent sold rented"`
	Price        *decimal.Decimal `json:"price"`
	Area         *float64         `json:"area" validate:"omitempty,gt=0"`
	Width        *float64         `json:"width" validate:"omitempty,gt=0"`
	Length       *float64         `json:"length" validate:"omitempty,gt=0"`
	Address      *string          `json:"address"`
	District     *string          `json:"district"`
	City         *string          `json:"city"`
	Latitude     *float64         `json:"latitude"`
	Longitude    *float64         `json:"longitude"`
	Images       []string         `json:"images" validate:"omitempty,max=10"`
	Featured     *bool            `json:"featured"`
	LegalStatus  *string          `json:"legal_status"`
	Orientation  *string          `json:"orientation"`
	RoadWidth    *float64         `json:"road_width" validate:"omitempty,gt=0"`
	ContactPhone *string          `json:"contact_phone"`
	ContactEmail *string          `json:"contact_email" validate:"omitempty,email"`
	AgentName    *string          `json:"agent_name"`
}

func (p *LandPatch) applyTo(land *models.Land) {
	setString(&land.Title, p.Title)
	setString(&land.Description, p.Description)
	setString(&land.LandType, p.LandType)
	setString(&land.Status, p.Status)
	if p.Price != nil {
		land.Price = *p.Price
	}
	if p.Area != nil {
		land.Area = *p.Area
	}
	if p.Width != nil {
		land.Width = p.Width
	}
	if p.Length != nil {
		land.Length = p.Length
	}
	setString(&land.Address, p.Address)
	setString(&land.District, p.District)
	setString(&land.City, p.City)
	if p.Latitude != nil {
		land.Latitude = p.Latitude
	}
	if p.Longitude != nil {
		land.Longitude = p.Longitude
	}
	if p.Images != nil {
		land.Images = p.Images
	}
	if p.Featured != nil {
		land.Featured = *p.Featured
	}
	setString(&land.LegalStatus, p.LegalStatus)
	setString(&land.Orientation, p.Orientation)
	if p.RoadWidth != nil {
		land.RoadWidth = p.RoadWidth
	}
	setString(&land.ContactPhone, p.ContactPhone)
	setString(&land.ContactEmail, p.ContactEmail)
	setString(&land.AgentName, p.AgentName)
}

type LandFilter struct {
	ListingFilter
	LandType string
}

func (svc *BdshubService) CreateLand(ctx context.Context, in *LandInput) (*models.Land, error) {
	if err := CheckInlineImages(in.Images); err != nil {
		return nil, err
	}
	legal := in.LegalStatus
	if legal == "" {
		legal = common.DefaultLegalStatus
	}
	land := &models.Land{
		ID:           newID(),
		Title:        in.Title,
		Description:  in.Description,
		LandType:     in.LandType,
		Status:       in.Status,
		Price:        in.Price,
		Area:         in.Area,
		Width:        in.Width,
		Length:       in.Length,
		Address:      in.Address,
		District:     in.District,
		City:         in.City,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		Images:       nonNil(in.Images),
		Featured:     in.Featured,
		LegalStatus:  legal,
		Orientation:  in.Orientation,
		RoadWidth:    in.RoadWidth,
		ContactPhone: in.ContactPhone,
		ContactEmail: in.ContactEmail,
		AgentName:    in.AgentName,
	}
	land.PricePerSqm = PricePerSqm(land.Price, land.Area)
	if _, err := svc.DB.NewInsert().Model(land).Returning("*").Exec(ctx); err != nil {
		return nil, err
	}
	return land, nil
}

func (svc *BdshubService) UpdateLand(ctx context.Context, id string, patch *LandPatch) (*models.Land, error) {
	if err := CheckInlineImages(patch.Images); err != nil {
		return nil, err
	}
	land := &models.Land{}
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(land).Where("id = ?", id).For("UPDATE").Scan(ctx); err != nil {
			return notFound(err)
		}
		patch.applyTo(land)
		land.PricePerSqm = PricePerSqm(land.Price, land.Area)
		_, err := tx.NewUpdate().Model(land).
			ExcludeColumn("id", "views", "created_at").
			WherePK().
			Returning("*").
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return land, nil
}

func (svc *BdshubService) DeleteLand(ctx context.Context, id string) error {
	return svc.deleteByID(ctx, (*models.Land)(nil), id)
}

func (svc *BdshubService) GetLand(ctx context.Context, id string) (*models.Land, error) {
	land := &models.Land{}
	if err := svc.incrementViews(ctx, land, "id = ?", id); err != nil {
		return nil, err
	}
	return land, nil
}

func (svc *BdshubService) ListLands(ctx context.Context, filter LandFilter) ([]models.Land, error) {
	page := filter.Page.Normalize(common.DefaultPageLimit, common.MaxPageLimit)
	lands := []models.Land{}
	q := svc.DB.NewSelect().Model(&lands)
	filter.ListingFilter.apply(q)
	if filter.LandType != "" {
		q.Where("land_type = ?", filter.LandType)
	}
	err := q.OrderExpr(OrderExpr(filter.SortBy, filter.Order, true)).
		Offset(page.Skip).
		Limit(page.Limit).
		Scan(ctx)
	return lands, err
}

func (svc *BdshubService) FeaturedLands(ctx context.Context, limit int) ([]models.Land, error) {
	lands := []models.Land{}
	err := svc.DB.NewSelect().Model(&lands).
		Where("featured = TRUE").
		OrderExpr("created_at DESC").
		Limit(featuredLimit(limit)).
		Scan(ctx)
	return lands, err
}

func (svc *BdshubService) SearchLands(ctx context.Context, query string, page Page) ([]models.Land, error) {
	page = page.Normalize(common.DefaultPageLimit, common.MaxPageLimit)
	lands := []models.Land{}
	q := svc.DB.NewSelect().Model(&lands)
	err := searchColumns(q, query, "title", "description", "address", "district", "city").
		OrderExpr("created_at DESC").
		Offset(page.Skip).
		Limit(page.Limit).
		Scan(ctx)
	return lands, err
}
