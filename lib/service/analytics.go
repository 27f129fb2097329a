package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bdsvietnam/bdshub.go/db/models"
)

type PageViewInput struct {
	PagePath  string `json:"page_path" validate:"required,max=2048"`
	UserAgent string `json:"user_agent"`
	IPAddress string `json:"ip_address"`
	Referrer  string `json:"referrer"`
	SessionID string `json:"session_id" validate:"required"`
	Duration  *int   `json:"duration" validate:"omitempty,gte=0"`
}

type TrafficPoint struct {
	Period         string `json:"period" bun:"period"`
	Views          int    `json:"views" bun:"views"`
	UniqueVisitors int    `json:"unique_visitors" bun:"unique_visitors"`
}

type PopularPage struct {
	PagePath       string `json:"page_path" bun:"page_path"`
	Views          int    `json:"views" bun:"views"`
	UniqueVisitors int    `json:"unique_visitors" bun:"unique_visitors"`
}

// trafficPeriods maps a period to its postgres to_char format and the length
// of one bucket.
var trafficPeriods = map[string]struct {
	format string
	bucket time.Duration
}{
	"day":   {"YYYY-MM-DD", 24 * time.Hour},
	"week":  {"IYYY-IW", 7 * 24 * time.Hour},
	"month": {"YYYY-MM", 30 * 24 * time.Hour},
	"year":  {"YYYY", 365 * 24 * time.Hour},
}

func (svc *BdshubService) TrackPageView(ctx context.Context, in *PageViewInput) (*models.PageView, error) {
	view := &models.PageView{
		ID:        newID(),
		PagePath:  in.PagePath,
		UserAgent: in.UserAgent,
		IPAddress: in.IPAddress,
		Referrer:  in.Referrer,
		SessionID: in.SessionID,
		Duration:  in.Duration,
		Timestamp: time.Now(),
	}
	if _, err := svc.DB.NewInsert().Model(view).Exec(ctx); err != nil {
		return nil, err
	}
	return view, nil
}

// Traffic groups page views of the last limit periods.
func (svc *BdshubService) Traffic(ctx context.Context, period string, limit int) ([]TrafficPoint, error) {
	p, ok := trafficPeriods[period]
	if !ok {
		return nil, fmt.Errorf("unknown period %q: %w", period, ErrInvalidArgument)
	}
	if limit <= 0 || limit > 365 {
		limit = 30
	}
	since := time.Now().Add(-time.Duration(limit) * p.bucket)
	points := []TrafficPoint{}
	err := svc.DB.NewSelect().Model((*models.PageView)(nil)).
		ColumnExpr("to_char(\"timestamp\", ?) AS period", p.format).
		ColumnExpr("count(*) AS views").
		ColumnExpr("count(DISTINCT session_id) AS unique_visitors").
		Where(`"timestamp" >= ?`, since).
		GroupExpr("period").
		OrderExpr("period ASC").
		Limit(limit).
		Scan(ctx, &points)
	return points, err
}

func (svc *BdshubService) PopularPages(ctx context.Context, days, limit int) ([]PopularPage, error) {
	if days <= 0 || days > 365 {
		days = 7
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	pages := []PopularPage{}
	err := svc.DB.NewSelect().Model((*models.PageView)(nil)).
		ColumnExpr("page_path").
		ColumnExpr("count(*) AS views").
		ColumnExpr("count(DISTINCT session_id) AS unique_visitors").
		Where(`"timestamp" >= ?`, time.Now().AddDate(0, 0, -days)).
		GroupExpr("page_path").
		OrderExpr("views DESC").
		Limit(limit).
		Scan(ctx, &pages)
	return pages, err
}
