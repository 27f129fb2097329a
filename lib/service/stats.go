package service

import (
	"context"
	"time"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type CityCount struct {
	City  string `json:"city" bun:"city"`
	Count int    `json:"count" bun:"count"`
}

type PublicStats struct {
	TotalProperties     int         `json:"total_properties"`
	PropertiesForSale   int         `json:"properties_for_sale"`
	PropertiesForRent   int         `json:"properties_for_rent"`
	TotalNewsArticles   int         `json:"total_news_articles"`
	TotalSims           int         `json:"total_sims"`
	TotalLands          int         `json:"total_lands"`
	TotalTickets        int         `json:"total_tickets"`
	OpenTickets         int         `json:"open_tickets"`
	ResolvedTickets     int         `json:"resolved_tickets"`
	TotalPageviews      int         `json:"total_pageviews"`
	TodayPageviews      int         `json:"today_pageviews"`
	TodayUniqueVisitors int         `json:"today_unique_visitors"`
	TopCities           []CityCount `json:"top_cities"`
}

type DashboardStats struct {
	TotalUsers          int             `json:"total_users"`
	ActiveUsers         int             `json:"active_users"`
	SuspendedUsers      int             `json:"suspended_users"`
	TodayUsers          int             `json:"today_users"`
	TotalProperties     int             `json:"total_properties"`
	PropertiesForSale   int             `json:"properties_for_sale"`
	PropertiesForRent   int             `json:"properties_for_rent"`
	TotalNewsArticles   int             `json:"total_news_articles"`
	TotalSims           int             `json:"total_sims"`
	TotalLands          int             `json:"total_lands"`
	TotalTickets        int             `json:"total_tickets"`
	PendingPosts        int             `json:"pending_posts"`
	PendingProperties   int             `json:"pending_properties"`
	PendingLands        int             `json:"pending_lands"`
	PendingSims         int             `json:"pending_sims"`
	PendingTransactions int             `json:"pending_transactions"`
	TotalTransactions   int             `json:"total_transactions"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	TodayTransactions   int             `json:"today_transactions"`
	TodayPosts          int             `json:"today_posts"`
	TotalPageviews      int             `json:"total_pageviews"`
	TodayPageviews      int             `json:"today_pageviews"`
	TodayUniqueVisitors int             `json:"today_unique_visitors"`
	TopCities           []CityCount     `json:"top_cities"`
}

// counter runs a list of count queries and stops at the first error.
type counter struct {
	ctx context.Context
	err error
}

func (c *counter) count(dst *int, q *bun.SelectQuery) {
	if c.err != nil {
		return
	}
	*dst, c.err = q.Count(c.ctx)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (svc *BdshubService) PublicStats(ctx context.Context) (*PublicStats, error) {
	today := startOfDay(time.Now())
	s := &PublicStats{}
	c := &counter{ctx: ctx}
	c.count(&s.TotalProperties, svc.DB.NewSelect().Model((*models.Property)(nil)))
	c.count(&s.PropertiesForSale, svc.DB.NewSelect().Model((*models.Property)(nil)).Where("status = ?", common.PropertyStatusForSale))
	c.count(&s.PropertiesForRent, svc.DB.NewSelect().Model((*models.Property)(nil)).Where("status = ?", common.PropertyStatusForRent))
	c.count(&s.TotalNewsArticles, svc.DB.NewSelect().Model((*models.NewsArticle)(nil)).Where("published = TRUE"))
	c.count(&s.TotalSims, svc.DB.NewSelect().Model((*models.Sim)(nil)))
	c.count(&s.TotalLands, svc.DB.NewSelect().Model((*models.Land)(nil)))
	c.count(&s.TotalTickets, svc.DB.NewSelect().Model((*models.Ticket)(nil)))
	c.count(&s.OpenTickets, svc.DB.NewSelect().Model((*models.Ticket)(nil)).Where("status = ?", common.TicketStatusOpen))
	c.count(&s.ResolvedTickets, svc.DB.NewSelect().Model((*models.Ticket)(nil)).Where("status = ?", "resolved"))
	c.count(&s.TotalPageviews, svc.DB.NewSelect().Model((*models.PageView)(nil)))
	c.count(&s.TodayPageviews, svc.DB.NewSelect().Model((*models.PageView)(nil)).Where(`"timestamp" >= ?`, today))
	if c.err != nil {
		return nil, c.err
	}
	var err error
	if s.TodayUniqueVisitors, err = svc.uniqueSessionsSince(ctx, today); err != nil {
		return nil, err
	}
	if s.TopCities, err = svc.topCities(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (svc *BdshubService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	today := startOfDay(time.Now())
	s := &DashboardStats{}
	c := &counter{ctx: ctx}
	members := func() *bun.SelectQuery {
		return svc.DB.NewSelect().Model((*models.User)(nil)).Where("role = ?", common.RoleMember)
	}
	pending := func() *bun.SelectQuery {
		return svc.DB.NewSelect().Model((*models.MemberPost)(nil)).Where("status = ?", common.PostStatusPending)
	}
	c.count(&s.TotalUsers, members())
	c.count(&s.ActiveUsers, members().Where("status = ?", common.UserStatusActive))
	c.count(&s.SuspendedUsers, members().Where("status = ?", common.UserStatusSuspended))
	c.count(&s.TodayUsers, svc.DB.NewSelect().Model((*models.User)(nil)).Where("created_at >= ?", today))
	c.count(&s.TotalProperties, svc.DB.NewSelect().Model((*models.Property)(nil)))
	c.count(&s.PropertiesForSale, svc.DB.NewSelect().Model((*models.Property)(nil)).Where("status = ?", common.PropertyStatusForSale))
	c.count(&s.PropertiesForRent, svc.DB.NewSelect().Model((*models.Property)(nil)).Where("status = ?", common.PropertyStatusForRent))
	c.count(&s.TotalNewsArticles, svc.DB.NewSelect().Model((*models.NewsArticle)(nil)).Where("published = TRUE"))
	c.count(&s.TotalSims, svc.DB.NewSelect().Model((*models.Sim)(nil)))
	c.count(&s.TotalLands, svc.DB.NewSelect().Model((*models.Land)(nil)))
	c.count(&s.TotalTickets, svc.DB.NewSelect().Model((*models.Ticket)(nil)))
	c.count(&s.PendingPosts, pending())
	c.count(&s.PendingProperties, pending().Where("post_type = ?", common.PostTypeProperty))
	c.count(&s.PendingLands, pending().Where("post_type = ?", common.PostTypeLand))
	c.count(&s.PendingSims, pending().Where("post_type = ?", common.PostTypeSim))
	c.count(&s.TodayPosts, svc.DB.NewSelect().Model((*models.MemberPost)(nil)).Where("created_at >= ?", today))
	c.count(&s.PendingTransactions, svc.DB.NewSelect().Model((*models.Transaction)(nil)).Where("status = ?", common.TransactionStatusPending))
	c.count(&s.TotalTransactions, svc.DB.NewSelect().Model((*models.Transaction)(nil)))
	c.count(&s.TodayTransactions, svc.DB.NewSelect().Model((*models.Transaction)(nil)).Where("created_at >= ?", today))
	c.count(&s.TotalPageviews, svc.DB.NewSelect().Model((*models.PageView)(nil)))
	c.count(&s.TodayPageviews, svc.DB.NewSelect().Model((*models.PageView)(nil)).Where(`"timestamp" >= ?`, today))
	if c.err != nil {
		return nil, c.err
	}

	var revenue decimal.NullDecimal
	err := svc.DB.NewSelect().Model((*models.Transaction)(nil)).
		ColumnExpr("sum(amount)").
		Where("transaction_type = ?", common.TransactionTypePostFee).
		Where("status = ?", common.TransactionStatusCompleted).
		Scan(ctx, &revenue)
	if err != nil {
		return nil, err
	}
	s.TotalRevenue = revenue.Decimal
	if s.TodayUniqueVisitors, err = svc.uniqueSessionsSince(ctx, today); err != nil {
		return nil, err
	}
	if s.TopCities, err = svc.topCities(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (svc *BdshubService) uniqueSessionsSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := svc.DB.NewSelect().Model((*models.PageView)(nil)).
		ColumnExpr("count(DISTINCT session_id)").
		Where(`"timestamp" >= ?`, since).
		Scan(ctx, &n)
	return n, err
}

func (svc *BdshubService) topCities(ctx context.Context) ([]CityCount, error) {
	cities := []CityCount{}
	err := svc.DB.NewSelect().Model((*models.Property)(nil)).
		ColumnExpr("city").
		ColumnExpr("count(*) AS count").
		GroupExpr("city").
		OrderExpr("count DESC").
		Limit(10).
		Scan(ctx, &cities)
	return cities, err
}
