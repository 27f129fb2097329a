package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/uptrace/bun"
)

type NewsInput struct {
	Title         string   `json:"title" validate:"required"`
	Slug          string   `json:"slug"`
	Content       string   `json:"content" validate:"required"`
	Excerpt       string   `json:"excerpt"`
	FeaturedImage string   `json:"featured_image"`
	Category      string   `json:"category" validate:"required"`
	Tags          []string `json:"tags"`
	Published     *bool    `json:"published"`
	Author        string   `json:"author" validate:"required"`
}

type NewsPatch struct {
	Title         *string  `json:"title"`
	Slug          *string  `json:"slug"`
	Content       *string  `json:"content"`
	Excerpt       *string  `json:"excerpt"`
	FeaturedImage *string  `json:"featured_image"`
	Category      *string  `json:"category"`
	Tags          []string `json:"tags"`
	Published     *bool    `json:"published"`
	Author        *string  `json:"author"`
}

type NewsFilter struct {
	Page
	Category  string
	Published *bool
}

func (svc *BdshubService) CreateNews(ctx context.Context, in *NewsInput) (*models.NewsArticle, error) {
	if in.FeaturedImage != "" {
		if err := CheckInlineImages([]string{in.FeaturedImage}); err != nil {
			return nil, err
		}
	}
	article := &models.NewsArticle{
		ID:            newID(),
		Title:         in.Title,
		Slug:          in.Slug,
		Content:       in.Content,
		Excerpt:       in.Excerpt,
		FeaturedImage: in.FeaturedImage,
		Category:      in.Category,
		Tags:          nonNil(in.Tags),
		Published:     true,
		Author:        in.Author,
	}
	if in.Published != nil {
		article.Published = *in.Published
	}
	fillNewsDefaults(article)
	if _, err := svc.DB.NewInsert().Model(article).Returning("*").Exec(ctx); err != nil {
		return nil, err
	}
	return article, nil
}

func (svc *BdshubService) UpdateNews(ctx context.Context, id string, patch *NewsPatch) (*models.NewsArticle, error) {
	if patch.FeaturedImage != nil && *patch.FeaturedImage != "" {
		if err := CheckInlineImages([]string{*patch.FeaturedImage}); err != nil {
			return nil, err
		}
	}
	article := &models.NewsArticle{}
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(article).Where("id = ?", id).For("UPDATE").Scan(ctx); err != nil {
			return notFound(err)
		}
		if patch.Title != nil && patch.Slug == nil {
			// a new title gets a new slug unless one is given
			article.Slug = ""
		}
		setString(&article.Title, patch.Title)
		setString(&article.Slug, patch.Slug)
		setString(&article.Content, patch.Content)
		setString(&article.Excerpt, patch.Excerpt)
		setString(&article.FeaturedImage, patch.FeaturedImage)
		setString(&article.Category, patch.Category)
		if patch.Tags != nil {
			article.Tags = patch.Tags
		}
		if patch.Published != nil {
			article.Published = *patch.Published
		}
		setString(&article.Author, patch.Author)
		fillNewsDefaults(article)
		_, err := tx.NewUpdate().Model(article).
			ExcludeColumn("id", "views", "created_at").
			WherePK().
			Returning("*").
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return article, nil
}

func (svc *BdshubService) DeleteNews(ctx context.Context, id string) error {
	return svc.deleteByID(ctx, (*models.NewsArticle)(nil), id)
}

// GetNews looks the article up by id and falls back to the slug.
func (svc *BdshubService) GetNews(ctx context.Context, idOrSlug string) (*models.NewsArticle, error) {
	article := &models.NewsArticle{}
	err := svc.incrementViews(ctx, article, "id = ?", idOrSlug)
	if errors.Is(err, ErrNotFound) {
		err = svc.incrementViews(ctx, article, "id = (SELECT id FROM news_articles WHERE slug = ? ORDER BY created_at DESC LIMIT 1)", idOrSlug)
	}
	if err != nil {
		return nil, err
	}
	return article, nil
}

// ListNews shows published articles unless Published is set to false.
func (svc *BdshubService) ListNews(ctx context.Context, filter NewsFilter) ([]models.NewsArticle, error) {
	page := filter.Page.Normalize(common.DefaultPageLimit, common.MaxPageLimit)
	published := true
	if filter.Published != nil {
		published = *filter.Published
	}
	articles := []models.NewsArticle{}
	q := svc.DB.NewSelect().Model(&articles).Where("published = ?", published)
	if filter.Category != "" {
		q.Where("category = ?", filter.Category)
	}
	err := q.OrderExpr("created_at DESC").
		Offset(page.Skip).
		Limit(page.Limit).
		Scan(ctx)
	return articles, err
}

func fillNewsDefaults(article *models.NewsArticle) {
	if article.Slug == "" {
		article.Slug = Slugify(article.Title)
	}
	if article.Excerpt == "" {
		article.Excerpt = Excerpt(article.Content)
	}
	if article.Tags == nil {
		article.Tags = []string{}
	}
}
