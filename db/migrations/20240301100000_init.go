package migrations

import (
	"context"

	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/uptrace/bun"
)

/* Since this init will reflect the latest model fields when run on a fresh db
make sure that when you add/remove columns in subsequent migrations IfNotExists/IfExists is used
otherwise it's going to result in errors.
*/
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		tables := []interface{}{
			(*models.User)(nil),
			(*models.Transaction)(nil),
			(*models.MemberPost)(nil),
			(*models.Property)(nil),
			(*models.Land)(nil),
			(*models.Sim)(nil),
			(*models.NewsArticle)(nil),
			(*models.Ticket)(nil),
			(*models.Message)(nil),
			(*models.PageView)(nil),
			(*models.SiteSettings)(nil),
		}
		for _, model := range tables {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	}, nil)
}
