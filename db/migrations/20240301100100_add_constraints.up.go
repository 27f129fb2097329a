package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {

		if db.Dialect().Name().String() != "pg" {
			fmt.Printf("\033[1;31m%s\033[0m", "You are not using PostgreSQL. DB level checks can not be enabled!\n")
			return nil
		}
		sql := `
			-- a wallet can never go below zero, whatever code path touches it
				alter table users
				ADD CONSTRAINT check_wallet_balance_not_negative
				CHECK (wallet_balance >= 0);

			-- ledger amounts are magnitudes, the type carries the sign
				alter table transactions
				ADD CONSTRAINT check_transaction_amount_positive
				CHECK (amount > 0);

				alter table transactions
				ADD CONSTRAINT check_transaction_type
				CHECK (transaction_type IN ('deposit', 'withdraw', 'post_fee', 'refund'));

				alter table transactions
				ADD CONSTRAINT check_transaction_status
				CHECK (status IN ('pending', 'completed', 'failed', 'cancelled'));

				alter table member_posts
				ADD CONSTRAINT check_member_post_status
				CHECK (status IN ('pending', 'approved', 'rejected', 'expired'));

				alter table member_posts
				ADD CONSTRAINT check_member_post_price_not_negative
				CHECK (price >= 0);

				alter table properties
				ADD CONSTRAINT check_property_price_not_negative
				CHECK (price >= 0);

				alter table lands
				ADD CONSTRAINT check_land_price_not_negative
				CHECK (price >= 0);

				alter table sims
				ADD CONSTRAINT check_sim_price_not_negative
				CHECK (price >= 0);

				CREATE INDEX IF NOT EXISTS index_transactions_on_user_id ON transactions(user_id, created_at DESC);
				CREATE INDEX IF NOT EXISTS index_transactions_on_status ON transactions(status, transaction_type);
				CREATE INDEX IF NOT EXISTS index_member_posts_on_author_id ON member_posts(author_id, created_at DESC);
				CREATE INDEX IF NOT EXISTS index_member_posts_on_status ON member_posts(status, post_type);
				CREATE INDEX IF NOT EXISTS index_properties_on_city ON properties(city);
				CREATE INDEX IF NOT EXISTS index_lands_on_city ON lands(city);
				CREATE INDEX IF NOT EXISTS index_news_articles_on_slug ON news_articles(slug);
				CREATE INDEX IF NOT EXISTS index_page_views_on_timestamp ON page_views(timestamp);
				CREATE INDEX IF NOT EXISTS index_messages_on_to_user_id ON messages(to_user_id, read);
		`
		if _, err := db.Exec(sql); err != nil {
			return err
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		sql := `
			alter table users drop constraint check_wallet_balance_not_negative;
			alter table transactions drop constraint check_transaction_amount_positive;
			alter table transactions drop constraint check_transaction_type;
			alter table transactions drop constraint check_transaction_status;
			alter table member_posts drop constraint check_member_post_status;
			alter table member_posts drop constraint check_member_post_price_not_negative;
			alter table properties drop constraint check_property_price_not_negative;
			alter table lands drop constraint check_land_price_not_negative;
			alter table sims drop constraint check_sim_price_not_negative;
		`
		if _, err := db.Exec(sql); err != nil {
			return err
		}
		return nil
	})
}
