package service

import (
	"context"
	"time"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/db/models"
)

func (svc *BdshubService) StartPostExpiryRoutine(ctx context.Context) {
	if svc.Config.PostExpiryInterval <= 0 {
		svc.Logger.Info("Post expiry routine disabled")
		return
	}
	svc.Logger.Infof("Starting post expiry routine, interval %s", svc.Config.PostExpiryInterval)
	ticker := time.NewTicker(svc.Config.PostExpiryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			svc.Logger.Info("Context canceled. Stopping post expiry routine.")
			return
		case <-ticker.C:
			expired, err := svc.ExpirePosts(ctx)
			if err != nil {
				svc.Logger.Errorf("Error expiring posts: %v", err)
				continue
			}
			if len(expired) > 0 {
				svc.Logger.Infof("Expired %d posts", len(expired))
			}
		}
	}
}

// ExpirePosts moves approved drafts past their expiry date to expired.
func (svc *BdshubService) ExpirePosts(ctx context.Context) ([]models.MemberPost, error) {
	posts := []models.MemberPost{}
	now := time.Now()
	_, err := svc.DB.NewUpdate().Model((*models.MemberPost)(nil)).
		Set("status = ?", common.PostStatusExpired).
		Set("updated_at = ?", now).
		Where("status = ?", common.PostStatusApproved).
		Where("expires_at IS NOT NULL").
		Where("expires_at < ?", now).
		Returning("*").
		Exec(ctx, &posts)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		svc.publishEvent(Event{Type: common.EventPostExpired, UserID: posts[i].AuthorID, Post: &posts[i]})
	}
	return posts, nil
}
