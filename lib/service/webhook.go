package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/bdsvietnam/bdshub.go/common"
)

func (svc *BdshubService) StartWebhookSubscription(ctx context.Context, url string) {

	svc.Logger.Infof("Starting webhook subscription with webhook url %s", url)
	events := make(chan Event, 100)
	subId, err := svc.EventPubSub.Subscribe(common.TopicAllEvents, events)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	defer svc.EventPubSub.Unsubscribe(subId, common.TopicAllEvents)

	client := &http.Client{Timeout: 10 * time.Second}
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-events:
			svc.postToWebhook(ctx, client, url, event)
		}
	}
}

func (svc *BdshubService) postToWebhook(ctx context.Context, client *http.Client, url string, event Event) {

	payload := new(bytes.Buffer)
	err := json.NewEncoder(payload).Encode(event)
	if err != nil {
		svc.Logger.Error(err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, payload)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			svc.Logger.Error(err)
		}
		svc.Logger.Errorf("Webhook status code was %d, body: %s", resp.StatusCode, msg)
	}
}
