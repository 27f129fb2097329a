package controllers

import (
	"net/http"
	"time"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/lib/responses"
	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/bdsvietnam/bdshub.go/lib/tokens"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type EventStreamController struct {
	svc *service.BdshubService
}

type StreamMessage struct {
	Type  string         `json:"type"`
	Event *service.Event `json:"event,omitempty"`
}

func NewEventStreamController(svc *service.BdshubService) *EventStreamController {
	return &EventStreamController{svc: svc}
}

// StreamEvents pushes the wallet and post events of the user over a websocket.
// Browsers cannot set headers on websockets so the token is a query param.
func (controller *EventStreamController) StreamEvents(c echo.Context) error {
	claims, err := tokens.ParseToken(controller.svc.Config.JWTSecret, c.QueryParam("token"), false)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}
	user, err := controller.svc.FindUser(c.Request().Context(), claims.ID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}
	if user.Status == common.UserStatusSuspended {
		return c.JSON(http.StatusUnauthorized, responses.AccountSuspendedError)
	}
	userID := user.ID
	events := make(chan service.Event, 10)
	subId, err := controller.svc.EventPubSub.Subscribe(userID, events)
	if err != nil {
		return err
	}
	upgrader := websocket.Upgrader{}
	upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		controller.svc.EventPubSub.Unsubscribe(subId, userID)
		return err
	}
	defer ws.Close()
	defer controller.svc.EventPubSub.Unsubscribe(subId, userID)

	//start listening for close messages
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	//start with keepalive message
	if err = ws.WriteJSON(&StreamMessage{Type: "keepalive"}); err != nil {
		controller.svc.Logger.Error(err)
		return nil
	}
	for {
		select {
		case <-done:
			return nil
		case <-ticker.C:
			if err := ws.WriteJSON(&StreamMessage{Type: "keepalive"}); err != nil {
				controller.svc.Logger.Error(err)
				return nil
			}
		case event := <-events:
			if err := ws.WriteJSON(&StreamMessage{Type: event.Type, Event: &event}); err != nil {
				controller.svc.Logger.Error(err)
				return nil
			}
		}
	}
}
