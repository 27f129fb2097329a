package controllers

import (
	"net/http"

	"github.com/bdsvietnam/bdshub.go/lib/responses"
	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// MessageController : direct messages between members and admins
type MessageController struct {
	svc *service.BdshubService
}

func NewMessageController(svc *service.BdshubService) *MessageController {
	return &MessageController{svc: svc}
}

type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

func (controller *MessageController) Send(c echo.Context) error {
	var body service.MessageInput
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	ctx := c.Request().Context()
	from, err := controller.svc.FindUser(ctx, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	msg, err := controller.svc.SendMessage(ctx, from, &body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, msg)
}

func (controller *MessageController) List(c echo.Context) error {
	var filter service.MessageFilter
	if err := c.Bind(&filter); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	msgs, err := controller.svc.ListMessages(c.Request().Context(), currentUserID(c), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgs)
}

func (controller *MessageController) MarkRead(c echo.Context) error {
	if err := controller.svc.MarkMessageRead(c.Request().Context(), currentUserID(c), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Message marked as read"})
}

func (controller *MessageController) UnreadCount(c echo.Context) error {
	n, err := controller.svc.UnreadMessageCount(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &UnreadCountResponse{UnreadCount: n})
}
