package controllers

import (
	"net/http"

	"github.com/bdsvietnam/bdshub.go/lib/responses"
	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// TicketController : support tickets. Anyone can open one, only admins read them.
type TicketController struct {
	svc *service.BdshubService
}

func NewTicketController(svc *service.BdshubService) *TicketController {
	return &TicketController{svc: svc}
}

// Create godoc
// @Summary      Open a support ticket
// @Accept       json
// @Produce      json
// @Tags         Tickets
// @Param        ticket  body      service.TicketInput  true  "Ticket"
// @Success      201     {object}  models.Ticket
// @Failure      422     {object}  responses.ErrorResponse
// @Router       /tickets [post]
func (controller *TicketController) Create(c echo.Context) error {
	var body service.TicketInput
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	ticket, err := controller.svc.CreateTicket(c.Request().Context(), &body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, ticket)
}

func (controller *TicketController) List(c echo.Context) error {
	var filter service.TicketFilter
	if err := c.Bind(&filter); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	tickets, err := controller.svc.ListTickets(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tickets)
}

func (controller *TicketController) Get(c echo.Context) error {
	ticket, err := controller.svc.FindTicket(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ticket)
}

func (controller *TicketController) Update(c echo.Context) error {
	var body service.TicketPatch
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	ticket, err := controller.svc.UpdateTicket(c.Request().Context(), c.Param("id"), &body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ticket)
}

func (controller *TicketController) Delete(c echo.Context) error {
	if err := controller.svc.DeleteTicket(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Ticket deleted successfully"})
}
