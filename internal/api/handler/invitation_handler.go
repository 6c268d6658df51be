package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bizsuite/identity-service/internal/core/domain"
	"github.com/bizsuite/identity-service/internal/core/ports"
)

// InvitationHandler exposes invitation creation and redemption.
type InvitationHandler struct {
	service ports.InvitationService
}

func NewInvitationHandler(service ports.InvitationService) *InvitationHandler {
	return &InvitationHandler{service: service}
}

// Invite issues a single-use invitation into the company in the URL.
//
// @Summary      Invite a user to a company
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "Company id"
// @Param        body  body      inviteRequest  true  "Invitee"
// @Success      201   {object}  invitationResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /companies/{id}/invitations [post]
func (h *InvitationHandler) Invite(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req inviteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	inv, err := h.service.Invite(c.Request().Context(), identity, c.Param("id"), req.Email, domain.Role(req.Role))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, invitationResponse{
		ID:        inv.ID,
		Email:     inv.Email,
		CompanyID: inv.CompanyID,
		Role:      string(inv.Role),
		Token:     inv.Token,
		ExpiresAt: inv.ExpiresAt,
	})
}

// Accept redeems an invitation token, creating the user when the invited
// email is new.
//
// @Summary      Accept an invitation
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        body  body      acceptInvitationRequest  true  "Invitation token"
// @Success      200   {object}  membershipResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/invitations/accept [post]
func (h *InvitationHandler) Accept(c echo.Context) error {
	var req acceptInvitationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	membership, err := h.service.Accept(c.Request().Context(), ports.AcceptInvitationInput{
		Token:    req.Token,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, membershipResponse{
		CompanyID: membership.CompanyID,
		Role:      string(membership.Role),
		Primary:   membership.Primary,
	})
}
