package controller

import (
	"net/http"
	"procurement-marketplace-api/internal/entity"
	"procurement-marketplace-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type proposalRoutesHandler struct {
	proposalService service.Proposal
	validate        *validator.Validate
}

func newProposalRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *proposalRoutesHandler {
	h := &proposalRoutesHandler{proposalService: services.Proposal, validate: v}

	outer.POST("/proposals/new", h.PostProposal)
	outer.GET("/proposals/my", h.GetUserProposals)
	outer.PATCH("/proposals/:proposalId/edit", h.EditProposal)
	outer.PUT("/proposals/:proposalId/status", h.UpdateProposalStatus)
	outer.GET("/opportunities/:opportunityId/proposals", h.GetOpportunityProposals)

	return h
}

func (h *proposalRoutesHandler) proposalError(c echo.Context, err error) error {
	switch err {
	case service.ErrProposalNotFound:
		return jsonError(c, http.StatusNotFound, "There is no proposal with given id")
	case service.ErrOpportunityNotFound:
		return jsonError(c, http.StatusNotFound, "There is no opportunity with given id")
	case service.ErrUserNotFound:
		return jsonError(c, http.StatusUnauthorized, "There is no user with given username")
	case service.ErrUserHasNoAccessToProposal:
		return jsonError(c, http.StatusForbidden, "You have no enough rights to access this proposal")
	case service.ErrUserHasNoAccessToOpportunity:
		return jsonError(c, http.StatusForbidden, "You have no enough rights to access this opportunity")
	case service.ErrUserNotPermitted:
		return jsonError(c, http.StatusForbidden, "Your role doesn't permit this action")
	case service.ErrNotAcceptingProposals:
		return jsonError(c, http.StatusBadRequest, "Opportunity is not accepting proposals")
	case service.ErrProposalNotEditable:
		return jsonError(c, http.StatusBadRequest, "Proposal can only be edited while in draft")
	case service.ErrInvalidStatusTransition:
		return jsonError(c, http.StatusBadRequest, "Status transition is not allowed")
	case service.ErrNoNewChanges:
		return jsonError(c, http.StatusBadRequest, "Nothing to change")
	default:
		return jsonError(c, http.StatusBadRequest, "Error")
	}
}

type postProposalInput struct {
	OpportunityId  string  `json:"opportunityId" validate:"required,max=100"`
	Summary        string  `json:"summary" validate:"required,max=5000"`
	ProposedCost   float64 `json:"proposedCost" validate:"gte=0"`
	AuthorUsername string  `json:"authorUsername" validate:"required"`
}

// /proposals/new
func (h *proposalRoutesHandler) PostProposal(c echo.Context) error {
	var input postProposalInput
	if err := c.Bind(&input); err != nil {
		return jsonError(c, http.StatusBadRequest, "Input data is not formed correctly")
	}

	if err := h.validate.Struct(input); err != nil {
		return jsonError(c, http.StatusBadRequest, getAllErrorMessages(err))
	}

	model := &entity.CreateProposalInput{
		OpportunityId:  input.OpportunityId,
		Summary:        input.Summary,
		ProposedCost:   input.ProposedCost,
		AuthorUsername: input.AuthorUsername,
	}

	proposal, err := h.proposalService.CreateProposal(c.Request().Context(), model)
	if err != nil {
		return h.proposalError(c, err)
	}

	return c.JSON(http.StatusOK, proposal)
}

type getUserProposalsInput struct {
	Limit    int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset   int32  `query:"offset" validate:"gte=0"`
	Username string `query:"username" validate:"required"`
}

// /proposals/my
func (h *proposalRoutesHandler) GetUserProposals(c echo.Context) error {
	var input = getUserProposalsInput{Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		return jsonError(c, http.StatusBadRequest, "Input data is not formed correctly")
	}

	if err := h.validate.Struct(input); err != nil {
		return jsonError(c, http.StatusBadRequest, getAllErrorMessages(err))
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	proposals, err := h.proposalService.GetUserProposals(c.Request().Context(), input.Username, pg)
	if err != nil {
		return h.proposalError(c, err)
	}

	return c.JSON(http.StatusOK, proposals)
}

type editProposalInput struct {
	ProposalId   string  `param:"proposalId" validate:"required,max=100"`
	Username     string  `query:"username" validate:"required"`
	Summary      string  `json:"summary" validate:"max=5000"`
	ProposedCost float64 `json:"proposedCost" validate:"gte=0"`
}

// /proposals/:proposalId/edit
func (h *proposalRoutesHandler) EditProposal(c echo.Context) error {
	var input editProposalInput
	if err := c.Bind(&input); err != nil {
		return jsonError(c, http.StatusBadRequest, "Input data is not formed correctly")
	}

	input.ProposalId, input.Username = c.Param("proposalId"), c.QueryParam("username")
	if err := h.validate.Struct(input); err != nil {
		return jsonError(c, http.StatusBadRequest, getAllErrorMessages(err))
	}

	proposal, err := h.proposalService.EditProposalById(c.Request().Context(), input.ProposalId, input.Username, input.Summary, input.ProposedCost)
	if err != nil {
		return h.proposalError(c, err)
	}

	return c.JSON(http.StatusOK, proposal)
}

type updateProposalStatusInput struct {
	ProposalId string `param:"proposalId" validate:"required,max=100"`
	Username   string `query:"username" validate:"required"`
	Status     string `query:"status" validate:"required,oneof=Submitted Withdrawn UnderReview Awarded NotAwarded"`
}

// /proposals/:proposalId/status
func (h *proposalRoutesHandler) UpdateProposalStatus(c echo.Context) error {
	input := updateProposalStatusInput{
		ProposalId: c.Param("proposalId"),
		Username:   c.QueryParam("username"),
		Status:     c.QueryParam("status"),
	}
	if err := h.validate.Struct(input); err != nil {
		return jsonError(c, http.StatusBadRequest, getAllErrorMessages(err))
	}

	proposal, err := h.proposalService.UpdateProposalStatusById(c.Request().Context(), input.ProposalId, input.Status, input.Username)
	if err != nil {
		return h.proposalError(c, err)
	}

	return c.JSON(http.StatusOK, proposal)
}

type getOpportunityProposalsInput struct {
	OpportunityId string `param:"opportunityId" validate:"required,max=100"`
	Username      string `query:"username" validate:"required"`
	Limit         int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset        int32  `query:"offset" validate:"gte=0"`
}

// /opportunities/:opportunityId/proposals
func (h *proposalRoutesHandler) GetOpportunityProposals(c echo.Context) error {
	var input = getOpportunityProposalsInput{Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		return jsonError(c, http.StatusBadRequest, "Input data is not formed correctly")
	}

	input.OpportunityId, input.Username = c.Param("opportunityId"), c.QueryParam("username")
	if err := h.validate.Struct(input); err != nil {
		return jsonError(c, http.StatusBadRequest, getAllErrorMessages(err))
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	proposals, err := h.proposalService.GetProposalsForOpportunity(c.Request().Context(), input.OpportunityId, input.Username, pg)
	if err != nil {
		return h.proposalError(c, err)
	}

	return c.JSON(http.StatusOK, proposals)
}
