package controller

import (
	"net/http"
	"procurement-marketplace-api/internal/entity"
	"procurement-marketplace-api/internal/service"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type opportunityRoutesHandler struct {
	opportunityService service.Opportunity
	validate           *validator.Validate
}

func newOpportunityRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *opportunityRoutesHandler {
	h := &opportunityRoutesHandler{opportunityService: services.Opportunity, validate: v}

	outer.GET("/opportunities", h.GetOpportunities)
	outer.POST("/opportunities/new", h.PostOpportunity)
	outer.GET("/opportunities/my", h.GetUserOpportunities)
	outer.GET("/opportunities/:opportunityId", h.GetOpportunity)
	outer.PATCH("/opportunities/:opportunityId/edit", h.EditOpportunity)
	outer.PUT("/opportunities/:opportunityId/status", h.UpdateOpportunityStatus)
	outer.GET("/opportunities/:opportunityId/history", h.GetOpportunityHistory)
	outer.PUT("/opportunities/:opportunityId/restore/:version", h.RestoreOpportunityVersion)
	outer.PUT("/opportunities/:opportunityId/subscription", h.Subscribe)
	outer.DELETE("/opportunities/:opportunityId/subscription", h.Unsubscribe)
	outer.POST("/opportunities/:opportunityId/addenda", h.PostAddendum)
	outer.PATCH("/opportunities/:opportunityId/addenda/:addendumId", h.EditAddendum)
	outer.POST("/files/new", h.PostFile)

	return h
}

func (h *opportunityRoutesHandler) opportunityError(c echo.Context, err error) error {
	switch err {
	case service.ErrOpportunityNotFound:
		return jsonError(c, http.StatusNotFound, "There is no opportunity with given id")
	case service.ErrAddendumNotFound:
		return jsonError(c, http.StatusNotFound, "There is no addendum with given id")
	case service.ErrUserNotFound:
		return jsonError(c, http.StatusUnauthorized, "There is no user with given username")
	case service.ErrUnauthorizedAnonymousAccess:
		return jsonError(c, http.StatusForbidden, "Try to pass username")
	case service.ErrUserHasNoAccessToOpportunity:
		return jsonError(c, http.StatusForbidden, "You have no enough rights to access this opportunity")
	case service.ErrUserNotPermitted:
		return jsonError(c, http.StatusForbidden, "Your role doesn't permit this action")
	case service.ErrNoNewChanges:
		return jsonError(c, http.StatusBadRequest, "Nothing to change")
	case service.ErrInvalidStatusTransition:
		return jsonError(c, http.StatusBadRequest, "Status transition is not allowed")
	case service.ErrOpportunityClosedForChanges:
		return jsonError(c, http.StatusBadRequest, "Opportunity is in a terminal status")
	case service.ErrNoSuchVersion:
		return jsonError(c, http.StatusBadRequest, "No such version")
	case service.ErrAlreadySubscribed:
		return jsonError(c, http.StatusBadRequest, "Already watching this opportunity")
	case service.ErrNotSubscribed:
		return jsonError(c, http.StatusBadRequest, "Not watching this opportunity")
	case service.ErrLinkedRecordMissing:
		return jsonError(c, http.StatusInternalServerError, "Opportunity references a missing linked record")
	default:
		return jsonError(c, http.StatusBadRequest, "Error")
	}
}

type getOpportunitiesInput struct {
	Limit    int32    `query:"limit" validate:"gte=0,lte=50"`
	Offset   int32    `query:"offset" validate:"gte=0"`
	Username string   `query:"username" validate:""`
	Statuses []string `query:"status" validate:"dive,oneof=Draft Published Evaluation Awarded Suspended Canceled"`
}

func newGetOpportunitiesInput() getOpportunitiesInput {
	return getOpportunitiesInput{Limit: defaultLimit, Offset: defaultOffset, Statuses: make([]string, 0)}
}

// /opportunities
func (h *opportunityRoutesHandler) GetOpportunities(c echo.Context) error {
	var input = newGetOpportunitiesInput()
	if err := c.Bind(&input); err != nil {
		return jsonError(c, http.StatusBadRequest, "Input data is not formed correctly")
	}

	if err := h.validate.Struct(input); err != nil {
		return jsonError(c, http.StatusBadRequest, getAllErrorMessages(err))
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	usernamePassed := input.Username != defaultUsername
	opportunities, err := h.opportunityService.GetOpportunities(c.Request().Context(), input.Username, usernamePassed, input.Statuses, pg)
	if err != nil {
		return h.opportunityError(c, err)
	}

	return c.JSON(http.StatusOK, opportunities)
}

type postOpportunityInput struct {
	Title              string   `json:"title" validate:"required,max=200"`
	Teaser             string   `json:"teaser" validate:"max=500"`
	Description        string   `json:"description" validate:"required,max=10000"`
	Location           string   `json:"location" validate:"max=200"`
	MaxBudget          float64  `json:"maxBudget" validate:"gte=0"`
	EvaluationCriteria string   `json:"evaluationCriteria" validate:"max=2000"`
	ProposalDeadline   string   `json:"proposalDeadline" validate:"required"`
	AssignmentDate     string   `json:"assignmentDate" validate:""`
	StartDate          string   `json:"startDate" validate:""`
	CompletionDate     string   `json:"completionDate" validate:""`
	AttachmentIds      []string `json:"attachmentIds" validate:"dive,uuid"`
	CreatorUsername    string   `json:"creatorUsername" validate:"required"`
}

// /opportunities/new
func (h *opportunityRoutesHandler) PostOpportunity(c echo.Context) error {
	var input postOpportunityInput
	if err := c.Bind(&input); err != nil {
		return jsonError(c, http.StatusBadRequest, "Input data is not formed correctly")
	}

	if err := h.validate.Struct(input); err != nil {
		return jsonError(c, http.StatusBadRequest, getAllErrorMessages(err))
	}

	dates, err := parseDates(input.ProposalDeadline, input.AssignmentDate, input.StartDate, input.CompletionDate)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Dates must be RFC3339 timestamps")
	}

	model := &entity.CreateOpportunityInput{
		Title: input.Title, Teaser: input.Teaser, Description: input.Description,
		Location: input.Location, MaxBudget: input.MaxBudget, EvaluationCriteria: input.EvaluationCriteria,
		ProposalDeadline: dates[0], AssignmentDate: dates[1], StartDate: dates[2], CompletionDate: dates[3],
		CreatorUsername: input.CreatorUsername, AttachmentIds: input.AttachmentIds,
	}

	opportunity, err := h.opportunityService.CreateOpportunity(c.Request().Context(), model)
	if err != nil {
		return h.opportunityError(c, err)
	}

	return c.JSON(http.StatusOK, opportunity)
}

type getUserOpportunitiesInput struct {
	Limit    int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset   int32  `query:"offset" validate:"gte=0"`
	Username string `query:"username" validate:"required"`
}

// /opportunities/my
func (h *opportunityRoutesHandler) GetUserOpportunities(c echo.Context) error {
	var input = getUserOpportunitiesInput{Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		return jsonError(c, http.StatusBadRequest, "Input data is not formed correctly")
	}

	if err := h.validate.Struct(input); err != nil {
		return jsonError(c, http.StatusBadRequest, getAllErrorMessages(err))
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	opportunities, err := h.opportunityService.GetUserOpportunities(c.Request().Context(), input.Username, pg)
	if err != nil {
		return h.opportunityError(c, err)
	}

	return c.JSON(http.StatusOK, opportunities)
}

type getOpportunityInput struct {
	OpportunityId string `param:"opportunityId" validate:"required,max=100"`
	Username      string `query:"username" validate:""`
}

// /opportunities/:opportunityId
func (h *opportunityRoutesHandler) GetOpportunity(c echo.Context) error {
	input := getOpportunityInput{OpportunityId: c.Param("opportunityId"), Username: c.QueryParam("username")}
	if err := h.validate.Struct(input); err != nil {
		return jsonError(c, http.StatusBadRequest, getAllErrorMessages(err))
	}

	usernamePassed := input.Username != defaultUsername
	opportunity, err := h.opportunityService.GetOpportunityById(c.Request().Context(), input.OpportunityId, input.Username, usernamePassed)
	if err != nil {
		return h.opportunityError(c, err)
	}

	return c.JSON(http.StatusOK, opportunity)
}

type editOpportunityInput struct {
	OpportunityId      string   `param:"opportunityId" validate:"required,max=100"`
	Username           string   `query:"username" validate:"required"`
	Title              string   `json:"title" validate:"max=200"`
	Teaser             string   `json:"teaser" validate:"max=500"`
	Description        string   `json:"description" validate:"max=10000"`
	Location           string   `json:"location" validate:"max=200"`
	MaxBudget          float64  `json:"maxBudget" validate:"gte=0"`
	EvaluationCriteria string   `json:"evaluationCriteria" validate:"max=2000"`
	ProposalDeadline   string   `json:"proposalDeadline" validate:""`
	AssignmentDate     string   `json:"assignmentDate" validate:""`
	StartDate          string   `json:"startDate" validate:""`
	CompletionDate     string   `json:"completionDate" validate:""`
	AttachmentIds      []string `json:"attachmentIds" validate:"dive,uuid"`
}

// /opportunities/:opportunityId/edit
func (h *opportunityRoutesHandler) EditOpportunity(c echo.Context) error {
	var input editOpportunityInput
	if err := c.Bind(&input); err != nil {
		return jsonError(c, http.StatusBadRequest, "Input data is not formed correctly")
	}

	input.OpportunityId, input.Username = c.Param("opportunityId"), c.QueryParam("username")
	if err := h.validate.Struct(input); err != nil {
		return jsonError(c, http.StatusBadRequest, getAllErrorMessages(err))
	}

	dates, err := parseDates(input.ProposalDeadline, input.AssignmentDate, input.StartDate, input.CompletionDate)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Dates must be RFC3339 timestamps")
	}

	model := &entity.EditOpportunityInput{
		Title: input.Title, Teaser: input.Teaser, Description: input.Description,
		Location: input.Location, MaxBudget: input.MaxBudget, EvaluationCriteria: input.EvaluationCriteria,
		ProposalDeadline: dates[0], AssignmentDate: dates[1], StartDate: dates[2], CompletionDate: dates[3],
		AttachmentIds: input.AttachmentIds,
	}

	opportunity, err := h.opportunityService.EditOpportunityById(c.Request().Context(), input.OpportunityId, input.Username, model)
	if err != nil {
		return h.opportunityError(c, err)
	}

	return c.JSON(http.StatusOK, opportunity)
}

type updateOpportunityStatusInput struct {
	OpportunityId string `param:"opportunityId" validate:"required,max=100"`
	Username      string `query:"username" validate:"required"`
	Status        string `query:"status" validate:"required,oneof=Draft Published Evaluation Awarded Suspended Canceled"`
	Note          string `query:"note" validate:"max=500"`
}

// /opportunities/:opportunityId/status
func (h *opportunityRoutesHandler) UpdateOpportunityStatus(c echo.Context) error {
	input := updateOpportunityStatusInput{
		OpportunityId: c.Param("opportunityId"),
		Username:      c.QueryParam("username"),
		Status:        c.QueryParam("status"),
		Note:          c.QueryParam("note"),
	}
	if err := h.validate.Struct(input); err != nil {
		return jsonError(c, http.StatusBadRequest, getAllErrorMessages(err))
	}

	opportunity, err := h.opportunityService.UpdateOpportunityStatusById(c.Request().Context(), input.OpportunityId, input.Status, input.Note, input.Username)
	if err != nil {
		return h.opportunityError(c, err)
	}

	return c.JSON(http.StatusOK, opportunity)
}

type getOpportunityHistoryInput struct {
	OpportunityId string `param:"opportunityId" validate:"required,max=100"`
	Username      string `query:"username" validate:"required"`
}

// /opportunities/:opportunityId/history
func (h *opportunityRoutesHandler) GetOpportunityHistory(c echo.Context) error {
	input := getOpportunityHistoryInput{OpportunityId: c.Param("opportunityId"), Username: c.QueryParam("username")}
	if err := h.validate.Struct(input); err != nil {
		return jsonError(c, http.StatusBadRequest, getAllErrorMessages(err))
	}

	history, err := h.opportunityService.GetOpportunityHistory(c.Request().Context(), input.OpportunityId, input.Username)
	if err != nil {
		return h.opportunityError(c, err)
	}

	return c.JSON(http.StatusOK, history)
}

type restoreOpportunityVersionInput struct {
	OpportunityId string `param:"opportunityId" validate:"required,max=100"`
	Version       int    `param:"version" validate:"required,min=1"`
	Username      string `query:"username" validate:"required"`
}

// /opportunities/:opportunityId/restore/:version
func (h *opportunityRoutesHandler) RestoreOpportunityVersion(c echo.Context) error {
	v, _ := strconv.Atoi(c.Param("version"))
	input := restoreOpportunityVersionInput{
		OpportunityId: c.Param("opportunityId"),
		Version:       v,
		Username:      c.QueryParam("username"),
	}
	if err := h.validate.Struct(input); err != nil {
		return jsonError(c, http.StatusBadRequest, getAllErrorMessages(err))
	}

	opportunity, err := h.opportunityService.RestoreOpportunityVersion(c.Request().Context(), input.OpportunityId, input.Version, input.Username)
	if err != nil {
		return h.opportunityError(c, err)
	}

	return c.JSON(http.StatusOK, opportunity)
}

type subscriptionInput struct {
	OpportunityId string `param:"opportunityId" validate:"required,max=100"`
	Username      string `query:"username" validate:"required"`
}

// /opportunities/:opportunityId/subscription
func (h *opportunityRoutesHandler) Subscribe(c echo.Context) error {
	input := subscriptionInput{OpportunityId: c.Param("opportunityId"), Username: c.QueryParam("username")}
	if err := h.validate.Struct(input); err != nil {
		return jsonError(c, http.StatusBadRequest, getAllErrorMessages(err))
	}

	if err := h.opportunityService.Subscribe(c.Request().Context(), input.OpportunityId, input.Username); err != nil {
		return h.opportunityError(c, err)
	}

	return c.NoContent(http.StatusOK)
}

// /opportunities/:opportunityId/subscription
func (h *opportunityRoutesHandler) Unsubscribe(c echo.Context) error {
	input := subscriptionInput{OpportunityId: c.Param("opportunityId"), Username: c.QueryParam("username")}
	if err := h.validate.Struct(input); err != nil {
		return jsonError(c, http.StatusBadRequest, getAllErrorMessages(err))
	}

	if err := h.opportunityService.Unsubscribe(c.Request().Context(), input.OpportunityId, input.Username); err != nil {
		return h.opportunityError(c, err)
	}

	return c.NoContent(http.StatusOK)
}

type postAddendumInput struct {
	OpportunityId string `param:"opportunityId" validate:"required,max=100"`
	Username      string `query:"username" validate:"required"`
	Description   string `json:"description" validate:"required,max=5000"`
}

// /opportunities/:opportunityId/addenda
func (h *opportunityRoutesHandler) PostAddendum(c echo.Context) error {
	var input postAddendumInput
	if err := c.Bind(&input); err != nil {
		return jsonError(c, http.StatusBadRequest, "Input data is not formed correctly")
	}

	input.OpportunityId, input.Username = c.Param("opportunityId"), c.QueryParam("username")
	if err := h.validate.Struct(input); err != nil {
		return jsonError(c, http.StatusBadRequest, getAllErrorMessages(err))
	}

	addendum, err := h.opportunityService.AddAddendum(c.Request().Context(), input.OpportunityId, input.Username, input.Description)
	if err != nil {
		return h.opportunityError(c, err)
	}

	return c.JSON(http.StatusOK, addendum)
}

type editAddendumInput struct {
	OpportunityId string `param:"opportunityId" validate:"required,max=100"`
	AddendumId    string `param:"addendumId" validate:"required,max=100"`
	Username      string `query:"username" validate:"required"`
	Description   string `json:"description" validate:"required,max=5000"`
}

// /opportunities/:opportunityId/addenda/:addendumId
func (h *opportunityRoutesHandler) EditAddendum(c echo.Context) error {
	var input editAddendumInput
	if err := c.Bind(&input); err != nil {
		return jsonError(c, http.StatusBadRequest, "Input data is not formed correctly")
	}

	input.OpportunityId, input.AddendumId, input.Username = c.Param("opportunityId"), c.Param("addendumId"), c.QueryParam("username")
	if err := h.validate.Struct(input); err != nil {
		return jsonError(c, http.StatusBadRequest, getAllErrorMessages(err))
	}

	addendum, err := h.opportunityService.EditAddendumById(c.Request().Context(), input.OpportunityId, input.AddendumId, input.Username, input.Description)
	if err != nil {
		return h.opportunityError(c, err)
	}

	return c.JSON(http.StatusOK, addendum)
}

type postFileInput struct {
	Username    string `query:"username" validate:"required"`
	Name        string `json:"name" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=255"`
	SizeBytes   int64  `json:"sizeBytes" validate:"gte=0"`
}

// /files/new
func (h *opportunityRoutesHandler) PostFile(c echo.Context) error {
	var input postFileInput
	if err := c.Bind(&input); err != nil {
		return jsonError(c, http.StatusBadRequest, "Input data is not formed correctly")
	}

	input.Username = c.QueryParam("username")
	if err := h.validate.Struct(input); err != nil {
		return jsonError(c, http.StatusBadRequest, getAllErrorMessages(err))
	}

	model := &entity.CreateFileInput{Name: input.Name, ContentType: input.ContentType, SizeBytes: input.SizeBytes}
	file, err := h.opportunityService.RegisterFile(c.Request().Context(), input.Username, model)
	if err != nil {
		return h.opportunityError(c, err)
	}

	return c.JSON(http.StatusOK, file)
}

func parseDates(values ...string) ([]time.Time, error) {
	dates := make([]time.Time, 0, len(values))
	for _, value := range values {
		date, err := parseDate(value)
		if err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}

	return dates, nil
}
