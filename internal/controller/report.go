package controller

import (
	"net/http"
	"procurement-marketplace-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type reportRoutesHandler struct {
	reportService service.Report
	validate      *validator.Validate
}

func newReportRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *reportRoutesHandler {
	h := &reportRoutesHandler{reportService: services.Report, validate: v}

	outer.GET("/reports/opportunities", h.GetOpportunityReport)

	return h
}

type getReportInput struct {
	Username string `query:"username" validate:"required"`
}

// /reports/opportunities
func (h *reportRoutesHandler) GetOpportunityReport(c echo.Context) error {
	input := getReportInput{Username: c.QueryParam("username")}
	if err := h.validate.Struct(input); err != nil {
		return jsonError(c, http.StatusBadRequest, getAllErrorMessages(err))
	}

	report, err := h.reportService.GetOpportunityReport(c.Request().Context(), input.Username)
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			return jsonError(c, http.StatusUnauthorized, "There is no user with given username")
		case service.ErrUserNotPermitted:
			return jsonError(c, http.StatusForbidden, "Only admins can request reports")
		default:
			return jsonError(c, http.StatusBadRequest, "Error")
		}
	}

	return c.JSON(http.StatusOK, report)
}
