package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"acharwala/internal/delivery/http/response"
	"acharwala/internal/domain/entity"
	"acharwala/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// DidiHandlerParams holds dependencies for DidiHandler, injected by Fx.
type DidiHandlerParams struct {
	fx.In

	DidiUC usecase.DidiUsecase
	Logger *slog.Logger
}

// DidiHandler holds dependencies for SHG Didi onboarding handlers.
type DidiHandler struct {
	didiUC usecase.DidiUsecase
	logger *slog.Logger
}

// NewDidiHandler is the constructor for DidiHandler.
func NewDidiHandler(params DidiHandlerParams) *DidiHandler {
	return &DidiHandler{
		didiUC: params.DidiUC,
		logger: params.Logger,
	}
}

// RejectRequest carries the reason an application was declined.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// Apply submits an onboarding application. The body is a multipart
// form so the Aadhaar card scan can ride along with the fields.
func (h *DidiHandler) Apply(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	input := usecase.ApplyDidiInput{
		AadhaarNumber:     c.FormValue("aadhaar_number"),
		BankAccountNumber: c.FormValue("bank_account_number"),
		BankIFSC:          c.FormValue("bank_ifsc"),
		BankName:          c.FormValue("bank_name"),
		AccountHolderName: c.FormValue("account_holder_name"),
		Location:          c.FormValue("location"),
	}
	if lat := c.FormValue("latitude"); lat != "" {
		input.Latitude, err = strconv.ParseFloat(lat, 64)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid latitude")
		}
	}
	if lng := c.FormValue("longitude"); lng != "" {
		input.Longitude, err = strconv.ParseFloat(lng, 64)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid longitude")
		}
	}

	if fileHeader, err := c.FormFile("aadhaar_image"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Unreadable Aadhaar image")
		}
		defer file.Close()

		input.AadhaarImage = &usecase.UploadFileInput{
			FileName:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Content:     file,
		}
	}

	profile, err := h.didiUC.Apply(c.Request().Context(), principal.UserID, input)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, profile, "Application submitted successfully")
}

// GetMyProfile retrieves the acting user's producer profile.
func (h *DidiHandler) GetMyProfile(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	profile, err := h.didiUC.GetMyProfile(c.Request().Context(), principal.UserID)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, profile, "Profile retrieved successfully")
}

// Dashboard aggregates the acting Didi's operational snapshot.
func (h *DidiHandler) Dashboard(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	dashboard, err := h.didiUC.Dashboard(c.Request().Context(), principal.UserID)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, dashboard, "Dashboard retrieved successfully")
}

// ListApplications retrieves applications by approval state. Admin only.
func (h *DidiHandler) ListApplications(c echo.Context) error {
	status := entity.ApprovalStatus(c.QueryParam("status"))
	if status == "" {
		status = entity.ApprovalStatusPending
	}

	profiles, err := h.didiUC.ListApplications(c.Request().Context(), status)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, profiles, "Applications retrieved successfully")
}

// Approve accepts an application. Admin only.
func (h *DidiHandler) Approve(c echo.Context) error {
	profileID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	profile, err := h.didiUC.Approve(c.Request().Context(), profileID)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, profile, "Application approved")
}

// Reject declines an application with a reason. Admin only.
func (h *DidiHandler) Reject(c echo.Context) error {
	profileID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req RejectRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid rejection input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	profile, err := h.didiUC.Reject(c.Request().Context(), profileID, req.Reason)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, profile, "Application rejected")
}

// Suspend takes an approved Didi off the platform. Admin only.
func (h *DidiHandler) Suspend(c echo.Context) error {
	profileID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	profile, err := h.didiUC.Suspend(c.Request().Context(), profileID)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, profile, "Didi suspended")
}
