package controllers

import (
	"log/slog"
	"net/http"
	"time"

	h "happeningvibe/internal/delivery/http/helpers"
	"happeningvibe/internal/delivery/http/middleware"
	"happeningvibe/internal/domain"
)

const dateLayout = "2006-01-02"

// UpdateProfileRequest is the request body for PATCH /profiles/me. All fields
// are optional. An empty phone_number clears it; birthday is YYYY-MM-DD.
type UpdateProfileRequest struct {
	Username    *string `json:"username"`
	PhoneNumber *string `json:"phone_number"`
	Birthday    *string `json:"birthday"`
}

// Validate implements Validator.
func (u UpdateProfileRequest) Validate() []string {
	var errs []string
	if u.Username == nil && u.PhoneNumber == nil && u.Birthday == nil {
		errs = append(errs, "at least one field is required")
	}
	if u.Birthday != nil {
		if _, err := time.Parse(dateLayout, *u.Birthday); err != nil {
			errs = append(errs, "birthday must be YYYY-MM-DD")
		}
	}
	return errs
}

func (u UpdateProfileRequest) toDomain() domain.ProfileUpdate {
	upd := domain.ProfileUpdate{Username: u.Username, PhoneNumber: u.PhoneNumber}
	if u.Birthday != nil {
		// Validate already checked the layout.
		b, _ := time.Parse(dateLayout, *u.Birthday)
		upd.Birthday = &b
	}
	return upd
}

type ProfileController struct {
	Logger  *slog.Logger
	Service domain.ProfileService
}

func NewProfileController(logger *slog.Logger, svc domain.ProfileService) *ProfileController {
	return &ProfileController{
		Logger:  logger,
		Service: svc,
	}
}

// GetMe godoc
// @Summary Get the current account
// @Description Returns the caller's email and profile.
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains email and profile"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profiles/me [get]
func (c *ProfileController) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}
	account, err := c.Service.GetAccount(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, account)
}

// UpdateMe godoc
// @Summary Update the current profile
// @Description Set username, phone number or birthday. The username cannot be changed once set.
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse "data contains the updated profile"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profiles/me [patch]
func (c *ProfileController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}
	profile, err := c.Service.UpdateProfile(r.Context(), userID, req.toDomain())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, profile)
}

// GetQuota godoc
// @Summary Get today's event quota
// @Description Remaining events the caller may create today. Admins are unlimited.
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains remaining, unlimited, display and can_create"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profiles/me/quota [get]
func (c *ProfileController) GetQuota(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}
	quota, err := c.Service.GetQuota(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, quota)
}
