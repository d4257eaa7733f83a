package controllers

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	h "happeningvibe/internal/delivery/http/helpers"
	"happeningvibe/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func validateEmail(email string) []string {
	email = normalizeEmail(email)
	if email == "" {
		return []string{"email is required"}
	}
	if !emailRegexp.MatchString(email) {
		return []string{"invalid email format"}
	}
	return nil
}

// CredentialsRequest is the request body for POST /auth/signup and POST /auth/signin.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (c CredentialsRequest) Validate() []string {
	errs := validateEmail(c.Email)
	if c.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// EmailRequest is the request body for endpoints that take only an address.
type EmailRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (e EmailRequest) Validate() []string {
	return validateEmail(e.Email)
}

// VerifyEmailRequest is the request body for POST /auth/verify-email.
type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Validate implements Validator.
func (v VerifyEmailRequest) Validate() []string {
	errs := validateEmail(v.Email)
	if strings.TrimSpace(v.Code) == "" {
		errs = append(errs, "code is required")
	}
	return errs
}

// ResetPasswordRequest is the request body for POST /auth/reset-password.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// Validate implements Validator.
func (p ResetPasswordRequest) Validate() []string {
	errs := validateEmail(p.Email)
	if strings.TrimSpace(p.Code) == "" {
		errs = append(errs, "code is required")
	}
	if p.NewPassword == "" {
		errs = append(errs, "new_password is required")
	}
	return errs
}

// SignInResponse is the response body for POST /auth/signin.
type SignInResponse struct {
	Token     string          `json:"token"`
	TokenType string          `json:"token_type"`
	User      *domain.User    `json:"user"`
	Profile   *domain.Profile `json:"profile"`
}

// MessageResponse carries a human-readable acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// SignUp godoc
// @Summary Sign up a new user
// @Description Create an account and email a verification code. The account cannot sign in until the address is verified.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body CredentialsRequest true "Sign-up data"
// @Success 201 {object} helpers.APIResponse "data contains the created user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/signup [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.SignUp(r.Context(), normalizeEmail(req.Email), req.Password)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, user)
}

// VerifyEmail godoc
// @Summary Verify an email address
// @Description Consume the code emailed at sign-up.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body VerifyEmailRequest true "Address and code"
// @Success 200 {object} helpers.APIResponse "data contains a message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/verify-email [post]
func (c *AuthController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.VerifyEmail(r.Context(), normalizeEmail(req.Email), strings.TrimSpace(req.Code)); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, MessageResponse{Message: "email verified"})
}

// ResendVerification godoc
// @Summary Resend the verification code
// @Description Always answers 202 so the response does not reveal whether the address is registered.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body EmailRequest true "Address"
// @Success 202 {object} helpers.APIResponse "data contains a message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/resend-verification [post]
func (c *AuthController) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.ResendVerification(r.Context(), normalizeEmail(req.Email)); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusAccepted, MessageResponse{Message: "if the address is registered and unverified, a code has been sent"})
}

// SignIn godoc
// @Summary Sign in
// @Description Authenticate with email and password. Returns a JWT carrying the user id, email and roles.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body CredentialsRequest true "Credentials"
// @Success 200 {object} helpers.APIResponse "data contains token, token_type, user and profile"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (email not verified)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/signin [post]
func (c *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Service.SignIn(r.Context(), normalizeEmail(req.Email), req.Password)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, SignInResponse{
		Token:     res.Token,
		TokenType: "Bearer",
		User:      res.User,
		Profile:   res.Profile,
	})
}

// ForgotPassword godoc
// @Summary Request a password reset code
// @Description Always answers 202 so the response does not reveal whether the address is registered.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body EmailRequest true "Address"
// @Success 202 {object} helpers.APIResponse "data contains a message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/forgot-password [post]
func (c *AuthController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.RequestPasswordReset(r.Context(), normalizeEmail(req.Email)); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusAccepted, MessageResponse{Message: "if the address is registered, a reset code has been sent"})
}

// ResetPassword godoc
// @Summary Reset the password
// @Description Consume a reset code and set a new password. Also verifies the address.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body ResetPasswordRequest true "Address, code and new password"
// @Success 200 {object} helpers.APIResponse "data contains a message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/reset-password [post]
func (c *AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	err := c.Service.ResetPassword(r.Context(), normalizeEmail(req.Email), strings.TrimSpace(req.Code), req.NewPassword)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, MessageResponse{Message: "password updated"})
}
