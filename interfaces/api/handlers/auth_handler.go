package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"smart-attendance/domain/services"
	"smart-attendance/pkg/logger"
	"smart-attendance/pkg/utils"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRequest is the request body for account registration
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new teacher account
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.BadRequestResponse(c, "Validation failed", err)
	}

	user, err := h.authService.Register(c.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return utils.ErrorResponse(c, fiber.StatusConflict, "Email already registered", err)
		}
		logger.AuthError("register_failed", "Registration failed", err, map[string]interface{}{"email": req.Email})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to register", err)
	}

	logger.Auth("registered", "New account registered", map[string]interface{}{"user_id": user.ID.String(), "email": user.Email})
	return utils.CreatedResponse(c, "Account created", user)
}

// Login verifies credentials and returns a JWT
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.BadRequestResponse(c, "Validation failed", err)
	}

	token, user, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			logger.AuthWarn("login_rejected", "Invalid credentials", map[string]interface{}{"email": req.Email, "ip": c.IP()})
			return utils.UnauthorizedResponse(c, "Invalid email or password")
		case errors.Is(err, services.ErrUserInactive):
			return utils.ErrorResponse(c, fiber.StatusForbidden, "Account is inactive", err)
		default:
			logger.AuthError("login_failed", "Login failed", err, map[string]interface{}{"email": req.Email})
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to login", err)
		}
	}

	logger.Auth("login", "User logged in", map[string]interface{}{"user_id": user.ID.String()})
	return utils.SuccessResponse(c, "Login successful", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// GetCurrentUser returns the account behind the presented token
func (h *AuthHandler) GetCurrentUser(c *fiber.Ctx) error {
	token := utils.ExtractTokenFromHeader(c.Get("Authorization"))
	if token == "" {
		return utils.UnauthorizedResponse(c, "Missing token")
	}

	user, err := h.authService.GetCurrentUser(c.Context(), token)
	if err != nil {
		return utils.UnauthorizedResponse(c, "Invalid token")
	}

	return utils.SuccessResponse(c, "Current user", user)
}

// Logout is a no-op server side; clients drop the token
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, "Logged out", nil)
}
