package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/agripulse/marketplace/internal/events"
	"github.com/agripulse/marketplace/internal/logging"
	"github.com/agripulse/marketplace/internal/models"
)

var validate = validator.New()

// publish sends a domain event with a bounded timeout. Failures are logged
// and never surfaced to the HTTP caller.
func publish(c echo.Context, p *events.Producer, topic, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.Publish(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("event publish failed", "topic", topic, "error", err)
	}
}

type AuthHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Location string `json:"location" validate:"required"`
	Password string `json:"password" validate:"required"`
	UserType string `json:"userType" validate:"required"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "All fields are required")
	}
	if err := validate.Struct(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "missing field")
		return echo.NewHTTPError(http.StatusBadRequest, "All fields are required")
	}
	if req.UserType != models.RoleFarmer && req.UserType != models.RoleCustomer {
		l.Warn("register_failed", "status", 400, "reason", "bad user type", "userType", req.UserType)
		return echo.NewHTTPError(http.StatusBadRequest, "userType must be farmer or customer")
	}

	// Read-then-write uniqueness check, same as the unique index would
	// enforce but with a 409 instead of a storage error.
	var existing models.User
	err := h.DB.WithContext(ctx).Where("name = ?", req.Name).First(&existing).Error
	if err == nil {
		l.Warn("register_failed", "status", 409, "reason", "name taken", "name", req.Name)
		return echo.NewHTTPError(http.StatusConflict, "Name already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("register_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
	}

	user := models.User{
		Name:     req.Name,
		Location: req.Location,
		Password: req.Password,
		UserType: req.UserType,
	}
	if err := h.DB.WithContext(ctx).Create(&user).Error; err != nil {
		l.Error("register_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
	}

	publish(c, h.Producer, events.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"name":     user.Name,
		"userType": user.UserType,
	})

	l.Info("register_success", "user_id", user.ID, "userType", user.UserType)
	return c.JSON(http.StatusCreated, echo.Map{"message": "User registered successfully"})
}

type loginRequest struct {
	Name     string `json:"name"     validate:"required"`
	Password string `json:"password" validate:"required"`
	UserType string `json:"userType" validate:"required"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "All fields are required")
	}
	if err := validate.Struct(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "missing field")
		return echo.NewHTTPError(http.StatusBadRequest, "All fields are required")
	}

	// Exact (name, password, userType) triple. Wrong password and unknown
	// name are deliberately indistinguishable.
	var user models.User
	err := h.DB.WithContext(ctx).
		Where("name = ? AND password = ? AND user_type = ?", req.Name, req.Password, req.UserType).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		l.Warn("login_failed", "status", 401, "name", req.Name)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
	}

	publish(c, h.Producer, events.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
		"name":   user.Name,
	})

	l.Info("login_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"user":    user,
	})
}
