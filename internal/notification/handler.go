package notification

import (
	"SchoolHub/internal/auth"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationHandler handles HTTP requests for notifications.
type NotificationHandler struct {
	service *NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// CreateNotificationRequest represents the request to create a notification.
type CreateNotificationRequest struct {
	Title       string     `json:"title"`        // Short headline
	Message     string     `json:"message"`      // Notification body
	Type        string     `json:"type"`         // announcement, assignment, exam, attendance, fee, general, urgent
	Priority    string     `json:"priority"`     // low, medium, high, urgent
	Scope       string     `json:"scope"`        // all, students, teachers, parents, grade, class
	Grade       string     `json:"grade"`        // Grade reference for scope "grade"
	Class       string     `json:"class"`        // Class reference for scope "class"
	ExpiresAt   *time.Time `json:"expires_at"`   // Optional expiry
	ActionLink  string     `json:"action_link"`  // Optional action link
	ActionLabel string     `json:"action_label"` // Label for the action link
}

func claimsFrom(c echo.Context) *auth.JWTClaims {
	claims, ok := c.Get("user").(*auth.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// Create allows teachers and admins to broadcast a notification.
func (h *NotificationHandler) Create(c echo.Context) error {
	claims := claimsFrom(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	var req CreateNotificationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Title == "" || req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Title and message are required"})
	}

	n := &Notification{
		Title:    req.Title,
		Message:  req.Message,
		Type:     req.Type,
		Priority: req.Priority,
		TargetAudience: TargetAudience{
			Scope: req.Scope,
			Grade: req.Grade,
			Class: req.Class,
		},
		ExpiresAt:   req.ExpiresAt,
		ActionLink:  req.ActionLink,
		ActionLabel: req.ActionLabel,
		CreatedBy: Creator{
			Email: claims.Email,
			Role:  claims.Role,
			Name:  claims.Name,
		},
	}

	if err := h.service.CreateNotification(c.Request().Context(), n); err != nil {
		if IsInvalidInput(err) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		log.Println("Failed to create notification:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create notification"})
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":    "Notification created successfully",
		"id":         n.ID.Hex(),
		"recipients": len(n.Recipients),
	})
}

// List returns the caller's notifications with their own read flag.
func (h *NotificationHandler) List(c echo.Context) error {
	claims := claimsFrom(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	views, err := h.service.ListForUser(c.Request().Context(), claims.Email, claims.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list notifications"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"notifications": views})
}

// MarkRead flips the caller's own ledger entry for one notification.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	claims := claimsFrom(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid notification ID"})
	}

	matched, err := h.service.MarkRead(c.Request().Context(), id, claims.Email, claims.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to mark notification read"})
	}
	if !matched {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Notification not found"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

// MarkAllRead flips every unread entry belonging to the caller.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	claims := claimsFrom(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	updated, err := h.service.MarkAllRead(c.Request().Context(), claims.Email, claims.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to mark notifications read"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "All notifications marked as read",
		"updated": updated,
	})
}

// Deactivate soft-deletes a notification (admin only, enforced by RBAC).
func (h *NotificationHandler) Deactivate(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid notification ID"})
	}

	if err := h.service.DeactivateNotification(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Notification not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to deactivate notification"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Notification deactivated"})
}
