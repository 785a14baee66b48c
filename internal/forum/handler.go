package forum

import (
	"SchoolHub/internal/auth"
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ForumHandler handles HTTP requests for forum topics and replies.
type ForumHandler struct {
	service *ForumService
}

// NewForumHandler creates a new ForumHandler.
func NewForumHandler(service *ForumService) *ForumHandler {
	return &ForumHandler{service: service}
}

// CreateTopicRequest represents the request to open a topic.
type CreateTopicRequest struct {
	Title    string `json:"title"`    // Topic title
	Content  string `json:"content"`  // Opening post body
	Category string `json:"category"` // Discussion category
}

// CreateReplyRequest represents the request to reply to a topic.
type CreateReplyRequest struct {
	Content string `json:"content"` // Reply body
}

func claimsFrom(c echo.Context) *auth.JWTClaims {
	claims, ok := c.Get("user").(*auth.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// CreateTopic opens a new discussion thread.
func (h *ForumHandler) CreateTopic(c echo.Context) error {
	claims := claimsFrom(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	var req CreateTopicRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	topic, err := h.service.CreateTopic(c.Request().Context(), claims.Email, req.Title, req.Content, req.Category)
	if err != nil {
		if IsInvalidInput(err) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		log.Println("Failed to create topic:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create topic"})
	}
	return c.JSON(http.StatusCreated, topic)
}

// GetTopic fetches a topic and counts the view.
func (h *ForumHandler) GetTopic(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid topic ID"})
	}

	topic, err := h.service.GetTopic(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrTopicNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Topic not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch topic"})
	}
	return c.JSON(http.StatusOK, topic)
}

// ListTopics lists active topics.
func (h *ForumHandler) ListTopics(c echo.Context) error {
	topics, err := h.service.ListTopics(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list topics"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"topics": topics})
}

// CreateReply appends a reply to a topic.
func (h *ForumHandler) CreateReply(c echo.Context) error {
	claims := claimsFrom(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	topicID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid topic ID"})
	}

	var req CreateReplyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	reply, err := h.service.AddReply(c.Request().Context(), topicID, claims.Email, req.Content)
	if err != nil {
		if errors.Is(err, ErrTopicNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Topic not found"})
		}
		if IsInvalidInput(err) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		log.Println("Failed to create reply:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create reply"})
	}
	return c.JSON(http.StatusCreated, reply)
}

// ListReplies returns a topic's replies in creation order.
func (h *ForumHandler) ListReplies(c echo.Context) error {
	topicID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid topic ID"})
	}

	replies, err := h.service.ListReplies(c.Request().Context(), topicID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list replies"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"replies": replies})
}
