package messaging

import (
	"SchoolHub/internal/auth"
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessagingHandler handles HTTP requests for conversations and messages.
type MessagingHandler struct {
	service *MessagingService
}

// NewMessagingHandler creates a new MessagingHandler.
func NewMessagingHandler(service *MessagingService) *MessagingHandler {
	return &MessagingHandler{service: service}
}

// StartConversationRequest represents the request to start a conversation.
type StartConversationRequest struct {
	ReceiverID string `json:"receiver_id"` // The other participant
	Subject    string `json:"subject"`     // Subject line
	Category   string `json:"category"`    // general, academic, discipline, attendance, fees, health, transport, other
	StudentID  string `json:"student_id"`  // Related student, optional
	Content    string `json:"content"`     // First message body
}

// SendMessageRequest represents the request to append a message.
type SendMessageRequest struct {
	Content     string       `json:"content"`     // Message body
	Attachments []Attachment `json:"attachments"` // Optional file metadata
}

func claimsFrom(c echo.Context) *auth.JWTClaims {
	claims, ok := c.Get("user").(*auth.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// StartConversation opens a thread with another user and sends its first
// message.
func (h *MessagingHandler) StartConversation(c echo.Context) error {
	claims := claimsFrom(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	var req StartConversationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Content is required"})
	}

	receiverID, err := primitive.ObjectIDFromHex(req.ReceiverID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid receiver ID"})
	}
	var studentID *primitive.ObjectID
	if req.StudentID != "" {
		id, err := primitive.ObjectIDFromHex(req.StudentID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid student ID"})
		}
		studentID = &id
	}

	conv, err := h.service.StartConversation(c.Request().Context(), claims.Email, receiverID, req.Subject, req.Category, req.Content, studentID)
	if err != nil {
		if IsInvalidInput(err) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		log.Println("Failed to start conversation:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to start conversation"})
	}
	return c.JSON(http.StatusCreated, conv)
}

// ListConversations returns the caller's conversations for the list view.
func (h *MessagingHandler) ListConversations(c echo.Context) error {
	claims := claimsFrom(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	conversations, err := h.service.ListConversations(c.Request().Context(), claims.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list conversations"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"conversations": conversations})
}

// Messages returns a conversation's messages in creation order.
func (h *MessagingHandler) Messages(c echo.Context) error {
	claims := claimsFrom(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	conversationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid conversation ID"})
	}

	messages, err := h.service.Messages(c.Request().Context(), conversationID, claims.Email)
	if err != nil {
		if errors.Is(err, ErrConversationNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Conversation not found"})
		}
		if errors.Is(err, ErrNotParticipant) {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Not a participant"})
		}
		log.Println("Failed to list messages:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list messages"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"messages": messages})
}

// SendMessage appends a message to a conversation.
func (h *MessagingHandler) SendMessage(c echo.Context) error {
	claims := claimsFrom(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	conversationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid conversation ID"})
	}

	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	conv, err := h.service.SendMessage(c.Request().Context(), conversationID, claims.Email, req.Content, req.Attachments)
	if err != nil {
		if errors.Is(err, ErrConversationNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Conversation not found"})
		}
		if errors.Is(err, ErrNotParticipant) {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Not a participant"})
		}
		if IsInvalidInput(err) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		log.Println("Failed to send message:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to send message"})
	}
	return c.JSON(http.StatusCreated, conv)
}

// MarkMessageRead flips one message to read for the caller.
func (h *MessagingHandler) MarkMessageRead(c echo.Context) error {
	claims := claimsFrom(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	messageID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid message ID"})
	}

	matched, err := h.service.MarkMessageRead(c.Request().Context(), messageID, claims.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to mark message read"})
	}
	if !matched {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Message not found"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Message marked as read"})
}
