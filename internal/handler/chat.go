package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat_store/internal/domain"
	"chat_store/internal/service"
	"chat_store/pkg/logger"
)

type MessageHandler struct {
	chatService    service.ChatService
	roomService    service.RoomService
	receiptService service.ReceiptService
	log            logger.Logger
}

func NewMessageHandler(chatService service.ChatService, roomService service.RoomService, receiptService service.ReceiptService, log logger.Logger) *MessageHandler {
	return &MessageHandler{
		chatService:    chatService,
		roomService:    roomService,
		receiptService: receiptService,
		log:            log,
	}
}

type PostMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *MessageHandler) Post(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	roomID, err := uuidParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	message, err := h.chatService.PostMessage(c.Request.Context(), roomID, userID, req.Content)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *MessageHandler) List(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	roomID, err := uuidParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	limit, err := intQuery(c, "limit")
	if err != nil {
		_ = c.Error(err)
		return
	}
	after, err := domain.DecodeCursor(c.Query("cursor"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.roomService.Authorize(c.Request.Context(), roomID, userID); err != nil {
		_ = c.Error(err)
		return
	}

	page, err := h.chatService.ListMessages(c.Request.Context(), roomID, domain.PageRequest{After: after, Limit: limit})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *MessageHandler) Get(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	messageID, err := messageIDParam(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	message, err := h.chatService.GetMessage(c.Request.Context(), messageID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.roomService.Authorize(c.Request.Context(), message.RoomID, userID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, message)
}

func (h *MessageHandler) Unread(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	roomID, err := uuidParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.roomService.Authorize(c.Request.Context(), roomID, userID); err != nil {
		_ = c.Error(err)
		return
	}

	count, err := h.receiptService.UnreadCount(c.Request.Context(), roomID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, count)
}
