package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat_store/internal/domain"
	"chat_store/internal/service"
	"chat_store/pkg/logger"
)

type ReceiptHandler struct {
	receiptService service.ReceiptService
	chatService    service.ChatService
	roomService    service.RoomService
	log            logger.Logger
}

func NewReceiptHandler(receiptService service.ReceiptService, chatService service.ChatService, roomService service.RoomService, log logger.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		chatService:    chatService,
		roomService:    roomService,
		log:            log,
	}
}

type SeenByResponse struct {
	UserID uuid.UUID `json:"user_id"`
	SeenAt time.Time `json:"seen_at"`
}

// MarkSeen answers 201 for a new receipt and 200 when the caller had
// already seen the message.
func (h *ReceiptHandler) MarkSeen(c *gin.Context) {
	messageID, userID, ok := h.authorizeMessage(c)
	if !ok {
		return
	}

	receipt, created, err := h.receiptService.MarkSeen(c.Request.Context(), messageID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, receipt)
}

func (h *ReceiptHandler) ListSeenBy(c *gin.Context) {
	messageID, _, ok := h.authorizeMessage(c)
	if !ok {
		return
	}

	receipts, err := h.receiptService.ListSeenBy(c.Request.Context(), messageID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message_id": messageID,
		"seen_by": lo.Map(receipts, func(r *domain.MessageSeenReceipt, _ int) SeenByResponse {
			return SeenByResponse{UserID: r.UserID, SeenAt: r.SeenAt}
		}),
	})
}

// authorizeMessage resolves the message in the path and checks that the
// caller belongs to its room.
func (h *ReceiptHandler) authorizeMessage(c *gin.Context) (int64, uuid.UUID, bool) {
	userID, err := currentUser(c)
	if err != nil {
		_ = c.Error(err)
		return 0, uuid.Nil, false
	}
	messageID, err := messageIDParam(c)
	if err != nil {
		_ = c.Error(err)
		return 0, uuid.Nil, false
	}

	message, err := h.chatService.GetMessage(c.Request.Context(), messageID)
	if err != nil {
		_ = c.Error(err)
		return 0, uuid.Nil, false
	}
	if err := h.roomService.Authorize(c.Request.Context(), message.RoomID, userID); err != nil {
		_ = c.Error(err)
		return 0, uuid.Nil, false
	}

	return messageID, userID, true
}
