package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"chat_store/internal/domain"
	"chat_store/internal/service"
	apperrors "chat_store/pkg/errors"
	"chat_store/pkg/logger"
)

type RoomHandler struct {
	roomService service.RoomService
	log         logger.Logger
}

func NewRoomHandler(roomService service.RoomService, log logger.Logger) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
		log:         log,
	}
}

type CreateRoomRequest struct {
	RoomType       string      `json:"room_type" binding:"required,room_type"`
	ProjectID      *uuid.UUID  `json:"project_id,omitempty"`
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
}

func (h *RoomHandler) Create(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	roomType, err := domain.ParseRoomType(req.RoomType)
	if err != nil {
		_ = c.Error(err)
		return
	}

	room, err := h.roomService.Create(c.Request.Context(), userID, roomType, req.ProjectID, req.ParticipantIDs)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, room)
}

func (h *RoomHandler) List(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	limit, err := intQuery(c, "limit")
	if err != nil {
		_ = c.Error(err)
		return
	}
	offset, err := intQuery(c, "offset")
	if err != nil {
		_ = c.Error(err)
		return
	}

	rooms, err := h.roomService.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

func (h *RoomHandler) GetByID(c *gin.Context) {
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

	room, err := h.roomService.GetByID(c.Request.Context(), roomID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !room.HasParticipant(userID) {
		_ = c.Error(apperrors.ErrNotParticipant)
		return
	}

	c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) GetProjectRoom(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	projectID, err := uuidParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	room, err := h.roomService.GetProjectRoom(c.Request.Context(), projectID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !room.HasParticipant(userID) {
		_ = c.Error(apperrors.ErrNotParticipant)
		return
	}

	c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) Delete(c *gin.Context) {
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
	if err := h.roomService.Delete(c.Request.Context(), userID, roomID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RoomHandler) AddParticipant(c *gin.Context) {
	h.changeParticipant(c, h.roomService.AddParticipant)
}

func (h *RoomHandler) RemoveParticipant(c *gin.Context) {
	h.changeParticipant(c, h.roomService.RemoveParticipant)
}

type participantChange func(ctx context.Context, actorID, roomID, userID uuid.UUID) (bool, error)

// changeParticipant lets any participant manage membership of their room.
func (h *RoomHandler) changeParticipant(c *gin.Context, change participantChange) {
	actorID, err := currentUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	roomID, err := uuidParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	userID, err := uuidParam(c, "userId")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.roomService.Authorize(c.Request.Context(), roomID, actorID); err != nil {
		_ = c.Error(err)
		return
	}

	changed, err := change(c.Request.Context(), actorID, roomID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room_id": roomID,
		"user_id": userID,
		"changed": changed,
	})
}
