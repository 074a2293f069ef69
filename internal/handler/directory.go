package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat_store/internal/service"
	"chat_store/pkg/logger"
)

// DirectoryHandler serves the sync endpoints called by the user and
// project services.
type DirectoryHandler struct {
	directoryService service.DirectoryService
	log              logger.Logger
}

func NewDirectoryHandler(directoryService service.DirectoryService, log logger.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		directoryService: directoryService,
		log:              log,
	}
}

type SyncUserRequest struct {
	DisplayName string `json:"display_name" binding:"max=255"`
}

type SyncProjectRequest struct {
	Name string `json:"name" binding:"max=255"`
}

func (h *DirectoryHandler) PutUser(c *gin.Context) {
	userID, err := uuidParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req SyncUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	user, err := h.directoryService.SyncUser(c.Request.Context(), userID, req.DisplayName)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *DirectoryHandler) DeleteUser(c *gin.Context) {
	userID, err := uuidParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.directoryService.DeleteUser(c.Request.Context(), userID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *DirectoryHandler) PutProject(c *gin.Context) {
	projectID, err := uuidParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req SyncProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	project, err := h.directoryService.SyncProject(c.Request.Context(), projectID, req.Name)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *DirectoryHandler) DeleteProject(c *gin.Context) {
	projectID, err := uuidParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.directoryService.DeleteProject(c.Request.Context(), projectID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
