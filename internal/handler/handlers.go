package handler

import (
	"chat_store/internal/config"
	"chat_store/internal/service"
	"chat_store/pkg/logger"
)

type Handlers struct {
	Health    *HealthHandler
	Room      *RoomHandler
	Message   *MessageHandler
	Receipt   *ReceiptHandler
	Directory *DirectoryHandler
}

func NewHandlers(services *service.Services, checks map[string]Check, cfg *config.Config, log logger.Logger) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(checks),
		Room:      NewRoomHandler(services.Room, log),
		Message:   NewMessageHandler(services.Chat, services.Room, services.Receipt, log),
		Receipt:   NewReceiptHandler(services.Receipt, services.Chat, services.Room, log),
		Directory: NewDirectoryHandler(services.Directory, log),
	}
}
