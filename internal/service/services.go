package service

import (
	"time"

	"chat_store/internal/config"
	"chat_store/internal/repository"
	"chat_store/pkg/logger"
)

type Services struct {
	Room      RoomService
	Chat      ChatService
	Receipt   ReceiptService
	Directory DirectoryService
	RateLimit RateLimitService
	Audit     AuditService
}

// Clock returns the current time. Timestamps are truncated to the
// microsecond resolution PostgreSQL stores.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func NewServices(repos *repository.Repositories, cfg *config.Config, log logger.Logger) *Services {
	audit := NewAuditService(repos.Audit, SystemClock, log)

	return &Services{
		Room:      NewRoomService(repos.Room, audit, SystemClock, log),
		Chat:      NewChatService(repos.Message, repos.Room, cfg.Chat, SystemClock, log),
		Receipt:   NewReceiptService(repos.Receipt, repos.Room, SystemClock, log),
		Directory: NewDirectoryService(repos.Directory, audit, SystemClock, log),
		RateLimit: NewRateLimitService(repos.RateLimit, log),
		Audit:     audit,
	}
}
