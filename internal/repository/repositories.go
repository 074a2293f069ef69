package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"chat_store/pkg/logger"
)

type Repositories struct {
	Room      RoomRepository
	Message   MessageRepository
	Receipt   ReceiptRepository
	Directory DirectoryRepository
	Audit     AuditRepository
	RateLimit RateLimitRepository
}

func NewRepositories(db *pgxpool.Pool, redis *redis.Client, log logger.Logger) *Repositories {
	return &Repositories{
		Room:      NewRoomRepository(db, log),
		Message:   NewMessageRepository(db, log),
		Receipt:   NewReceiptRepository(db, log),
		Directory: NewDirectoryRepository(db, log),
		Audit:     NewAuditRepository(db, log),
		RateLimit: NewRateLimitRepository(redis, log),
	}
}
