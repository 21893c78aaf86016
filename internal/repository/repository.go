package repository

import (
	"context"
	"database/sql"
	"time"

	"pumpbank/internal/models"
	"pumpbank/internal/repository/db"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// ProfileRepo persists the bank profile as one whole record. Load reports
// found=false when nothing was ever saved.
type ProfileRepo interface {
	Save(ctx context.Context, rec models.ConfigRecord) error
	Load(ctx context.Context) (models.ConfigRecord, bool, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.PumpEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.PumpEvent, error)
}

type Repository struct {
	ProfileRepo ProfileRepo
	EventRepo   EventRepo
	Auth        Authorization
}

func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		ProfileRepo: NewProfileSQLite(sqlDB),
		EventRepo:   NewEventSQLite(sqlDB),
		Auth:        NewUserSQLite(sqlDB),
	}
}

// InitDB opens the backing SQLite file and ensures the schema.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
