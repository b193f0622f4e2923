package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Manager struct {
	ID        int64     `db:"id"`
	ChatID    int64     `db:"chat_id"`
	AddedBy   *int64    `db:"added_by"`
	CreatedAt time.Time `db:"created_at"`
}

type ManagerRepository struct {
	db *sqlx.DB
}

func NewManagerRepository(db *sqlx.DB) *ManagerRepository {
	return &ManagerRepository{
		db: db,
	}
}

func (r *ManagerRepository) GetAll() ([]Manager, error) {
	var managers []Manager

	err := r.db.Select(&managers, `
	    SELECT * FROM managers
	`)

	if err != nil {
		return nil, fmt.Errorf("ManagerRepository.GetAll: %w", err)
	}

	return managers, nil
}

func (r *ManagerRepository) Create(chatID int64, addedBy int64) error {
	_, err := r.db.Exec(`
	    INSERT INTO managers (chat_id, added_by) VALUES ($1, $2)
		ON CONFLICT (chat_id) DO NOTHING
	`, chatID, addedBy)

	if err != nil {
		return fmt.Errorf("ManagerRepository.Create: %w", err)
	}

	return nil
}
