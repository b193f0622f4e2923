package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PayoutRequest — строка таблицы payout_requests.
// Временные поля хранятся как epoch millis.
type PayoutRequest struct {
	ID          int64  `db:"id"`
	Reference   string `db:"reference"`
	MessageID   *int64 `db:"message_id"`
	ChatID      *int64 `db:"chat_id"`
	Payee       string `db:"payee"`
	Amount      int64  `db:"amount"`
	EventDate   string `db:"event_date"`
	Details     string `db:"details"`
	Status      string `db:"status"`
	RequesterID int64  `db:"requester_id"`
	ActorID     *int64 `db:"actor_id"`
	CreatedAt   int64  `db:"created_at"`
	UpdatedAt   int64  `db:"updated_at"`
	DueAt       *int64 `db:"due_at"`
}

type PayoutRequestRepository struct {
	db *sqlx.DB
}

func NewPayoutRequestRepository(db *sqlx.DB) *PayoutRequestRepository {
	return &PayoutRequestRepository{
		db: db,
	}
}

func (r *PayoutRequestRepository) Create(payee string, amount int64, eventDate, details string, requesterID int64, now time.Time) (*PayoutRequest, error) {
	var req PayoutRequest

	millis := now.UnixMilli()

	err := r.db.Get(&req, `
	    INSERT INTO payout_requests
		(reference, payee, amount, event_date, details, status, requester_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 'open', $6, $7, $7)
		RETURNING *
	`,
		uuid.New().String(),
		payee,
		amount,
		eventDate,
		details,
		requesterID,
		millis,
	)
	if err != nil {
		return nil, fmt.Errorf("PayoutRequestRepository.Create: %w", err)
	}

	return &req, nil
}

// AttachCard привязывает заявку к опубликованной карточке.
func (r *PayoutRequestRepository) AttachCard(requestID int64, messageID int64, chatID int64, now time.Time) error {
	_, err := r.db.Exec(`
	    UPDATE payout_requests
		SET message_id = $1, chat_id = $2, updated_at = $3
		WHERE id = $4
	`, messageID, chatID, now.UnixMilli(), requestID)

	if err != nil {
		return fmt.Errorf("PayoutRequestRepository.AttachCard: %w", err)
	}

	return nil
}

func (r *PayoutRequestRepository) GetByID(requestID int64) (*PayoutRequest, error) {
	var req PayoutRequest

	err := r.db.Get(&req, `
	    SELECT * FROM payout_requests
		WHERE id = $1
	`, requestID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("PayoutRequestRepository.GetByID: %w", err)
	}

	return &req, nil
}

func (r *PayoutRequestRepository) GetByCardMessage(messageID int64) (*PayoutRequest, error) {
	var req PayoutRequest

	err := r.db.Get(&req, `
	    SELECT * FROM payout_requests
		WHERE message_id = $1
	`, messageID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("PayoutRequestRepository.GetByCardMessage: %w", err)
	}

	return &req, nil
}

// SetStatus переводит заявку в новый статус и запоминает, кто её обработал.
// dueAt передаётся только для перевода в cooldown.
func (r *PayoutRequestRepository) SetStatus(requestID int64, newStatus string, actorID int64, now time.Time, dueAt *time.Time) (*PayoutRequest, error) {
	var req PayoutRequest

	var dueMillis *int64
	if dueAt != nil {
		dueMillis = pointer.ToInt64(dueAt.UnixMilli())
	}

	err := r.db.Get(&req, `
	    UPDATE payout_requests
		SET status = $1, actor_id = $2, due_at = $3, updated_at = $4
		WHERE id = $5
		RETURNING *
	`, newStatus, actorID, dueMillis, now.UnixMilli(), requestID)

	if err != nil {
		return nil, fmt.Errorf("PayoutRequestRepository.SetStatus: %w", err)
	}

	return &req, nil
}

// GetDueCooldowns возвращает отложенные заявки, чей срок уже наступил.
func (r *PayoutRequestRepository) GetDueCooldowns(now time.Time) ([]PayoutRequest, error) {
	var reqs []PayoutRequest

	err := r.db.Select(&reqs, `
	    SELECT * FROM payout_requests
		WHERE status = 'cooldown' AND due_at <= $1
		ORDER BY due_at ASC
	`, now.UnixMilli())

	if err != nil {
		return nil, fmt.Errorf("PayoutRequestRepository.GetDueCooldowns: %w", err)
	}

	return reqs, nil
}

// ReopenWithCard возвращает отложенную заявку в open и привязывает новую
// карточку одним запросом. Условие status = 'cooldown' гарантирует, что
// заявку не обработают дважды: победитель гонки получает true.
func (r *PayoutRequestRepository) ReopenWithCard(requestID int64, messageID int64, chatID int64, now time.Time) (bool, error) {
	res, err := r.db.Exec(`
	    UPDATE payout_requests
		SET status = 'open', due_at = NULL, message_id = $1, chat_id = $2, updated_at = $3
		WHERE id = $4 AND status = 'cooldown'
	`, messageID, chatID, now.UnixMilli(), requestID)

	if err != nil {
		return false, fmt.Errorf("PayoutRequestRepository.ReopenWithCard: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("PayoutRequestRepository.ReopenWithCard: %w", err)
	}

	return rows > 0, nil
}
