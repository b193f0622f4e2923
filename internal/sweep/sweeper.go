package sweep

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gratefultolord/ac_payout_bot/internal/db"
	"github.com/gratefultolord/ac_payout_bot/internal/payout"
)

const Interval = 60 * time.Second

type Store interface {
	GetDueCooldowns(now time.Time) ([]db.PayoutRequest, error)
	ReopenWithCard(requestID int64, messageID int64, chatID int64, now time.Time) (bool, error)
}

type Poster interface {
	PostCard(chatID int64, req *db.PayoutRequest) (int64, error)
	DeleteCard(chatID int64, messageID int64) error
}

// Sweeper возвращает просроченные отложенные заявки в очередь:
// публикует свежую карточку и переводит строку обратно в open.
type Sweeper struct {
	store         Store
	poster        Poster
	defaultChatID int64
}

func New(store Store, poster Poster, defaultChatID int64) *Sweeper {
	return &Sweeper{
		store:         store,
		poster:        poster,
		defaultChatID: defaultChatID,
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(Interval)
		defer ticker.Stop()

		s.Run(time.Now())

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Run(time.Now())
			}
		}
	}()
}

// Run обрабатывает все просроченные заявки за один проход. Сбой на одной
// заявке не прерывает обработку остальных.
func (s *Sweeper) Run(now time.Time) {
	due, err := s.store.GetDueCooldowns(now)
	if err != nil {
		log.Printf("sweep: failed to load due cooldowns: %v", err)
		return
	}

	for i := range due {
		if err := s.requeue(&due[i], now); err != nil {
			log.Printf("sweep: requeue request %d: %v", due[i].ID, err)
		}
	}
}

func (s *Sweeper) requeue(req *db.PayoutRequest, now time.Time) error {
	chatID := s.defaultChatID
	if req.ChatID != nil {
		chatID = *req.ChatID
	}

	// Карточка публикуется до перевода строки в open: пока статус cooldown,
	// заявка остаётся в выборке, и при сбое публикации её подхватит
	// следующий тик. Строка не может остаться open без карточки.
	reopened := *req
	reopened.Status = payout.StatusOpen
	reopened.DueAt = nil
	reopened.ActorID = nil

	messageID, err := s.poster.PostCard(chatID, &reopened)
	if err != nil {
		return fmt.Errorf("Sweeper.requeue: post card: %w", err)
	}

	won, err := s.store.ReopenWithCard(req.ID, messageID, chatID, now)
	if err != nil {
		return fmt.Errorf("Sweeper.requeue: reopen: %w", err)
	}

	if !won {
		// Заявку успел обработать другой тик или менеджер — убираем дубликат.
		if err := s.poster.DeleteCard(chatID, messageID); err != nil {
			log.Printf("sweep: delete duplicate card %d: %v", messageID, err)
		}
	}

	return nil
}
