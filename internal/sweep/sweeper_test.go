package sweep

import (
	"errors"
	"testing"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gratefultolord/ac_payout_bot/internal/db"
	"github.com/gratefultolord/ac_payout_bot/internal/payout"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetDueCooldowns(now time.Time) ([]db.PayoutRequest, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.PayoutRequest), args.Error(1)
}

func (m *mockStore) ReopenWithCard(requestID int64, messageID int64, chatID int64, now time.Time) (bool, error) {
	args := m.Called(requestID, messageID, chatID, now)
	return args.Bool(0), args.Error(1)
}

type mockPoster struct {
	mock.Mock
}

func (m *mockPoster) PostCard(chatID int64, req *db.PayoutRequest) (int64, error) {
	args := m.Called(chatID, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPoster) DeleteCard(chatID int64, messageID int64) error {
	args := m.Called(chatID, messageID)
	return args.Error(0)
}

func dueRequest(id int64, chatID *int64, due time.Time) db.PayoutRequest {
	return db.PayoutRequest{
		ID:        id,
		Payee:     "Иван",
		Amount:    100,
		ChatID:    chatID,
		Status:    payout.StatusCooldown,
		DueAt:     pointer.ToInt64(due.UnixMilli()),
		ActorID:   pointer.ToInt64(7),
		UpdatedAt: due.UnixMilli(),
	}
}

func TestSweeperRequeuesDueRow(t *testing.T) {
	now := time.Now()
	store := new(mockStore)
	poster := new(mockPoster)

	row := dueRequest(12, pointer.ToInt64(100), now.Add(-time.Minute))
	store.On("GetDueCooldowns", now).Return([]db.PayoutRequest{row}, nil)

	// Свежая карточка публикуется уже открытой, без срока и без актёра.
	poster.On("PostCard", int64(100), mock.MatchedBy(func(req *db.PayoutRequest) bool {
		return req.ID == 12 && req.Status == payout.StatusOpen && req.DueAt == nil && req.ActorID == nil
	})).Return(int64(555), nil)

	store.On("ReopenWithCard", int64(12), int64(555), int64(100), now).Return(true, nil)

	New(store, poster, 1).Run(now)

	store.AssertExpectations(t)
	poster.AssertExpectations(t)
	poster.AssertNotCalled(t, "DeleteCard", mock.Anything, mock.Anything)
}

func TestSweeperUsesDefaultChat(t *testing.T) {
	now := time.Now()
	store := new(mockStore)
	poster := new(mockPoster)

	row := dueRequest(3, nil, now.Add(-time.Hour))
	store.On("GetDueCooldowns", now).Return([]db.PayoutRequest{row}, nil)
	poster.On("PostCard", int64(999), mock.Anything).Return(int64(10), nil)
	store.On("ReopenWithCard", int64(3), int64(10), int64(999), now).Return(true, nil)

	New(store, poster, 999).Run(now)

	store.AssertExpectations(t)
	poster.AssertExpectations(t)
}

func TestSweeperIsolatesRowFailures(t *testing.T) {
	now := time.Now()
	store := new(mockStore)
	poster := new(mockPoster)

	first := dueRequest(1, pointer.ToInt64(100), now.Add(-time.Minute))
	second := dueRequest(2, pointer.ToInt64(100), now.Add(-time.Minute))
	store.On("GetDueCooldowns", now).Return([]db.PayoutRequest{first, second}, nil)

	poster.On("PostCard", int64(100), mock.MatchedBy(func(req *db.PayoutRequest) bool {
		return req.ID == 1
	})).Return(int64(0), errors.New("telegram down"))

	poster.On("PostCard", int64(100), mock.MatchedBy(func(req *db.PayoutRequest) bool {
		return req.ID == 2
	})).Return(int64(20), nil)

	store.On("ReopenWithCard", int64(2), int64(20), int64(100), now).Return(true, nil)

	New(store, poster, 1).Run(now)

	// Первая заявка осталась в cooldown и будет повторена следующим тиком.
	store.AssertNotCalled(t, "ReopenWithCard", int64(1), mock.Anything, mock.Anything, mock.Anything)
	store.AssertExpectations(t)
	poster.AssertExpectations(t)
}

func TestSweeperDeletesDuplicateOnLostRace(t *testing.T) {
	now := time.Now()
	store := new(mockStore)
	poster := new(mockPoster)

	row := dueRequest(5, pointer.ToInt64(100), now.Add(-time.Minute))
	store.On("GetDueCooldowns", now).Return([]db.PayoutRequest{row}, nil)
	poster.On("PostCard", int64(100), mock.Anything).Return(int64(77), nil)
	store.On("ReopenWithCard", int64(5), int64(77), int64(100), now).Return(false, nil)
	poster.On("DeleteCard", int64(100), int64(77)).Return(nil)

	New(store, poster, 1).Run(now)

	store.AssertExpectations(t)
	poster.AssertExpectations(t)
}

func TestSweeperSkipsTickOnQueryError(t *testing.T) {
	now := time.Now()
	store := new(mockStore)
	poster := new(mockPoster)

	store.On("GetDueCooldowns", now).Return(nil, errors.New("db down"))

	New(store, poster, 1).Run(now)

	assert.Empty(t, poster.Calls)
}
