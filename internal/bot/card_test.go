package bot

import (
	"strings"
	"testing"

	"github.com/AlekSi/pointer"

	"github.com/gratefultolord/ac_payout_bot/internal/db"
	"github.com/gratefultolord/ac_payout_bot/internal/payout"
)

func testRequest(status string) *db.PayoutRequest {
	return &db.PayoutRequest{
		ID:          12,
		Reference:   "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		Payee:       "Иван Петров",
		Amount:      100,
		EventDate:   "2/7/2025",
		Details:     "Призовой фонд турнира",
		Status:      status,
		RequesterID: 111,
	}
}

func TestRenderCardOpen(t *testing.T) {
	req := testRequest(payout.StatusOpen)

	text := RenderCard(req)

	for _, want := range []string{"#12", "🟡", "Иван Петров", "Сумма: 100", "Дата: 2/7/2025", "Событие: Призовой фонд турнира", "Запросил: 111"} {
		if !strings.Contains(text, want) {
			t.Fatalf("card text missing %q:\n%s", want, text)
		}
	}

	if strings.Contains(text, "Обработал") {
		t.Fatal("unprocessed card must not show an actor")
	}
}

func TestRenderCardBadges(t *testing.T) {
	cases := []struct {
		status string
		badge  string
	}{
		{payout.StatusOpen, "🟡"},
		{payout.StatusPaid, "🟢"},
		{payout.StatusDeclined, "🔴"},
		{payout.StatusCooldown, "🟣"},
	}

	for _, tc := range cases {
		text := RenderCard(testRequest(tc.status))
		if !strings.Contains(text, tc.badge) {
			t.Fatalf("status %s: expected badge %s in card:\n%s", tc.status, tc.badge, text)
		}
	}
}

func TestRenderCardOmitsEmptyFields(t *testing.T) {
	req := testRequest(payout.StatusOpen)
	req.EventDate = ""
	req.Details = ""

	text := RenderCard(req)

	if strings.Contains(text, "Дата:") || strings.Contains(text, "Событие:") {
		t.Fatalf("empty fields must be omitted:\n%s", text)
	}
}

func TestRenderCardShowsActor(t *testing.T) {
	req := testRequest(payout.StatusPaid)
	req.ActorID = pointer.ToInt64(222)

	text := RenderCard(req)

	if !strings.Contains(text, "Обработал: 222") {
		t.Fatalf("processed card must show the actor:\n%s", text)
	}
}

func TestRenderCardDeterministic(t *testing.T) {
	req := testRequest(payout.StatusCooldown)

	if RenderCard(req) != RenderCard(req) {
		t.Fatal("same request must always render identically")
	}
}

func TestCardKeyboard(t *testing.T) {
	kb := CardKeyboard(payout.StatusOpen)
	if kb == nil {
		t.Fatal("open request must have action buttons")
	}
	if len(kb.InlineKeyboard) != 1 || len(kb.InlineKeyboard[0]) != 3 {
		t.Fatalf("expected one row of three buttons, got %v", kb.InlineKeyboard)
	}

	for _, status := range []string{payout.StatusPaid, payout.StatusDeclined, payout.StatusCooldown} {
		if CardKeyboard(status) != nil {
			t.Fatalf("status %s must not have action buttons", status)
		}
	}
}
