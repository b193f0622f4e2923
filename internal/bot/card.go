package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/gratefultolord/ac_payout_bot/internal/db"
	"github.com/gratefultolord/ac_payout_bot/internal/payout"
)

var statusBadges = map[string]string{
	payout.StatusOpen:     "🟡 В ожидании",
	payout.StatusPaid:     "🟢 Выплачено",
	payout.StatusDeclined: "🔴 Отклонено",
	payout.StatusCooldown: "🟣 Отложено",
}

// RenderCard собирает текст карточки заявки. Одна и та же заявка всегда
// отображается одинаково.
func RenderCard(req *db.PayoutRequest) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Заявка на выплату #%d\n", req.ID)
	fmt.Fprintf(&sb, "%s\n\n", statusBadges[req.Status])
	fmt.Fprintf(&sb, "Получатель: %s\n", req.Payee)
	fmt.Fprintf(&sb, "Сумма: %d", req.Amount)

	if req.EventDate != "" {
		fmt.Fprintf(&sb, "\nДата: %s", req.EventDate)
	}

	if req.Details != "" {
		fmt.Fprintf(&sb, "\nСобытие: %s", req.Details)
	}

	fmt.Fprintf(&sb, "\n\nЗапросил: %d", req.RequesterID)

	if req.ActorID != nil {
		fmt.Fprintf(&sb, "\nОбработал: %d", *req.ActorID)
	}

	fmt.Fprintf(&sb, "\nRef: %s", req.Reference)

	return sb.String()
}

// CardKeyboard возвращает кнопки действий. Кнопки есть только у открытой
// заявки; у финальных статусов клавиатура снимается.
func CardKeyboard(status string) *tgbotapi.InlineKeyboardMarkup {
	if status != payout.StatusOpen {
		return nil
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Выплатить", "payout:"+payout.ActionPay),
			tgbotapi.NewInlineKeyboardButtonData("Отложить", "payout:"+payout.ActionCooldown),
			tgbotapi.NewInlineKeyboardButtonData("Отклонить", "payout:"+payout.ActionDecline),
		),
	)

	return &kb
}
