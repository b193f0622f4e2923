package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HasPayoutAccess решает, может ли пользователь подавать и обрабатывать
// заявки: администратор рабочего чата — всегда, остальные — только если
// список разрешённых непуст и содержит пользователя.
func HasPayoutAccess(member tgbotapi.ChatMember, allowed map[int64]bool, userID int64) bool {
	if member.IsCreator() || member.IsAdministrator() {
		return true
	}

	if member.CanManageChat {
		return true
	}

	if len(allowed) == 0 {
		return false
	}

	return allowed[userID]
}
