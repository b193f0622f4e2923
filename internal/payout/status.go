package payout

import "time"

// Статусы заявки на выплату.
const (
	StatusOpen     = "open"
	StatusPaid     = "paid"
	StatusDeclined = "declined"
	StatusCooldown = "cooldown"
)

// Действия на карточке заявки.
const (
	ActionPay      = "pay"
	ActionCooldown = "cooldown"
	ActionDecline  = "decline"
)

// CooldownDelay — через сколько отложенная заявка возвращается в очередь.
const CooldownDelay = 14 * 24 * time.Hour

var statusByAction = map[string]string{
	ActionPay:      StatusPaid,
	ActionCooldown: StatusCooldown,
	ActionDecline:  StatusDeclined,
}

// StatusForAction возвращает статус, в который переводит действие.
func StatusForAction(action string) (string, bool) {
	status, ok := statusByAction[action]
	return status, ok
}

var transitions = map[string]map[string]struct{}{
	StatusOpen:     {StatusPaid: {}, StatusDeclined: {}, StatusCooldown: {}},
	StatusPaid:     {},
	StatusDeclined: {},
	StatusCooldown: {StatusOpen: {}},
}

// CanTransition сообщает, допустим ли переход между статусами.
// Возврат cooldown -> open выполняет только фоновый обход.
func CanTransition(from, to string) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// AllowAction решает, можно ли применить действие к заявке в данном статусе.
// override воспроизводит поведение без защиты: любое действие продолжает
// менять заявку даже после финального статуса.
func AllowAction(status string, override bool) bool {
	return status == StatusOpen || override
}
