package bot

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/gratefultolord/ac_payout_bot/internal/config"
	"github.com/gratefultolord/ac_payout_bot/internal/db"
	"github.com/gratefultolord/ac_payout_bot/internal/payout"
)

type BotService struct {
	botAPI      *tgbotapi.BotAPI
	payoutRepo  *db.PayoutRequestRepository
	managerRepo *db.ManagerRepository
	cfg         *config.Config
	allowed     map[int64]bool
	formStates  map[int64]*FormState
}

func New(
	botAPI *tgbotapi.BotAPI,
	payoutRepo *db.PayoutRequestRepository,
	managerRepo *db.ManagerRepository,
	cfg *config.Config,
	allowed map[int64]bool,
) *BotService {
	return &BotService{
		botAPI:      botAPI,
		payoutRepo:  payoutRepo,
		managerRepo: managerRepo,
		cfg:         cfg,
		allowed:     allowed,
		formStates:  make(map[int64]*FormState),
	}
}

func (b *BotService) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.botAPI.GetUpdatesChan(u)

	for update := range updates {
		if update.CallbackQuery != nil {
			b.handleCallback(update.CallbackQuery)
			continue
		}

		if update.Message == nil {
			continue
		}

		b.handleMessage(update.Message)
	}
}

func (b *BotService) handleMessage(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	chatID := msg.Chat.ID
	userID := msg.From.ID

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.handleStart(chatID)
		case "payout":
			b.handlePayoutCommand(chatID, userID)
		case "manager_add":
			b.handleManagerAdd(chatID, userID, msg.CommandArguments())
		}
		return
	}

	state, exists := b.formStates[userID]
	if !exists {
		return
	}

	if msg.Text == "Отмена" {
		delete(b.formStates, userID)
		reply := tgbotapi.NewMessage(chatID, "Действие отменено")
		reply.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		b.botAPI.Send(reply)
		return
	}

	switch state.Step {
	case StepPayee:
		b.handlePayee(state, chatID, msg.Text)
	case StepAmount:
		b.handleAmount(state, chatID, msg.Text)
	case StepDate:
		b.handleDate(state, chatID, msg.Text)
	case StepDetails:
		b.handleDetails(state, chatID, userID, msg.Text)
	default:
		log.Printf("Unknown form step %s for userID %d", state.Step, userID)
		delete(b.formStates, userID)
	}
}

func (b *BotService) handleStart(chatID int64) {
	text := "Бот заявок на выплаты.\n\n" +
		"/payout — подать заявку на выплату\n" +
		"/manager_add <user_id> — добавить менеджера (только для админов)"
	b.botAPI.Send(tgbotapi.NewMessage(chatID, text))
}

func (b *BotService) handlePayoutCommand(chatID int64, userID int64) {
	if !b.isAuthorized(userID) {
		b.botAPI.Send(tgbotapi.NewMessage(chatID, "Недостаточно прав для подачи заявки"))
		return
	}

	b.formStates[userID] = &FormState{Step: StepPayee, ChatID: chatID}

	msg := tgbotapi.NewMessage(chatID, "Кому выплата? Введите имя получателя:")
	msg.ReplyMarkup = cancelKeyboard()
	b.botAPI.Send(msg)
}

func (b *BotService) handlePayee(state *FormState, chatID int64, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		b.botAPI.Send(tgbotapi.NewMessage(chatID, "Пожалуйста, введите имя получателя:"))
		return
	}

	state.Payee = text
	state.Step = StepAmount
	b.botAPI.Send(tgbotapi.NewMessage(chatID, "Введите сумму (целое число):"))
}

func (b *BotService) handleAmount(state *FormState, chatID int64, text string) {
	amount, ok := payout.ParseAmount(text)
	if !ok {
		b.botAPI.Send(tgbotapi.NewMessage(chatID, "Сумма должна быть целым положительным числом. Введите ещё раз:"))
		return
	}

	state.Amount = amount
	state.Step = StepDate

	msg := tgbotapi.NewMessage(chatID, "Введите дату события (например, 2/7/2025 или 2025-02-07):")
	msg.ReplyMarkup = dateKeyboard()
	b.botAPI.Send(msg)
}

func (b *BotService) handleDate(state *FormState, chatID int64, text string) {
	var normalized string

	if text == "Сегодня" {
		normalized = payout.FormatDate(time.Now())
	} else {
		var ok bool
		normalized, ok = payout.NormalizeDate(text)
		if !ok {
			b.botAPI.Send(tgbotapi.NewMessage(chatID, "Неверный формат даты. Примеры: 2/7/2025, 2025-02-07. Введите ещё раз:"))
			return
		}
	}

	state.EventDate = normalized
	state.Step = StepDetails

	msg := tgbotapi.NewMessage(chatID, "Опишите событие:")
	msg.ReplyMarkup = cancelKeyboard()
	b.botAPI.Send(msg)
}

func (b *BotService) handleDetails(state *FormState, chatID int64, userID int64, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		b.botAPI.Send(tgbotapi.NewMessage(chatID, "Описание не может быть пустым. Введите текст:"))
		return
	}

	// Проверяем журнальный чат до создания строки: при недоступном чате
	// заявка не сохраняется.
	if _, err := b.botAPI.GetChat(tgbotapi.ChatInfoConfig{ChatConfig: tgbotapi.ChatConfig{ChatID: b.cfg.LogChatID}}); err != nil {
		log.Printf("Error resolving log chat %d: %v", b.cfg.LogChatID, err)
		b.botAPI.Send(tgbotapi.NewMessage(chatID, "Журнальный чат недоступен. Заявка не создана."))
		return
	}

	req, err := b.payoutRepo.Create(state.Payee, state.Amount, state.EventDate, text, userID, time.Now())
	if err != nil {
		log.Printf("Error creating payout request: %v", err)
		b.botAPI.Send(tgbotapi.NewMessage(chatID, "Ошибка при сохранении заявки. Попробуйте снова."))
		return
	}

	delete(b.formStates, userID)

	messageID, err := b.PostCard(b.cfg.LogChatID, req)
	if err != nil {
		log.Printf("Error posting card for request %d: %v", req.ID, err)
		b.botAPI.Send(tgbotapi.NewMessage(chatID, "Заявка сохранена, но карточку опубликовать не удалось."))
		return
	}

	if err := b.payoutRepo.AttachCard(req.ID, messageID, b.cfg.LogChatID, time.Now()); err != nil {
		log.Printf("Error attaching card to request %d: %v", req.ID, err)
	}

	confirm := tgbotapi.NewMessage(chatID, fmt.Sprintf("Заявка #%d создана и отправлена в журнал.", req.ID))
	confirm.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	b.botAPI.Send(confirm)
}

func (b *BotService) handleManagerAdd(chatID int64, userID int64, args string) {
	member, err := b.staffMember(userID)
	if err != nil || !(member.IsCreator() || member.IsAdministrator()) {
		b.botAPI.Send(tgbotapi.NewMessage(chatID, "Добавлять менеджеров могут только админы рабочего чата"))
		return
	}

	newID, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		b.botAPI.Send(tgbotapi.NewMessage(chatID, "Использование: /manager_add <user_id>"))
		return
	}

	if err := b.managerRepo.Create(newID, userID); err != nil {
		log.Printf("Error adding manager %d: %v", newID, err)
		b.botAPI.Send(tgbotapi.NewMessage(chatID, "Ошибка при добавлении менеджера"))
		return
	}

	b.allowed[newID] = true
	b.botAPI.Send(tgbotapi.NewMessage(chatID, "Менеджер добавлен"))
}

func (b *BotService) handleCallback(cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}

	userID := cb.From.ID
	action := strings.TrimPrefix(cb.Data, "payout:")

	if !b.isAuthorized(userID) {
		b.answer(cb, "Недостаточно прав")
		return
	}

	next, ok := payout.StatusForAction(action)
	if !ok {
		b.answer(cb, "Неизвестное действие")
		return
	}

	req, err := b.payoutRepo.GetByCardMessage(int64(cb.Message.MessageID))
	if err != nil {
		log.Printf("Error loading request for message %d: %v", cb.Message.MessageID, err)
		b.answer(cb, "Ошибка при загрузке заявки")
		return
	}

	if req == nil {
		b.answer(cb, "Заявка не найдена")
		return
	}

	if !payout.AllowAction(req.Status, b.cfg.AllowStatusOverride) {
		// Устаревшая карточка: перерисовываем, чтобы снять кнопки.
		b.editCard(cb.Message.Chat.ID, cb.Message.MessageID, req)
		b.answer(cb, "Заявка уже обработана")
		return
	}

	now := time.Now()

	var dueAt *time.Time
	if next == payout.StatusCooldown {
		t := now.Add(payout.CooldownDelay)
		dueAt = &t
	}

	updated, err := b.payoutRepo.SetStatus(req.ID, next, userID, now, dueAt)
	if err != nil {
		log.Printf("Error updating request %d: %v", req.ID, err)
		b.answer(cb, "Ошибка при обновлении заявки")
		return
	}

	b.editCard(cb.Message.Chat.ID, cb.Message.MessageID, updated)
	b.answer(cb, confirmations[next])
}

var confirmations = map[string]string{
	payout.StatusPaid:     "Выплата отмечена",
	payout.StatusCooldown: "Заявка отложена на 14 дней",
	payout.StatusDeclined: "Заявка отклонена",
}

// PostCard публикует карточку заявки и возвращает id сообщения.
func (b *BotService) PostCard(chatID int64, req *db.PayoutRequest) (int64, error) {
	msg := tgbotapi.NewMessage(chatID, RenderCard(req))
	if kb := CardKeyboard(req.Status); kb != nil {
		msg.ReplyMarkup = *kb
	}

	sent, err := b.botAPI.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("BotService.PostCard: %w", err)
	}

	return int64(sent.MessageID), nil
}

func (b *BotService) DeleteCard(chatID int64, messageID int64) error {
	_, err := b.botAPI.Request(tgbotapi.NewDeleteMessage(chatID, int(messageID)))
	if err != nil {
		return fmt.Errorf("BotService.DeleteCard: %w", err)
	}

	return nil
}

// editCard перерисовывает карточку на месте. Если заявка больше не открыта,
// клавиатура не передаётся и кнопки снимаются.
func (b *BotService) editCard(chatID int64, messageID int, req *db.PayoutRequest) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, RenderCard(req))
	if kb := CardKeyboard(req.Status); kb != nil {
		edit.ReplyMarkup = kb
	}

	if _, err := b.botAPI.Send(edit); err != nil {
		log.Printf("Error editing card message %d: %v", messageID, err)
	}
}

func (b *BotService) answer(cb *tgbotapi.CallbackQuery, text string) {
	if _, err := b.botAPI.Request(tgbotapi.NewCallback(cb.ID, text)); err != nil {
		log.Printf("Error answering callback %s: %v", cb.ID, err)
	}
}

func (b *BotService) isAuthorized(userID int64) bool {
	member, err := b.staffMember(userID)
	if err != nil {
		log.Printf("Error loading chat member %d: %v", userID, err)
		return b.allowed[userID]
	}

	return HasPayoutAccess(member, b.allowed, userID)
}

func (b *BotService) staffMember(userID int64) (tgbotapi.ChatMember, error) {
	member, err := b.botAPI.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: b.cfg.StaffChatID,
			UserID: userID,
		},
	})
	if err != nil {
		return tgbotapi.ChatMember{}, fmt.Errorf("BotService.staffMember: %w", err)
	}

	return member, nil
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Отмена"),
		),
	)
}

func dateKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Сегодня"),
			tgbotapi.NewKeyboardButton("Отмена"),
		),
	)
}
