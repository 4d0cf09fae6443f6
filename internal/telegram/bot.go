package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/assessment"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/config"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/plan"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/shopping"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/store"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API and drives the assessment wizard and the
// active plan through the store.
type Bot struct {
	api   *tgbotapi.BotAPI
	store *store.Store
	cfg   *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, st *store.Store) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	webhookURL := cfg.TelegramWebhookURL
	wh, _ := tgbotapi.NewWebhook(webhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:   bot,
		store: st,
		cfg:   cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.CallbackQuery != nil {
		if !b.isAllowed(update.CallbackQuery.From.ID) {
			return
		}
		go b.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	if !b.isAllowed(update.Message.From.ID) {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) isAllowed(userID int64) bool {
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if userID == id {
			return true
		}
	}
	return false
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	b.ensureSignedIn(msg.From.ID)

	switch {
	case msg.Text == "/start":
		b.sendStep(msg.Chat.ID)
	case msg.Text == "/plan":
		b.sendActivePlan(msg.Chat.ID)
	case msg.Text == "/lista":
		b.sendShoppingList(msg.Chat.ID)
	case msg.Text == "/reset":
		b.handleReset(msg.Chat.ID)
	default:
		b.handleStepInput(msg.Chat.ID, msg.Text)
	}
}

func (b *Bot) ensureSignedIn(telegramID int64) {
	if b.store.UserID() != "" {
		return
	}
	if err := b.store.SetUserID(fmt.Sprintf("tg-%d", telegramID)); err != nil {
		log.Printf("Warning: failed to store user id: %v", err)
	}
}

// handleStepInput feeds free-text messages into the step the wizard is on.
// Steps whose fields are covered by inline keyboards ignore text.
func (b *Bot) handleStepInput(chatID int64, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	switch b.store.WizardStep() {
	case assessment.StepBiometrics:
		age, heightCm, weightLb, ok := parseBiometrics(text)
		if !ok {
			b.send(chatID, "Formato: `edad estatura(cm) peso(lb)`, por ejemplo `32 170 180`")
			return
		}
		b.updateForm(chatID, func(f *assessment.Form) {
			f.Age = age
			f.HeightCm = heightCm
			f.WeightLb = weightLb
		})
		b.sendStep(chatID)
	case assessment.StepLifestyle:
		sleep, stress, ok := parseLifestyle(text)
		if !ok {
			b.send(chatID, "Formato: `horas-de-sueño estrés(1-10)`, por ejemplo `7 4`")
			return
		}
		b.updateForm(chatID, func(f *assessment.Form) {
			f.SleepHours = sleep
			f.StressLevel = stress
		})
		b.sendStep(chatID)
	case assessment.StepPreferences:
		b.updateForm(chatID, func(f *assessment.Form) {
			f.Allergies = splitList(text)
		})
		b.sendStep(chatID)
	case assessment.StepGoals:
		b.updateForm(chatID, func(f *assessment.Form) {
			f.Motivation = text
		})
		b.sendStep(chatID)
	default:
		b.sendStep(chatID)
	}
}

func (b *Bot) updateForm(chatID int64, mutate func(*assessment.Form)) {
	if err := b.store.UpdateForm(mutate); err != nil {
		log.Printf("Error persisting form: %v", err)
		b.send(chatID, "❌ No se pudo guardar tu respuesta, intenta de nuevo.")
	}
}

func parseBiometrics(text string) (age int, heightCm, weightLb float64, ok bool) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return 0, 0, 0, false
	}
	age, err1 := strconv.Atoi(fields[0])
	heightCm, err2 := strconv.ParseFloat(fields[1], 64)
	weightLb, err3 := strconv.ParseFloat(fields[2], 64)
	if err1 != nil || err2 != nil || err3 != nil || age <= 0 || heightCm <= 0 || weightLb <= 0 {
		return 0, 0, 0, false
	}
	return age, heightCm, weightLb, true
}

func parseLifestyle(text string) (sleep, stress string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return "", "", false
	}
	sleepHours, err1 := strconv.ParseFloat(fields[0], 64)
	stressLevel, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil || sleepHours <= 0 || stressLevel < 1 || stressLevel > 10 {
		return "", "", false
	}
	return fields[0], fields[1], true
}

func splitList(text string) []string {
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// sendStep renders the wizard's current step with its inline keyboard.
func (b *Bot) sendStep(chatID int64) {
	text, keyboard := stepPrompt(b.store.WizardStep())
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboard
	b.api.Send(msg)
}

func stepPrompt(step assessment.Step) (string, tgbotapi.InlineKeyboardMarkup) {
	switch step {
	case assessment.StepIntro:
		return "👋 *Bienvenido a MealFit*\n\nResponde unas preguntas y armamos tu plan de comidas personalizado.",
			tgbotapi.NewInlineKeyboardMarkup(
				tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonData("Empezar ▶️", "next"),
				),
			)
	case assessment.StepBiometrics:
		return "📏 *Sobre ti*\n\nEscribe tu edad, estatura (cm) y peso (lb) separados por espacios, por ejemplo `32 170 180`.\nLuego elige tu género:",
			withNav(tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Hombre", "set|gender|male"),
				tgbotapi.NewInlineKeyboardButtonData("Mujer", "set|gender|female"),
			))
	case assessment.StepLifestyle:
		return "🛋 *Tu día a día*\n\nEscribe tus horas de sueño y nivel de estrés (1-10), por ejemplo `7 4`.\nLuego elige cuánto tiempo cocinas y tu presupuesto:",
			withNav(
				tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonData("⏱ 30 min", "set|cooking_time|30min"),
					tgbotapi.NewInlineKeyboardButtonData("🍳 1 hora", "set|cooking_time|1hour"),
					tgbotapi.NewInlineKeyboardButtonData("👨‍🍳 Sin apuro", "set|cooking_time|plenty"),
				),
				tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonData("💵 Ajustado", "set|budget|low"),
					tgbotapi.NewInlineKeyboardButtonData("💰 Medio", "set|budget|medium"),
					tgbotapi.NewInlineKeyboardButtonData("💎 Alto", "set|budget|high"),
				))
	case assessment.StepPreferences:
		return "🥗 *Preferencias*\n\nElige tu tipo de dieta. Si tienes alergias, escríbelas separadas por comas:",
			withNav(
				tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonData("Balanceada", "set|diet_type|balanced"),
					tgbotapi.NewInlineKeyboardButtonData("Vegetariana", "set|diet_type|vegetarian"),
				),
				tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonData("Vegana", "set|diet_type|vegan"),
					tgbotapi.NewInlineKeyboardButtonData("Keto", "set|diet_type|keto"),
				))
	default: // StepGoals
		return "🎯 *Tu meta*\n\nElige tu objetivo principal y escribe en una frase qué te motiva:",
			tgbotapi.NewInlineKeyboardMarkup(
				tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonData("Perder grasa", "set|main_goal|lose_fat"),
					tgbotapi.NewInlineKeyboardButtonData("Ganar músculo", "set|main_goal|gain_muscle"),
				),
				tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonData("Mantenerme", "set|main_goal|maintenance"),
					tgbotapi.NewInlineKeyboardButtonData("Rendimiento", "set|main_goal|performance"),
				),
				tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonData("◀️ Atrás", "prev"),
					tgbotapi.NewInlineKeyboardButtonData("🍽 Generar mi plan", "generate"),
				),
			)
	}
}

func withNav(rows ...[]tgbotapi.InlineKeyboardButton) tgbotapi.InlineKeyboardMarkup {
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ Atrás", "prev"),
		tgbotapi.NewInlineKeyboardButtonData("Siguiente ▶️", "next"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	b.ensureSignedIn(query.From.ID)

	// Answer callback to remove spinner
	b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	chatID := query.Message.Chat.ID
	parts := strings.Split(query.Data, "|")

	switch parts[0] {
	case "next":
		if !b.store.NextStep() {
			b.send(chatID, "Falta completar este paso antes de seguir.")
			return
		}
		b.sendStep(chatID)
	case "prev":
		b.store.PrevStep()
		b.sendStep(chatID)
	case "set":
		if len(parts) != 3 {
			return
		}
		b.applySetting(chatID, parts[1], parts[2])
	case "generate":
		if !assessment.StepComplete(assessment.StepGoals, b.store.Form()) {
			b.send(chatID, "Falta completar este paso antes de seguir.")
			return
		}
		b.generateAndSendPlan(chatID)
	case "like":
		b.handleLike(query, parts)
	case "regen":
		b.handleRegen(chatID, parts)
	}
}

func (b *Bot) applySetting(chatID int64, field, value string) {
	b.updateForm(chatID, func(f *assessment.Form) {
		switch field {
		case "gender":
			f.Gender = assessment.Gender(value)
		case "cooking_time":
			f.CookingTime = assessment.CookingTime(value)
		case "budget":
			f.Budget = assessment.Budget(value)
		case "diet_type":
			f.DietType = assessment.DietType(value)
		case "main_goal":
			f.MainGoal = assessment.Goal(value)
		}
	})
}

func (b *Bot) generateAndSendPlan(chatID int64) {
	statusText := "🧑‍🍳 *Pensando...* \n(Armando tu plan personalizado)"
	replyMsg := tgbotapi.NewMessage(chatID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	p, err := b.store.GeneratePlan(context.Background())
	if err != nil {
		log.Printf("Error generating plan: %v", err)
		edit := tgbotapi.NewEditMessageText(chatID, sentMsg.MessageID, generationErrorText(err))
		b.api.Send(edit)
		return
	}

	edit := tgbotapi.NewEditMessageText(chatID, sentMsg.MessageID, formatPlanMarkdown(p))
	edit.ParseMode = "Markdown"
	keyboard := planKeyboard(p)
	edit.ReplyMarkup = &keyboard
	b.api.Send(edit)

	b.sendShoppingList(chatID)
}

// generationErrorText distinguishes a rejected duplicate submission from a
// real failure, which would otherwise read as "still in progress".
func generationErrorText(err error) string {
	if errors.Is(err, store.ErrGenerationInFlight) {
		return "⏳ Ya hay un plan en camino, espera un momento."
	}
	return "❌ No se pudo generar tu plan, intenta de nuevo."
}

func (b *Bot) sendActivePlan(chatID int64) {
	p := b.store.Plan()
	if p == nil {
		b.send(chatID, "Todavía no tienes un plan. Envía /start para crear uno.")
		return
	}
	msg := tgbotapi.NewMessage(chatID, formatPlanMarkdown(p))
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = planKeyboard(p)
	b.api.Send(msg)
}

func (b *Bot) sendShoppingList(chatID int64) {
	p := b.store.Plan()
	if p == nil {
		b.send(chatID, "Todavía no tienes un plan. Envía /start para crear uno.")
		return
	}
	items := shopping.Derive(p)
	msg := tgbotapi.NewMessage(chatID, formatShoppingListMarkdown(items))
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}

func (b *Bot) handleLike(query *tgbotapi.CallbackQuery, parts []string) {
	chatID := query.Message.Chat.ID
	if len(parts) != 2 {
		return
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil {
		return
	}
	p := b.store.Plan()
	if p == nil || idx < 0 || idx >= len(p.PerfectDay) {
		return
	}
	meal := p.PerfectDay[idx]

	liked, err := b.store.ToggleLike(context.Background(), meal.Name, meal.Slot)
	if err != nil {
		log.Printf("Error toggling like: %v", err)
		b.send(chatID, fmt.Sprintf("❌ No se pudo guardar tu me gusta de *%s*.", meal.Name))
		return
	}
	if liked {
		b.send(chatID, fmt.Sprintf("❤️ Guardamos *%s* entre tus favoritos.", meal.Name))
	} else {
		b.send(chatID, fmt.Sprintf("💔 Quitamos *%s* de tus favoritos.", meal.Name))
	}
}

func (b *Bot) handleRegen(chatID int64, parts []string) {
	if len(parts) != 2 {
		return
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil {
		return
	}
	p := b.store.Plan()
	if p == nil || idx < 0 || idx >= len(p.PerfectDay) {
		return
	}
	meal := p.PerfectDay[idx]

	newName, err := b.store.RegenerateMeal(idx, meal.Slot, meal.Name)
	if err != nil {
		log.Printf("Error regenerating meal: %v", err)
		b.send(chatID, "❌ No se pudo cambiar ese plato, intenta de nuevo.")
		return
	}
	b.send(chatID, fmt.Sprintf("🔄 Cambiamos *%s* por *%s*.", meal.Name, newName))
	b.sendActivePlan(chatID)
}

func (b *Bot) handleReset(chatID int64) {
	if err := b.store.Reset(); err != nil {
		log.Printf("Error resetting state: %v", err)
	}
	b.send(chatID, "🧹 Empezamos de cero. Envía /start cuando quieras.")
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}

func planKeyboard(p *plan.Plan) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(p.PerfectDay))
	for i, meal := range p.PerfectDay {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("❤️ %s", meal.Slot), fmt.Sprintf("like|%d", i)),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🔄 %s", meal.Slot), fmt.Sprintf("regen|%d", i)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func formatPlanMarkdown(p *plan.Plan) string {
	var sb strings.Builder
	sb.WriteString("🍽 *Tu plan de hoy*\n\n")
	sb.WriteString(fmt.Sprintf("🔥 *%d kcal* · P %s · C %s · G %s\n\n", p.Calories, p.Macros.Protein, p.Macros.Carbs, p.Macros.Fats))

	for _, meal := range p.PerfectDay {
		sb.WriteString(fmt.Sprintf("*%s*: %s (%d kcal)\n", meal.Slot, meal.Name, meal.Cals))
		if meal.Desc != "" {
			sb.WriteString(fmt.Sprintf("_%s_\n", meal.Desc))
		}
		sb.WriteString("\n")
	}

	if len(p.Insights) > 0 {
		sb.WriteString("💡 *Consejos*\n")
		for _, insight := range p.Insights {
			sb.WriteString(fmt.Sprintf("• %s\n", insight))
		}
	}
	return sb.String()
}

func formatShoppingListMarkdown(items []string) string {
	if len(items) == 0 {
		return "🛒 *Lista de compras*\n\n_Vacía por ahora_"
	}

	grouped := map[shopping.Category][]string{}
	for _, item := range items {
		cat := shopping.Categorize(item)
		grouped[cat] = append(grouped[cat], item)
	}

	var sb strings.Builder
	sb.WriteString("🛒 *Lista de compras*\n")
	for _, cat := range shopping.Categories() {
		catItems := grouped[cat]
		if len(catItems) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n*%s*\n", shopping.CategoryLabel(cat)))
		for _, item := range catItems {
			sb.WriteString(fmt.Sprintf("• %s\n", item))
		}
	}
	return sb.String()
}
