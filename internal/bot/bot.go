// Package bot is the Telegram presentation layer. It renders engine output
// and forwards learner input; all quiz and progression logic stays in the
// engine packages.
package bot

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/example/vocabot/internal/catalog"
	"github.com/example/vocabot/internal/database"
	"github.com/example/vocabot/internal/progression"
	"github.com/example/vocabot/internal/quiz"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MenuButton represents a button in an inline menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// setupState walks a chat through level -> mode -> direction selection.
type setupState struct {
	config quiz.Config
}

// chatSession binds a running quiz session to the chat's tracker.
type chatSession struct {
	session *quiz.Session
	tracker *progression.Tracker
	review  bool
}

// Bot represents the Telegram bot application
type Bot struct {
	api         *tgbotapi.BotAPI
	catalog     *catalog.Catalog
	generator   *quiz.Generator
	profileRepo *database.ProfileRepository
	resultRepo  *database.QuizResultRepository
	config      *Config

	setups       map[int64]*setupState
	sessions     map[int64]*chatSession
	awaitingName map[int64]bool
}

// New creates a new bot instance
func New(c *catalog.Catalog) (*Bot, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	if database.DB == nil {
		return nil, fmt.Errorf("database connection is not established")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %v", err)
	}

	return &Bot{
		api:          api,
		catalog:      c,
		generator:    quiz.NewGenerator(c),
		profileRepo:  database.NewProfileRepository(),
		resultRepo:   database.NewQuizResultRepository(),
		config:       DefaultConfig(),
		setups:       make(map[int64]*setupState),
		sessions:     make(map[int64]*chatSession),
		awaitingName: make(map[int64]bool),
	}, nil
}

// Start runs the update loop until the context is canceled
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)
	log.Printf("Bot authorized as @%s", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(update)
		}
	}
}

// Stop halts the update loop
func (b *Bot) Stop(ctx context.Context) error {
	b.api.StopReceivingUpdates()
	return nil
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(update.Message)
	}
}

// SendPracticeReminder implements scheduler.Notifier
func (b *Bot) SendPracticeReminder(userID int64) error {
	msg := tgbotapi.NewMessage(userID, "今日の練習の時間です！ /quiz で始めましょう。")
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder: %v", err)
	}
	return nil
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
}
