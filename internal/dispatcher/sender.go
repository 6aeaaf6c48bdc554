package dispatcher

import (
	"context"

	"ledgerbot/core/telegram/keyboard"
	tgsender "ledgerbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// BotSender delivers messages through the shared outbound queue so slow
// Telegram calls never block event processing.
type BotSender struct {
	bot   *tele.Bot
	queue *tgsender.Dispatcher
}

// NewBotSender wraps a bot and its outbound dispatcher.
func NewBotSender(bot *tele.Bot, queue *tgsender.Dispatcher) *BotSender {
	return &BotSender{bot: bot, queue: queue}
}

func (s *BotSender) Prompt(ctx context.Context, chatID int64, text string) error {
	chat := &tele.Chat{ID: chatID}
	return s.queue.Enqueue(ctx, "send.text", func() error {
		_, err := s.bot.Send(chat, text)
		return err
	})
}

func (s *BotSender) Choices(ctx context.Context, chatID int64, text, key string, options []string) error {
	btns := make([]keyboard.InlineBtn, 0, len(options))
	for _, opt := range options {
		btns = append(btns, keyboard.InlineBtn{Text: opt, Unique: key, Data: opt})
	}
	markup := keyboard.InlineButtonsNPerRow(btns, 2)

	chat := &tele.Chat{ID: chatID}
	return s.queue.Enqueue(ctx, "send.choices", func() error {
		_, err := s.bot.Send(chat, text, markup)
		return err
	})
}
