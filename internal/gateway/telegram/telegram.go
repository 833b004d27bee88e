// Package telegram implements the Telegram chat gateway adapter with the
// same relay semantics as the Discord one: self-message filter, keyword
// short-circuit, router invocation, then text reply or per-image upload.
package telegram

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/jimbotdev/jimbot/internal/database"
	"github.com/jimbotdev/jimbot/internal/gateway"
)

// Adapter connects a Telegram bot to the prompt router.
type Adapter struct {
	bot    *tgbot.Bot
	router gateway.Router
	store  database.Store
	log    *slog.Logger

	botID int64
}

// New creates the adapter. The long-polling loop starts when Run is called.
func New(token string, r gateway.Router, store database.Store, log *slog.Logger) (*Adapter, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}

	a := &Adapter{
		router: r,
		store:  store,
		log:    log.With("component", "telegram_gateway"),
	}

	b, err := tgbot.New(token, tgbot.WithDefaultHandler(a.handleUpdate))
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	a.bot = b
	return a, nil
}

// Name identifies the platform in logs and exchange records.
func (a *Adapter) Name() string { return "telegram" }

// Run records the bot identity and polls for updates until ctx is
// cancelled. The library dispatches updates on worker goroutines.
func (a *Adapter) Run(ctx context.Context) error {
	me, err := a.bot.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to get telegram bot info: %w", err)
	}
	a.botID = me.ID
	a.log.Info("Logged in to Telegram", "username", me.Username, "bot_id", me.ID)

	a.bot.Start(ctx)
	a.log.Info("Telegram gateway stopped")
	return nil
}

func (a *Adapter) handleUpdate(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		return
	}
	if msg.From.ID == a.botID {
		a.log.DebugContext(ctx, "Ignoring own message", "chat_id", msg.Chat.ID)
		return
	}

	chatID := msg.Chat.ID
	userID := strconv.FormatInt(msg.From.ID, 10)
	log := a.log.With("chat_id", chatID, "user_id", userID)
	log.DebugContext(ctx, "Received message", "length", len(msg.Text))

	if reply, ok := gateway.KeywordShortCircuit(msg.Text); ok {
		log.InfoContext(ctx, "Keyword trigger matched, skipping router")
		if _, err := b.SendMessage(ctx, &tgbot.SendMessageParams{ChatID: chatID, Text: reply}); err != nil {
			log.ErrorContext(ctx, "Failed to send keyword reply", "error", err)
			return
		}
		a.recordExchange(ctx, chatID, userID, msg.Text, database.ReplyKindKeyword, 0)
		return
	}

	result := a.router.Process(ctx, userID, msg.Text)

	if result.IsImage() {
		sent := 0
		for i, img := range result.Images {
			name := fmt.Sprintf("generated_%d.png", i+1)
			_, err := b.SendPhoto(ctx, &tgbot.SendPhotoParams{
				ChatID: chatID,
				Photo:  &models.InputFileUpload{Filename: name, Data: bytes.NewReader(img.Data)},
			})
			if err != nil {
				log.ErrorContext(ctx, "Failed to upload image", "error", err, "index", i+1)
				if _, sendErr := b.SendMessage(ctx, &tgbot.SendMessageParams{
					ChatID: chatID,
					Text:   fmt.Sprintf(gateway.MsgImageSendFailed, i+1),
				}); sendErr != nil {
					log.ErrorContext(ctx, "Failed to send image error notice", "error", sendErr)
				}
				continue
			}
			sent++
		}
		a.recordExchange(ctx, chatID, userID, msg.Text, database.ReplyKindImage, sent)
		return
	}

	if _, err := b.SendMessage(ctx, &tgbot.SendMessageParams{ChatID: chatID, Text: result.Text}); err != nil {
		log.ErrorContext(ctx, "Failed to send text reply", "error", err)
		return
	}
	a.recordExchange(ctx, chatID, userID, msg.Text, database.ReplyKindText, 0)
}

func (a *Adapter) recordExchange(ctx context.Context, chatID int64, userID, prompt, kind string, imageCount int) {
	if a.store == nil {
		return
	}
	exchange := &database.Exchange{
		Platform:   a.Name(),
		ChannelID:  strconv.FormatInt(chatID, 10),
		UserID:     userID,
		Prompt:     prompt,
		ReplyKind:  kind,
		ImageCount: imageCount,
	}
	if err := a.store.SaveExchange(ctx, exchange); err != nil {
		a.log.WarnContext(ctx, "Failed to record exchange", "error", err)
	}
}
