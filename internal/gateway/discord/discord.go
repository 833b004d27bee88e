// Package discord implements the Discord chat gateway adapter. It relays
// inbound messages to the prompt router and delivers text or image replies
// back to the originating channel.
package discord

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/jimbotdev/jimbot/internal/database"
	"github.com/jimbotdev/jimbot/internal/gateway"
	"github.com/jimbotdev/jimbot/internal/router"
)

// Adapter connects a Discord session to the prompt router.
type Adapter struct {
	session *discordgo.Session
	router  gateway.Router
	store   database.Store
	log     *slog.Logger

	// runCtx is set by Run before the session opens; message handlers run
	// on discordgo's own goroutines and derive from it.
	runCtx context.Context
}

// New creates the adapter and registers its event handlers. The session is
// not opened until Run is called.
func New(token string, r gateway.Router, store database.Store, log *slog.Logger) (*Adapter, error) {
	if token == "" {
		return nil, fmt.Errorf("discord bot token cannot be empty")
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	a := &Adapter{
		session: session,
		router:  r,
		store:   store,
		log:     log.With("component", "discord_gateway"),
	}
	session.AddHandler(a.onReady)
	session.AddHandler(a.onMessageCreate)
	return a, nil
}

// Name identifies the platform in logs and exchange records.
func (a *Adapter) Name() string { return "discord" }

// Run opens the gateway connection and blocks until ctx is cancelled.
// Reconnects are handled by discordgo.
func (a *Adapter) Run(ctx context.Context) error {
	a.runCtx = ctx

	if err := a.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord gateway: %w", err)
	}
	a.log.Info("Discord gateway connected")

	<-ctx.Done()

	a.log.Info("Shutting down Discord gateway...")
	if err := a.session.Close(); err != nil {
		return fmt.Errorf("failed to close discord gateway: %w", err)
	}
	return nil
}

func (a *Adapter) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	a.log.Info("Logged in to Discord", "username", r.User.Username, "user_id", r.User.ID)
}

// onMessageCreate handles one inbound message. discordgo dispatches each
// event on its own goroutine, so a slow AI call for one user does not
// stall delivery of other users' messages.
func (a *Adapter) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	ctx := a.runCtx
	if ctx == nil {
		ctx = context.Background()
	}
	if m.Author == nil {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		a.log.DebugContext(ctx, "Ignoring own message", "channel_id", m.ChannelID)
		return
	}

	log := a.log.With("channel_id", m.ChannelID, "user_id", m.Author.ID)
	log.DebugContext(ctx, "Received message", "length", len(m.Content))

	if reply, ok := gateway.KeywordShortCircuit(m.Content); ok {
		log.InfoContext(ctx, "Keyword trigger matched, skipping router")
		if _, err := s.ChannelMessageSend(m.ChannelID, reply); err != nil {
			log.ErrorContext(ctx, "Failed to send keyword reply", "error", err)
			return
		}
		a.recordExchange(ctx, m.ChannelID, m.Author.ID, m.Content, database.ReplyKindKeyword, 0)
		return
	}

	result := a.router.Process(ctx, m.Author.ID, m.Content)

	if result.IsImage() {
		sent := a.sendImages(ctx, s, m.ChannelID, result)
		a.recordExchange(ctx, m.ChannelID, m.Author.ID, m.Content, database.ReplyKindImage, sent)
		return
	}

	if _, err := s.ChannelMessageSend(m.ChannelID, result.Text); err != nil {
		log.ErrorContext(ctx, "Failed to send text reply", "error", err)
		return
	}
	a.recordExchange(ctx, m.ChannelID, m.Author.ID, m.Content, database.ReplyKindText, 0)
}

// sendImages uploads each artifact as a file attachment. A failed upload
// degrades to a text notice for that image only; the rest still go out.
// Returns the number of images delivered.
func (a *Adapter) sendImages(ctx context.Context, s *discordgo.Session, channelID string, result router.Reply) int {
	sent := 0
	for i, img := range result.Images {
		name := fmt.Sprintf("generated_%d.png", i+1)
		if _, err := s.ChannelFileSend(channelID, name, bytes.NewReader(img.Data)); err != nil {
			a.log.ErrorContext(ctx, "Failed to upload image", "error", err, "channel_id", channelID, "index", i+1)
			if _, sendErr := s.ChannelMessageSend(channelID, fmt.Sprintf(gateway.MsgImageSendFailed, i+1)); sendErr != nil {
				a.log.ErrorContext(ctx, "Failed to send image error notice", "error", sendErr, "channel_id", channelID)
			}
			continue
		}
		sent++
	}
	return sent
}

func (a *Adapter) recordExchange(ctx context.Context, channelID, userID, prompt, kind string, imageCount int) {
	if a.store == nil {
		return
	}
	exchange := &database.Exchange{
		Platform:   a.Name(),
		ChannelID:  channelID,
		UserID:     userID,
		Prompt:     prompt,
		ReplyKind:  kind,
		ImageCount: imageCount,
	}
	if err := a.store.SaveExchange(ctx, exchange); err != nil {
		a.log.WarnContext(ctx, "Failed to record exchange", "error", err)
	}
}
