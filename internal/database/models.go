package database

import "time"

// Reply kinds recorded in the exchange log.
const (
	ReplyKindText    = "text"
	ReplyKindImage   = "image"
	ReplyKindKeyword = "keyword"
)

// Exchange records one answered chat message: the prompt and what kind of
// reply the bot produced. Prompts that were filtered out (self-authored
// messages) are not recorded.
type Exchange struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	Platform   string `db:"platform"`
	ChannelID  string `db:"channel_id"`
	UserID     string `db:"user_id"`
	Prompt     string `db:"prompt"`
	ReplyKind  string `db:"reply_kind"`
	ImageCount int    `db:"image_count"`
}
