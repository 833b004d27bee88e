// Package gateway defines the platform-neutral pieces shared by the chat
// adapters: the keyword short-circuit and common reply strings.
package gateway

import (
	"context"
	"strings"

	"github.com/jimbotdev/jimbot/internal/router"
)

// KeywordReply is sent whenever a message contains the trigger keyword,
// bypassing the router entirely.
const KeywordReply = "Jimmy is a genius!"

// MsgImageSendFailed notifies the user that one image of a batch could not
// be delivered. The format argument is the 1-based image index.
const MsgImageSendFailed = "第 %d 張圖片上傳失敗，請稍後再試。"

// triggerKeyword matches anywhere in the message, case-insensitively.
const triggerKeyword = "jimmy say"

// Router is implemented by the prompt router. Adapters depend on this
// interface so tests can substitute a stub.
type Router interface {
	Process(ctx context.Context, userID, prompt string) router.Reply
}

// KeywordShortCircuit checks content for the trigger keyword. When it
// matches, the fixed reply is returned and the message must not reach the
// router (no language detection, no session turn).
func KeywordShortCircuit(content string) (string, bool) {
	if strings.Contains(strings.ToLower(content), triggerKeyword) {
		return KeywordReply, true
	}
	return "", false
}
