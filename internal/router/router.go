// Package router decides what to do with each inbound prompt: generate a
// text reply, or detect/translate the language and generate images.
package router

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jimbotdev/jimbot/internal/gemini"
	"github.com/jimbotdev/jimbot/internal/imagen"
	"github.com/jimbotdev/jimbot/internal/langmem"
)

// ImagePrefix marks a prompt as an image request. The match is exact and
// case-sensitive: "Image:" falls through to text generation.
const ImagePrefix = "image:"

// MsgImageDescriptionMissing is returned when an image request carries no
// description after the prefix. No model call is made in that case.
const MsgImageDescriptionMissing = "請在 `image:` 後面輸入圖片描述"

// englishLanguage is compared verbatim against the detector's output to
// skip translation. The exact-equality check is fragile to detector
// phrasing variance ("english", "English (US)"); kept as-is deliberately.
const englishLanguage = "English"

// TextClient is the subset of the Gemini client the router needs.
type TextClient interface {
	GenerateText(ctx context.Context, prompt string) string
	DetectLanguage(ctx context.Context, text string) string
	TranslateToEnglish(ctx context.Context, text string) (string, error)
}

// ImageClient is the subset of the Imagen client the router needs.
type ImageClient interface {
	GenerateImages(ctx context.Context, prompt string, count int32, aspectRatio string) ([]imagen.Image, error)
}

// Reply is the unified result of routing one prompt: exactly one of Text
// or Images is set.
type Reply struct {
	Text   string
	Images []imagen.Image
}

// IsImage reports whether the reply carries image artifacts.
func (r Reply) IsImage() bool {
	return len(r.Images) > 0
}

// Router implements the per-message prompt routing described above.
type Router struct {
	text        TextClient
	images      ImageClient
	languages   *langmem.Memory
	log         *slog.Logger
	count       int32
	aspectRatio string
}

// New creates a Router. count and aspectRatio apply to every image request.
func New(text TextClient, images ImageClient, languages *langmem.Memory, log *slog.Logger, count int32, aspectRatio string) *Router {
	return &Router{
		text:        text,
		images:      images,
		languages:   languages,
		log:         log.With("component", "router"),
		count:       count,
		aspectRatio: aspectRatio,
	}
}

// Process routes one prompt for one user and always yields exactly one
// Reply, falling back to a fixed message when an external call fails.
//
// The detected language is recorded for the user before intent is decided,
// regardless of whether the prompt is a text or image request.
func (r *Router) Process(ctx context.Context, userID, prompt string) Reply {
	lang := r.text.DetectLanguage(ctx, prompt)
	r.languages.Set(userID, lang)
	r.log.DebugContext(ctx, "Detected prompt language", "user_id", userID, "language", lang)

	rest, isImage := strings.CutPrefix(prompt, ImagePrefix)
	if !isImage {
		return Reply{Text: r.text.GenerateText(ctx, prompt)}
	}

	description := strings.TrimSpace(rest)
	if description == "" {
		r.log.InfoContext(ctx, "Image request without description", "user_id", userID)
		return Reply{Text: MsgImageDescriptionMissing}
	}

	if lang != englishLanguage {
		translated, err := r.text.TranslateToEnglish(ctx, description)
		if err != nil {
			r.log.ErrorContext(ctx, "Translation failed, skipping image generation",
				"user_id", userID, "error", err)
			return Reply{Text: gemini.FallbackMessage}
		}
		description = translated
	}

	images, err := r.images.GenerateImages(ctx, description, r.count, r.aspectRatio)
	if err != nil {
		r.log.ErrorContext(ctx, "Image generation failed", "user_id", userID, "error", err)
		return Reply{Text: gemini.FallbackMessage}
	}

	return Reply{Images: images}
}
