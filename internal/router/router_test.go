package router

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jimbotdev/jimbot/internal/gemini"
	"github.com/jimbotdev/jimbot/internal/imagen"
	"github.com/jimbotdev/jimbot/internal/langmem"
)

// stubText records calls and returns canned responses.
type stubText struct {
	language     string
	reply        string
	translated   string
	translateErr error

	generateCalls  []string
	detectCalls    []string
	translateCalls []string
}

func (s *stubText) GenerateText(_ context.Context, prompt string) string {
	s.generateCalls = append(s.generateCalls, prompt)
	return s.reply
}

func (s *stubText) DetectLanguage(_ context.Context, text string) string {
	s.detectCalls = append(s.detectCalls, text)
	return s.language
}

func (s *stubText) TranslateToEnglish(_ context.Context, text string) (string, error) {
	s.translateCalls = append(s.translateCalls, text)
	if s.translateErr != nil {
		return "", s.translateErr
	}
	return s.translated, nil
}

// stubImages records calls and returns canned artifacts.
type stubImages struct {
	images []imagen.Image
	err    error

	calls []string
}

func (s *stubImages) GenerateImages(_ context.Context, prompt string, _ int32, _ string) ([]imagen.Image, error) {
	s.calls = append(s.calls, prompt)
	if s.err != nil {
		return nil, s.err
	}
	return s.images, nil
}

func newTestRouter(text *stubText, images *stubImages, mem *langmem.Memory) *Router {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(text, images, mem, log, 1, "1:1")
}

func TestProcessTextPrompt(t *testing.T) {
	text := &stubText{language: "English", reply: "Hi there"}
	images := &stubImages{}
	r := newTestRouter(text, images, langmem.New(gemini.DefaultLanguage))

	reply := r.Process(context.Background(), "u1", "Hello")

	if reply.IsImage() {
		t.Fatal("text prompt produced an image reply")
	}
	if reply.Text != "Hi there" {
		t.Errorf("reply text = %q, want %q", reply.Text, "Hi there")
	}
	if len(text.generateCalls) != 1 || text.generateCalls[0] != "Hello" {
		t.Errorf("generate calls = %v, want the full original prompt", text.generateCalls)
	}
	if len(images.calls) != 0 {
		t.Errorf("image client called %d times for a text prompt", len(images.calls))
	}
}

func TestProcessCasePreservesPrefixSensitivity(t *testing.T) {
	// "Image:" is not the image prefix; the prompt routes to text.
	text := &stubText{language: "English", reply: "some text"}
	images := &stubImages{}
	r := newTestRouter(text, images, langmem.New(gemini.DefaultLanguage))

	reply := r.Process(context.Background(), "u1", "Image: a cat")

	if reply.IsImage() {
		t.Fatal("capitalized prefix routed to image generation")
	}
	if len(images.calls) != 0 {
		t.Errorf("image client called for capitalized prefix")
	}
	if len(text.generateCalls) != 1 || text.generateCalls[0] != "Image: a cat" {
		t.Errorf("generate calls = %v, want the unmodified prompt", text.generateCalls)
	}
}

func TestProcessEmptyImageDescription(t *testing.T) {
	for _, prompt := range []string{"image:", "image:   ", "image:\t"} {
		text := &stubText{language: "English"}
		images := &stubImages{}
		r := newTestRouter(text, images, langmem.New(gemini.DefaultLanguage))

		reply := r.Process(context.Background(), "u1", prompt)

		if reply.Text != MsgImageDescriptionMissing {
			t.Errorf("Process(%q) = %q, want %q", prompt, reply.Text, MsgImageDescriptionMissing)
		}
		if len(images.calls) != 0 || len(text.translateCalls) != 0 || len(text.generateCalls) != 0 {
			t.Errorf("Process(%q) made model calls, want none beyond detection", prompt)
		}
	}
}

func TestProcessEnglishImagePromptSkipsTranslation(t *testing.T) {
	text := &stubText{language: "English"}
	images := &stubImages{images: []imagen.Image{{Data: []byte{1}, MIMEType: "image/png"}}}
	r := newTestRouter(text, images, langmem.New(gemini.DefaultLanguage))

	reply := r.Process(context.Background(), "u1", "image: a red fox")

	if !reply.IsImage() {
		t.Fatalf("expected image reply, got text %q", reply.Text)
	}
	if len(text.translateCalls) != 0 {
		t.Errorf("translation called for English prompt: %v", text.translateCalls)
	}
	if len(images.calls) != 1 || images.calls[0] != "a red fox" {
		t.Errorf("image calls = %v, want trimmed description verbatim", images.calls)
	}
}

func TestProcessNonEnglishImagePromptTranslatesFirst(t *testing.T) {
	text := &stubText{language: "zh-TW", translated: "a red fox"}
	images := &stubImages{images: []imagen.Image{{Data: []byte{1}, MIMEType: "image/png"}}}
	r := newTestRouter(text, images, langmem.New(gemini.DefaultLanguage))

	reply := r.Process(context.Background(), "u1", "image: 一隻紅色的狐狸")

	if !reply.IsImage() {
		t.Fatalf("expected image reply, got text %q", reply.Text)
	}
	if len(text.translateCalls) != 1 || text.translateCalls[0] != "一隻紅色的狐狸" {
		t.Errorf("translate calls = %v, want the trimmed description", text.translateCalls)
	}
	if len(images.calls) != 1 || images.calls[0] != "a red fox" {
		t.Errorf("image calls = %v, want translated text", images.calls)
	}
}

func TestProcessTranslationFailureSkipsImageGeneration(t *testing.T) {
	text := &stubText{language: "zh-TW", translateErr: errors.New("quota exceeded")}
	images := &stubImages{}
	r := newTestRouter(text, images, langmem.New(gemini.DefaultLanguage))

	reply := r.Process(context.Background(), "u1", "image: 一隻狐狸")

	if reply.Text != gemini.FallbackMessage {
		t.Errorf("reply = %q, want fallback %q", reply.Text, gemini.FallbackMessage)
	}
	if len(images.calls) != 0 {
		t.Errorf("image client called after translation failure")
	}
}

func TestProcessImageGenerationFailure(t *testing.T) {
	text := &stubText{language: "English"}
	images := &stubImages{err: errors.New("service unavailable")}
	r := newTestRouter(text, images, langmem.New(gemini.DefaultLanguage))

	reply := r.Process(context.Background(), "u1", "image: a fox")

	if reply.IsImage() {
		t.Fatal("failed generation produced an image reply")
	}
	if reply.Text != gemini.FallbackMessage {
		t.Errorf("reply = %q, want fallback %q", reply.Text, gemini.FallbackMessage)
	}
}

func TestProcessRecordsLanguageForEveryPrompt(t *testing.T) {
	mem := langmem.New(gemini.DefaultLanguage)
	text := &stubText{language: "Japanese", reply: "ok", translated: "x"}
	images := &stubImages{images: []imagen.Image{{Data: []byte{1}}}}
	r := newTestRouter(text, images, mem)

	r.Process(context.Background(), "u1", "Hello")
	if got := mem.Get("u1"); got != "Japanese" {
		t.Errorf("language after text prompt = %q, want Japanese", got)
	}

	text.language = "Korean"
	r.Process(context.Background(), "u1", "image: fox")
	if got := mem.Get("u1"); got != "Korean" {
		t.Errorf("language after image prompt = %q, want Korean (overwrite)", got)
	}
}
