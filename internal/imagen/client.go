// Package imagen implements integration with the Imagen image-generation
// service on Vertex AI.
package imagen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/jimbotdev/jimbot/internal/config"
)

// ErrUnavailable is returned by every call when the image pipeline was not
// configured at startup. No network request is attempted in that case.
var ErrUnavailable = errors.New("image generation is not configured")

// Image is one generated image artifact, ready to be uploaded as a file.
type Image struct {
	Data     []byte
	MIMEType string
}

// Client defines the interface for image generation.
type Client interface {
	// GenerateImages requests count images for prompt at the given aspect
	// ratio and returns the artifacts in service order.
	GenerateImages(ctx context.Context, prompt string, count int32, aspectRatio string) ([]Image, error)
}

type sdkClient struct {
	genaiClient *genai.Client
	log         *slog.Logger
	cfg         config.ImagenConfig
}

// disabledClient stands in when no Vertex project is configured.
type disabledClient struct {
	log *slog.Logger
}

// NewClient creates an Imagen client backed by Vertex AI. When no project
// is configured the returned client is a stub whose calls fail immediately
// with ErrUnavailable; a configured project that fails to initialize is a
// startup error.
func NewClient(ctx context.Context, cfg config.ImagenConfig, log *slog.Logger) (Client, error) {
	logger := log.With("component", "imagen_client")

	if cfg.Project == "" {
		logger.Warn("Imagen project not configured, image generation disabled")
		return &disabledClient{log: logger}, nil
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.Project,
		Location: cfg.Location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex genai client: %w", err)
	}

	logger.Info("Imagen client initialized successfully",
		"model", cfg.Model, "project", cfg.Project, "location", cfg.Location)
	return &sdkClient{
		genaiClient: gi,
		log:         logger,
		cfg:         cfg,
	}, nil
}

func (c *sdkClient) GenerateImages(ctx context.Context, prompt string, count int32, aspectRatio string) ([]Image, error) {
	if count <= 0 {
		count = 1
	}
	if aspectRatio == "" {
		aspectRatio = c.cfg.AspectRatio
	}

	c.log.DebugContext(ctx, "Generating images", "count", count, "aspect_ratio", aspectRatio)

	resp, err := c.genaiClient.Models.GenerateImages(ctx, c.cfg.Model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages:    count,
		AspectRatio:       aspectRatio,
		NegativePrompt:    c.cfg.NegativePrompt,
		PersonGeneration:  genai.PersonGeneration(c.cfg.PersonGeneration),
		SafetyFilterLevel: genai.SafetyFilterLevel(c.cfg.SafetyFilterLevel),
		AddWatermark:      c.cfg.Watermark,
	})
	if err != nil {
		c.log.ErrorContext(ctx, "Imagen API call failed", "error", err)
		return nil, fmt.Errorf("imagen API call failed: %w", err)
	}

	if len(resp.GeneratedImages) == 0 {
		c.log.WarnContext(ctx, "Imagen returned no images")
		return nil, fmt.Errorf("imagen returned no images")
	}

	images := make([]Image, 0, len(resp.GeneratedImages))
	for _, g := range resp.GeneratedImages {
		if g.Image == nil || len(g.Image.ImageBytes) == 0 {
			c.log.WarnContext(ctx, "Skipping empty image in Imagen response")
			continue
		}
		mime := g.Image.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		images = append(images, Image{Data: g.Image.ImageBytes, MIMEType: mime})
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("imagen returned only empty images")
	}

	c.log.InfoContext(ctx, "Generated images", "count", len(images))
	return images, nil
}

func (c *disabledClient) GenerateImages(ctx context.Context, _ string, _ int32, _ string) ([]Image, error) {
	c.log.ErrorContext(ctx, "Image generation requested but client is disabled")
	return nil, ErrUnavailable
}
