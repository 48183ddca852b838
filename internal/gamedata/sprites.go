package gamedata

import (
	"context"
	"fmt"
	"strings"

	"github.com/PieInTheSky-Inc/yadc/internal/services"
	"github.com/PieInTheSky-Inc/yadc/pkg/details"
	"github.com/PieInTheSky-Inc/yadc/pkg/entity"
)

// SpriteBaseURL hosts the game's image files.
const SpriteBaseURL = "https://pixelstarships.s3.amazonaws.com/"

// SpriteResolver turns sprite ids into download links using the sprite and
// file tables.
type SpriteResolver struct {
	sprites services.DataCache
	files   services.DataCache
	baseURL string
}

// NewSpriteResolver creates a resolver over the sprite and file caches.
func NewSpriteResolver(sprites, files services.DataCache, baseURL string) *SpriteResolver {
	if baseURL == "" {
		baseURL = SpriteBaseURL
	}
	return &SpriteResolver{sprites: sprites, files: files, baseURL: baseURL}
}

// URL returns the download link for spriteID, or "" when the sprite or its
// file is unknown.
func (s *SpriteResolver) URL(ctx context.Context, spriteID string) (string, error) {
	if s == nil || entity.IsAbsent(spriteID) {
		return "", nil
	}

	sprites, err := s.sprites.Data(ctx)
	if err != nil {
		return "", fmt.Errorf("loading sprites: %w", err)
	}
	sprite, ok := sprites[spriteID]
	if !ok {
		return "", nil
	}
	fileID := entity.LookupString(sprite, "ImageFileId")
	if fileID == "" {
		return "", nil
	}

	files, err := s.files.Data(ctx)
	if err != nil {
		return "", fmt.Errorf("loading files: %w", err)
	}
	name := entity.LookupString(files[fileID], "AwsFilename")
	if name == "" {
		return "", nil
	}
	return s.baseURL + strings.TrimPrefix(name, "/"), nil
}

// spriteURL resolves the property's field as a sprite id.
func spriteURL[C any](resolver func(C) *SpriteResolver) details.Transform[C] {
	return func(ctx context.Context, in details.Input[C]) (string, error) {
		return resolver(in.Context).URL(ctx, in.FieldString())
	}
}
