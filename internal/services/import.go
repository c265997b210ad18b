package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/abrezinsky/beastreader/internal/errors"
	"github.com/abrezinsky/beastreader/internal/logger"
	"github.com/abrezinsky/beastreader/internal/models"
	"github.com/abrezinsky/beastreader/pkg/interpreter"
)

// maxCachedImages bounds the image result cache
const maxCachedImages = 64

// ImportService runs the interpretation service and admits its results into the builder
type ImportService struct {
	log     logger.Logger
	client  interpreter.Client
	builder *BuilderService

	mu    sync.Mutex
	cache map[string][]models.Candidate
	order []string
}

// NewImportService creates a new ImportService. client may be nil when no
// interpretation service is configured.
func NewImportService(log logger.Logger, client interpreter.Client, builder *BuilderService) *ImportService {
	return &ImportService{
		log:     log,
		client:  client,
		builder: builder,
		cache:   make(map[string][]models.Candidate),
	}
}

// Available reports whether an interpretation service is configured
func (s *ImportService) Available() bool {
	return s.client != nil
}

// InterpretImage recognizes plays in a base64 ticket photo and imports them.
// Results are cached by image content.
func (s *ImportService) InterpretImage(ctx context.Context, imageBase64 string) (*ImportResult, error) {
	if s.client == nil {
		return nil, ErrNoInterpreter
	}
	imageBase64 = stripDataURL(strings.TrimSpace(imageBase64))
	if imageBase64 == "" {
		return nil, ErrEmptyImage
	}
	raw, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return nil, ErrInvalidImage
	}

	key := contentHash(raw)
	candidates, ok := s.cached(key)
	if ok {
		s.log.Debug("Image interpretation cache hit", "hash", key[:12])
	} else {
		found, err := s.client.InterpretImage(ctx, imageBase64)
		if err != nil {
			s.log.Error("Image interpretation failed", "error", err)
			return nil, errors.Unavailable("interpretation service failed", err)
		}
		candidates = usable(found)
		s.remember(key, candidates)
	}

	s.log.Info("Image interpreted", "candidates", len(candidates))
	return s.builder.ImportPlays(ctx, candidates)
}

// InterpretText recognizes plays in a free-text prompt and imports them
func (s *ImportService) InterpretText(ctx context.Context, prompt string) (*ImportResult, error) {
	if s.client == nil {
		return nil, ErrNoInterpreter
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	found, err := s.client.InterpretText(ctx, prompt)
	if err != nil {
		s.log.Error("Text interpretation failed", "error", err)
		return nil, errors.Unavailable("interpretation service failed", err)
	}
	candidates := usable(found)
	s.log.Info("Prompt interpreted", "candidates", len(candidates))
	return s.builder.ImportPlays(ctx, candidates)
}

func (s *ImportService) cached(key string) ([]models.Candidate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cache[key]
	return c, ok
}

func (s *ImportService) remember(key string, candidates []models.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cache[key]; ok {
		return
	}
	if len(s.order) >= maxCachedImages {
		delete(s.cache, s.order[0])
		s.order = s.order[1:]
	}
	s.cache[key] = candidates
	s.order = append(s.order, key)
}

// usable drops candidates without a bet number
func usable(found []interpreter.Candidate) []models.Candidate {
	out := make([]models.Candidate, 0, len(found))
	for _, c := range found {
		m := c.Model()
		if m.BetNumber == "" {
			continue
		}
		out = append(out, m)
	}
	return out
}

func stripDataURL(s string) string {
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			return s[i+1:]
		}
	}
	return s
}

func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
