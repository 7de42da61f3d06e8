package analysis

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/clientbrief/clientbrief/errors"
	"github.com/clientbrief/clientbrief/internal/domain/entities"
	usecaseErrors "github.com/clientbrief/clientbrief/internal/usecase/errors"
	pkgai "github.com/clientbrief/clientbrief/pkg/ai"
	"github.com/clientbrief/clientbrief/pkg/validator"
)

// DialogueAnalyzer is the AI surface the orchestrator consumes.
type DialogueAnalyzer interface {
	Model() string
	AnalyzeDialogue(ctx context.Context, transcript string) (*entities.ClientAnalysis, error)
	ExtractDesignBrief(ctx context.Context, transcript string) (*entities.DesignBrief, error)
	DraftImagePrompt(ctx context.Context, brief *entities.DesignBrief) (string, error)
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// CacheStore persists analysis records between runs.
type CacheStore interface {
	Lookup(fingerprint string, out interface{}) bool
	Store(fingerprint, model, promptVersion string, record interface{}) error
}

// ImageStore keeps generated report images, one per distinct prompt.
type ImageStore interface {
	Lookup(prompt string) (string, bool)
	Store(prompt string, png []byte) (string, error)
}

// Service orchestrates analysis runs: cache policy, fingerprinting, and the
// decision to call the AI sit here and nowhere else.
type Service interface {
	GetClientAnalysis(ctx context.Context, transcript entities.Transcript, useCache bool) (*entities.ClientAnalysis, error)
	GetDesignBrief(ctx context.Context, transcript entities.Transcript, useCache bool) (*entities.DesignBrief, error)
	IllustrateBrief(ctx context.Context, brief *entities.DesignBrief, useCache bool) (string, error)
}

type service struct {
	ai        DialogueAnalyzer
	cache     CacheStore
	images    ImageStore
	validator *validator.RecordValidator
	logger    *zap.Logger
}

// NewService constructs the analysis orchestrator.
func NewService(ai DialogueAnalyzer, cache CacheStore, images ImageStore, logger *zap.Logger) Service {
	return &service{
		ai:        ai,
		cache:     cache,
		images:    images,
		validator: validator.New(),
		logger:    logger,
	}
}

// GetClientAnalysis returns the structured analysis for transcript. With
// useCache set, a valid cached record is returned without touching the API.
// The fresh result is always written back, so a bypassed run repairs stale
// entries instead of leaving them behind.
func (s *service) GetClientAnalysis(ctx context.Context, transcript entities.Transcript, useCache bool) (*entities.ClientAnalysis, error) {
	if transcript.Empty() {
		return nil, errors.ErrInputInvalid(usecaseErrors.ErrEmptyTranscript.Error())
	}

	fingerprint := Fingerprint(transcript.Content, s.ai.Model(), pkgai.ClientReportPromptVersion)

	if useCache {
		var cached entities.ClientAnalysis
		if s.lookupRecord(fingerprint, &cached) {
			return &cached, nil
		}
	}

	analysis, err := s.ai.AnalyzeDialogue(ctx, transcript.Content)
	if err != nil {
		return nil, err
	}

	s.storeRecord(fingerprint, pkgai.ClientReportPromptVersion, analysis)
	return analysis, nil
}

// GetDesignBrief returns the design brief for transcript, cached the same
// way client analyses are.
func (s *service) GetDesignBrief(ctx context.Context, transcript entities.Transcript, useCache bool) (*entities.DesignBrief, error) {
	if transcript.Empty() {
		return nil, errors.ErrInputInvalid(usecaseErrors.ErrEmptyTranscript.Error())
	}

	fingerprint := Fingerprint(transcript.Content, s.ai.Model(), pkgai.DesignBriefPromptVersion)

	if useCache {
		var cached entities.DesignBrief
		if s.lookupRecord(fingerprint, &cached) {
			return &cached, nil
		}
	}

	brief, err := s.ai.ExtractDesignBrief(ctx, transcript.Content)
	if err != nil {
		return nil, err
	}

	s.storeRecord(fingerprint, pkgai.DesignBriefPromptVersion, brief)
	return brief, nil
}

// IllustrateBrief produces a report image for brief and returns the stored
// PNG path. The drafted prompt and the rendered image are cached separately,
// so an unchanged brief costs no API calls at all.
func (s *service) IllustrateBrief(ctx context.Context, brief *entities.DesignBrief, useCache bool) (string, error) {
	prompt, err := s.imagePrompt(ctx, brief, useCache)
	if err != nil {
		return "", err
	}

	if useCache {
		if path, ok := s.images.Lookup(prompt); ok {
			if s.logger != nil {
				s.logger.Info("reusing stored report image", zap.String("path", path))
			}
			return path, nil
		}
	}

	png, err := s.ai.GenerateImage(ctx, prompt)
	if err != nil {
		return "", err
	}

	path, err := s.images.Store(prompt, png)
	if err != nil {
		return "", errors.ErrCacheFailed("store image", err)
	}
	return path, nil
}

func (s *service) imagePrompt(ctx context.Context, brief *entities.DesignBrief, useCache bool) (string, error) {
	briefKey, err := briefCacheKey(brief)
	if err != nil {
		return "", err
	}
	fingerprint := Fingerprint(briefKey, s.ai.Model(), pkgai.ImagePromptVersion)

	if useCache {
		var cached string
		if s.cache.Lookup(fingerprint, &cached) {
			cached = strings.Join(strings.Fields(cached), " ")
			if cached != "" {
				if s.logger != nil {
					s.logger.Info("image prompt cache hit", zap.String("fingerprint", fingerprint[:8]))
				}
				return cached, nil
			}
		}
	}

	prompt, err := s.ai.DraftImagePrompt(ctx, brief)
	if err != nil {
		return "", err
	}

	s.storeRecord(fingerprint, pkgai.ImagePromptVersion, prompt)
	return prompt, nil
}

// lookupRecord loads and re-validates a cached record. Entries that no
// longer satisfy the schema count as misses and get regenerated.
func (s *service) lookupRecord(fingerprint string, out pkgai.Record) bool {
	if !s.cache.Lookup(fingerprint, out) {
		if s.logger != nil {
			s.logger.Info("cache miss", zap.String("fingerprint", fingerprint[:8]))
		}
		return false
	}

	out.Normalize()
	if err := s.validator.Validate(out); err != nil {
		if s.logger != nil {
			s.logger.Warn("cached record is invalid, regenerating",
				zap.String("fingerprint", fingerprint[:8]),
				zap.Error(err))
		}
		return false
	}

	if s.logger != nil {
		s.logger.Info("cache hit", zap.String("fingerprint", fingerprint[:8]))
	}
	return true
}

// storeRecord writes a fresh record back to the cache. Failures are logged
// and swallowed: a broken cache must never fail a run that already has its
// result.
func (s *service) storeRecord(fingerprint, promptVersion string, record interface{}) {
	if err := s.cache.Store(fingerprint, s.ai.Model(), promptVersion, record); err != nil {
		if s.logger != nil {
			s.logger.Warn("failed to store cache entry",
				zap.String("fingerprint", fingerprint[:8]),
				zap.Error(err))
		}
	}
}
