package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-coach/internal/core/domain"
	"github.com/comitanigiacomo/kanso-coach/internal/platform/metrics"
)

const (
	SystemPrompt     = "You are a habit coach. Return exactly 5 simple, daily, measurable habits separated by newlines. No numbers, no intro."
	userPromptFormat = "Suggest habits for the goal: %s"
)

var ErrSuggestionFailed = errors.New("AI Suggestion failed")

type SuggestionService struct {
	completer domain.Completer
	logger    *zap.Logger
}

func NewSuggestionService(completer domain.Completer, logger *zap.Logger) *SuggestionService {
	return &SuggestionService{
		completer: completer,
		logger:    logger,
	}
}

func (s *SuggestionService) Suggest(ctx context.Context, goal string) ([]string, error) {
	cleanGoal, err := domain.NormalizeGoal(goal)
	if err != nil {
		metrics.RecordSuggestion(s.completer.Name(), "invalid", 0)
		return nil, err
	}

	start := time.Now()
	text, err := s.completer.Complete(ctx, SystemPrompt, fmt.Sprintf(userPromptFormat, cleanGoal))
	took := time.Since(start)
	if err != nil {
		metrics.RecordSuggestion(s.completer.Name(), "upstream_error", took)
		s.logger.Error("upstream completion failed",
			zap.String("provider", s.completer.Name()),
			zap.Duration("took", took),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrSuggestionFailed, err)
	}

	habits := domain.NormalizeSuggestions([]string{text})
	metrics.RecordSuggestion(s.completer.Name(), "ok", took)
	s.logger.Info("suggestions generated",
		zap.String("provider", s.completer.Name()),
		zap.Int("habits", len(habits)),
		zap.Duration("took", took),
	)

	return habits, nil
}

func (s *SuggestionService) Provider() string {
	return s.completer.Name()
}
