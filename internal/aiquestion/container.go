package aiquestion

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/saulo-duarte/interviewace-api/internal/config"
)

type AIQuestionContainer struct {
	Handler *Handler
	Service Service
}

// NewAIQuestionContainer wires the generation feature. A missing API key is
// not an error here; the endpoint reports it per request. redisClient is only
// used when the redis cooldown backend is selected.
func NewAIQuestionContainer(ctx context.Context, cfg config.AIConfig, redisClient redis.Cmdable) (*AIQuestionContainer, error) {
	log := config.WithContext(ctx)

	policy, err := ParsePolicy(cfg.FailurePolicy)
	if err != nil {
		return nil, err
	}

	var generator Generator
	if cfg.APIKey == "" {
		log.Warn("GEMINI_API_KEY is not set; AI question generation will fail until it is configured")
	} else {
		gemini, err := NewGeminiGenerator(ctx, cfg)
		if err != nil {
			return nil, err
		}
		generator = gemini
	}

	var cooldown Cooldown = NewMemoryCooldown()
	if cfg.CooldownBackend == "redis" && redisClient != nil {
		cooldown = NewRedisCooldown(redisClient)
	}

	service := NewService(generator, cooldown, policy)
	return &AIQuestionContainer{
		Handler: NewHandler(service),
		Service: service,
	}, nil
}
