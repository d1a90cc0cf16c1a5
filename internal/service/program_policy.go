package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"epunch/internal/apperr"
	"epunch/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Requirements is a program's reward rule as the punch engine sees it.
type Requirements struct {
	RequiredPunches   int    `json:"required_punches"`
	RewardDescription string `json:"reward_description"`
}

// ProgramPolicy is the read-only lookup of a program's reward rule. Programs
// are immutable for the engine's purposes, so entries are cached in redis
// with a short TTL.
type ProgramPolicy interface {
	GetRequirements(ctx context.Context, programID uuid.UUID) (Requirements, error)
}

type programPolicy struct {
	repo repository.ProgramRepository
	rdb  *redis.Client // nil disables caching (unit tests)
	ttl  time.Duration
}

func NewProgramPolicy(repo repository.ProgramRepository, rdb *redis.Client, ttl time.Duration) ProgramPolicy {
	return &programPolicy{repo: repo, rdb: rdb, ttl: ttl}
}

const policyCachePrefix = "policy:program:"

func (p *programPolicy) GetRequirements(ctx context.Context, programID uuid.UUID) (Requirements, error) {
	key := policyCachePrefix + programID.String()

	if p.rdb != nil {
		if raw, err := p.rdb.Get(ctx, key).Result(); err == nil {
			var req Requirements
			if json.Unmarshal([]byte(raw), &req) == nil {
				return req, nil
			}
		}
	}

	program, err := p.repo.FindByID(ctx, programID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Requirements{}, apperr.ErrProgramNotFound
		}
		return Requirements{}, err
	}

	req := Requirements{
		RequiredPunches:   program.RequiredPunches,
		RewardDescription: program.RewardDescription,
	}

	if p.rdb != nil {
		if raw, err := json.Marshal(req); err == nil {
			if err := p.rdb.Set(ctx, key, raw, p.ttl).Err(); err != nil {
				log.Warn().Err(err).Str("program_id", programID.String()).Msg("policy cache write failed")
			}
		}
	}
	return req, nil
}
