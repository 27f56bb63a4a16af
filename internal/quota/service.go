package quota

import (
	"context"
	"strings"

	"github.com/instaprompt/backend/internal/profiles"
	"github.com/instaprompt/backend/pkg/config"
	"github.com/instaprompt/backend/pkg/db"
	"github.com/instaprompt/backend/pkg/db/models"
	"github.com/instaprompt/backend/pkg/enums"
	pkgerrors "github.com/instaprompt/backend/pkg/errors"
	"github.com/instaprompt/backend/pkg/logger"
	"github.com/instaprompt/backend/pkg/metrics"
)

// freePlatform is the only platform the legacy free plan may target.
const freePlatform = "instagram"

// Reason classifies why the ledger denied a request.
type Reason string

const (
	ReasonTrialExhausted Reason = "trial_exhausted"
	ReasonWrongPlatform  Reason = "wrong_platform"
	ReasonFreeLimit      Reason = "free_limit_reached"
	ReasonInvalidPlan    Reason = "invalid_plan"
	ReasonSystemError    Reason = "system_error"
)

// Message returns the user-facing denial text.
func (r Reason) Message() string {
	switch r {
	case ReasonTrialExhausted:
		return "Your trial captions are used up. Upgrade to PRO for unlimited captions."
	case ReasonWrongPlatform:
		return "The free plan only generates captions for Instagram."
	case ReasonFreeLimit:
		return "Your free captions are used up. Upgrade to PRO for unlimited captions."
	case ReasonInvalidPlan:
		return "Your plan could not be recognized. Please contact support."
	case ReasonSystemError:
		return "Something went wrong checking your plan. Please try again."
	}
	return string(r)
}

// Decision is the outcome of one admission attempt.
type Decision struct {
	Admitted bool
	Plan     enums.Plan
	Reason   Reason
}

// Repository is the profile storage surface the ledger needs.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	CreateTrial(ctx context.Context, email string) (*models.Profile, error)
	Consume(ctx context.Context, params profiles.ConsumeParams) (bool, error)
	Release(ctx context.Context, email string, step int) error
}

// Service admits caption requests against each user's plan. Admission
// and increment happen in one conditional update, so two concurrent
// requests from the same user cannot both slip past the limit.
type Service interface {
	Reserve(ctx context.Context, email, platform string) (*Decision, error)
	Release(ctx context.Context, email string) error
}

type ServiceParams struct {
	Repo    Repository
	Config  config.QuotaConfig
	Metrics *metrics.ServiceMetrics
	Logger  *logger.Logger
}

type service struct {
	repo    Repository
	cfg     config.QuotaConfig
	metrics *metrics.ServiceMetrics
	logg    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "profiles repository required")
	}
	cfg := params.Config
	if cfg.Step <= 0 {
		cfg.Step = 1
	}
	if cfg.TrialLimit <= 0 {
		cfg.TrialLimit = 10
	}
	if cfg.FreeLimit <= 0 {
		cfg.FreeLimit = 3
	}
	return &service{
		repo:    params.Repo,
		cfg:     cfg,
		metrics: params.Metrics,
		logg:    params.Logger,
	}, nil
}

// Reserve admits the request and consumes quota in one step. The
// reservation is released by the caller if generation fails afterwards.
// Storage failures deny fail-closed rather than admitting unchecked.
func (s *service) Reserve(ctx context.Context, email, platform string) (*Decision, error) {
	profile, err := s.repo.FindByEmail(ctx, email)
	if err == profiles.ErrNotFound {
		profile, err = s.repo.CreateTrial(ctx, email)
		if db.IsUniqueViolation(err, "idx_profiles_email") {
			// Lost a race against a concurrent first request; re-read.
			profile, err = s.repo.FindByEmail(ctx, email)
		}
	}
	if err != nil {
		return s.deny(ctx, ReasonSystemError, err), nil
	}

	freeAllowed := strings.EqualFold(strings.TrimSpace(platform), freePlatform)

	admitted, err := s.repo.Consume(ctx, profiles.ConsumeParams{
		Email:       email,
		Step:        s.cfg.Step,
		TrialLimit:  s.cfg.TrialLimit,
		FreeLimit:   s.cfg.FreeLimit,
		FreeAllowed: freeAllowed,
	})
	if err != nil {
		return s.deny(ctx, ReasonSystemError, err), nil
	}
	if admitted {
		return &Decision{Admitted: true, Plan: profile.Plan}, nil
	}

	return s.deny(ctx, s.classify(ctx, email, profile, freeAllowed), nil), nil
}

// Release hands back a reservation after a failed generation.
func (s *service) Release(ctx context.Context, email string) error {
	return s.repo.Release(ctx, email, s.cfg.Step)
}

func (s *service) classify(ctx context.Context, email string, profile *models.Profile, freeAllowed bool) Reason {
	// Re-read so the reason reflects the row state the update saw.
	current, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		current = profile
	}
	switch current.Plan {
	case enums.PlanTrial:
		return ReasonTrialExhausted
	case enums.PlanFree:
		if !freeAllowed {
			return ReasonWrongPlatform
		}
		return ReasonFreeLimit
	case enums.PlanPro:
		// Pro never fails the conditional update; treat as transient.
		return ReasonSystemError
	default:
		return ReasonInvalidPlan
	}
}

func (s *service) deny(ctx context.Context, reason Reason, cause error) *Decision {
	if s.metrics != nil {
		s.metrics.IncQuotaDenied(string(reason))
	}
	if s.logg != nil {
		if cause != nil {
			ctx = s.logg.WithField(ctx, "error", cause.Error())
		}
		ctx = s.logg.WithField(ctx, "reason", string(reason))
		s.logg.Warn(ctx, "caption request denied")
	}
	return &Decision{Admitted: false, Reason: reason}
}
