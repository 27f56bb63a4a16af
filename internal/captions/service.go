package captions

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/instaprompt/backend/internal/classifier"
	"github.com/instaprompt/backend/internal/quota"
	"github.com/instaprompt/backend/pkg/db/models"
	"github.com/instaprompt/backend/pkg/enums"
	pkgerrors "github.com/instaprompt/backend/pkg/errors"
	"github.com/instaprompt/backend/pkg/logger"
	"github.com/instaprompt/backend/pkg/metrics"
)

// Request is one caption order, already extracted from the form payload.
type Request struct {
	Email    string
	Topic    string
	Platform string
	Language string
	Tone     string
}

// Result is a delivered caption set.
type Result struct {
	CaptionID uuid.UUID
	Text      string
	Language  string
	Tone      string
	Category  string
	Plan      enums.Plan
}

// Event is what downstream notification channels receive. Delivery is
// best-effort and must never fail the request.
type Event struct {
	CaptionID uuid.UUID
	Email     string
	Topic     string
	Platform  string
	Language  string
	Plan      enums.Plan
	Text      string
}

// Notifier fans a generated caption set out to its channels.
type Notifier interface {
	CaptionGenerated(ctx context.Context, event Event)
}

// Store persists the audit record of a generated set.
type Store interface {
	Create(ctx context.Context, caption *models.Caption) error
}

// Service runs the full order: classify, reserve quota, generate,
// notify and persist.
type Service interface {
	Create(ctx context.Context, request Request) (*Result, error)
}

type ServiceParams struct {
	Classifier classifier.Service
	Quota      quota.Service
	Generator  Generator
	Store      Store
	Notifier   Notifier
	Metrics    *metrics.ServiceMetrics
	Logger     *logger.Logger
}

type service struct {
	classifier classifier.Service
	quota      quota.Service
	generator  Generator
	store      Store
	notifier   Notifier
	metrics    *metrics.ServiceMetrics
	logg       *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Classifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "classifier required")
	}
	if params.Quota == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "quota service required")
	}
	if params.Generator == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "generator required")
	}
	return &service{
		classifier: params.Classifier,
		quota:      params.Quota,
		generator:  params.Generator,
		store:      params.Store,
		notifier:   params.Notifier,
		metrics:    params.Metrics,
		logg:       params.Logger,
	}, nil
}

// Create handles one caption order end to end. Quota is consumed before
// the model call and handed back if generation fails, so each delivered
// set costs exactly one reservation.
func (s *service) Create(ctx context.Context, request Request) (*Result, error) {
	if s.logg != nil {
		ctx = s.logg.WithEmail(ctx, request.Email)
	}

	language := strings.TrimSpace(request.Language)
	if language == "" {
		language = s.classifier.DetectLanguage(ctx, request.Topic)
	}
	tone := strings.TrimSpace(request.Tone)
	if tone == "" {
		tone = s.classifier.DetectTone(ctx, request.Topic, language)
	}
	detected := s.classifier.DetectCategories(ctx, request.Topic)
	hashtags := AggregateHashtags(detected)

	decision, err := s.quota.Reserve(ctx, request.Email, request.Platform)
	if err != nil {
		return nil, err
	}
	if !decision.Admitted {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, decision.Reason.Message())
	}

	captionID := uuid.New()
	if s.logg != nil {
		ctx = s.logg.WithCaptionID(ctx, captionID.String())
	}

	text, err := s.generator.Generate(ctx, GenerateInput{
		Topic:    request.Topic,
		Platform: request.Platform,
		Language: language,
		Tone:     tone,
		Plan:     decision.Plan,
		Hashtags: hashtags,
	})
	if err != nil {
		if releaseErr := s.quota.Release(ctx, request.Email); releaseErr != nil && s.logg != nil {
			s.logg.Error(ctx, "release reservation after failed generation", releaseErr)
		}
		return nil, err
	}

	var category string
	if len(detected) > 0 {
		category = detected[0]
	}

	if s.notifier != nil {
		s.notifier.CaptionGenerated(ctx, Event{
			CaptionID: captionID,
			Email:     request.Email,
			Topic:     request.Topic,
			Platform:  request.Platform,
			Language:  language,
			Plan:      decision.Plan,
			Text:      text,
		})
	}

	if s.store != nil {
		if err := s.store.Create(ctx, &models.Caption{
			ID:       captionID,
			Email:    request.Email,
			Text:     text,
			Language: language,
			Platform: request.Platform,
			Tone:     tone,
			Category: category,
		}); err != nil && s.logg != nil {
			s.logg.Error(ctx, "persist caption record", err)
		}
	}

	if s.metrics != nil {
		s.metrics.IncCaptionsGenerated()
	}
	if s.logg != nil {
		s.logg.Info(ctx, "caption set delivered")
	}

	return &Result{
		CaptionID: captionID,
		Text:      text,
		Language:  language,
		Tone:      tone,
		Category:  category,
		Plan:      decision.Plan,
	}, nil
}
