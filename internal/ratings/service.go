package ratings

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/instaprompt/backend/pkg/db/models"
	pkgerrors "github.com/instaprompt/backend/pkg/errors"
)

const (
	minScore = 1
	maxScore = 5
)

// Repository persists caption ratings.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, rating *models.Rating) error {
	if err := r.db.WithContext(ctx).Create(rating).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create rating")
	}
	return nil
}

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, rating *models.Rating) error
}

// Service validates and records caption ratings submitted from the
// result email links.
type Service interface {
	Record(ctx context.Context, email, captionID string, score int) error
}

type service struct {
	store Store
}

func NewService(store Store) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ratings store required")
	}
	return &service{store: store}, nil
}

// Record validates the rating and persists it.
func (s *service) Record(ctx context.Context, email, captionID string, score int) error {
	email = strings.TrimSpace(email)
	captionID = strings.TrimSpace(captionID)
	if email == "" || captionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email and id are required")
	}

	id, err := uuid.Parse(captionID)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "id must be a valid caption id")
	}

	if score < minScore || score > maxScore {
		return pkgerrors.New(pkgerrors.CodeValidation, "score must be between 1 and 5")
	}

	return s.store.Create(ctx, &models.Rating{
		Email:     email,
		CaptionID: id,
		Score:     score,
	})
}
