package captions

import (
	"context"

	"gorm.io/gorm"

	"github.com/instaprompt/backend/pkg/db/models"
	pkgerrors "github.com/instaprompt/backend/pkg/errors"
)

// Repository persists generated caption sets.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, caption *models.Caption) error {
	if err := r.db.WithContext(ctx).Create(caption).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create caption")
	}
	return nil
}
