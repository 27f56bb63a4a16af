package profiles

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/instaprompt/backend/pkg/db/models"
	"github.com/instaprompt/backend/pkg/enums"
)

// ErrNotFound is returned when no profile exists for an email.
var ErrNotFound = errors.New("profile not found")

// Repository exposes profile persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profiles repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByEmail retrieves the profile for the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// CreateTrial inserts a fresh trial profile for a first-seen email.
// A concurrent insert of the same email surfaces as a unique violation;
// callers should re-read in that case.
func (r *Repository) CreateTrial(ctx context.Context, email string) (*models.Profile, error) {
	profile := &models.Profile{
		Email:        email,
		Plan:         enums.PlanTrial,
		UsedCaptions: 0,
	}
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// SetPlan upserts the profile with the given plan, keyed by email.
// Used by the payment webhook for the subscription (pro) transition;
// the stored customer id is overwritten when provided.
func (r *Repository) SetPlan(ctx context.Context, email string, plan enums.Plan, stripeCustomerID *string) error {
	assignments := map[string]any{"plan": plan}
	if stripeCustomerID != nil {
		assignments["stripe_customer_id"] = *stripeCustomerID
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&models.Profile{
		Email:            email,
		Plan:             plan,
		StripeCustomerID: stripeCustomerID,
	}).Error
}

// ResetTrial upserts the profile to trial with a zeroed counter. Used
// when a one-time purchase grants fresh trial credits.
func (r *Repository) ResetTrial(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]any{
			"plan":          enums.PlanTrial,
			"used_captions": 0,
		}),
	}).Create(&models.Profile{
		Email:        email,
		Plan:         enums.PlanTrial,
		UsedCaptions: 0,
	}).Error
}

// ConsumeParams bounds the conditional quota increment.
type ConsumeParams struct {
	Email      string
	Step       int
	TrialLimit int
	FreeLimit  int
	// FreeAllowed reports whether the target platform satisfies the
	// free-plan restriction; evaluated by the caller.
	FreeAllowed bool
}

// Consume atomically admits and increments in one conditional UPDATE.
// It returns true when a row matched the plan's admission rule and the
// counter advanced; false means the request must be denied (the caller
// classifies the reason from a follow-up read).
func (r *Repository) Consume(ctx context.Context, params ConsumeParams) (bool, error) {
	freeCondition := "1 = 0"
	if params.FreeAllowed {
		freeCondition = "used_captions < ?"
	}

	query := "email = ? AND (plan = ? OR (plan = ? AND used_captions < ?) OR (plan = ? AND " + freeCondition + "))"
	args := []any{params.Email, enums.PlanPro, enums.PlanTrial, params.TrialLimit, enums.PlanFree}
	if params.FreeAllowed {
		args = append(args, params.FreeLimit)
	}

	result := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where(query, args...).
		UpdateColumn("used_captions", gorm.Expr("used_captions + ?", params.Step))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Release undoes a reservation after a failed generation so a unit is
// only consumed for delivered caption sets. The counter never drops
// below zero.
func (r *Repository) Release(ctx context.Context, email string, step int) error {
	return r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("email = ? AND used_captions >= ?", email, step).
		UpdateColumn("used_captions", gorm.Expr("used_captions - ?", step)).Error
}
