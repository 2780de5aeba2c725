package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"visaguide/internal/model"
)

// likeEscape is the LIKE escape character; chosen because MySQL and SQLite
// treat it identically inside a string literal.
const likeEscape = "!"

type VisaRepository struct {
	db *gorm.DB
}

func NewVisaRepository(db *gorm.DB) *VisaRepository {
	return &VisaRepository{db: db}
}

func (r *VisaRepository) ListAll(ctx context.Context) ([]model.VisaInfo, error) {
	var rows []model.VisaInfo
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list visa info failed: %w", err)
	}
	return rows, nil
}

func (r *VisaRepository) ListByCountry(ctx context.Context, country string) ([]model.VisaInfo, error) {
	var rows []model.VisaInfo
	if err := r.db.WithContext(ctx).
		Where("LOWER(country) = LOWER(?)", country).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list visa info by country failed: %w", err)
	}
	return rows, nil
}

// GetByCountryAndType returns (nil, nil) when no row matches.
func (r *VisaRepository) GetByCountryAndType(ctx context.Context, country, visaType string) (*model.VisaInfo, error) {
	var row model.VisaInfo
	err := r.db.WithContext(ctx).
		Where("LOWER(country) = LOWER(?) AND LOWER(visa_type) = LOWER(?)", country, visaType).
		Order("id ASC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get visa info by country and type failed: %w", err)
	}
	return &row, nil
}

func (r *VisaRepository) ListCountries(ctx context.Context) ([]string, error) {
	var countries []string
	if err := r.db.WithContext(ctx).
		Model(&model.VisaInfo{}).
		Distinct("country").
		Order("country ASC").
		Pluck("country", &countries).Error; err != nil {
		return nil, fmt.Errorf("list countries failed: %w", err)
	}
	return countries, nil
}

func (r *VisaRepository) ListVisaTypes(ctx context.Context, country string) ([]string, error) {
	var types []string
	if err := r.db.WithContext(ctx).
		Model(&model.VisaInfo{}).
		Where("LOWER(country) = LOWER(?)", country).
		Distinct("visa_type").
		Order("visa_type ASC").
		Pluck("visa_type", &types).Error; err != nil {
		return nil, fmt.Errorf("list visa types failed: %w", err)
	}
	return types, nil
}

// Search matches term as a literal, case-insensitive substring of country,
// visa_type or notes.
func (r *VisaRepository) Search(ctx context.Context, term string) ([]model.VisaInfo, error) {
	pattern := "%" + escapeLike(term) + "%"
	// Both sides go through the database's LOWER so they fold identically;
	// SQLite folds ASCII only.
	match := "LOWER(%s) LIKE LOWER(?) ESCAPE '" + likeEscape + "'"
	var rows []model.VisaInfo
	if err := r.db.WithContext(ctx).
		Where(
			fmt.Sprintf(match, "country")+" OR "+fmt.Sprintf(match, "visa_type")+" OR "+fmt.Sprintf(match, "notes"),
			pattern, pattern, pattern,
		).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("search visa info failed: %w", err)
	}
	return rows, nil
}

// ImportFunc inserts rows through the transaction-scoped inserter and reports
// how many of them were written.
type ImportFunc func(insert func(row *model.VisaInfo) error) (int, error)

// ImportInTx runs fn inside one transaction. Each insert gets its own
// savepoint, so a failed row is rolled back alone and the transaction stays
// usable for the rest of the batch.
func (r *VisaRepository) ImportInTx(ctx context.Context, fn ImportFunc) (int, error) {
	var written int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		insert := func(row *model.VisaInfo) error {
			return tx.Transaction(func(sp *gorm.DB) error {
				return sp.Create(row).Error
			})
		}
		n, err := fn(insert)
		if err != nil {
			return err
		}
		written = n
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("import visa info failed: %w", err)
	}
	return written, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(
		likeEscape, likeEscape+likeEscape,
		"%", likeEscape+"%",
		"_", likeEscape+"_",
	).Replace(s)
}
