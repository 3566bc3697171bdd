package movies

import (
	"errors"
	"fmt"

	models "theater/src/modules/movies/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// firstOrCreate loads the row whose column equals key into row, inserting row
// when none exists. The insert is ON CONFLICT DO NOTHING so a concurrent
// request creating the same key makes us re-read its row instead of failing.
// Keys are matched exactly: no case or whitespace folding.
func firstOrCreate[T any](tx *gorm.DB, column, key string, row *T) error {
	byKey := clause.Eq{Column: clause.Column{Name: column}, Value: key}

	var found T
	err := tx.Where(byKey).Take(&found).Error
	if err == nil {
		*row = found
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up %s %q: %w", column, key, err)
	}

	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: column}},
		DoNothing: true,
	}).Create(row)
	if res.Error != nil {
		return fmt.Errorf("failed to create %s %q: %w", column, key, res.Error)
	}
	if res.RowsAffected == 0 {
		if err := tx.Where(byKey).Take(row).Error; err != nil {
			return fmt.Errorf("failed to reload %s %q: %w", column, key, err)
		}
	}
	return nil
}

// resolveNamed get-or-creates one row per distinct name, keeping input order.
func resolveNamed[T any](tx *gorm.DB, names []string, build func(name string) T) ([]T, error) {
	rows := make([]T, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		row := build(name)
		if err := firstOrCreate(tx, "name", name, &row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func resolveGenres(tx *gorm.DB, names []string) ([]models.Genre, error) {
	return resolveNamed(tx, names, func(name string) models.Genre { return models.Genre{Name: name} })
}

func resolveActors(tx *gorm.DB, names []string) ([]models.Actor, error) {
	return resolveNamed(tx, names, func(name string) models.Actor { return models.Actor{Name: name} })
}

func resolveLanguages(tx *gorm.DB, names []string) ([]models.Language, error) {
	return resolveNamed(tx, names, func(name string) models.Language { return models.Language{Name: name} })
}

func resolveCountry(tx *gorm.DB, code string) (models.Country, error) {
	country := models.Country{Code: code}
	if err := firstOrCreate(tx, "code", code, &country); err != nil {
		return models.Country{}, err
	}
	return country, nil
}
