package storage

import (
	"errors"

	"github.com/dehierro/battleroyale/internal/game"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// rosterConfigID is the primary key of the single stored roster configuration.
const rosterConfigID = 1

// Repository persists the roster configuration text. It is the only state
// that survives a restart.
type Repository interface {
	// GetRosterConfig returns nil without error when nothing was saved yet.
	GetRosterConfig() (*game.RosterConfig, error)
	SaveRosterConfig(body string) error
}

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) GetRosterConfig() (*game.RosterConfig, error) {
	var cfg game.RosterConfig
	err := r.db.First(&cfg, rosterConfigID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *sqliteRepository) SaveRosterConfig(body string) error {
	cfg := game.RosterConfig{Body: body}
	cfg.ID = rosterConfigID
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&cfg).Error
}
