package storage

import (
	"os"
	"path/filepath"

	"github.com/dehierro/battleroyale/internal/game"
	"github.com/dehierro/battleroyale/internal/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenAndMigrate opens the sqlite database at dataSourceName, creating its
// parent directory when needed, and migrates the roster configuration table.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	if dir := filepath.Dir(dataSourceName); dir != "." && dir != "" && dataSourceName != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&game.RosterConfig{}); err != nil {
		return nil, err
	}
	logging.Info("database ready", logging.Fields{"path": dataSourceName})
	return db, nil
}
