package logging

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/aiscribe/aiscribe-backend/internal/models"
)

// system_logs retention window. Rows written by PGHandler past this age are
// of no use for debugging generation or reset-flow incidents.
const logRetention = 30 * 24 * time.Hour

// StartCleanup prunes expired system_logs rows once a day until done is
// closed. Only started under the postgres storage driver.
func StartCleanup(db *gorm.DB, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().Add(-logRetention)
				result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
				if result.Error != nil {
					slog.Error("log cleanup failed", "error", result.Error)
				} else if result.RowsAffected > 0 {
					slog.Info("log cleanup completed", "deleted", result.RowsAffected)
				}
			case <-done:
				return
			}
		}
	}()
}
