package workers

import (
	"context"
	"log"
	"time"

	"gwc-community-system/models"

	"gorm.io/gorm"
)

// PurgeResetCodes deletes expired and already-used password reset codes on a
// fixed interval until the context is cancelled. Reset codes are single-use
// with a 24h lifetime, so anything this removes is already dead.
func PurgeResetCodes(ctx context.Context, db *gorm.DB, interval time.Duration) {
	log.Println("Starting password reset code purge...")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Stopping password reset code purge...")
			return
		case <-ticker.C:
			result := db.Where("expires_at < ? OR used_at IS NOT NULL", time.Now()).
				Delete(&models.PasswordReset{})
			if result.Error != nil {
				log.Printf("❌ reset code purge failed: %v", result.Error)
				continue
			}
			if result.RowsAffected > 0 {
				log.Printf("🧹 purged %d stale reset codes", result.RowsAffected)
			}
		}
	}
}
