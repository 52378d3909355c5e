package jobs

import (
	"log"
	"time"

	"github.com/akinyi-dev/chat_backend/database"
	"github.com/akinyi-dev/chat_backend/models"
)

// LogActivitySnapshot records totals plus last-24h message volume. Purely
// observational; it mutates nothing.
func LogActivitySnapshot() {
	log.Println("Running job: LogActivitySnapshot...")

	var conversationCount, messageCount, recentMessages int64

	if err := database.DB.Model(&models.Conversation{}).Count(&conversationCount).Error; err != nil {
		log.Printf("Error counting conversations: %v", err)
		return
	}
	if err := database.DB.Model(&models.Message{}).Count(&messageCount).Error; err != nil {
		log.Printf("Error counting messages: %v", err)
		return
	}
	since := time.Now().Add(-24 * time.Hour)
	if err := database.DB.Model(&models.Message{}).Where("created_at >= ?", since).Count(&recentMessages).Error; err != nil {
		log.Printf("Error counting recent messages: %v", err)
		return
	}

	log.Printf("Activity snapshot: %d conversation(s), %d message(s) total, %d in the last 24h.",
		conversationCount, messageCount, recentMessages)
}
