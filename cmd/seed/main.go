// Package main seeds the earning rules and the reward catalog. Safe to
// run repeatedly: rules are upserted by task type, rewards are created
// only when missing so live stock counts survive.
package main

import (
	"log"
	"os"
	"time"

	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/config"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/models"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/repositories"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/utils"

	"gorm.io/gorm/clause"
)

func main() {
	config.LoadEnv()

	db, err := repositories.InitDB(repositories.DefaultDBConfig())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			log.Printf("⚠️ Failed to get SQL DB instance: %v", err)
			return
		}
		if err := sqlDB.Close(); err != nil {
			log.Printf("⚠️ Failed to close PostgreSQL connection: %v", err)
		}
	}()

	rules := []models.EarnRule{
		{
			TaskType:        "daily_login",
			Description:     "Sign in to the help desk portal",
			CoinAmount:      10,
			CooldownSeconds: 86400,
			MaxPerDay:       1,
			IsActive:        true,
		},
		{
			TaskType:        "ticket_resolved",
			Description:     "Close a support ticket with a confirmed resolution",
			CoinAmount:      25,
			CooldownSeconds: 600,
			MaxPerDay:       20,
			IsActive:        true,
		},
		{
			TaskType:        "article_feedback",
			Description:     "Rate a knowledge base article",
			CoinAmount:      5,
			CooldownSeconds: 300,
			MaxPerDay:       10,
			IsActive:        true,
		},
		{
			TaskType:        "survey_completed",
			Description:     "Complete a customer satisfaction survey",
			CoinAmount:      15,
			CooldownSeconds: 3600,
			MaxPerDay:       4,
			IsActive:        true,
		},
		{
			TaskType:    "profile_completed",
			Description: "Fill in your full agent profile",
			CoinAmount:  50,
			MaxPerDay:   1,
			IsActive:    true,
		},
	}

	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "task_type"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"description", "coin_amount", "cooldown_seconds", "max_per_day", "is_active", "updated_at",
		}),
	}).Create(&rules).Error; err != nil {
		log.Fatalf("Failed to seed earn rules: %v", err)
	}
	log.Printf("✅ Seeded %d earn rules", len(rules))

	rewards := []models.RewardItem{
		{Name: "Coffee voucher", Description: "One free coffee at the office cafe", CoinCost: 100, Stock: 200, IsAvailable: true},
		{Name: "Lunch voucher", Description: "Lunch on the company", CoinCost: 250, Stock: 100, IsAvailable: true},
		{Name: "Branded hoodie", Description: "Help desk team hoodie", CoinCost: 750, Stock: 40, IsAvailable: true},
		{Name: "Day off raffle ticket", Description: "Entry into the monthly extra-day-off raffle", CoinCost: 500, Stock: 50, IsAvailable: true},
	}

	created := 0
	for i := range rewards {
		result := db.Where("name = ?", rewards[i].Name).FirstOrCreate(&rewards[i])
		if result.Error != nil {
			log.Fatalf("Failed to seed reward %q: %v", rewards[i].Name, result.Error)
		}
		created += int(result.RowsAffected)
	}
	log.Printf("✅ Seeded reward catalog (%d new of %d)", created, len(rewards))

	// Handy for smoke tests against a fresh deployment.
	if os.Getenv("SEED_ADMIN_TOKEN") == "true" {
		token, err := utils.GenerateToken(1, "ops@helpdesk.local", models.RoleAdmin, 24*time.Hour)
		if err != nil {
			log.Printf("⚠️ Could not issue admin token: %v", err)
		} else {
			log.Printf("Admin token (24h): %s", token)
		}
	}
}
