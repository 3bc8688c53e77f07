package main

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"carelink-backend/shared/config"
)

func main() {
	log.Println("🗑️ Starting database reset...")

	config.LoadConfig()
	cfg := config.GetConfig()

	dsn := "host=" + cfg.DBHost +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" port=" + cfg.DBPort +
		" sslmode=" + cfg.DBSSLMode +
		" TimeZone=UTC"

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatal("❌ Database connection failed:", err)
	}

	// Dependents first so the drops succeed without cascading surprises
	tables := []string{
		"audit_events",
		"stock_transactions",
		"inventory_items",
		"inventory_locations",
		"content_blocks",
		"appointments",
		"invites",
		"membership_roles",
		"memberships",
		"roles",
		"organization_relationships",
		"profiles",
		"organizations",
	}

	log.Println("🗑️ Dropping all tables...")

	for _, table := range tables {
		log.Printf("   Dropping table: %s", table)
		db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE;")
	}

	db.Exec("DROP FUNCTION IF EXISTS assign_membership_roles(uuid, uuid[], uuid);")
	db.Exec("DROP FUNCTION IF EXISTS refresh_profile_claims(uuid);")

	log.Println("✅ Database reset completed!")
}
