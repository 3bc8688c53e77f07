package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"carelink-backend/shared/config"
	"carelink-backend/shared/database/models"
)

var DB *gorm.DB

// getLogLevel returns appropriate log level based on environment
func getLogLevel(cfg *config.Config) logger.LogLevel {
	if cfg.DBHost == "localhost" || cfg.DBHost == "127.0.0.1" {
		return logger.Warn
	}
	return logger.Error
}

// InitDatabase initializes the database connection and runs migrations
func InitDatabase() error {
	cfg := config.GetConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(getLogLevel(cfg)),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connection established successfully")

	// Run migrations
	if err := runMigrations(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// runMigrations runs all database migrations
func runMigrations() error {
	log.Println("🔄 Checking database schema...")

	modelsToMigrate := []interface{}{
		&models.Organization{},
		&models.OrganizationRelationship{},
		&models.Profile{},
		&models.Role{},
		&models.Membership{},
		&models.MembershipRole{},
		&models.Invite{},
		&models.InventoryItem{},
		&models.InventoryLocation{},
		&models.StockTransaction{},
		&models.ContentBlock{},
		&models.Appointment{},
		&models.AuditEvent{},
	}

	// Check if all tables exist
	migrator := DB.Migrator()
	allTablesExist := true

	for _, model := range modelsToMigrate {
		if !migrator.HasTable(model) {
			allTablesExist = false
			break
		}
	}

	if !allTablesExist {
		migratedCount := 0
		for _, model := range modelsToMigrate {
			tableName := DB.NamingStrategy.TableName(fmt.Sprintf("%T", model)[1:])

			if !migrator.HasTable(model) {
				log.Printf("📦 Creating table: %s", tableName)
				migratedCount++
			}

			if err := DB.AutoMigrate(model); err != nil {
				return fmt.Errorf("failed to migrate %T: %w", model, err)
			}
		}
		log.Printf("✅ Database migrations completed (%d tables created/updated)", migratedCount)
	} else {
		log.Println("✅ Database schema is up to date")
	}

	// Stored procedures live alongside the schema they mutate
	if err := ensureBackendProcedures(); err != nil {
		return fmt.Errorf("failed to create backend procedures: %w", err)
	}

	return nil
}

// ensureBackendProcedures creates the idempotent SQL functions the mutation
// pipeline calls for role assignment and claims refresh.
func ensureBackendProcedures() error {
	procedures := []string{
		// Replaces the full active role set of a membership. Safe to call with
		// an unchanged set: existing grants are kept, missing ones revoked,
		// new ones inserted.
		`CREATE OR REPLACE FUNCTION assign_membership_roles(p_membership_id uuid, p_role_ids uuid[], p_granted_by uuid)
RETURNS void AS $$
BEGIN
    UPDATE membership_roles
    SET revoked_by = p_granted_by, revoked_at = now()
    WHERE membership_id = p_membership_id
      AND revoked_at IS NULL
      AND NOT (role_id = ANY(p_role_ids));

    INSERT INTO membership_roles (id, membership_id, role_id, granted_by, granted_at)
    SELECT gen_random_uuid(), p_membership_id, rid, p_granted_by, now()
    FROM unnest(p_role_ids) AS rid
    WHERE NOT EXISTS (
        SELECT 1 FROM membership_roles mr
        WHERE mr.membership_id = p_membership_id
          AND mr.role_id = rid
          AND mr.revoked_at IS NULL
    );
END;
$$ LANGUAGE plpgsql`,
		// Bumps the profile row so downstream token issuance re-reads role
		// claims. Idempotent by construction.
		`CREATE OR REPLACE FUNCTION refresh_profile_claims(p_profile_id uuid)
RETURNS void AS $$
BEGIN
    UPDATE profiles SET updated_at = now() WHERE id = p_profile_id;
END;
$$ LANGUAGE plpgsql`,
	}

	for _, proc := range procedures {
		if err := DB.Exec(proc).Error; err != nil {
			return err
		}
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// CloseDatabase closes the database connection
func CloseDatabase() error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
