package database

import (
	"log"

	"carelink-backend/shared/config"
	"carelink-backend/shared/database/models"
	utils "carelink-backend/shared/utils/auth"

	"github.com/google/uuid"
)

// SeedDatabase seeds the database with initial data
func SeedDatabase() error {
	log.Println("🌱 Checking database seed data...")

	rolesCreated, err := seedRoles()
	if err != nil {
		return err
	}

	if rolesCreated > 0 {
		log.Printf("✅ Database seeding completed (%d roles created)", rolesCreated)
	} else {
		log.Println("✅ Database seed data is up to date")
	}

	// Create the global admin from config
	if err := createGlobalAdminFromConfig(); err != nil {
		return err
	}

	// Demo tenant with sample data for local development
	if err := seedDemoOrganization(); err != nil {
		return err
	}

	return nil
}

// seedDemoOrganization creates a feature-tagged demo tenant with sample
// inventory and content so a fresh install has something to click on.
// Skipped when the demo org already exists.
func seedDemoOrganization() error {
	var existing models.Organization
	if err := DB.Where("name = ?", "Harbor Light Services").First(&existing).Error; err == nil {
		return nil
	}

	contactEmail := "hello@harborlight.example"
	org := models.Organization{
		Name:             "Harbor Light Services",
		Status:           models.OrgStatusActive,
		OrganizationType: models.OrgTypeDirectService,
		ContactEmail:     &contactEmail,
		Tags:             []string{"demo", "appointments", "inventory", "website_content", "invites"},
	}
	if err := DB.Create(&org).Error; err != nil {
		return err
	}

	location := models.InventoryLocation{
		OrganizationID: org.ID,
		Name:           "Main Pantry",
		IsActive:       true,
	}
	if err := DB.Create(&location).Error; err != nil {
		return err
	}

	items := []models.InventoryItem{
		{OrganizationID: org.ID, SKU: "HL-BLANKET", Name: "Wool Blanket", Unit: "each", IsActive: true},
		{OrganizationID: org.ID, SKU: "HL-PANTRY-BOX", Name: "Pantry Box", Unit: "box", IsActive: true},
	}
	for i := range items {
		if err := DB.Create(&items[i]).Error; err != nil {
			return err
		}
	}

	heroTitle := "Welcome to Harbor Light"
	heroBody := "Coordinated care and resources for our neighbors."
	hero := models.ContentBlock{
		OrganizationID: org.ID,
		Section:        models.ContentSectionHero,
		Title:          &heroTitle,
		Body:           &heroBody,
		Published:      true,
	}
	if err := DB.Create(&hero).Error; err != nil {
		return err
	}

	log.Printf("✅ Demo organization created: %s", org.Name)
	return nil
}

// seedRoles creates the grantable role definitions
func seedRoles() (int, error) {
	roles := []models.Role{
		{Key: models.RoleGlobalAdmin, Name: "Global Administrator", Description: "Full access across all organizations", OrganizationScoped: false},
		{Key: models.RoleOrgAdmin, Name: "Organization Administrator", Description: "Full access within the organization", OrganizationScoped: true},
		{Key: models.RoleOrgRep, Name: "Organization Representative", Description: "Read access and appointment scheduling within the organization", OrganizationScoped: true},
		{Key: models.RoleMemberManager, Name: "Member Manager", Description: "Manage organization memberships and role grants", OrganizationScoped: true},
		{Key: models.RoleInviteManager, Name: "Invite Manager", Description: "Create organization invites", OrganizationScoped: true},
		{Key: models.RoleContentEditor, Name: "Content Editor", Description: "Edit the organization's public website content", OrganizationScoped: true},
		{Key: models.RoleInventoryManager, Name: "Inventory Manager", Description: "Manage inventory items, locations and stock movements", OrganizationScoped: true},
		{Key: models.RoleScheduler, Name: "Scheduler", Description: "Manage organization appointments", OrganizationScoped: true},
	}

	created := 0
	for _, role := range roles {
		var existing models.Role
		result := DB.Where("key = ?", role.Key).First(&existing)
		if result.Error != nil {
			if err := DB.Create(&role).Error; err != nil {
				return created, err
			}
			created++
		}
	}

	return created, nil
}

// createGlobalAdminFromConfig provisions the global admin profile and its
// global_admin grant. Safe to run repeatedly.
func createGlobalAdminFromConfig() error {
	cfg := config.GetConfig()

	var existing models.Profile
	if err := DB.Where("email = ?", cfg.SuperAdminEmail).First(&existing).Error; err == nil {
		log.Println("✅ Global admin already exists")
		return nil
	}

	hashedPassword, err := utils.HashPassword(cfg.SuperAdminPassword)
	if err != nil {
		return err
	}

	profile := models.Profile{
		UserID:   uuid.New(),
		Email:    cfg.SuperAdminEmail,
		Password: hashedPassword,
		FullName: "Global Admin",
		Status:   "active",
	}
	if err := DB.Create(&profile).Error; err != nil {
		return err
	}

	// The global admin needs a home organization so its membership row has a
	// tenant to hang off, even though the global_admin role ignores tenancy.
	org := models.Organization{
		Name:             "CareLink Operations",
		Status:           models.OrgStatusActive,
		OrganizationType: models.OrgTypeDirectService,
		Tags:             []string{"internal"},
	}
	if err := DB.Create(&org).Error; err != nil {
		return err
	}

	if err := DB.Model(&profile).Update("organization_id", org.ID).Error; err != nil {
		return err
	}

	membership := models.Membership{
		OrganizationID: org.ID,
		ProfileID:      profile.ID,
	}
	if err := DB.Create(&membership).Error; err != nil {
		return err
	}

	var adminRole models.Role
	if err := DB.Where("key = ?", models.RoleGlobalAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	grant := models.MembershipRole{
		MembershipID: membership.ID,
		RoleID:       adminRole.ID,
		GrantedBy:    profile.ID,
	}
	if err := DB.Create(&grant).Error; err != nil {
		return err
	}

	log.Printf("✅ Global admin created: %s", cfg.SuperAdminEmail)
	return nil
}
