// Package docs CareLink Portal API documentation
package docs

// Swagger documentation info
// @title CareLink Portal API
// @version 1.0
// @description Coordination portal for partner organizations - organizations, memberships, invites, inventory, website content and appointments.

// @contact.name CareLink Support
// @contact.email support@carelink.org

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

// @tag.name organizations
// @tag.description Tenant organization management

// @tag.name members
// @tag.description Membership and role grant management

// @tag.name invites
// @tag.description Invite creation and listing

// @tag.name inventory
// @tag.description Inventory items, locations and the stock ledger

// @tag.name content
// @tag.description Website content blocks and media

// @tag.name appointments
// @tag.description Appointment scheduling

// @tag.name audit
// @tag.description Immutable audit trail
