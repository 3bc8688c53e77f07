package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carelink-backend/shared/database"
	"carelink-backend/shared/database/models"
	"carelink-backend/shared/pipeline"
	"carelink-backend/shared/store"
	"carelink-backend/shared/utils/query"
)

var itemFields = []pipeline.Field{
	{Name: "sku", Kind: pipeline.KindRequiredString},
	{Name: "name", Kind: pipeline.KindRequiredString},
	{Name: "unit", Kind: pipeline.KindString},
	{Name: "description", Kind: pipeline.KindString},
	{Name: "is_active", Kind: pipeline.KindBoolean, Default: true},
}

var locationFields = []pipeline.Field{
	{Name: "name", Kind: pipeline.KindRequiredString},
	{Name: "address", Kind: pipeline.KindString},
	{Name: "is_active", Kind: pipeline.KindBoolean, Default: true},
}

// inventoryViews returns the cached views touched by any inventory write
func inventoryViews(orgID uuid.UUID) []string {
	return []string{"/organizations/" + orgID.String() + "/inventory"}
}

// GetInventoryItems retrieves an organization's inventory items
// @Summary Get inventory items
// @Tags inventory
// @Produce json
// @Param id path string true "Organization ID"
// @Param search query string false "Search across SKU and name"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /organizations/{id}/inventory/items [get]
func GetInventoryItems(c *gin.Context) {
	orgID, failure := parseID(c, "id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	ac := actor(c)
	if ac != nil && !ac.GlobalAdmin {
		if ac.OrganizationID == nil || *ac.OrganizationID != orgID {
			renderFailure(c, pipeline.Unauthorized(""))
			return
		}
	}

	db := database.GetDB()
	params := query.ParseListParams(c)

	dbQuery := db.Model(&models.InventoryItem{}).Where("organization_id = ?", orgID)
	dbQuery = query.ApplyFilters(dbQuery, params.Filters, map[string]string{"is_active": "is_active"})
	dbQuery = query.ApplySearch(dbQuery, params.Search, []string{"sku", "name"})

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		renderFailure(c, pipeline.Backend("count items", err))
		return
	}

	var items []models.InventoryItem
	err := dbQuery.Order("name ASC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&items).Error
	if err != nil {
		renderFailure(c, pipeline.Backend("list items", err))
		return
	}

	renderSuccess(c, http.StatusOK, gin.H{
		"items":      items,
		"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
	})
}

// CreateInventoryItem creates a stockable item
// @Summary Create inventory item
// @Tags inventory
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Organization ID"
// @Param sku formData string true "Stock keeping unit"
// @Param name formData string true "Item name"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]string "Validation error"
// @Router /organizations/{id}/inventory/items [post]
func CreateInventoryItem(c *gin.Context) {
	orgID, failure := parseID(c, "id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	values, failure := formValues(c)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	form, failure := pipeline.DecodeForm(values, itemFields)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	inventory := store.InventoryStore{DB: database.GetDB()}
	var created *models.InventoryItem

	act := pipeline.Action{
		Name:           "inventory_item_created",
		Capability:     pipeline.CapManageInventory,
		OrganizationID: &orgID,
	}

	_, failure = pipe.Execute(c.Request.Context(), actor(c), act, inventoryViews(orgID),
		func(ctx context.Context) (pipeline.EntityRef, map[string]interface{}, *pipeline.Failure) {
			item := &models.InventoryItem{
				OrganizationID: orgID,
				SKU:            form.StrOr("sku", ""),
				Name:           form.StrOr("name", ""),
				Unit:           form.StrOr("unit", "each"),
				Description:    form.Str("description"),
				IsActive:       form.Bool("is_active"),
			}
			if failure := inventory.CreateItem(ctx, item); failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			created = item
			return pipeline.RefUUID("inventory_items", item.ID), map[string]interface{}{
				"sku": item.SKU,
			}, nil
		})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	renderSuccess(c, http.StatusCreated, created)
}

// UpdateInventoryItem replaces an item's full payload
// @Summary Update inventory item
// @Tags inventory
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Item ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /inventory/items/{id} [post]
func UpdateInventoryItem(c *gin.Context) {
	id, failure := parseID(c, "id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	values, failure := formValues(c)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	form, failure := pipeline.DecodeForm(values, itemFields)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	inventory := store.InventoryStore{DB: database.GetDB()}
	item, failure := inventory.GetItem(c.Request.Context(), id)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	act := pipeline.Action{
		Name:           "inventory_item_updated",
		Capability:     pipeline.CapManageInventory,
		OrganizationID: &item.OrganizationID,
	}

	_, failure = pipe.Execute(c.Request.Context(), actor(c), act, inventoryViews(item.OrganizationID),
		func(ctx context.Context) (pipeline.EntityRef, map[string]interface{}, *pipeline.Failure) {
			item.SKU = form.StrOr("sku", item.SKU)
			item.Name = form.StrOr("name", item.Name)
			item.Unit = form.StrOr("unit", item.Unit)
			item.Description = form.Str("description")
			item.IsActive = form.Bool("is_active")

			if failure := inventory.UpdateItem(ctx, item); failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			return pipeline.RefUUID("inventory_items", item.ID), map[string]interface{}{
				"sku": item.SKU,
			}, nil
		})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	renderSuccess(c, http.StatusOK, item)
}

// SetInventoryItemActive toggles an item's availability
// @Summary Toggle inventory item
// @Description Activate or deactivate an item. Repeating the current state is a no-op.
// @Tags inventory
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Item ID"
// @Param active formData boolean true "Desired state"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /inventory/items/{id}/active [post]
func SetInventoryItemActive(c *gin.Context) {
	id, failure := parseID(c, "id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	values, failure := formValues(c)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	form, failure := pipeline.DecodeForm(values, []pipeline.Field{
		{Name: "active", Kind: pipeline.KindBoolean, Default: true},
	})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	inventory := store.InventoryStore{DB: database.GetDB()}
	item, failure := inventory.GetItem(c.Request.Context(), id)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	act := pipeline.Action{
		Name:           "inventory_item_toggled",
		Capability:     pipeline.CapManageInventory,
		OrganizationID: &item.OrganizationID,
	}

	_, failure = pipe.Execute(c.Request.Context(), actor(c), act, inventoryViews(item.OrganizationID),
		func(ctx context.Context) (pipeline.EntityRef, map[string]interface{}, *pipeline.Failure) {
			if failure := inventory.SetItemActive(ctx, item, form.Bool("active")); failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			return pipeline.RefUUID("inventory_items", item.ID), map[string]interface{}{
				"active": item.IsActive,
			}, nil
		})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	renderSuccess(c, http.StatusOK, item)
}

// DeleteInventoryItem removes an item never referenced by the ledger
// @Summary Delete inventory item
// @Tags inventory
// @Produce json
// @Param id path string true "Item ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Ledger entries exist"
// @Router /inventory/items/{id}/delete [post]
func DeleteInventoryItem(c *gin.Context) {
	id, failure := parseID(c, "id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	inventory := store.InventoryStore{DB: database.GetDB()}
	item, failure := inventory.GetItem(c.Request.Context(), id)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	act := pipeline.Action{
		Name:           "inventory_item_deleted",
		Capability:     pipeline.CapManageInventory,
		OrganizationID: &item.OrganizationID,
	}

	_, failure = pipe.Execute(c.Request.Context(), actor(c), act, inventoryViews(item.OrganizationID),
		func(ctx context.Context) (pipeline.EntityRef, map[string]interface{}, *pipeline.Failure) {
			if failure := inventory.DeleteItem(ctx, item); failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			return pipeline.RefUUID("inventory_items", item.ID), map[string]interface{}{
				"sku": item.SKU,
			}, nil
		})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	renderSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

// GetInventoryLocations retrieves an organization's storage locations
// @Summary Get inventory locations
// @Tags inventory
// @Produce json
// @Param id path string true "Organization ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /organizations/{id}/inventory/locations [get]
func GetInventoryLocations(c *gin.Context) {
	orgID, failure := parseID(c, "id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	ac := actor(c)
	if ac != nil && !ac.GlobalAdmin {
		if ac.OrganizationID == nil || *ac.OrganizationID != orgID {
			renderFailure(c, pipeline.Unauthorized(""))
			return
		}
	}

	var locations []models.InventoryLocation
	err := database.GetDB().
		Where("organization_id = ?", orgID).
		Order("name ASC").
		Find(&locations).Error
	if err != nil {
		renderFailure(c, pipeline.Backend("list locations", err))
		return
	}

	renderSuccess(c, http.StatusOK, locations)
}

// CreateInventoryLocation creates a storage location
// @Summary Create inventory location
// @Tags inventory
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Organization ID"
// @Param name formData string true "Location name"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Router /organizations/{id}/inventory/locations [post]
func CreateInventoryLocation(c *gin.Context) {
	orgID, failure := parseID(c, "id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	values, failure := formValues(c)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	form, failure := pipeline.DecodeForm(values, locationFields)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	inventory := store.InventoryStore{DB: database.GetDB()}
	var created *models.InventoryLocation

	act := pipeline.Action{
		Name:           "inventory_location_created",
		Capability:     pipeline.CapManageInventory,
		OrganizationID: &orgID,
	}

	_, failure = pipe.Execute(c.Request.Context(), actor(c), act, inventoryViews(orgID),
		func(ctx context.Context) (pipeline.EntityRef, map[string]interface{}, *pipeline.Failure) {
			location := &models.InventoryLocation{
				OrganizationID: orgID,
				Name:           form.StrOr("name", ""),
				Address:        form.Str("address"),
				IsActive:       form.Bool("is_active"),
			}
			if failure := inventory.CreateLocation(ctx, location); failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			created = location
			return pipeline.RefUUID("inventory_locations", location.ID), map[string]interface{}{
				"name": location.Name,
			}, nil
		})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	renderSuccess(c, http.StatusCreated, created)
}

// UpdateInventoryLocation replaces a location's full payload
// @Summary Update inventory location
// @Tags inventory
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Location ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /inventory/locations/{id} [post]
func UpdateInventoryLocation(c *gin.Context) {
	id, failure := parseID(c, "id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	values, failure := formValues(c)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	form, failure := pipeline.DecodeForm(values, locationFields)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	inventory := store.InventoryStore{DB: database.GetDB()}
	location, failure := inventory.GetLocation(c.Request.Context(), id)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	act := pipeline.Action{
		Name:           "inventory_location_updated",
		Capability:     pipeline.CapManageInventory,
		OrganizationID: &location.OrganizationID,
	}

	_, failure = pipe.Execute(c.Request.Context(), actor(c), act, inventoryViews(location.OrganizationID),
		func(ctx context.Context) (pipeline.EntityRef, map[string]interface{}, *pipeline.Failure) {
			location.Name = form.StrOr("name", location.Name)
			location.Address = form.Str("address")
			location.IsActive = form.Bool("is_active")

			if failure := inventory.UpdateLocation(ctx, location); failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			return pipeline.RefUUID("inventory_locations", location.ID), map[string]interface{}{
				"name": location.Name,
			}, nil
		})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	renderSuccess(c, http.StatusOK, location)
}

// SetInventoryLocationActive toggles a location
// @Summary Toggle inventory location
// @Tags inventory
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Location ID"
// @Param active formData boolean true "Desired state"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /inventory/locations/{id}/active [post]
func SetInventoryLocationActive(c *gin.Context) {
	id, failure := parseID(c, "id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	values, failure := formValues(c)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	form, failure := pipeline.DecodeForm(values, []pipeline.Field{
		{Name: "active", Kind: pipeline.KindBoolean, Default: true},
	})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	inventory := store.InventoryStore{DB: database.GetDB()}
	location, failure := inventory.GetLocation(c.Request.Context(), id)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	act := pipeline.Action{
		Name:           "inventory_location_toggled",
		Capability:     pipeline.CapManageInventory,
		OrganizationID: &location.OrganizationID,
	}

	_, failure = pipe.Execute(c.Request.Context(), actor(c), act, inventoryViews(location.OrganizationID),
		func(ctx context.Context) (pipeline.EntityRef, map[string]interface{}, *pipeline.Failure) {
			if failure := inventory.SetLocationActive(ctx, location, form.Bool("active")); failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			return pipeline.RefUUID("inventory_locations", location.ID), map[string]interface{}{
				"active": location.IsActive,
			}, nil
		})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	renderSuccess(c, http.StatusOK, location)
}

// DeleteInventoryLocation removes a location never referenced by the ledger
// @Summary Delete inventory location
// @Tags inventory
// @Produce json
// @Param id path string true "Location ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Ledger entries exist"
// @Router /inventory/locations/{id}/delete [post]
func DeleteInventoryLocation(c *gin.Context) {
	id, failure := parseID(c, "id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	inventory := store.InventoryStore{DB: database.GetDB()}
	location, failure := inventory.GetLocation(c.Request.Context(), id)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	act := pipeline.Action{
		Name:           "inventory_location_deleted",
		Capability:     pipeline.CapManageInventory,
		OrganizationID: &location.OrganizationID,
	}

	_, failure = pipe.Execute(c.Request.Context(), actor(c), act, inventoryViews(location.OrganizationID),
		func(ctx context.Context) (pipeline.EntityRef, map[string]interface{}, *pipeline.Failure) {
			if failure := inventory.DeleteLocation(ctx, location); failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			return pipeline.RefUUID("inventory_locations", location.ID), map[string]interface{}{
				"name": location.Name,
			}, nil
		})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	renderSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

// stockForm decodes the shared fields of a stock movement
func stockForm(c *gin.Context) (pipeline.Form, *pipeline.Failure) {
	values, failure := formValues(c)
	if failure != nil {
		return nil, failure
	}
	return pipeline.DecodeForm(values, []pipeline.Field{
		{Name: "item_id", Kind: pipeline.KindRequiredString},
		{Name: "from_location_id", Kind: pipeline.KindString},
		{Name: "to_location_id", Kind: pipeline.KindString},
		{Name: "quantity", Kind: pipeline.KindInteger},
		{Name: "reason", Kind: pipeline.KindString},
	})
}

func formUUID(form pipeline.Form, name string) (*uuid.UUID, *pipeline.Failure) {
	raw := form.Str(name)
	if raw == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, pipeline.Validation(name, "Invalid identifier")
	}
	return &id, nil
}

// ReceiveStock appends a receipt ledger entry
// @Summary Receive stock
// @Description Record incoming stock at a location. Appends to the ledger; nothing is ever edited in place.
// @Tags inventory
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Organization ID"
// @Param item_id formData string true "Item ID"
// @Param to_location_id formData string true "Receiving location ID"
// @Param quantity formData int true "Quantity received (positive)"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]string "Validation error"
// @Router /organizations/{id}/inventory/receive [post]
func ReceiveStock(c *gin.Context) {
	orgID, failure := parseID(c, "id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	form, failure := stockForm(c)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	itemID, failure := formUUID(form, "item_id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}
	toLocation, failure := formUUID(form, "to_location_id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}
	if toLocation == nil {
		renderFailure(c, pipeline.Validation("to_location_id", "to_location_id is required"))
		return
	}

	quantity := form.Int("quantity")
	if quantity == nil || *quantity <= 0 {
		renderFailure(c, pipeline.Validation("quantity", "Quantity must be a positive number"))
		return
	}

	appendStockEntry(c, orgID, &models.StockTransaction{
		OrganizationID:  orgID,
		ItemID:          *itemID,
		TransactionType: models.TxnTypeReceipt,
		Quantity:        *quantity,
		ToLocationID:    toLocation,
		Reason:          form.Str("reason"),
	}, "stock_received")
}

// TransferStock appends a transfer ledger entry after checking availability
// @Summary Transfer stock
// @Description Move stock between locations. Fails when the source location's derived on-hand quantity is insufficient.
// @Tags inventory
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Organization ID"
// @Param item_id formData string true "Item ID"
// @Param from_location_id formData string true "Source location ID"
// @Param to_location_id formData string true "Destination location ID"
// @Param quantity formData int true "Quantity to move (positive)"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]string "Insufficient stock"
// @Router /organizations/{id}/inventory/transfer [post]
func TransferStock(c *gin.Context) {
	orgID, failure := parseID(c, "id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	form, failure := stockForm(c)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	itemID, failure := formUUID(form, "item_id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}
	fromLocation, failure := formUUID(form, "from_location_id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}
	toLocation, failure := formUUID(form, "to_location_id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}
	if fromLocation == nil || toLocation == nil {
		renderFailure(c, pipeline.Validation("from_location_id", "Both locations are required"))
		return
	}
	if *fromLocation == *toLocation {
		renderFailure(c, pipeline.Validation("to_location_id", "Source and destination must differ"))
		return
	}

	quantity := form.Int("quantity")
	if quantity == nil || *quantity <= 0 {
		renderFailure(c, pipeline.Validation("quantity", "Quantity must be a positive number"))
		return
	}

	appendStockEntry(c, orgID, &models.StockTransaction{
		OrganizationID:  orgID,
		ItemID:          *itemID,
		TransactionType: models.TxnTypeTransfer,
		Quantity:        *quantity,
		FromLocationID:  fromLocation,
		ToLocationID:    toLocation,
		Reason:          form.Str("reason"),
	}, "stock_transferred")
}

// AdjustStock appends a signed adjustment ledger entry
// @Summary Adjust stock
// @Description Correct the derived quantity at a location with a signed adjustment. Negative adjustments cannot take on-hand below zero.
// @Tags inventory
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Organization ID"
// @Param item_id formData string true "Item ID"
// @Param to_location_id formData string true "Location ID"
// @Param quantity formData int true "Signed adjustment quantity"
// @Param reason formData string true "Adjustment reason"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Router /organizations/{id}/inventory/adjust [post]
func AdjustStock(c *gin.Context) {
	orgID, failure := parseID(c, "id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	form, failure := stockForm(c)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	itemID, failure := formUUID(form, "item_id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}
	location, failure := formUUID(form, "to_location_id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}
	if location == nil {
		renderFailure(c, pipeline.Validation("to_location_id", "to_location_id is required"))
		return
	}

	quantity := form.Int("quantity")
	if quantity == nil || *quantity == 0 {
		renderFailure(c, pipeline.Validation("quantity", "Quantity must be a non-zero number"))
		return
	}
	if form.Str("reason") == nil {
		renderFailure(c, pipeline.Validation("reason", "reason is required"))
		return
	}

	// A negative adjustment is an outbound entry so the ledger sum stays honest
	txn := &models.StockTransaction{
		OrganizationID:  orgID,
		ItemID:          *itemID,
		TransactionType: models.TxnTypeAdjustment,
		Reason:          form.Str("reason"),
	}
	if *quantity > 0 {
		txn.Quantity = *quantity
		txn.ToLocationID = location
	} else {
		txn.Quantity = -*quantity
		txn.FromLocationID = location
	}

	appendStockEntry(c, orgID, txn, "stock_adjusted")
}

// stockEntryScopeFailure verifies every row a ledger entry touches belongs to
// the organization being written to. Nil locations are endpoints the movement
// does not use.
func stockEntryScopeFailure(orgID uuid.UUID, item *models.InventoryItem, locations ...*models.InventoryLocation) *pipeline.Failure {
	if item.OrganizationID != orgID {
		return pipeline.Unauthorized("")
	}
	for _, location := range locations {
		if location != nil && location.OrganizationID != orgID {
			return pipeline.Unauthorized("")
		}
	}
	return nil
}

// appendStockEntry runs the shared precondition checks and appends one ledger
// entry through the pipeline.
func appendStockEntry(c *gin.Context, orgID uuid.UUID, txn *models.StockTransaction, actionName string) {
	inventory := store.InventoryStore{DB: database.GetDB()}

	act := pipeline.Action{
		Name:           actionName,
		Capability:     pipeline.CapManageInventory,
		OrganizationID: &orgID,
	}

	ac := actor(c)
	_, failure := pipe.Execute(c.Request.Context(), ac, act, inventoryViews(orgID),
		func(ctx context.Context) (pipeline.EntityRef, map[string]interface{}, *pipeline.Failure) {
			item, failure := inventory.GetItem(ctx, txn.ItemID)
			if failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}
			var endpoints []*models.InventoryLocation
			for _, locationID := range []*uuid.UUID{txn.FromLocationID, txn.ToLocationID} {
				if locationID == nil {
					endpoints = append(endpoints, nil)
					continue
				}
				location, failure := inventory.GetLocation(ctx, *locationID)
				if failure != nil {
					return pipeline.EntityRef{}, nil, failure
				}
				endpoints = append(endpoints, location)
			}
			if failure := stockEntryScopeFailure(orgID, item, endpoints...); failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}

			// Outbound movements must not take the source below zero
			if txn.FromLocationID != nil {
				onHand, failure := inventory.OnHand(ctx, txn.ItemID, *txn.FromLocationID)
				if failure != nil {
					return pipeline.EntityRef{}, nil, failure
				}
				if onHand < txn.Quantity {
					return pipeline.EntityRef{}, nil,
						pipeline.Validation("quantity", "Insufficient stock at the source location")
				}
			}

			txn.RecordedBy = ac.ProfileID
			if failure := inventory.AppendTransaction(ctx, txn); failure != nil {
				return pipeline.EntityRef{}, nil, failure
			}

			return pipeline.RefUUID("stock_transactions", txn.ID), map[string]interface{}{
				"type":     txn.TransactionType,
				"item_id":  txn.ItemID.String(),
				"quantity": txn.Quantity,
			}, nil
		})
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	renderSuccess(c, http.StatusCreated, txn)
}

// GetOnHand derives the current quantity of an item at a location
// @Summary Get on-hand quantity
// @Description Derive an item's current quantity at a location by summing the ledger.
// @Tags inventory
// @Produce json
// @Param id path string true "Organization ID"
// @Param item_id query string true "Item ID"
// @Param location_id query string true "Location ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /organizations/{id}/inventory/on-hand [get]
func GetOnHand(c *gin.Context) {
	orgID, failure := parseID(c, "id")
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	ac := actor(c)
	if ac != nil && !ac.GlobalAdmin {
		if ac.OrganizationID == nil || *ac.OrganizationID != orgID {
			renderFailure(c, pipeline.Unauthorized(""))
			return
		}
	}

	itemID, err := uuid.Parse(c.Query("item_id"))
	if err != nil {
		renderFailure(c, pipeline.Validation("item_id", "Invalid identifier"))
		return
	}
	locationID, err := uuid.Parse(c.Query("location_id"))
	if err != nil {
		renderFailure(c, pipeline.Validation("location_id", "Invalid identifier"))
		return
	}

	inventory := store.InventoryStore{DB: database.GetDB()}
	onHand, failure := inventory.OnHand(c.Request.Context(), itemID, locationID)
	if failure != nil {
		renderFailure(c, failure)
		return
	}

	renderSuccess(c, http.StatusOK, gin.H{
		"item_id":     itemID,
		"location_id": locationID,
		"on_hand":     onHand,
	})
}
