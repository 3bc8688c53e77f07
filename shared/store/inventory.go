package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carelink-backend/shared/database/models"
	"carelink-backend/shared/pipeline"
)

// InventoryStore executes inventory mutations. Stock movements append to the
// transaction ledger; nothing ever edits a prior entry, and on-hand quantity
// is always derived by summing it.
type InventoryStore struct {
	DB *gorm.DB
}

// GetItem loads one inventory item by id
func (s *InventoryStore) GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, *pipeline.Failure) {
	var item models.InventoryItem
	if err := s.DB.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pipeline.Validation("item_id", "Item not found")
		}
		return nil, pipeline.Backend("load item", err)
	}
	return &item, nil
}

// GetLocation loads one inventory location by id
func (s *InventoryStore) GetLocation(ctx context.Context, id uuid.UUID) (*models.InventoryLocation, *pipeline.Failure) {
	var location models.InventoryLocation
	if err := s.DB.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pipeline.Validation("location_id", "Location not found")
		}
		return nil, pipeline.Backend("load location", err)
	}
	return &location, nil
}

// CreateItem inserts a new inventory item
func (s *InventoryStore) CreateItem(ctx context.Context, item *models.InventoryItem) *pipeline.Failure {
	if err := s.DB.WithContext(ctx).Create(item).Error; err != nil {
		return TranslateError("create item", err)
	}
	return nil
}

// UpdateItem writes the complete item payload by primary key
func (s *InventoryStore) UpdateItem(ctx context.Context, item *models.InventoryItem) *pipeline.Failure {
	if err := s.DB.WithContext(ctx).Save(item).Error; err != nil {
		return TranslateError("update item", err)
	}
	return nil
}

// SetItemActive toggles an item. Idempotent: re-activating an active item
// succeeds as a no-op write.
func (s *InventoryStore) SetItemActive(ctx context.Context, item *models.InventoryItem, active bool) *pipeline.Failure {
	item.IsActive = active
	if err := s.DB.WithContext(ctx).Model(item).Update("is_active", active).Error; err != nil {
		return TranslateError("toggle item", err)
	}
	return nil
}

// DeleteItem removes an item after verifying the ledger never referenced it
func (s *InventoryStore) DeleteItem(ctx context.Context, item *models.InventoryItem) *pipeline.Failure {
	var txns int64
	err := s.DB.WithContext(ctx).Model(&models.StockTransaction{}).
		Where("item_id = ?", item.ID).Count(&txns).Error
	if err != nil {
		return pipeline.Backend("count item transactions", err)
	}
	if txns > 0 {
		return pipeline.Integrity(DependentsMessage)
	}

	if err := s.DB.WithContext(ctx).Delete(item).Error; err != nil {
		return TranslateError("delete item", err)
	}
	return nil
}

// CreateLocation inserts a new inventory location
func (s *InventoryStore) CreateLocation(ctx context.Context, location *models.InventoryLocation) *pipeline.Failure {
	if err := s.DB.WithContext(ctx).Create(location).Error; err != nil {
		return TranslateError("create location", err)
	}
	return nil
}

// UpdateLocation writes the complete location payload by primary key
func (s *InventoryStore) UpdateLocation(ctx context.Context, location *models.InventoryLocation) *pipeline.Failure {
	if err := s.DB.WithContext(ctx).Save(location).Error; err != nil {
		return TranslateError("update location", err)
	}
	return nil
}

// SetLocationActive toggles a location. Idempotent like SetItemActive.
func (s *InventoryStore) SetLocationActive(ctx context.Context, location *models.InventoryLocation, active bool) *pipeline.Failure {
	location.IsActive = active
	if err := s.DB.WithContext(ctx).Model(location).Update("is_active", active).Error; err != nil {
		return TranslateError("toggle location", err)
	}
	return nil
}

// DeleteLocation removes a location after verifying no ledger entry
// references it from either side.
func (s *InventoryStore) DeleteLocation(ctx context.Context, location *models.InventoryLocation) *pipeline.Failure {
	var txns int64
	err := s.DB.WithContext(ctx).Model(&models.StockTransaction{}).
		Where("from_location_id = ? OR to_location_id = ?", location.ID, location.ID).
		Count(&txns).Error
	if err != nil {
		return pipeline.Backend("count location transactions", err)
	}
	if txns > 0 {
		return pipeline.Integrity(DependentsMessage)
	}

	if err := s.DB.WithContext(ctx).Delete(location).Error; err != nil {
		return TranslateError("delete location", err)
	}
	return nil
}

// AppendTransaction appends one immutable ledger entry
func (s *InventoryStore) AppendTransaction(ctx context.Context, txn *models.StockTransaction) *pipeline.Failure {
	if err := s.DB.WithContext(ctx).Create(txn).Error; err != nil {
		return TranslateError("append stock transaction", err)
	}
	return nil
}

// OnHand derives the current quantity of an item at a location by summing
// the ledger: entries into the location minus entries out of it.
func (s *InventoryStore) OnHand(ctx context.Context, itemID, locationID uuid.UUID) (int64, *pipeline.Failure) {
	var inbound, outbound int64
	db := s.DB.WithContext(ctx)

	err := db.Model(&models.StockTransaction{}).
		Where("item_id = ? AND to_location_id = ?", itemID, locationID).
		Select("COALESCE(SUM(quantity), 0)").Scan(&inbound).Error
	if err != nil {
		return 0, pipeline.Backend("sum inbound stock", err)
	}

	err = db.Model(&models.StockTransaction{}).
		Where("item_id = ? AND from_location_id = ?", itemID, locationID).
		Select("COALESCE(SUM(quantity), 0)").Scan(&outbound).Error
	if err != nil {
		return 0, pipeline.Backend("sum outbound stock", err)
	}

	return inbound - outbound, nil
}
