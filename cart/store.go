package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront-server/models"
	"storefront-server/storage"

	"go.uber.org/zap"
)

// StorageKey is the slot holding the serialized cart.
const StorageKey = "cart"

// Store reads and writes the cart snapshot kept under StorageKey.
type Store struct {
	storage storage.Storage
	logger  *zap.Logger
}

func NewStore(s storage.Storage, logger *zap.Logger) *Store {
	return &Store{storage: s, logger: logger}
}

// Load returns the stored line items. It never fails: a missing slot, a
// storage error or a snapshot that does not parse all yield an empty cart.
// Entries that would break the cart invariants are dropped, and repeated
// names are folded into their first occurrence.
func (s *Store) Load(ctx context.Context) []models.LineItem {
	raw, err := s.storage.GetItem(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Warn("cart snapshot unreadable, starting empty", zap.Error(err))
		return nil
	}

	var stored []models.StoredLineItem
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Warn("cart snapshot corrupt, starting empty", zap.Error(err))
		return nil
	}

	items := make([]models.LineItem, 0, len(stored))
	positions := make(map[string]int, len(stored))
	for _, entry := range stored {
		if entry.Name == "" || entry.Quantity < 1 || entry.Price.IsNegative() {
			s.logger.Warn("dropping invalid stored line item",
				zap.String("name", entry.Name), zap.Int("quantity", entry.Quantity))
			continue
		}
		if i, ok := positions[entry.Name]; ok {
			items[i].Quantity += entry.Quantity
			continue
		}
		positions[entry.Name] = len(items)
		items = append(items, entry.LineItem())
	}
	return items
}

// Save overwrites the stored snapshot with items.
func (s *Store) Save(ctx context.Context, items []models.LineItem) error {
	stored := make([]models.StoredLineItem, len(items))
	for i, item := range items {
		stored[i] = models.NewStoredLineItem(item)
	}

	payload, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.storage.SetItem(ctx, StorageKey, string(payload)); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}
