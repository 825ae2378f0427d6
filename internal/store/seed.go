package store

import (
	"log"
	"time"

	"giftstock-backend/internal/model"

	"golang.org/x/crypto/bcrypt"
)

// Default seed credentials. Meant for a fresh install only — change them
// before exposing the service.
const (
	seedManagerPassword  = "manager123"
	seedEmployeePassword = "employee123"
)

// seedDataset builds the fixture dataset persisted on first run: one store,
// one manager, two employees, three gifts and a starting stock held by the
// manager, so the system is usable immediately after startup.
func seedDataset() *model.Dataset {
	now := time.Now()

	ds := &model.Dataset{
		Stores: []model.Store{
			{ID: 1, Code: "HQ", Name: "Head Office"},
		},
		Users: []model.User{
			{
				ID: 1, Username: "manager", DisplayName: "Store Manager",
				EmployeeCode: "EMP-0001", StoreID: 1, Role: model.RoleManager,
				Active: true, Password: mustHash(seedManagerPassword),
				CreatedAt: now, UpdatedAt: now,
			},
			{
				ID: 2, Username: "alice", DisplayName: "Alice Tan",
				EmployeeCode: "EMP-0002", StoreID: 1, Role: model.RoleEmployee,
				Active: true, Password: mustHash(seedEmployeePassword),
				CreatedAt: now, UpdatedAt: now,
			},
			{
				ID: 3, Username: "bob", DisplayName: "Bob Lim",
				EmployeeCode: "EMP-0003", StoreID: 1, Role: model.RoleEmployee,
				Active: true, Password: mustHash(seedEmployeePassword),
				CreatedAt: now, UpdatedAt: now,
			},
		},
		Gifts: []model.Gift{
			{ID: 1, Code: "GFT-001", Name: "Coffee Mug", Category: "drinkware", Active: true, CreatedAt: now, UpdatedAt: now},
			{ID: 2, Code: "GFT-002", Name: "Company T-Shirt", Category: "apparel", Active: true, CreatedAt: now, UpdatedAt: now},
			{ID: 3, Code: "GFT-003", Name: "Tote Bag", Category: "accessories", Active: true, CreatedAt: now, UpdatedAt: now},
		},
		Inventory: []model.InventoryRecord{
			{HolderID: 1, GiftID: 1, Quantity: 50, LastUpdated: now},
			{HolderID: 1, GiftID: 2, Quantity: 30, LastUpdated: now},
			{HolderID: 1, GiftID: 3, Quantity: 20, LastUpdated: now},
		},
		Counters: model.Counters{
			NextUserID:    4,
			NextGiftID:    4,
			NextStoreID:   2,
			NextRequestID: 1,
			NextLedgerID:  4,
		},
	}

	// Opening ledger entries so every seeded balance is backed by history.
	for i, rec := range ds.Inventory {
		ds.Ledger = append(ds.Ledger, model.LedgerEntry{
			ID:             int64(i + 1),
			HolderID:       rec.HolderID,
			GiftID:         rec.GiftID,
			Kind:           model.LedgerKindAdjust,
			SignedQuantity: rec.Quantity,
			Reason:         "initial stock",
			ActorID:        1,
			CreatedAt:      now,
		})
	}

	return ds
}

func mustHash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("seed password hash failed: %v", err)
	}
	return string(hash)
}
