package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"giftstock-backend/internal/model"
	"giftstock-backend/internal/store"
)

// --- Projections ---

// InventoryView is an inventory record joined with its holder, store and
// gift reference data. Derived at read time, never stored.
type InventoryView struct {
	HolderID     int64  `json:"holder_id"`
	HolderName   string `json:"holder_name"`
	EmployeeCode string `json:"employee_code"`
	StoreName    string `json:"store_name"`
	GiftID       int64  `json:"gift_id"`
	GiftCode     string `json:"gift_code"`
	GiftName     string `json:"gift_name"`
	GiftCategory string `json:"gift_category"`
	Quantity     int    `json:"quantity"`
	LastUpdated  string `json:"last_updated"`
}

// LedgerView is a ledger entry joined with holder/gift/counterparty names
type LedgerView struct {
	ID               int64  `json:"id"`
	HolderID         int64  `json:"holder_id"`
	HolderName       string `json:"holder_name"`
	GiftID           int64  `json:"gift_id"`
	GiftCode         string `json:"gift_code"`
	GiftName         string `json:"gift_name"`
	Kind             string `json:"kind"`
	SignedQuantity   int    `json:"signed_quantity"`
	CounterpartyID   *int64 `json:"counterparty_holder_id,omitempty"`
	CounterpartyName string `json:"counterparty_name,omitempty"`
	Reason           string `json:"reason"`
	ActorID          int64  `json:"actor_id"`
	ActorName        string `json:"actor_name"`
	CreatedAt        string `json:"created_at"`
}

// Summary holds dashboard counts
type Summary struct {
	ActiveHolders   int `json:"active_holders"`
	ActiveGifts     int `json:"active_gifts"`
	TotalQuantity   int `json:"total_quantity"`
	PendingRequests int `json:"pending_requests"`
	LedgerEntries   int `json:"ledger_entries"`
}

// QueryService is the read-only projection layer: joins over the canonical
// entities, pagination, and the centralized visibility predicates.
type QueryService interface {
	HolderInventory(ctx context.Context, holderID int64) ([]InventoryView, error)
	AllInventory(ctx context.Context, search string, page, limit int) ([]InventoryView, int, error)
	LedgerHistory(ctx context.Context, holderID int64, page, limit int) ([]LedgerView, int, error)
	Summary(ctx context.Context) (Summary, error)
}

type queryService struct {
	store *store.Store
}

func NewQueryService(st *store.Store) QueryService {
	return &queryService{store: st}
}

// Visibility rules, applied uniformly wherever entities feed selection lists.

func selectableUser(u model.User) bool {
	return u.Active
}

func selectableGift(g model.Gift) bool {
	return g.Active
}

func (s *queryService) HolderInventory(ctx context.Context, holderID int64) ([]InventoryView, error) {
	var views []InventoryView
	err := s.store.View(func(ds *model.Dataset) error {
		if ds.FindUser(holderID) == nil {
			return nil
		}
		for _, rec := range ds.Inventory {
			if rec.HolderID == holderID {
				views = append(views, toInventoryView(ds, rec))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (s *queryService) AllInventory(ctx context.Context, search string, page, limit int) ([]InventoryView, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var views []InventoryView
	var total int
	err := s.store.View(func(ds *model.Dataset) error {
		var matched []InventoryView
		for _, rec := range ds.Inventory {
			v := toInventoryView(ds, rec)
			if search != "" && !matchesInventory(v, search) {
				continue
			}
			matched = append(matched, v)
		}

		sort.Slice(matched, func(i, j int) bool {
			if matched[i].HolderID != matched[j].HolderID {
				return matched[i].HolderID < matched[j].HolderID
			}
			return matched[i].GiftID < matched[j].GiftID
		})

		total = len(matched)
		start := (page - 1) * limit
		if start > len(matched) {
			start = len(matched)
		}
		end := start + limit
		if end > len(matched) {
			end = len(matched)
		}
		views = matched[start:end]
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *queryService) LedgerHistory(ctx context.Context, holderID int64, page, limit int) ([]LedgerView, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var views []LedgerView
	var total int
	err := s.store.View(func(ds *model.Dataset) error {
		var matched []model.LedgerEntry
		for _, e := range ds.Ledger {
			if holderID == 0 || e.HolderID == holderID {
				matched = append(matched, e)
			}
		}
		total = len(matched)

		// Newest first: entries are appended in order, so reverse.
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}

		start := (page - 1) * limit
		if start > len(matched) {
			start = len(matched)
		}
		end := start + limit
		if end > len(matched) {
			end = len(matched)
		}
		for _, e := range matched[start:end] {
			views = append(views, toLedgerView(ds, e))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *queryService) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.store.View(func(ds *model.Dataset) error {
		for _, u := range ds.Users {
			if selectableUser(u) {
				sum.ActiveHolders++
			}
		}
		for _, g := range ds.Gifts {
			if selectableGift(g) {
				sum.ActiveGifts++
			}
		}
		for _, rec := range ds.Inventory {
			sum.TotalQuantity += rec.Quantity
		}
		for _, r := range ds.Requests {
			if r.Status == model.RequestPending {
				sum.PendingRequests++
			}
		}
		sum.LedgerEntries = len(ds.Ledger)
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	return sum, nil
}

// --- Helpers ---

func toInventoryView(ds *model.Dataset, rec model.InventoryRecord) InventoryView {
	v := InventoryView{
		HolderID:    rec.HolderID,
		GiftID:      rec.GiftID,
		Quantity:    rec.Quantity,
		LastUpdated: rec.LastUpdated.Format(time.RFC3339),
	}
	if u := ds.FindUser(rec.HolderID); u != nil {
		v.HolderName = u.DisplayName
		v.EmployeeCode = u.EmployeeCode
		if st := ds.FindStore(u.StoreID); st != nil {
			v.StoreName = st.Name
		}
	}
	if g := ds.FindGift(rec.GiftID); g != nil {
		v.GiftCode = g.Code
		v.GiftName = g.Name
		v.GiftCategory = g.Category
	}
	return v
}

func toLedgerView(ds *model.Dataset, e model.LedgerEntry) LedgerView {
	v := LedgerView{
		ID:             e.ID,
		HolderID:       e.HolderID,
		GiftID:         e.GiftID,
		Kind:           e.Kind,
		SignedQuantity: e.SignedQuantity,
		CounterpartyID: e.CounterpartyHolderID,
		Reason:         e.Reason,
		ActorID:        e.ActorID,
		CreatedAt:      e.CreatedAt.Format(time.RFC3339),
	}
	if u := ds.FindUser(e.HolderID); u != nil {
		v.HolderName = u.DisplayName
	}
	if g := ds.FindGift(e.GiftID); g != nil {
		v.GiftCode = g.Code
		v.GiftName = g.Name
	}
	if e.CounterpartyHolderID != nil {
		if u := ds.FindUser(*e.CounterpartyHolderID); u != nil {
			v.CounterpartyName = u.DisplayName
		}
	}
	if u := ds.FindUser(e.ActorID); u != nil {
		v.ActorName = u.DisplayName
	}
	return v
}

func matchesInventory(v InventoryView, search string) bool {
	q := strings.ToLower(search)
	for _, field := range []string{v.HolderName, v.EmployeeCode, v.GiftName, v.GiftCode} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
