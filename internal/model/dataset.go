package model

import "time"

// Counters holds the next-id sequence for every entity collection. Counters
// are persisted together with the record that consumed them, so an id is
// never handed out twice.
type Counters struct {
	NextUserID    int64 `json:"next_user_id"`
	NextGiftID    int64 `json:"next_gift_id"`
	NextStoreID   int64 `json:"next_store_id"`
	NextRequestID int64 `json:"next_request_id"`
	NextLedgerID  int64 `json:"next_ledger_id"`
}

// Dataset is the single persisted document: every entity collection plus the
// id counters, loaded wholesale at startup and rewritten wholesale on every
// mutation.
type Dataset struct {
	Users         []User            `json:"users"`
	Gifts         []Gift            `json:"gifts"`
	Stores        []Store           `json:"stores"`
	Inventory     []InventoryRecord `json:"inventory"`
	Requests      []Request         `json:"requests"`
	Ledger        []LedgerEntry     `json:"ledger"`
	RefreshTokens []RefreshToken    `json:"refresh_tokens"`
	Counters      Counters          `json:"counters"`
}

// Clone returns a deep copy. Mutating operations work on a clone so a failure
// partway through leaves the live dataset untouched.
func (d *Dataset) Clone() *Dataset {
	c := &Dataset{
		Users:         make([]User, len(d.Users)),
		Gifts:         make([]Gift, len(d.Gifts)),
		Stores:        make([]Store, len(d.Stores)),
		Inventory:     make([]InventoryRecord, len(d.Inventory)),
		Requests:      make([]Request, len(d.Requests)),
		Ledger:        make([]LedgerEntry, len(d.Ledger)),
		RefreshTokens: make([]RefreshToken, len(d.RefreshTokens)),
		Counters:      d.Counters,
	}
	copy(c.Users, d.Users)
	copy(c.Gifts, d.Gifts)
	copy(c.Stores, d.Stores)
	copy(c.Inventory, d.Inventory)
	copy(c.RefreshTokens, d.RefreshTokens)
	for i, r := range d.Requests {
		r.TargetHolderID = cloneInt64(r.TargetHolderID)
		r.ApproverID = cloneInt64(r.ApproverID)
		r.DecidedAt = cloneTime(r.DecidedAt)
		c.Requests[i] = r
	}
	for i, e := range d.Ledger {
		e.CounterpartyHolderID = cloneInt64(e.CounterpartyHolderID)
		c.Ledger[i] = e
	}
	return c
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	t := *v
	return &t
}

// FindUser returns a pointer into the dataset's user slice, or nil
func (d *Dataset) FindUser(id int64) *User {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i]
		}
	}
	return nil
}

// FindUserByUsername returns a pointer into the dataset's user slice, or nil
func (d *Dataset) FindUserByUsername(username string) *User {
	for i := range d.Users {
		if d.Users[i].Username == username {
			return &d.Users[i]
		}
	}
	return nil
}

// FindGift returns a pointer into the dataset's gift slice, or nil
func (d *Dataset) FindGift(id int64) *Gift {
	for i := range d.Gifts {
		if d.Gifts[i].ID == id {
			return &d.Gifts[i]
		}
	}
	return nil
}

// FindGiftByCode returns a pointer into the dataset's gift slice, or nil
func (d *Dataset) FindGiftByCode(code string) *Gift {
	for i := range d.Gifts {
		if d.Gifts[i].Code == code {
			return &d.Gifts[i]
		}
	}
	return nil
}

// FindStore returns a pointer into the dataset's store slice, or nil
func (d *Dataset) FindStore(id int64) *Store {
	for i := range d.Stores {
		if d.Stores[i].ID == id {
			return &d.Stores[i]
		}
	}
	return nil
}

// FindRecord returns the inventory record for (holderID, giftID), or nil
func (d *Dataset) FindRecord(holderID, giftID int64) *InventoryRecord {
	for i := range d.Inventory {
		if d.Inventory[i].HolderID == holderID && d.Inventory[i].GiftID == giftID {
			return &d.Inventory[i]
		}
	}
	return nil
}

// FindRequest returns a pointer into the dataset's request slice, or nil
func (d *Dataset) FindRequest(id int64) *Request {
	for i := range d.Requests {
		if d.Requests[i].ID == id {
			return &d.Requests[i]
		}
	}
	return nil
}

// TakeUserID consumes and returns the next user id
func (c *Counters) TakeUserID() int64 {
	id := c.NextUserID
	c.NextUserID++
	return id
}

// TakeGiftID consumes and returns the next gift id
func (c *Counters) TakeGiftID() int64 {
	id := c.NextGiftID
	c.NextGiftID++
	return id
}

// TakeStoreID consumes and returns the next store id
func (c *Counters) TakeStoreID() int64 {
	id := c.NextStoreID
	c.NextStoreID++
	return id
}

// TakeRequestID consumes and returns the next request id
func (c *Counters) TakeRequestID() int64 {
	id := c.NextRequestID
	c.NextRequestID++
	return id
}

// TakeLedgerID consumes and returns the next ledger entry id
func (c *Counters) TakeLedgerID() int64 {
	id := c.NextLedgerID
	c.NextLedgerID++
	return id
}
