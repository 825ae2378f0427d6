package model

import "time"

// RequestType enum constants
const (
	RequestTypeIncrease = "increase"
	RequestTypeTransfer = "transfer"
)

// RequestStatus enum constants
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// Request is a proposal to increase a holder's inventory or transfer part of
// it to another holder. Status moves exactly once out of pending.
type Request struct {
	ID                int64      `json:"id"`
	RequesterID       int64      `json:"requester_id"`
	GiftID            int64      `json:"gift_id"`
	Type              string     `json:"type"` // increase, transfer
	RequestedQuantity int        `json:"requested_quantity"`
	TargetHolderID    *int64     `json:"target_holder_id,omitempty"` // set iff type = transfer
	Purpose           string     `json:"purpose"`
	Status            string     `json:"status"`
	ApproverID        *int64     `json:"approver_id,omitempty"`
	ApprovedQuantity  int        `json:"approved_quantity,omitempty"`
	RejectionReason   string     `json:"rejection_reason,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	DecidedAt         *time.Time `json:"decided_at,omitempty"`
}
