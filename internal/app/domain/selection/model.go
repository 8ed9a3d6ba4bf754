// Package selection models a visitor's in-progress choice of catalog item
// and the transitions the UI can apply to it before dispatch.
package selection

import "github.com/kiddarkness/itemshop/internal/app/domain/shop"

// Operation is the kind of outbound request the selection will produce.
type Operation string

const (
	// OperationBuy purchases the selected item for the visitor.
	OperationBuy Operation = "buy"
	// OperationGift sends the selected item to a chosen friend.
	OperationGift Operation = "gift"
)

// Valid reports whether op is one of the two supported operations.
func (op Operation) Valid() bool {
	return op == OperationBuy || op == OperationGift
}

// State is the selection state machine. A zero Item means nothing is
// selected yet. Recipient is meaningful only while Operation is gift;
// switching back to buy clears it. There is no deselect transition: the only
// way out of a selection is picking a different item or dispatching.
type State struct {
	ID          string            `json:"id"`
	AccountID   string            `json:"account_id,omitempty"`
	Item        *shop.DisplayItem `json:"item,omitempty"`
	Operation   Operation         `json:"operation"`
	Recipient   string            `json:"recipient"`
	Quantity    int               `json:"amount"`
	SupportCode string            `json:"creator_code"`
}

// NewState returns an empty selection with the given identifiers and the
// deployment's default creator support code.
func NewState(id, accountID, supportCode string) State {
	return State{
		ID:          id,
		AccountID:   accountID,
		Operation:   OperationBuy,
		Quantity:    1,
		SupportCode: supportCode,
	}
}

// Selected reports whether an item has been picked.
func (s *State) Selected() bool {
	return s.Item != nil
}

// Select replaces any prior selection with the clicked item and resets the
// per-item fields: operation back to buy, recipient cleared, quantity 1.
func (s *State) Select(item shop.DisplayItem) {
	s.Item = &item
	s.Operation = OperationBuy
	s.Recipient = ""
	s.Quantity = 1
}

// SetOperation toggles between buy and gift. Buy clears the recipient; gift
// leaves it as-is (empty until a friend is chosen).
func (s *State) SetOperation(op Operation) {
	s.Operation = op
	if op == OperationBuy {
		s.Recipient = ""
	}
}

// SetQuantity stores the requested amount verbatim. Non-positive input is
// accepted here and left for the fulfillment backend to reject.
func (s *State) SetQuantity(amount int) {
	s.Quantity = amount
}

// SetRecipient records the chosen friend's username.
func (s *State) SetRecipient(username string) {
	s.Recipient = username
}

// SetSupportCode records the free-text creator attribution code.
func (s *State) SetSupportCode(code string) {
	s.SupportCode = code
}

// Reset returns the state to no-selection while keeping the session identity
// and support code. Called after a successful dispatch.
func (s *State) Reset() {
	s.Item = nil
	s.Operation = OperationBuy
	s.Recipient = ""
	s.Quantity = 1
}
