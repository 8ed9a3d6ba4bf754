package selection

import (
	"testing"

	"github.com/kiddarkness/itemshop/internal/app/domain/shop"
)

func TestState_SelectResetsFields(t *testing.T) {
	st := NewState("s1", "acct", "KIDDX")
	if st.Selected() {
		t.Fatalf("new state must start without a selection")
	}
	if st.Operation != OperationBuy || st.Quantity != 1 || st.SupportCode != "KIDDX" {
		t.Fatalf("unexpected initial state: %#v", st)
	}

	st.SetOperation(OperationGift)
	st.SetRecipient("amigo")
	st.SetQuantity(4)

	st.Select(shop.DisplayItem{Name: "Skin A", Category: "Destacados"})
	if !st.Selected() || st.Item.Name != "Skin A" {
		t.Fatalf("selection not applied: %#v", st.Item)
	}
	if st.Operation != OperationBuy || st.Recipient != "" || st.Quantity != 1 {
		t.Fatalf("select must reset operation/recipient/quantity: %#v", st)
	}
}

func TestState_GiftThenBuyClearsRecipient(t *testing.T) {
	st := NewState("s1", "acct", "KIDDX")
	st.Select(shop.DisplayItem{Name: "Skin A"})

	st.SetOperation(OperationGift)
	st.SetRecipient("amigo")
	if st.Recipient != "amigo" {
		t.Fatalf("recipient not recorded")
	}

	st.SetOperation(OperationBuy)
	if st.Operation != OperationBuy || st.Recipient != "" {
		t.Fatalf("toggling to buy must clear recipient: %#v", st)
	}
	if st.Item == nil || st.Item.Name != "Skin A" {
		t.Fatalf("item must survive operation toggles: %#v", st.Item)
	}
}

func TestState_GiftKeepsRecipient(t *testing.T) {
	st := NewState("s1", "acct", "KIDDX")
	st.Select(shop.DisplayItem{Name: "Skin A"})
	st.SetOperation(OperationGift)
	if st.Recipient != "" {
		t.Fatalf("recipient must stay empty until chosen")
	}
	st.SetRecipient("amigo")
	st.SetOperation(OperationGift)
	if st.Recipient != "amigo" {
		t.Fatalf("toggling gift again must keep recipient")
	}
}

func TestState_QuantityNotValidated(t *testing.T) {
	st := NewState("s1", "acct", "KIDDX")
	st.Select(shop.DisplayItem{Name: "Skin A"})
	st.SetQuantity(0)
	if st.Quantity != 0 {
		t.Fatalf("quantity is stored verbatim, got %d", st.Quantity)
	}
	st.SetQuantity(-3)
	if st.Quantity != -3 {
		t.Fatalf("quantity is stored verbatim, got %d", st.Quantity)
	}
}

func TestState_Reset(t *testing.T) {
	st := NewState("s1", "acct", "CODE")
	st.Select(shop.DisplayItem{Name: "Skin A"})
	st.SetOperation(OperationGift)
	st.SetRecipient("amigo")
	st.SetQuantity(2)
	st.SetSupportCode("OTHER")

	st.Reset()
	if st.Selected() || st.Operation != OperationBuy || st.Recipient != "" || st.Quantity != 1 {
		t.Fatalf("reset must return to the empty selection: %#v", st)
	}
	if st.SupportCode != "OTHER" || st.ID != "s1" || st.AccountID != "acct" {
		t.Fatalf("reset must keep identity and support code: %#v", st)
	}
}

func TestOperation_Valid(t *testing.T) {
	if !OperationBuy.Valid() || !OperationGift.Valid() {
		t.Fatalf("buy and gift must be valid operations")
	}
	if Operation("refund").Valid() {
		t.Fatalf("unknown operation must be invalid")
	}
}
