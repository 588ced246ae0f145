package services

import "testing"

func TestAddItemIncrementsExistingLine(t *testing.T) {
	t.Parallel()

	items := addItem(nil, "GWC Jersey", 39.99)
	items = addItem(items, "GWC Jersey", 39.99)

	if len(items) != 1 {
		t.Fatalf("unexpected line count: got=%d want=1", len(items))
	}
	if items[0].Qty != 2 {
		t.Fatalf("unexpected quantity: got=%d want=2", items[0].Qty)
	}
}

func TestAddItemAppendsNewLine(t *testing.T) {
	t.Parallel()

	items := addItem(nil, "Jersey", 39.99)
	items = addItem(items, "Mousepad", 14.50)

	if len(items) != 2 {
		t.Fatalf("unexpected line count: got=%d want=2", len(items))
	}
	if items[1].Name != "Mousepad" || items[1].Qty != 1 {
		t.Fatalf("unexpected new line: got=%+v", items[1])
	}
}

func TestAdjustQtyRemovesLineAtZero(t *testing.T) {
	t.Parallel()

	items := addItem(nil, "Jersey", 39.99)
	items = addItem(items, "Jersey", 39.99)

	items = adjustQty(items, "Jersey", -1)
	if len(items) != 1 || items[0].Qty != 1 {
		t.Fatalf("unexpected cart after decrement: got=%+v", items)
	}

	items = adjustQty(items, "Jersey", -1)
	if len(items) != 0 {
		t.Fatalf("line at zero quantity must disappear: got=%+v", items)
	}
}

func TestAdjustQtyPastZeroRemovesLine(t *testing.T) {
	t.Parallel()

	items := addItem(nil, "Jersey", 39.99)
	items = adjustQty(items, "Jersey", -10)
	if len(items) != 0 {
		t.Fatalf("line below zero quantity must disappear: got=%+v", items)
	}
}

func TestRemoveItemUnknownNameIsNoop(t *testing.T) {
	t.Parallel()

	items := addItem(nil, "Jersey", 39.99)
	items = removeItem(items, "Hoodie")
	if len(items) != 1 {
		t.Fatalf("unexpected cart after removing unknown item: got=%+v", items)
	}
}

func TestCartTotalAndCount(t *testing.T) {
	t.Parallel()

	items := addItem(nil, "Jersey", 40)
	items = addItem(items, "Jersey", 40)
	items = addItem(items, "Mousepad", 15)

	if got := cartTotal(items); got != 95 {
		t.Fatalf("unexpected total: got=%v want=95", got)
	}
	if got := itemCount(items); got != 3 {
		t.Fatalf("unexpected count: got=%d want=3", got)
	}
	if got := cartTotal(nil); got != 0 {
		t.Fatalf("unexpected empty total: got=%v want=0", got)
	}
}
