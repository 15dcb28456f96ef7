package scraper

import (
	"strings"
	"testing"
)

const timelineModal = `ORDER TIMELINE
3rd order with you
Customer Rating
4
"Ice cream melted but still tasty"
ID:
ORD-5566778899
Aug 27, 2025, 09:42 PM
Delivered in 28 mins
Placed
09:14 PM
Accepted
09:15 PM
Ready
09:28 PM
Delivery partner arrived
09:30 PM
Picked up
09:33 PM
Delivered
09:42 PM
ORDER
1 x Nostalgia Sandwich Pack 2 x Choco Fudge
Restaurant Packaging Charges
Total ₹540
2.4 km away`

func TestParseOrderTimeline(t *testing.T) {
	got := parseOrderTimeline(timelineModal)

	if got.History != "3rd order with you" {
		t.Errorf("History = %q", got.History)
	}
	if got.Rating != "4" {
		t.Errorf("Rating = %q", got.Rating)
	}
	if got.Comment != "Ice cream melted but still tasty" {
		t.Errorf("Comment = %q", got.Comment)
	}
	if got.OrderID != "ORD-5566778899" {
		t.Errorf("OrderID = %q", got.OrderID)
	}
	if got.DateTime != "Aug 27, 2025, 09:42 PM" {
		t.Errorf("DateTime = %q", got.DateTime)
	}
	if got.Timeline["Delivery Duration"] != "Delivered in 28 mins" {
		t.Errorf("Delivery Duration = %q", got.Timeline["Delivery Duration"])
	}
	if got.Timeline["Placed"] != "09:14 PM" {
		t.Errorf("Placed = %q", got.Timeline["Placed"])
	}
	if got.Timeline["Delivered"] != "09:42 PM" {
		t.Errorf("Delivered = %q", got.Timeline["Delivered"])
	}
	if got.Distance != "2.4 km away" {
		t.Errorf("Distance = %q", got.Distance)
	}
	if len(got.Items) != 1 {
		t.Fatalf("Items = %v, want one entry", got.Items)
	}
}

func TestFormattedItemsBreaksQuantities(t *testing.T) {
	o := &orderTimeline{Items: []string{"1 x Nostalgia Sandwich Pack 2 x Choco Fudge"}}
	got := o.formattedItems()
	if !strings.Contains(got, "\n2 x Choco Fudge") {
		t.Errorf("quantities not split onto new lines: %q", got)
	}
	if strings.HasPrefix(got, "\n") {
		t.Errorf("leading newline not trimmed: %q", got)
	}
}

func TestOrderTimelineRecord(t *testing.T) {
	rec := parseOrderTimeline(timelineModal).record("20647827")
	if rec.Get("Outlet ID") != "20647827" {
		t.Errorf("Outlet ID = %q", rec.Get("Outlet ID"))
	}
	if rec.Get("Order ID") != "ORD-5566778899" {
		t.Errorf("Order ID = %q", rec.Get("Order ID"))
	}
	if rec.Get("Picked up") != "09:33 PM" {
		t.Errorf("Picked up = %q", rec.Get("Picked up"))
	}
}

func TestParseOrderTimelineItemsWithoutTerminator(t *testing.T) {
	text := "ORDER\n1 x Scoop\n2 x Cone"
	got := parseOrderTimeline(text)
	if len(got.Items) != 1 || !strings.Contains(got.Items[0], "2 x Cone") {
		t.Errorf("Items = %v, want trailing items captured", got.Items)
	}
}
