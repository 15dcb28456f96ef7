package scraper

import (
	"strings"
	"testing"
)

const complaintBlock = `UNRESOLVED
Expires on Sun, 27 Jul, 2:30 PM
Order was missing items
1 x Nostalgia Ice Cream Sandwich 90 ml
2 x Choco Fudge Scoop
Rahul S
HIGH VALUE CUSTOMER ordered 14 times
Spent ₹4,500 in 90 days
2 complaints in 90 days
Member since 2022
“The sandwich pack was missing from my order”
RESOLUTION
Refund issued to customer
Recommended Refund Amount ₹180
305619
UNRESOLVED`

func TestParseComplaintBlock(t *testing.T) {
	c := parseComplaintBlock("#12345678", complaintBlock, "https://cdn.example.com/proof.jpg")

	if c.ComplaintID != "#12345678" {
		t.Errorf("ComplaintID = %q", c.ComplaintID)
	}
	if c.Status != "UNRESOLVED" {
		t.Errorf("Status = %q", c.Status)
	}
	if c.ExpiryRaw != "Sun, 27 Jul, 2:30 PM" {
		t.Errorf("ExpiryRaw = %q", c.ExpiryRaw)
	}
	if !strings.HasPrefix(c.Reason, "Order was missing items") {
		t.Errorf("Reason = %q", c.Reason)
	}
	if !strings.Contains(c.Reason, "2 x Choco Fudge Scoop") {
		t.Errorf("Reason missing item lines: %q", c.Reason)
	}
	if c.Customer != "Rahul S" {
		t.Errorf("Customer = %q", c.Customer)
	}
	if !strings.Contains(c.Description, "HIGH VALUE CUSTOMER") {
		t.Errorf("Description = %q", c.Description)
	}
	if !strings.Contains(c.History, "Spent ₹4,500 in 90 days") {
		t.Errorf("History = %q", c.History)
	}
	if c.Comment != "The sandwich pack was missing from my order" {
		t.Errorf("Comment = %q", c.Comment)
	}
	if c.Resolution != "Refund issued to customer" {
		t.Errorf("Resolution = %q", c.Resolution)
	}
	if c.Refund != "₹180" {
		t.Errorf("Refund = %q", c.Refund)
	}
	if c.OutletID != "305619" {
		t.Errorf("OutletID = %q", c.OutletID)
	}
	if c.ImageLink != "https://cdn.example.com/proof.jpg" {
		t.Errorf("ImageLink = %q", c.ImageLink)
	}
}

func TestParseComplaintBlockDefaults(t *testing.T) {
	c := parseComplaintBlock("#1", "some unrelated text", "")
	if c.Status != "" {
		t.Errorf("Status = %q, want empty", c.Status)
	}
	if c.Refund != "₹0" {
		t.Errorf("Refund = %q, want ₹0 default", c.Refund)
	}
}

func TestSliceComplaintBlock(t *testing.T) {
	body := "header noise\nUNRESOLVED\nthe complaint\nWill reflect in your next payout\nfooter"
	got := sliceComplaintBlock(body)
	if !strings.HasPrefix(got, "UNRESOLVED") {
		t.Errorf("block start = %q", got)
	}
	if strings.Contains(got, "payout") || strings.Contains(got, "footer") {
		t.Errorf("block not trimmed at payout footer: %q", got)
	}
}

func TestSliceComplaintBlockNoMarkers(t *testing.T) {
	body := "no markers here"
	if got := sliceComplaintBlock(body); got != body {
		t.Errorf("got %q, want untouched body", got)
	}
}

func TestComplaintRecordKeyColumns(t *testing.T) {
	c := parseComplaintBlock("#987", complaintBlock, "")
	rec := c.record()
	if rec.Get("Complaint ID") != "#987" {
		t.Errorf("Complaint ID column = %q", rec.Get("Complaint ID"))
	}
	if rec.Get("Outlet ID") != "305619" {
		t.Errorf("Outlet ID column = %q", rec.Get("Outlet ID"))
	}
}
