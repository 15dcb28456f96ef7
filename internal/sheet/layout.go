package sheet

import (
	"github.com/ArtOfDelight/ONfinal/internal/normalize"
	"github.com/ArtOfDelight/ONfinal/internal/types"
)

// Layout fixes the column order of one record category, the columns that
// form its natural key, and the unit hint for each numeric column.
// Columns absent from Numeric are written as raw text.
type Layout struct {
	Category  types.Category
	Worksheet string
	Columns   []string
	Key       []string
	Numeric   map[string]normalize.Hint
}

// KeyIndexes returns the positions of the natural key columns.
func (l Layout) KeyIndexes() []int {
	idx := make([]int, 0, len(l.Key))
	for _, k := range l.Key {
		for i, c := range l.Columns {
			if c == k {
				idx = append(idx, i)
				break
			}
		}
	}
	return idx
}

// MetricLayout is the dashboard-metric row shape, one row per
// outlet x metric x report date. Both platforms share it; only the
// worksheet differs.
func MetricLayout(worksheet string) Layout {
	return Layout{
		Category:  types.CategoryMetric,
		Worksheet: worksheet,
		Columns:   []string{"Report Date", "Outlet ID", "Metric", "Value", "Platform"},
		Key:       []string{"Outlet ID", "Metric", "Report Date"},
		Numeric: map[string]normalize.Hint{
			"Outlet ID": normalize.HintNone,
			"Value":     normalize.HintNone,
		},
	}
}

// ComplaintLayout is the complaint row shape shared by both platforms.
func ComplaintLayout(worksheet string) Layout {
	return Layout{
		Category:  types.CategoryComplaint,
		Worksheet: worksheet,
		Columns: []string{
			"Outlet ID", "Complaint ID", "Status", "Expiry Date", "Expiry Time",
			"Reason", "Customer Name", "Customer History", "Description",
			"Comment", "Resolution", "Refund Amount", "Image Link",
		},
		Key: []string{"Complaint ID"},
		Numeric: map[string]normalize.Hint{
			"Refund Amount": normalize.HintCurrency,
		},
	}
}

// ReviewLayout is the Swiggy review row shape, including the trailing
// 90-day customer aggregates and the RID-to-brand mapping columns.
func ReviewLayout(worksheet string) Layout {
	return Layout{
		Category:  types.CategoryReview,
		Worksheet: worksheet,
		Columns: []string{
			"Order ID", "Timestamp", "Outlet", "Items Ordered", "Rating",
			"Status", "Customer Name", "Customer Info", "Orders (90d)",
			"Order Value (90d)", "Complaints (90d)", "Delivery Remark",
			"RID", "Brand",
		},
		Key: []string{"Order ID"},
		Numeric: map[string]normalize.Hint{
			"Rating":            normalize.HintNone,
			"Orders (90d)":      normalize.HintNone,
			"Order Value (90d)": normalize.HintCurrency,
			"Complaints (90d)":  normalize.HintNone,
		},
	}
}

// OrderTimelineLayout is the Zomato review row shape: the per-order
// delivery timeline the Zomato portal exposes instead of 90-day
// aggregates.
func OrderTimelineLayout(worksheet string) Layout {
	return Layout{
		Category:  types.CategoryOrderTimeline,
		Worksheet: worksheet,
		Columns: []string{
			"Outlet ID", "Order History", "Customer Rating", "Comment",
			"Order ID", "Date & Time", "Delivery Duration", "Placed",
			"Accepted", "Ready", "Delivery partner arrived", "Picked up",
			"Delivered", "Items Ordered", "Customer Distance",
		},
		Key: []string{"Order ID"},
		Numeric: map[string]normalize.Hint{
			"Customer Rating": normalize.HintNone,
		},
	}
}
