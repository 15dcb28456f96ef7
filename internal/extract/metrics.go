package extract

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// SwiggyMetricLabels lists every metric scraped from the Swiggy
// business-metrics page, in sheet order.
var SwiggyMetricLabels = []string{
	"Delivered Orders", "Cancelled Orders", "Rated Orders", "Poor Rated Orders",
	"% of Bolt Orders", "Impressions", "Menu Opens", "Cart Builds",
	"Orders Placed", "New Customers", "Repeat Customers", "Dormant Customers",
	"New Customer Order %", "Dormant Customer Order %", "Ad Orders",
	"CPC Menu Visits", "Total Spends", "CBA Impressions", "CBA Menu Visits",
	"Online %", "Kitchen Prep Time", "Food Ready Accuracy (MFR)",
	"Delayed Orders (> 10 mins)",
}

// ZomatoMetricLabels lists the Zomato business-report metrics.
var ZomatoMetricLabels = []string{
	"Delivered orders", "Market share", "Average rating", "Rated orders",
	"Bad orders", "Rejected orders", "Delayed orders", "Poor rated orders",
	"Total complaints", "Online %", "Offline time", "Kitchen preparation time",
	"Food order ready accuracy", "Impressions", "Impressions to menu",
	"Menu to order", "Menu to cart", "Cart to order", "New users",
	"Repeat users", "Lapsed users", "Ads orders",
}

// swiggyMetricPatterns holds the ordered fallback patterns per label for
// the deterministic extractor. Labels drift across dashboard revisions;
// the variants accumulate rather than get replaced.
var swiggyMetricPatterns = map[string][]string{
	"Delivered Orders":  {`Delivered Orders[:\s]*(\d+)`, `Orders Delivered[:\s]*(\d+)`, `Delivered[:\s]*(\d+)`},
	"Cancelled Orders":  {`Cancelled Orders[:\s]*(\d+)`, `Orders Cancelled[:\s]*(\d+)`, `Cancelled[:\s]*(\d+)`},
	"Rated Orders":      {`Rated Orders[:\s]*(\d+)`, `Orders Rated[:\s]*(\d+)`},
	"Poor Rated Orders": {`Poor Rated Orders[:\s]*(\d+)`, `Poor Rating Orders[:\s]*(\d+)`},
	"% of Bolt Orders":  {`% of Bolt Orders[:\s]*([\d.]+%?)`, `Bolt Orders %[:\s]*([\d.]+%?)`, `Bolt[:\s]*([\d.]+%)`},
	"Impressions":       {`IMPRESSIONS[:\s]+(\d+)`, `Impressions[:\s]+(\d+)`, `Total Impressions[:\s]+(\d+)`},
	"Menu Opens":        {`MENU OPENS[:\s]+(\d+)`, `Menu Opens[:\s]+(\d+)`},
	"Cart Builds":       {`CART BUILDS[:\s]+(\d+)`, `Cart Builds[:\s]+(\d+)`},
	"Orders Placed":     {`ORDERS PLACED[:\s]+(\d+)`, `Orders Placed[:\s]+(\d+)`},
	"New Customers":     {`New Customers[:\s]+(\d+)`, `New Customer[:\s]+(\d+)`},
	"Repeat Customers":  {`Repeat Customers[:\s]+(\d+)`, `Returning Customers[:\s]+(\d+)`},
	"Dormant Customers": {`Dormant Customers[:\s]+(\d+)`, `Inactive Customers[:\s]+(\d+)`},
	"New Customer Order %": {
		`New Customer Order %[:\s]+([\d.]+%?)`, `New Customer %[:\s]+([\d.]+%?)`,
	},
	"Dormant Customer Order %": {
		`Dormant Customer Order %[:\s]+([\d.]+%?)`, `Dormant Customer %[:\s]+([\d.]+%?)`,
	},
	"Ad Orders":      {`(?:CPC ADS.*?Orders|Ad Orders)[:\s]*(\d+)`, `CPC Orders[:\s]*(\d+)`},
	"CPC Menu Visits": {`CPC Menu Visits[:\s]+(\d+)`, `CPC Visits[:\s]+(\d+)`},
	"Total Spends": {
		`Total CPC Spends\s*₹\s*([\d,]+)`, `Total Spends\s*₹\s*([\d,]+)`,
		`CPC Spends\s*₹\s*([\d,]+)`, `Ad Spends\s*₹\s*([\d,]+)`, `₹\s*([\d,]+)`,
	},
	"CBA Impressions": {`(?:Ad Impressions|CBA Impressions)[:\s]+(\d+)`},
	"CBA Menu Visits": {`CBA Menu Visits[:\s]+(\d+)`, `CBA Visits[:\s]+(\d+)`},
	"Online %": {
		`Online Availability\s*%?\s*([\d.]+)%?`, `Online\s*%\s*([\d.]+)%?`,
		`Availability\s*%?\s*([\d.]+)%?`, `Online\s+([\d.]+)%`,
	},
	"Kitchen Prep Time": {
		`Kitchen Prep Time[:\s]+([\d.]+)\s*min`, `Prep Time[:\s]+([\d.]+)\s*min`,
	},
	"Food Ready Accuracy (MFR)": {
		`Food Ready Accuracy[:\s]*\(MFR\)[:\s]*([\d.]+%?)`, `MFR[:\s]*([\d.]+%?)`,
	},
	"Delayed Orders (> 10 mins)": {
		`Delayed Orders[:\s]*\([>\s]*10\s*mins?\)[:\s]*([\d.]+%?)`,
		`Delayed Orders[:\s]*([\d.]+%?)`, `Late Orders[:\s]*([\d.]+%?)`,
	},
}

var valueDecoration = regexp.MustCompile(`[₹%,\s]|min`)

// RegexMetrics is the deterministic fallback extractor: for each known
// label it tries the ordered pattern list against the page text and
// reports "N/A" when nothing matches. A missing metric never fails the
// unit.
func RegexMetrics(text string, logger *slog.Logger) map[string]string {
	out := make(map[string]string, len(swiggyMetricPatterns))
	for label, patterns := range swiggyMetricPatterns {
		out[label] = "N/A"
		for _, p := range patterns {
			re, err := regexp.Compile(`(?is)` + p)
			if err != nil {
				logger.Warn("bad metric pattern", "label", label, "pattern", p, "error", err)
				continue
			}
			if m := re.FindStringSubmatch(text); m != nil {
				out[label] = valueDecoration.ReplaceAllString(m[1], "")
				break
			}
		}
		if out[label] == "N/A" {
			logger.Debug("metric not found in page text", "label", label)
		}
	}
	return out
}

var metricNumber = regexp.MustCompile(`₹[\d,.]+|[\d,.]+%?`)

// ColumnValues extracts the report-column values listed under a metric
// label in the Zomato business report. The report shows several columns
// per metric; the first number under the label is the target date's
// column. Labels absent from the text map to "N/A".
func ColumnValues(text string, labels []string) map[string]string {
	out := make(map[string]string, len(labels))
	for _, label := range labels {
		out[label] = "N/A"
		re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(label) + `\s*\n((?:.*\n)+?)\n`)
		if err != nil {
			continue
		}
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if nums := metricNumber.FindAllString(m[1], -1); len(nums) > 0 {
			out[label] = nums[0]
		}
	}
	return out
}

// MetricExtractor extracts labelled metrics from dashboard text, Gemini
// first with the regex extractor as the fallback path.
type MetricExtractor struct {
	llm    *GeminiClient
	logger *slog.Logger
}

// NewMetricExtractor creates a metric extractor.
func NewMetricExtractor(llm *GeminiClient, logger *slog.Logger) *MetricExtractor {
	return &MetricExtractor{
		llm:    llm,
		logger: logger.With("component", "metric_extractor"),
	}
}

// Extract returns a label -> raw value map for the unit's page text.
func (m *MetricExtractor) Extract(ctx context.Context, unit, text string) map[string]string {
	if m.llm.Available() {
		metrics, err := m.llm.GenerateJSON(ctx, MetricsPrompt(text))
		if err == nil {
			m.logger.Debug("metrics extracted via gemini", "unit", unit, "count", len(metrics))
			return metrics
		}
		m.logger.Warn("gemini extraction failed, falling back to regex",
			"unit", unit, "error", err)
	}
	return RegexMetrics(text, m.logger)
}

// MetricsPrompt embeds the metric schema and the page text.
func MetricsPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Extract ALL these specific metrics from this restaurant dashboard text. ")
	b.WriteString("Return ONLY a JSON object with these exact keys:\n\n{\n")
	for i, label := range SwiggyMetricLabels {
		b.WriteString(`    "` + label + `": "number or N/A"`)
		if i < len(SwiggyMetricLabels)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(`}

Extraction guidelines:
- For monetary values like "₹9,600", extract only the number "9600" without currency or commas
- For percentages like "85.0%", extract only the number "85.0" without the % symbol
- For time values like "12.5 min", extract only the number "12.5" without "min"
- Look for variations like "Total Spends", "CPC Spends", "Ad Spends" for Total Spends
- If a metric is not found, use "N/A"

Text to analyze:
`)
	b.WriteString(Truncate(text))
	return b.String()
}
