package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration, constructed once at process start and
// passed by reference into the scrapers and the append gate.
type Config struct {
	Browser Browser `mapstructure:"browser" yaml:"browser"`
	Sheets  Sheets  `mapstructure:"sheets"  yaml:"sheets"`
	Mirror  Mirror  `mapstructure:"mirror"  yaml:"mirror"`
	Archive Archive `mapstructure:"archive" yaml:"archive"`
	Gemini  Gemini  `mapstructure:"gemini"  yaml:"gemini"`
	Swiggy  Swiggy  `mapstructure:"swiggy"  yaml:"swiggy"`
	Zomato  Zomato  `mapstructure:"zomato"  yaml:"zomato"`
	Logging Logging `mapstructure:"logging" yaml:"logging"`
}

// Browser controls the headless browser session.
type Browser struct {
	Headless        bool          `mapstructure:"headless"         yaml:"headless"`
	WindowSize      string        `mapstructure:"window_size"      yaml:"window_size"`
	NavigateTimeout time.Duration `mapstructure:"navigate_timeout" yaml:"navigate_timeout"`
	LocatorTimeout  time.Duration `mapstructure:"locator_timeout"  yaml:"locator_timeout"`
	SettleDelay     time.Duration `mapstructure:"settle_delay"     yaml:"settle_delay"`
	UserDataDir     string        `mapstructure:"user_data_dir"    yaml:"user_data_dir"`
}

// Sheets configures the Google Sheets store.
type Sheets struct {
	CredentialsFile string `mapstructure:"credentials_file" yaml:"credentials_file"`
	SpreadsheetID   string `mapstructure:"spreadsheet_id"   yaml:"spreadsheet_id"`
	Spreadsheet     string `mapstructure:"spreadsheet"      yaml:"spreadsheet"`

	SwiggyMetrics    string `mapstructure:"swiggy_metrics"    yaml:"swiggy_metrics"`
	ZomatoMetrics    string `mapstructure:"zomato_metrics"    yaml:"zomato_metrics"`
	SwiggyComplaints string `mapstructure:"swiggy_complaints" yaml:"swiggy_complaints"`
	ZomatoComplaints string `mapstructure:"zomato_complaints" yaml:"zomato_complaints"`
	SwiggyReviews    string `mapstructure:"swiggy_reviews"    yaml:"swiggy_reviews"`
	ZomatoReviews    string `mapstructure:"zomato_reviews"    yaml:"zomato_reviews"`
}

// Mirror configures the local SQLite mirror of the spreadsheet.
type Mirror struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// Archive configures the MongoDB raw-snapshot archive.
type Archive struct {
	Enabled    bool   `mapstructure:"enabled"    yaml:"enabled"`
	URI        string `mapstructure:"uri"        yaml:"uri"`
	Database   string `mapstructure:"database"   yaml:"database"`
	Collection string `mapstructure:"collection" yaml:"collection"`
}

// Gemini configures the text-extraction service.
type Gemini struct {
	APIKey      string  `mapstructure:"api_key"     yaml:"api_key"`
	Model       string  `mapstructure:"model"       yaml:"model"`
	Endpoint    string  `mapstructure:"endpoint"    yaml:"endpoint"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
}

// Swiggy configures the Swiggy partner dashboard scrapers.
type Swiggy struct {
	DashboardURL   string            `mapstructure:"dashboard_url"    yaml:"dashboard_url"`
	LoginStateFile string            `mapstructure:"login_state_file" yaml:"login_state_file"`
	OutletIDs      []string          `mapstructure:"outlet_ids"       yaml:"outlet_ids"`
	Brands         map[string]string `mapstructure:"brands"           yaml:"brands"`

	// ReportLagDays is how far behind today the metrics report date is;
	// the dashboard finalizes numbers with a lag.
	ReportLagDays int `mapstructure:"report_lag_days" yaml:"report_lag_days"`
}

// Zomato configures the Zomato partner dashboard scrapers.
type Zomato struct {
	DashboardURL   string   `mapstructure:"dashboard_url"    yaml:"dashboard_url"`
	LoginStateFile string   `mapstructure:"login_state_file" yaml:"login_state_file"`
	OutletIDs      []string `mapstructure:"outlet_ids"       yaml:"outlet_ids"`
	ReportLagDays  int      `mapstructure:"report_lag_days"  yaml:"report_lag_days"`
}

// Logging controls logging behavior.
type Logging struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Browser: Browser{
			Headless:        true,
			WindowSize:      "1920,1080",
			NavigateTimeout: 90 * time.Second,
			LocatorTimeout:  15 * time.Second,
			SettleDelay:     2 * time.Second,
		},
		Sheets: Sheets{
			CredentialsFile:  "service_account.json",
			Spreadsheet:      "Swiggy Zomato Dashboard",
			SwiggyMetrics:    "Swiggy Live",
			ZomatoMetrics:    "Zomato Live",
			SwiggyComplaints: "Swiggy Complaints",
			ZomatoComplaints: "Zomato Complaints",
			SwiggyReviews:    "Swiggy Reviews",
			ZomatoReviews:    "Zomato Reviews",
		},
		Mirror: Mirror{
			Enabled: false,
			Path:    "./onfinal.db",
		},
		Archive: Archive{
			Enabled:    false,
			Database:   "onfinal",
			Collection: "snapshots",
		},
		Gemini: Gemini{
			Model:       "gemini-1.5-flash",
			Temperature: 0,
		},
		Swiggy: Swiggy{
			DashboardURL:   "https://partner.swiggy.com/business-metrics/overview/restaurant",
			LoginStateFile: "swiggy_login.json",
			ReportLagDays:  2,
		},
		Zomato: Zomato{
			DashboardURL:   "https://www.zomato.com/partners",
			LoginStateFile: "zomato_login.json",
			ReportLagDays:  1,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}
