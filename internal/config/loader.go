package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment.
// Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("ONFINAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("onfinal")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".onfinal"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Secrets come from the environment, never from the yaml file.
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" && cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = key
	}
	if uri := os.Getenv("MONGODB_URI"); uri != "" && cfg.Archive.URI == "" {
		cfg.Archive.URI = uri
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("browser.headless", cfg.Browser.Headless)
	v.SetDefault("browser.window_size", cfg.Browser.WindowSize)
	v.SetDefault("browser.navigate_timeout", cfg.Browser.NavigateTimeout)
	v.SetDefault("browser.locator_timeout", cfg.Browser.LocatorTimeout)
	v.SetDefault("browser.settle_delay", cfg.Browser.SettleDelay)

	v.SetDefault("sheets.credentials_file", cfg.Sheets.CredentialsFile)
	v.SetDefault("sheets.spreadsheet", cfg.Sheets.Spreadsheet)
	v.SetDefault("sheets.swiggy_metrics", cfg.Sheets.SwiggyMetrics)
	v.SetDefault("sheets.zomato_metrics", cfg.Sheets.ZomatoMetrics)
	v.SetDefault("sheets.swiggy_complaints", cfg.Sheets.SwiggyComplaints)
	v.SetDefault("sheets.zomato_complaints", cfg.Sheets.ZomatoComplaints)
	v.SetDefault("sheets.swiggy_reviews", cfg.Sheets.SwiggyReviews)
	v.SetDefault("sheets.zomato_reviews", cfg.Sheets.ZomatoReviews)

	v.SetDefault("mirror.enabled", cfg.Mirror.Enabled)
	v.SetDefault("mirror.path", cfg.Mirror.Path)

	v.SetDefault("archive.enabled", cfg.Archive.Enabled)
	v.SetDefault("archive.database", cfg.Archive.Database)
	v.SetDefault("archive.collection", cfg.Archive.Collection)

	v.SetDefault("gemini.model", cfg.Gemini.Model)
	v.SetDefault("gemini.temperature", cfg.Gemini.Temperature)

	v.SetDefault("swiggy.dashboard_url", cfg.Swiggy.DashboardURL)
	v.SetDefault("swiggy.login_state_file", cfg.Swiggy.LoginStateFile)
	v.SetDefault("swiggy.report_lag_days", cfg.Swiggy.ReportLagDays)

	v.SetDefault("zomato.dashboard_url", cfg.Zomato.DashboardURL)
	v.SetDefault("zomato.login_state_file", cfg.Zomato.LoginStateFile)
	v.SetDefault("zomato.report_lag_days", cfg.Zomato.ReportLagDays)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}
