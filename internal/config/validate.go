package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Validate checks a loaded configuration for mistakes that would
// otherwise only surface mid-run.
func Validate(cfg *Config) error {
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug/info/warn/error, got %q", cfg.Logging.Level)
	}

	if cfg.Sheets.CredentialsFile == "" {
		return fmt.Errorf("sheets.credentials_file is required")
	}
	if cfg.Sheets.Spreadsheet == "" && cfg.Sheets.SpreadsheetID == "" {
		return fmt.Errorf("one of sheets.spreadsheet or sheets.spreadsheet_id is required")
	}

	for _, id := range cfg.Swiggy.OutletIDs {
		if _, err := strconv.Atoi(id); err != nil {
			return fmt.Errorf("swiggy.outlet_ids: %q is not numeric", id)
		}
	}
	for _, id := range cfg.Zomato.OutletIDs {
		if _, err := strconv.Atoi(id); err != nil {
			return fmt.Errorf("zomato.outlet_ids: %q is not numeric", id)
		}
	}

	for rid := range cfg.Swiggy.Brands {
		found := false
		for _, id := range cfg.Swiggy.OutletIDs {
			if id == rid {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("swiggy.brands: RID %q is not in swiggy.outlet_ids", rid)
		}
	}

	if cfg.Archive.Enabled && cfg.Archive.URI == "" {
		return fmt.Errorf("archive.enabled requires archive.uri (or MONGODB_URI)")
	}
	return nil
}
