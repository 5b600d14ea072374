package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Strategy Builder Configuration

[validation]
# Trading session, HH:MM
market_open = "09:15"
market_close = "15:30"
# Warn when a same-day strategy runs for less than this many minutes
min_duration_minutes = 15
# Warning thresholds
max_legs_warning = 6
max_lots_warning = 100
max_premium_warning = 1000.0
max_straddle_percent_warning = 80.0
max_re_entry_count_warning = 2
leg_imbalance_warning = 2
high_total_lots_warning = 50
slippage_legs_warning = 5

# Lot size and exchange freeze quantity per underlying
[validation.indices.NIFTY]
lot_size = 75
freeze_quantity = 1800

[validation.indices.BANKNIFTY]
lot_size = 35
freeze_quantity = 900

[validation.indices.FINNIFTY]
lot_size = 65
freeze_quantity = 1800

[validation.indices.MIDCPNIFTY]
lot_size = 140
freeze_quantity = 2800

[validation.indices.SENSEX]
lot_size = 20
freeze_quantity = 1000

[validation.indices.BANKEX]
lot_size = 30
freeze_quantity = 900

[defaults]
# Used when a stored strategy has a missing or malformed time
entry_time = "09:15"
exit_time = "15:30"
range_breakout_time = "09:30"
# Used by transform and push when the strategy file leaves them out
index = "NIFTY"
expiry_type = "weekly"

[backend]
base_url = "http://localhost:8000/api/v1"
# Bearer token; STRATEGY_BACKEND_TOKEN takes precedence
token = ""
timeout = "10s"
retries = 2
# How long fetched strategies are cached, "0s" disables the cache
cache_ttl = "1m"

[logging]
# debug, info, warn, error
level = "info"
# Raw JSON log lines instead of the console format
json = false
# Also write a rotating log file
file = false
file_path = ""
max_size = 50
max_backups = 5
max_age = 14
`

// createTemplateConfig writes the commented template. The file may hold the
// backend token, so it is only readable by the owner.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0600); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
