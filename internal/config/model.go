// internal/config/model.go
//
// Typed configuration model for Locus.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                         – dotenv values,
//   • `conf/global.yaml`                      – primary static file,
//   • `LOCUS_`-prefixed environment overrides – highest precedence.
//
// Any value of the form `vault:<path>#<key>` is resolved through the Vault
// client after load (Config.ResolveSecrets), so secrets never live in flat
// files or git history.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Database section
//

// Database holds the control-plane DSN and its secret.  The DSN template
// stays in YAML so operators can tweak host, port, or flags; the password
// may be a `vault:` URI resolved at boot.
type Database struct {
	GlobalDSN      string `koanf:"global_dsn"      validate:"required"`
	GlobalPassword string `koanf:"global_password"`
}

//
// Resolver section
//

// Resolver tunes the webspace cache and route resolution.
type Resolver struct {
	WebspaceIdleTTL    time.Duration `koanf:"webspace_idle_ttl"`
	WebspaceMaxEntries int           `koanf:"webspace_max_entries"`
}

//
// Strategy section
//

// Strategy tunes resource-locator generation.
type Strategy struct {
	MaxSuffix int `koanf:"max_suffix"` // cap on the numeric disambiguator loop
}

//
// Geo section
//

// Geo points at an optional GeoLite2 database used for request-time locale
// hints.  Empty path disables geo lookups.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or LOCUS_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // LOCUS_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Resolver Resolver `koanf:"resolver"`
	Strategy Strategy `koanf:"strategy"`
	Geo      Geo      `koanf:"geo"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
