// internal/config/loader.go
//
// Configuration loader and hot-reloader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file at `<root>/conf/.env`.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `LOCUS_`, where `__` maps to “.”
     (e.g., `LOCUS_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, the tree is unmarshalled into strongly-typed structs,
validated, enriched with the runtime root path, and cached in an
`atomic.Pointer` for lock-free reads.  `Reload()` simply calls `Load()`
again and swaps the pointer.

Instrumentation
---------------
  • DEBUG spans — root discovery, YAML read, env overlay.
  • ERROR spans — YAML parse, env overlay, unmarshal, validation failures.
  • INFO  span  — final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed (bootstrap console).

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`;
    this lets `go run ./cmd/web` work from any sub-directory.
  • `vault:` values are resolved later via Config.ResolveSecrets.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/locus/internal/vault"
)

var current atomic.Pointer[Config]

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves LOCUS_ROOT or climbs directories until conf/global.yaml
// is found.  Falls back to executable heuristic for production layout.
func rootDir() string {
	if r := os.Getenv("LOCUS_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, validates, and caches Config.
func Load() (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// Env overrides: LOCUS_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider("LOCUS_", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	applyDefaults(&cfg)
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"force_https", cfg.HTTP.ForceHTTPS,
		"webspace_idle_ttl", cfg.Resolver.WebspaceIdleTTL,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// applyDefaults fills tunables the YAML may omit.
func applyDefaults(cfg *Config) {
	if cfg.Resolver.WebspaceIdleTTL == 0 {
		cfg.Resolver.WebspaceIdleTTL = 30 * time.Minute
	}
	if cfg.Resolver.WebspaceMaxEntries == 0 {
		cfg.Resolver.WebspaceMaxEntries = 100
	}
	if cfg.Strategy.MaxSuffix == 0 {
		cfg.Strategy.MaxSuffix = 100
	}
}

/*──────────────────────────── secrets ─────────────────────────────────────*/

// vaultScheme marks config values that live in Vault: "vault:<path>#<key>".
const vaultScheme = "vault:"

// ResolveSecrets replaces every vault: URI in cfg with the value fetched from
// Vault.  Call once at boot, after Load and before the DSN is used.
func (c *Config) ResolveSecrets(ctx context.Context, cli *vault.Client) error {
	resolved, err := resolveVaultValue(ctx, cli, c.Database.GlobalPassword)
	if err != nil {
		return err
	}
	c.Database.GlobalPassword = resolved
	return nil
}

func resolveVaultValue(ctx context.Context, cli *vault.Client, val string) (string, error) {
	if !strings.HasPrefix(val, vaultScheme) {
		return val, nil
	}
	ref := strings.TrimPrefix(val, vaultScheme)
	path, key, ok := strings.Cut(ref, "#")
	if !ok {
		return "", fmt.Errorf("config: malformed vault reference %q", val)
	}
	return cli.GetKV(ctx, path, key, 5*time.Minute)
}

// DSN renders the control-plane DSN with the (possibly Vault-sourced)
// password substituted for the %s verb in the template.
func (c *Config) DSN() string {
	if strings.Contains(c.Database.GlobalDSN, "%s") {
		return fmt.Sprintf(c.Database.GlobalDSN, c.Database.GlobalPassword)
	}
	return c.Database.GlobalDSN
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config  { return current.Load() }
func Reload() error { _, err := Load(); return err }
