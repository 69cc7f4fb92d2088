// cmd/web/main.go
//
// Locus – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Load the layered configuration (.env, conf/global.yaml, LOCUS_*).
//
//  3. Start daily rotating logger (tees to console when running in a TTY).
//
//  4. Resolve vault: secrets, then open the control-plane DB and log the
//     active-webspace count.
//
//  5. Build the webspace cache (lazy-loads each partition on first hit).
//
//  6. Open the optional GeoLite2 database for locale hints.
//
//  7. Compose the handler chain: request-info enrichment → security
//     headers → resolver router (delivery path + admin API + /metrics).
//
//  8. Wrap with ForceHTTPS when configured, and serve with hardened
//     timeouts.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanizio/locus/internal/config"
	"github.com/yanizio/locus/internal/database"
	"github.com/yanizio/locus/internal/logger"
	"github.com/yanizio/locus/internal/middleware"
	"github.com/yanizio/locus/internal/requestinfo"
	"github.com/yanizio/locus/internal/resolver"
	"github.com/yanizio/locus/internal/server"
	"github.com/yanizio/locus/internal/vault"
	"github.com/yanizio/locus/internal/webspace"
)

const serverEnvPath = "/usr/local/etc/locus/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(cfg.Paths.Root, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	//
	// ── 1.  Secrets + global DB connect ─────────────────────────────────
	//
	if cli, err := vault.New(ctx, logOut.Infof); err == nil {
		if err := cfg.ResolveSecrets(ctx, cli); err != nil {
			logOut.Fatalf("resolve secrets: %v", err)
		}
	} else {
		logOut.Warnf("vault unavailable, using config values as-is: %v", err)
	}

	logOut.Info("connecting to global DB …")
	globalDB, err := database.Open(ctx, cfg.DSN())
	if err != nil {
		logOut.Fatalf("connect global DB: %v", err)
	}
	defer globalDB.Close()
	logOut.Info("global DB online")

	// Log active-webspace count as an early sanity check.
	if rows, err := webspace.AllActive(ctx, globalDB); err == nil {
		logOut.Infof("%d active webspace(s) found", len(rows))
	} else {
		logOut.Warnf("webspace table unreadable: %v", err)
	}

	//
	// ── 2.  Webspace cache (lazy partition loader) ──────────────────────
	//
	cache := webspace.New(globalDB, webspace.Options{
		IdleTTL:    cfg.Resolver.WebspaceIdleTTL,
		MaxEntries: cfg.Resolver.WebspaceMaxEntries,
		MaxSuffix:  cfg.Strategy.MaxSuffix,
	})

	//
	// ── 3.  Geo hints (optional) ────────────────────────────────────────
	//
	geo, err := requestinfo.OpenGeo(cfg.Geo.DBPath)
	if err != nil {
		logOut.Fatalf("open geo DB: %v", err)
	}
	defer geo.Close()

	//
	// ── 4.  Handler chain ───────────────────────────────────────────────
	//
	router := resolver.NewHandler(cache).Router()
	router.Handle("/metrics", promhttp.Handler())

	var root http.Handler = router
	root = middleware.Security(root)
	root = requestinfo.Enrich(geo)(root)
	if cfg.HTTP.ForceHTTPS {
		root = middleware.ForceHTTPS(cache, root)
	}

	srv := server.New(cfg.HTTP.ListenAddr, root)
	logOut.Infof("listening on %s", cfg.HTTP.ListenAddr)
	if err := srv.ListenAndServe(); err != nil {
		logOut.Fatalf("http server: %v", err)
	}
}
