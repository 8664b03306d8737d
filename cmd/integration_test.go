//go:build integration

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fbettag/router-stats/internal/config"
	"github.com/fbettag/router-stats/internal/report"
	"github.com/fbettag/router-stats/internal/router"
	"github.com/fbettag/router-stats/testutils"
)

// Test configuration from environment variables
var (
	testRouterURL      = os.Getenv("ROUTER_URL")
	testRouterPassword = os.Getenv("ROUTER_PASSWORD")
)

func TestIntegration(t *testing.T) {
	// Skip if environment variables are not set
	if testRouterURL == "" || testRouterPassword == "" {
		t.Skip("Integration tests require ROUTER_URL and ROUTER_PASSWORD environment variables")
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Invalid configuration: %v", err)
	}
	t.Logf("Testing %s router at %s", cfg.Router.Model, cfg.Router.URL)

	// Set up logger with reduced noise
	logger := testutils.NewTestLogger()

	t.Run("Complete report against real router", func(t *testing.T) {
		var out bytes.Buffer
		snapshot := filepath.Join(t.TempDir(), "stats.json")
		reporter := report.NewReporter(report.NewConsole(&out, report.PlainTheme()), logger, snapshot)

		client := newRouterClient(cfg, router.NewTestLogger(t))
		err := router.WithSession(client, func(c router.Client) error {
			_, err := reporter.Run(c)
			return err
		})
		if err != nil {
			t.Fatalf("Report failed: %v", err)
		}

		t.Logf("Report:\n%s", out.String())

		if !strings.HasPrefix(out.String(), "Uptime: ") {
			t.Error("Report should start with the status line")
		}

		snap, err := report.ReadSnapshot(snapshot)
		if err != nil {
			t.Fatalf("Failed to read snapshot: %v", err)
		}
		t.Logf("Collected %d mesh nodes and %d devices", len(snap.MeshData), len(snap.Devices))
		if snap.Status.ClientsTotal != snap.Status.WiredTotal+snap.Status.WifiTotal {
			t.Errorf("Client totals disagree: %+v", snap.Status)
		}
	})

	t.Run("Session is released", func(t *testing.T) {
		// Routers allow one admin session; a second login only works if the
		// first run logged out.
		client := newRouterClient(cfg, router.NewTestLogger(t))
		if err := router.WithSession(client, func(c router.Client) error {
			_, err := c.Firmware()
			return err
		}); err != nil {
			t.Fatalf("Second session failed: %v", err)
		}
	})
}
