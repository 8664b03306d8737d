// TP-Link routers hand out 512 bit RSA login keys.
//
//go:debug rsa1024min=0

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fbettag/router-stats/internal/config"
	"github.com/fbettag/router-stats/internal/report"
	"github.com/fbettag/router-stats/internal/router"
	"github.com/fbettag/router-stats/internal/tplink"
	"github.com/fbettag/router-stats/internal/unifi"
	"github.com/sirupsen/logrus"
)

var (
	Version = "dev" // Set by build process
)

type options struct {
	configFile   string
	envFile      string
	logLevel     string
	output       string
	noColor      bool
	fromSnapshot string
	initConfig   string
	showVersion  bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("router-stats", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configFile, "config", "", "Path to configuration file (optional)")
	fs.StringVar(&opts.envFile, "env-file", ".env", "Environment file to load if present")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.output, "output", "", "Write a JSON snapshot to this path (overrides output.json_path)")
	fs.BoolVar(&opts.noColor, "no-color", false, "Disable colored labels")
	fs.StringVar(&opts.fromSnapshot, "from-snapshot", "", "Print a saved snapshot instead of querying the router")
	fs.StringVar(&opts.initConfig, "init-config", "", "Write a starter configuration file and exit")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

func newLogger(level string, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Set log level from flag
	switch level {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.WarnLevel)
	}
	return logger
}

func newRouterClient(cfg *config.Config, logger router.Logger) router.Client {
	switch cfg.Router.Model {
	case config.ModelUniFi:
		return unifi.NewClient(unifi.Config{
			URL:       cfg.Router.URL,
			Username:  cfg.Router.Username,
			Password:  cfg.Router.Password,
			SiteID:    cfg.Router.SiteID,
			VerifySSL: cfg.Router.VerifySSL,
			Timeout:   cfg.Router.TimeoutDuration(),
		}, logger)
	default:
		return tplink.NewClient(tplink.Config{
			URL:       cfg.Router.URL,
			Password:  cfg.Router.Password,
			VerifySSL: cfg.Router.VerifySSL,
			Timeout:   cfg.Router.TimeoutDuration(),
		}, logger)
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	// Handle version flag
	if opts.showVersion {
		fmt.Fprintf(stdout, "router-stats %s\n", Version)
		return 0
	}

	logger := newLogger(opts.logLevel, stderr)

	if opts.initConfig != "" {
		if err := config.SaveConfig(opts.initConfig, config.Default()); err != nil {
			logger.Errorf("Failed to write configuration: %v", err)
			return 1
		}
		fmt.Fprintf(stdout, "Wrote %s\n", opts.initConfig)
		return 0
	}

	cfg, err := config.Load(opts.configFile, opts.envFile)
	if err != nil {
		logger.Errorf("Failed to load configuration: %v", err)
		return 1
	}

	theme := report.DefaultTheme()
	if opts.noColor || !cfg.Output.Color {
		theme = report.PlainTheme()
	}
	snapshotPath := cfg.Output.JSONPath
	if opts.output != "" {
		snapshotPath = opts.output
	}
	reporter := report.NewReporter(report.NewConsole(stdout, theme), logger, snapshotPath)

	if opts.fromSnapshot != "" {
		snap, err := report.ReadSnapshot(opts.fromSnapshot)
		if err != nil {
			logger.Errorf("%v", err)
			return 1
		}
		if err := reporter.Render(snap); err != nil {
			logger.Errorf("Failed to print report: %v", err)
			return 1
		}
		return 0
	}

	if err := cfg.Validate(); err != nil {
		logger.Errorf("Invalid configuration: %v", err)
		return 1
	}

	logger.Infof("Querying %s router at %s", cfg.Router.Model, cfg.Router.URL)
	client := newRouterClient(cfg, router.NewLogrusAdapter(logger))

	err = router.WithSession(client, func(c router.Client) error {
		_, err := reporter.Run(c)
		return err
	})
	if err != nil {
		logger.Errorf("%v", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
