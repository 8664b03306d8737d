// Package unifi reports a UniFi network through the same router.Client
// interface as the TP-Link backend. Access points stand in for mesh nodes and
// stations for smart devices.
package unifi

import (
	"fmt"
	"strings"
	"time"

	"github.com/fbettag/router-stats/internal/router"
	"github.com/unpoller/unifi/v5"
)

// Config holds the controller connection settings.
type Config struct {
	URL       string
	Username  string
	Password  string
	SiteID    string
	VerifySSL bool
	Timeout   time.Duration
}

// Client wraps the unpoller/unifi client
type Client struct {
	client    *unifi.Unifi
	baseURL   string
	username  string
	password  string
	site      string
	verifySSL bool
	timeout   time.Duration
	logger    router.Logger
}

var _ router.Client = (*Client)(nil)

// NewClient creates a new UniFi client using the unpoller/unifi library
func NewClient(cfg Config, logger router.Logger) *Client {
	site := cfg.SiteID
	if site == "" {
		site = "default"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.URL, "/"),
		username:  cfg.Username,
		password:  cfg.Password,
		site:      site,
		verifySSL: cfg.VerifySSL,
		timeout:   timeout,
		logger:    logger,
	}
}

// Authorize authenticates with the UniFi controller
func (c *Client) Authorize() error {
	c.logger.Debugf("Attempting to login to UniFi controller at %s", c.baseURL)
	c.logger.Debugf("Username: %s", c.username)
	c.client = nil

	config := &unifi.Config{
		User:      c.username,
		Pass:      c.password,
		URL:       c.baseURL,
		VerifySSL: c.verifySSL,
		Timeout:   c.timeout,
		ErrorLog:  c.logger.Errorf,
		DebugLog:  c.logger.Debugf,
	}

	client, err := unifi.NewUnifi(config)
	if err != nil {
		c.logger.Errorf("Failed to create UniFi client: %v", err)
		return fmt.Errorf("failed to create UniFi client: %w", err)
	}

	if err := client.Login(); err != nil {
		c.logger.Errorf("Login failed: %v", err)
		return fmt.Errorf("failed to login: %w", err)
	}

	c.client = client
	c.logger.Infof("Successfully logged in to UniFi controller")
	return nil
}

// Logout drops the controller session. Without a session it does nothing.
func (c *Client) Logout() error {
	if c.client == nil {
		c.logger.Debugf("No active session, skipping logout")
		return nil
	}
	c.client = nil
	c.logger.Debugf("Dropped UniFi session")
	return nil
}

func (c *Client) sites() []*unifi.Site {
	return []*unifi.Site{{Name: c.site}}
}

func (c *Client) accessPoints() ([]*unifi.UAP, error) {
	if c.client == nil {
		return nil, router.ErrNotLoggedIn
	}

	devices, err := c.client.GetDevices(c.sites())
	if err != nil {
		return nil, fmt.Errorf("failed to get devices: %w", err)
	}
	if devices == nil {
		return nil, nil
	}
	return devices.UAPs, nil
}

func (c *Client) stations() ([]*unifi.Client, error) {
	if c.client == nil {
		return nil, router.ErrNotLoggedIn
	}

	clients, err := c.client.GetClients(c.sites())
	if err != nil {
		return nil, fmt.Errorf("failed to get clients: %w", err)
	}
	return clients, nil
}

// Firmware reports the model and version of the first access point.
func (c *Client) Firmware() (router.Firmware, error) {
	aps, err := c.accessPoints()
	if err != nil {
		return router.Firmware{}, err
	}
	return firmwareFromAPs(aps), nil
}

// Status counts the stations of the site. The controller does not expose a
// single CPU or memory figure, so both are reported as zero.
func (c *Client) Status() (router.Status, error) {
	aps, err := c.accessPoints()
	if err != nil {
		return router.Status{}, err
	}
	stations, err := c.stations()
	if err != nil {
		return router.Status{}, err
	}
	return statusFrom(aps, stations), nil
}

// MeshNodes lists the access points of the site.
func (c *Client) MeshNodes() ([]router.MeshNode, error) {
	aps, err := c.accessPoints()
	if err != nil {
		return nil, err
	}

	nodes := make([]router.MeshNode, 0, len(aps))
	for _, ap := range aps {
		nodes = append(nodes, nodeFromAP(ap))
	}
	return nodes, nil
}

// MeshClients returns the wireless stations associated with the access point
// with the given MAC.
func (c *Client) MeshClients(mac string) (router.MeshClients, error) {
	stations, err := c.stations()
	if err != nil {
		return router.MeshClients{}, err
	}
	return clientsOfAP(mac, stations), nil
}

// SmartDevices returns one record per station.
func (c *Client) SmartDevices() ([]router.SmartClient, error) {
	stations, err := c.stations()
	if err != nil {
		return nil, err
	}

	devices := make([]router.SmartClient, 0, len(stations))
	for _, s := range stations {
		devices = append(devices, deviceFromStation(s))
	}
	return devices, nil
}
