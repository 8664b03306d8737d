// Package router defines the backend-independent view of a home router's
// admin API: the records it reports and the client the report runs against.
package router

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ErrNotLoggedIn is returned by backends when a call is made before Authorize.
var ErrNotLoggedIn = errors.New("not logged in")

// Client is implemented by every router backend.
type Client interface {
	Authorize() error
	Logout() error
	Firmware() (Firmware, error)
	Status() (Status, error)
	MeshNodes() ([]MeshNode, error)
	MeshClients(mac string) (MeshClients, error)
	SmartDevices() ([]SmartClient, error)
}

// WithSession authorizes c, runs fn and always attempts a logout afterwards,
// also when Authorize or fn fail. The router only admits one admin session at
// a time, so a leaked session locks out the web UI until it expires.
func WithSession(c Client, fn func(Client) error) (err error) {
	defer func() {
		if logoutErr := c.Logout(); logoutErr != nil {
			err = multierror.Append(err, fmt.Errorf("logout: %w", logoutErr)).ErrorOrNil()
		}
	}()

	if err := c.Authorize(); err != nil {
		return fmt.Errorf("authorize: %w", err)
	}

	return fn(c)
}
