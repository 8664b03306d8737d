package tplink

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/url"
)

const (
	keysPath   = "login?form=keys"
	loginPath  = "login?form=login"
	logoutPath = "admin/system?form=logout"
)

// Authorize logs in with the admin password and keeps the session token.
func (c *Client) Authorize() error {
	c.logger.Debugf("Attempting to login to router at %s", c.baseURL)
	c.stok = ""

	pub, err := c.passwordKey()
	if err != nil {
		return err
	}

	encrypted, err := rsa.EncryptPKCS1v15(rand.Reader, pub, []byte(c.password))
	if err != nil {
		return fmt.Errorf("failed to encrypt password: %w", err)
	}

	form := url.Values{}
	form.Set("operation", "login")
	form.Set("password", hex.EncodeToString(encrypted))
	form.Set("confirm", "true")

	data, err := c.post(loginPath, form.Encode())
	if err != nil {
		c.logger.Errorf("Login failed: %v", err)
		return fmt.Errorf("failed to login: %w", err)
	}

	var login struct {
		Stok string `json:"stok"`
	}
	if err := json.Unmarshal(data, &login); err != nil {
		return fmt.Errorf("failed to decode login response: %w", err)
	}
	if login.Stok == "" {
		return errors.New("login response carried no session token")
	}

	c.stok = login.Stok
	c.logger.Infof("Successfully logged in to router")
	return nil
}

// Logout ends the admin session. Without a session it does nothing.
func (c *Client) Logout() error {
	if c.stok == "" {
		c.logger.Debugf("No active session, skipping logout")
		return nil
	}

	_, err := c.post(logoutPath, "operation=write")
	c.stok = ""
	if err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}

	c.logger.Debugf("Logged out of router")
	return nil
}

// passwordKey fetches the RSA public key the router wants the password
// encrypted with. It is sent as hex modulus and exponent.
func (c *Client) passwordKey() (*rsa.PublicKey, error) {
	data, err := c.post(keysPath, "operation=read")
	if err != nil {
		return nil, fmt.Errorf("failed to get login keys: %w", err)
	}

	var keys struct {
		Password []string `json:"password"`
	}
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("failed to decode login keys: %w", err)
	}
	if len(keys.Password) < 2 {
		return nil, errors.New("router sent no password key")
	}

	return parsePublicKey(keys.Password[0], keys.Password[1])
}

func parsePublicKey(modulusHex, exponentHex string) (*rsa.PublicKey, error) {
	n, ok := new(big.Int).SetString(modulusHex, 16)
	if !ok {
		return nil, fmt.Errorf("invalid key modulus %q", modulusHex)
	}
	e, ok := new(big.Int).SetString(exponentHex, 16)
	if !ok || !e.IsInt64() || e.Int64() < 3 || e.Int64() > 1<<31-1 {
		return nil, fmt.Errorf("invalid key exponent %q", exponentHex)
	}
	return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
}
