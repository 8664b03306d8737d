package testutils

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
)

const (
	mockStok       = "mock-stok-token"
	mockSysauth    = "mock-sysauth"
	stokPathPrefix = "/cgi-bin/luci/;stok="
)

var (
	keyOnce sync.Once
	mockKey *rsa.PrivateKey
)

func routerKey() *rsa.PrivateKey {
	keyOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			log.Fatalf("Failed to generate mock router key: %v", err)
		}
		mockKey = key
	})
	return mockKey
}

// MockRouterServer provides a mock TP-Link admin API for testing
type MockRouterServer struct {
	Server   *httptest.Server
	URL      string
	Password string

	// Responses maps the "form" query value of an admin endpoint to the JSON
	// returned as the envelope's data member.
	Responses map[string]string
	// MeshClients maps a node MAC to its mesh_sclient_detail data.
	MeshClients map[string]string
	// FailForm makes the endpoint with this form answer success=false.
	FailForm string

	mu       sync.Mutex
	calls    []string
	loggedIn bool
	logouts  int
}

// NewMockRouterServer creates a mock router that accepts password and serves
// the default fixtures.
func NewMockRouterServer(password string) *MockRouterServer {
	m := newMockRouter(password)
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	m.URL = m.Server.URL
	return m
}

// NewMockRouterTLSServer is NewMockRouterServer behind a self-signed certificate.
func NewMockRouterTLSServer(password string) *MockRouterServer {
	m := newMockRouter(password)
	m.Server = httptest.NewTLSServer(http.HandlerFunc(m.handle))
	m.URL = m.Server.URL
	return m
}

func newMockRouter(password string) *MockRouterServer {
	return &MockRouterServer{
		Password: password,
		Responses: map[string]string{
			"upgrade":                  FirmwareJSON,
			"all":                      StatusJSON,
			"get_mesh_device_list_all": MeshListJSON,
			"game_accelerator":         SmartDevicesJSON,
		},
		MeshClients: map[string]string{
			SatelliteMAC: MeshClientsMapJSON,
			MainMAC:      MeshClientsListJSON,
		},
	}
}

// Close shuts down the mock server
func (m *MockRouterServer) Close() {
	m.Server.Close()
}

// Calls returns the forms requested so far, in order.
func (m *MockRouterServer) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Logouts returns how many logout requests were received.
func (m *MockRouterServer) Logouts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logouts
}

// LoggedIn reports whether a session is currently open.
func (m *MockRouterServer) LoggedIn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loggedIn
}

func (m *MockRouterServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !strings.HasPrefix(r.URL.Path, stokPathPrefix) {
		http.NotFound(w, r)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, stokPathPrefix)
	stok, endpoint, _ := strings.Cut(rest, "/")

	body, _ := io.ReadAll(r.Body)
	form, _ := url.ParseQuery(string(body))
	query := r.URL.Query()
	name := query.Get("form")

	m.mu.Lock()
	m.calls = append(m.calls, name)
	m.mu.Unlock()

	if endpoint == "login" {
		m.handleLogin(w, name, form)
		return
	}

	if stok != mockStok || !hasSysauth(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if m.FailForm != "" && name == m.FailForm {
		writeEnvelope(w, false, "-40401", nil)
		return
	}

	switch {
	case endpoint == "admin/system" && name == "logout":
		m.mu.Lock()
		m.logouts++
		m.loggedIn = false
		m.mu.Unlock()
		writeEnvelope(w, true, "", nil)
	case endpoint == "admin/easymesh_network" && name == "mesh_sclient_detail":
		data, ok := m.MeshClients[query.Get("mac")]
		if !ok {
			data = `{}`
		}
		writeEnvelope(w, true, "", json.RawMessage(data))
	default:
		data, ok := m.Responses[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeEnvelope(w, true, "", json.RawMessage(data))
	}
}

func (m *MockRouterServer) handleLogin(w http.ResponseWriter, name string, form url.Values) {
	key := routerKey()

	switch name {
	case "keys":
		writeEnvelope(w, true, "", map[string]interface{}{
			"password": []string{
				key.N.Text(16),
				fmt.Sprintf("%x", key.E),
			},
			"mode": "router",
		})
	case "login":
		if form.Get("operation") != "login" {
			writeEnvelope(w, false, "invalid operation", nil)
			return
		}
		ciphertext, err := hex.DecodeString(form.Get("password"))
		if err != nil {
			writeEnvelope(w, false, "login failed", nil)
			return
		}
		plain, err := rsa.DecryptPKCS1v15(nil, key, ciphertext)
		if err != nil || string(plain) != m.Password {
			writeEnvelope(w, false, "login failed", map[string]interface{}{
				"failureCount":    1,
				"attemptsAllowed": 9,
			})
			return
		}

		m.mu.Lock()
		m.loggedIn = true
		m.mu.Unlock()

		http.SetCookie(w, &http.Cookie{
			Name:  "sysauth",
			Value: mockSysauth,
			Path:  "/",
		})
		writeEnvelope(w, true, "", map[string]interface{}{"stok": mockStok})
	default:
		writeEnvelope(w, false, "unknown form", nil)
	}
}

func hasSysauth(r *http.Request) bool {
	c, err := r.Cookie("sysauth")
	return err == nil && c.Value == mockSysauth
}

func writeEnvelope(w http.ResponseWriter, success bool, code string, data interface{}) {
	resp := map[string]interface{}{"success": success}
	if code != "" {
		resp["errorcode"] = code
	}
	if data != nil {
		resp["data"] = data
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
