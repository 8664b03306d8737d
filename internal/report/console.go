package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fbettag/router-stats/internal/format"
	"github.com/fbettag/router-stats/internal/router"
)

// Theme styles the console report.
type Theme struct {
	Label lipgloss.Style
	Value lipgloss.Style
	Rule  lipgloss.Style
}

// DefaultTheme highlights status labels in blue, values in yellow and table
// rules in grey.
func DefaultTheme() Theme {
	return Theme{
		Label: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Value: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Rule:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// PlainTheme renders without any styling.
func PlainTheme() Theme {
	return Theme{
		Label: lipgloss.NewStyle(),
		Value: lipgloss.NewStyle(),
		Rule:  lipgloss.NewStyle(),
	}
}

type column struct {
	title string
	width int
}

var (
	meshColumns = []column{
		{"Device Name", 20},
		{"Type", 16},
		{"IP Address", 16},
		{"Clients", 7},
		{"Location", 20},
		{"Signal", 6},
		{"Devices", 80},
	}
	deviceColumns = []column{
		{"Device Name", 20},
		{"Type", 16},
		{"IP Address", 16},
		{"Transferred", 12},
		{"Download/Upload", 26},
		{"Signal", 6},
		{"Link speed", 20},
	}
)

const ruleChar = "-"

// Console writes the report tables. Write errors are sticky and reported by Err.
type Console struct {
	w     io.Writer
	theme Theme
	err   error
}

// NewConsole creates a console renderer writing to w.
func NewConsole(w io.Writer, theme Theme) *Console {
	return &Console{w: w, theme: theme}
}

// Err returns the first write error, if any.
func (c *Console) Err() error {
	return c.err
}

func (c *Console) println(s string) {
	if c.err != nil {
		return
	}
	_, c.err = fmt.Fprintln(c.w, s)
}

// Status prints the uptime/CPU/RAM line and the connected device counts.
func (c *Console) Status(s router.Status) {
	label, value := c.theme.Label.Render, c.theme.Value.Render

	c.println(fmt.Sprintf("%s %s | %s %s | %s %s",
		label("Uptime:"), value(format.Duration(s.Uptime)),
		label("CPU:"), value(percent(s.CPUUsage)),
		label("RAM:"), value(percent(s.MemoryUsage)),
	))
	c.println(fmt.Sprintf("Devices connected: %s (%s wired/%s wifi)",
		value(fmt.Sprint(s.ClientsTotal)),
		value(fmt.Sprint(s.WiredTotal)),
		value(fmt.Sprint(s.WifiTotal)),
	))
	c.println("")
}

func percent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}

// MeshHeader prints the mesh table header and rule.
func (c *Console) MeshHeader() {
	c.header(meshColumns)
}

// MeshRow prints one mesh node.
func (c *Console) MeshRow(d MeshDevice) {
	c.println(line(meshColumns, d.Row()))
}

// DeviceHeader prints the per-device table header and rule.
func (c *Console) DeviceHeader() {
	c.header(deviceColumns)
}

// DeviceRow prints one traffic accelerator device.
func (c *Console) DeviceRow(d SmartDevice) {
	c.println(line(deviceColumns, d.Row()))
}

// EndTable separates a finished table from what follows.
func (c *Console) EndTable() {
	c.println("")
}

func (c *Console) header(cols []column) {
	titles := make([]string, len(cols))
	rules := make([]string, len(cols))
	for i, col := range cols {
		titles[i] = col.title
		rules[i] = strings.Repeat(ruleChar, col.width)
	}
	c.println(line(cols, titles))
	c.println(c.theme.Rule.Render(strings.Join(rules, " ")))
}

// line left-aligns each cell to its column width. Longer cells are not cut.
func line(cols []column, cells []string) string {
	parts := make([]string, len(cols))
	for i, col := range cols {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = fmt.Sprintf("%-*s", col.width, cell)
	}
	return strings.TrimRight(strings.Join(parts, " "), " ")
}
