package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mbenson/tracker/internal/client"
	"github.com/mbenson/tracker/internal/constants"
	"github.com/mbenson/tracker/internal/identity"
)

// Context carries the wiring every command needs. Commands that talk to data
// go through Session(); commands that manage accounts use Registry directly.
type Context struct {
	DataDir  string
	Server   string
	Registry *identity.Registry

	session *client.Session
}

// Session returns the per-user collection set, backed by the REST server when
// one is configured and by the local fallback files otherwise.
func (c *Context) Session() (*client.Session, error) {
	if c.session != nil {
		return c.session, nil
	}
	scope, err := c.Registry.Scope()
	if err != nil {
		return nil, fmt.Errorf("resolve user scope: %w", err)
	}
	if c.Server != "" {
		c.session = client.NewHTTPSession(c.Server, scope)
	} else {
		c.session = client.NewLocalSession(c.DataDir, scope)
	}
	return c.session, nil
}

// RunCtx is the deadline applied to each command's remote calls.
func (c *Context) RunCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 15*time.Second)
}

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	faintStyle = lipgloss.NewStyle().Faint(true)
	headStyle  = lipgloss.NewStyle().Bold(true)
)

// OK renders a green check-marked line.
func OK(format string, args ...any) string {
	return okStyle.Render("✓ " + fmt.Sprintf(format, args...))
}

// Fail renders a red cross-marked line.
func Fail(format string, args ...any) string {
	return failStyle.Render("❌ " + fmt.Sprintf(format, args...))
}

// Faint renders secondary detail text.
func Faint(s string) string {
	return faintStyle.Render(s)
}

// Header renders a bold section header.
func Header(s string) string {
	return headStyle.Render(s)
}

// ParseDate validates a YYYY-MM-DD argument.
func ParseDate(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse(constants.DateFormat, s); err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return s, nil
}

// ParseFrequency parses a comma-separated weekday list into canonical tags,
// accepting "daily" as the every-day sentinel.
func ParseFrequency(s string) ([]string, error) {
	if strings.EqualFold(strings.TrimSpace(s), "daily") {
		return []string{constants.FrequencyDaily}, nil
	}

	canonical := map[string]string{
		"mon": "Mon", "tue": "Tue", "wed": "Wed", "thu": "Thu",
		"fri": "Fri", "sat": "Sat", "sun": "Sun",
	}
	var days []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if len(part) > 3 {
			part = part[:3]
		}
		day, ok := canonical[part]
		if !ok {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("frequency cannot be empty")
	}
	return days, nil
}

// ParseWeekday canonicalizes a planner day argument to its full weekday name.
func ParseWeekday(s string) (string, error) {
	names := map[string]string{
		"mon": "Monday", "tue": "Tuesday", "wed": "Wednesday", "thu": "Thursday",
		"fri": "Friday", "sat": "Saturday", "sun": "Sunday",
	}
	key := strings.TrimSpace(strings.ToLower(s))
	if len(key) > 3 {
		key = key[:3]
	}
	day, ok := names[key]
	if !ok {
		return "", fmt.Errorf("invalid weekday: %s", s)
	}
	return day, nil
}

// Today returns the current calendar date in the canonical format.
func Today() string {
	return time.Now().Format(constants.DateFormat)
}
