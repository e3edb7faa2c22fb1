// Package device summarizes User-Agent strings for diagnostic logs. The
// summary never feeds a gate predicate: device checks use the client-reported
// device type only.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

const unknownDevice = "Unknown Device"

// Hint is a parsed view of a User-Agent.
type Hint struct {
	Summary string
	Mobile  bool
	Bot     bool
}

// Describe parses userAgent into a Hint.
func Describe(userAgent string) Hint {
	if strings.TrimSpace(userAgent) == "" {
		return Hint{Summary: unknownDevice}
	}
	ua := useragent.New(userAgent)
	return Hint{
		Summary: summarize(ua),
		Mobile:  ua.Mobile(),
		Bot:     ua.Bot(),
	}
}

func summarize(ua *useragent.UserAgent) string {
	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}

	where := ua.Platform()
	if where == "" {
		where = ua.OS()
	}
	if where == "" {
		where = "Unknown OS"
	}

	return strings.TrimSpace(browser + " on " + where)
}
