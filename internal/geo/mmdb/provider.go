// Package mmdb resolves countries from a local MaxMind country database, for
// deployments that must not call out to a third-party service.
package mmdb

import (
	"context"
	"net"
	"strings"

	"github.com/oschwald/maxminddb-golang"

	"oceangate/internal/geo"
)

// SourceName identifies this locator in logs and metrics.
const SourceName = "mmdb"

type countryRecord struct {
	Country struct {
		IsoCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// Provider reads country codes from a GeoLite2/GeoIP2 Country database.
type Provider struct {
	path string
	db   *maxminddb.Reader
}

// Open loads the database at path.
func Open(path string) (*Provider, error) {
	db, err := maxminddb.Open(path)
	if err != nil {
		return nil, geo.NewLocatorError(geo.ErrorInternal, SourceName, "open "+path, err)
	}
	return &Provider{path: path, db: db}, nil
}

// Locate resolves ip. Strings that are not IP addresses yield an empty Result.
func (p *Provider) Locate(ctx context.Context, ip string) (geo.Result, error) {
	if err := ctx.Err(); err != nil {
		return geo.Result{}, geo.NewLocatorError(geo.ErrorTimeout, SourceName, "context done", err)
	}

	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return geo.Result{Source: SourceName}, nil
	}
	if p == nil || p.db == nil {
		return geo.Result{}, geo.NewLocatorError(geo.ErrorInternal, SourceName, "database not loaded", nil)
	}

	var rec countryRecord
	if err := p.db.Lookup(parsed, &rec); err != nil {
		return geo.Result{}, geo.NewLocatorError(geo.ErrorBadData, SourceName, "lookup "+parsed.String(), err)
	}
	return geo.Result{CountryCode: rec.Country.IsoCode, Source: SourceName}, nil
}

// Close releases the database.
func (p *Provider) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}
