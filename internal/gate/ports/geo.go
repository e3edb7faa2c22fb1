package ports

import (
	"context"

	"oceangate/internal/geo"
)

//go:generate mockgen -source=geo.go -destination=../mocks/geo_mocks.go -package=mocks Locator

// Locator resolves the country of a caller's IP address. The gate treats any
// error as "no country"; implementations must not retry on its behalf.
type Locator interface {
	Locate(ctx context.Context, ip string) (geo.Result, error)
}
