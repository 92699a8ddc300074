// README: Last-known location entry kept per user.
package location

import (
	"time"

	"teleport/internal/types"
)

// Entry is what the cache remembers about a user's last confirmed pickup.
type Entry struct {
	UserID      types.ID       `json:"user_id"`
	Point       types.GeoPoint `json:"point"`
	Cell        string         `json:"cell"`
	ConfirmedAt time.Time      `json:"confirmed_at"`
}
