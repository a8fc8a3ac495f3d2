package monitor

import (
	"time"

	"github.com/dishboard/console/internal/upstream"
)

// Status is one observation of the console's dependencies.
type Status struct {
	Upstream     bool                `json:"upstream"`
	SessionStore bool                `json:"session_store"`
	Cache        upstream.CacheStats `json:"cache"`
	LastCheck    time.Time           `json:"last_check"`
}
