package counter

import (
	"fmt"
	"strings"
	"time"
)

// Counter represents a named monotonically increasing sequence.
// The row for a scope key is the single serialization point for every
// issuer targeting that org + period.
type Counter struct {
	ScopeKey  string    `db:"scope_key" json:"scope_key"`
	Sequence  int64     `db:"last_value" json:"sequence"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultOrgCode is used when an organization has no code configured
const DefaultOrgCode = "ORG"

// ScopeKey derives the counter scope for an org + period pair. This is the
// only scope scheme in the system; counters keyed any other way are a bug.
func ScopeKey(orgCode, period string) string {
	if orgCode == "" {
		orgCode = DefaultOrgCode
	}
	return fmt.Sprintf("%s-%s", strings.ToUpper(orgCode), period)
}
