package voucher

import (
	"fmt"
	"strings"
	"time"

	"github.com/feeflow/feeflow/internal/domain/counter"
	"github.com/feeflow/feeflow/internal/types"
)

// FallbackNumberPrefix tags voucher numbers generated while the numbering
// store was unavailable. The repair job's scan predicate matches on it.
const FallbackNumberPrefix = "TMP-"

// FormatNumber renders a voucher number as ORGCODE-PERIOD-NNNN. Pure and
// deterministic; an empty org code falls back to the fixed default.
func FormatNumber(orgCode, period string, sequence int64) string {
	if orgCode == "" {
		orgCode = counter.DefaultOrgCode
	}
	return fmt.Sprintf("%s-%s-%04d", strings.ToUpper(orgCode), period, sequence)
}

// FallbackNumber generates a degraded, non-sequential voucher number from
// the org code, a timestamp and a random suffix. The TMP- prefix makes it
// recognizable to downstream consumers and to the repair scan; the suffix
// keeps concurrent batches from minting the same number.
func FallbackNumber(orgCode string, now time.Time) string {
	if orgCode == "" {
		orgCode = counter.DefaultOrgCode
	}
	return fmt.Sprintf("%s%s-%d-%s", FallbackNumberPrefix, strings.ToUpper(orgCode), now.UnixNano(), types.GenerateShortIDWithPrefix(""))
}

// IsFallbackNumber reports whether a voucher number was generated by the
// fallback path and still awaits repair
func IsFallbackNumber(number string) bool {
	return strings.HasPrefix(number, FallbackNumberPrefix)
}
