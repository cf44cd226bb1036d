package temporal

import (
	"strconv"
	"strings"
)

// Score domain accepted by the progression builder. Values outside this
// range are treated as reporting artifacts and ignored.
const (
	ScoreMin = 300
	ScoreMax = 850
)

// sentinelCodes are the negative integer markers the upstream documents
// as "not applicable" / "not computed". They are placeholders, not real
// negative quantities.
var sentinelCodes = map[int]struct{}{
	-3: {},
	-4: {},
	-5: {},
}

// IsSentinel reports whether v is a placeholder "no data" value: nil,
// the literals "None"/"N/A"/"", or one of the reserved negative codes
// (in numeric or string form). The check is case-insensitive and
// whitespace-tolerant on the string forms.
func IsSentinel(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return true
		}
		switch strings.ToLower(s) {
		case "none", "n/a":
			return true
		}
		if n, err := strconv.Atoi(s); err == nil {
			_, reserved := sentinelCodes[n]
			return reserved
		}
		return false
	case float64:
		if t != float64(int(t)) {
			return false
		}
		_, reserved := sentinelCodes[int(t)]
		return reserved
	case int:
		_, reserved := sentinelCodes[t]
		return reserved
	case int64:
		_, reserved := sentinelCodes[int(t)]
		return reserved
	default:
		return false
	}
}

// scoreValue parses a score reading and validates it against the score
// domain. Sentinels, non-numeric values, and out-of-range values all
// return false.
func scoreValue(v any) (float64, bool) {
	if IsSentinel(v) {
		return 0, false
	}

	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if f < ScoreMin || f > ScoreMax {
		return 0, false
	}
	return f, true
}
