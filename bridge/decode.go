package bridge

import (
	"strings"

	"github.com/voxscene/luaubridge/luau"
)

// decodePayload scans the captured lines of one call. Any line carrying the
// sentinel prefix yields a candidate payload; the last such line wins. The
// remaining non-empty lines are incidental output, returned for forwarding
// to the diagnostic channel. Without a sentinel the payload is the fixed
// default, byte-for-byte.
func decodePayload(lines []string) (payload string, diagnostics []string) {
	payload = luau.DefaultPayload
	for _, line := range lines {
		if strings.HasPrefix(line, luau.SentinelPrefix) {
			payload = line[len(luau.SentinelPrefix):]
			continue
		}
		if line != "" {
			diagnostics = append(diagnostics, line)
		}
	}
	return payload, diagnostics
}
