package engine

import (
	"encoding/json"
	"strings"

	"github.com/jasonhulbert/specgen/types"
)

// ExtractJSON locates the first complete JSON object or array in a model
// response. Models often wrap their JSON in prose even when asked not
// to; any text preceding the JSON is returned as a trimmed summary
// rather than discarded. When no parseable JSON exists the raw response
// is unusable and types.ErrNoStructuredOutput is returned.
func ExtractJSON(raw string) (payload []byte, summary string, err error) {
	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' && raw[i] != '[' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(raw[i:]))
		var candidate json.RawMessage
		if err := dec.Decode(&candidate); err != nil {
			continue
		}
		return candidate, strings.TrimSpace(raw[:i]), nil
	}
	return nil, "", types.ErrNoStructuredOutput
}
