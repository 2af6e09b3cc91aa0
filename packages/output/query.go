package output

import "github.com/tidwall/gjson"

// Query extracts a value from a JSON body using a gjson path. String
// results come back unquoted; everything else is returned as raw JSON.
func Query(body, path string) (string, bool) {
	result := gjson.Get(body, path)
	if !result.Exists() {
		return "", false
	}
	if result.Type == gjson.String {
		return result.String(), true
	}
	return result.Raw, true
}
