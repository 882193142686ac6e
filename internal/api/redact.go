package api

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// secretFields are the payload keys that must never reach the logs.
var secretFields = []string{
	"access_token",
	"refresh_token",
	"api_key",
	"password",
	"client_secret",
	"code_verifier",
}

// redactSecrets masks secret material in a JSON payload before it is logged.
// Non-JSON payloads pass through untouched; empty payloads render as "-".
func redactSecrets(body []byte) string {
	if len(body) == 0 {
		return "-"
	}
	if !gjson.ValidBytes(body) {
		return string(body)
	}
	redacted := body
	for _, field := range secretFields {
		for _, path := range []string{field, "data." + field} {
			if gjson.GetBytes(redacted, path).Exists() {
				if updated, err := sjson.SetBytes(redacted, path, "[REDACTED]"); err == nil {
					redacted = updated
				}
			}
		}
	}
	return string(redacted)
}
