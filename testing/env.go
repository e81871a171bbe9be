// Package testing switches the process into test mode when blank-imported
// from a _test.go file, so configuration never reads a developer's .env and
// outbound collaborators point at an unroutable address.
package testing

import "os"

var defaults = map[string]string{
	"SHELFWISE_TEST_MODE": "1",
	"OPENWEATHER_URL":     "http://127.0.0.1:0",
	"OPENWEATHER_API_KEY": "test-key",
}

func init() {
	for key, value := range defaults {
		if _, ok := os.LookupEnv(key); !ok {
			_ = os.Setenv(key, value)
		}
	}
}
