package app

import (
	"os"
	"strconv"
)

const testModeEnv = "SHELFWISE_TEST_MODE"

// InTestMode reports whether SHELFWISE_TEST_MODE is set. Test mode skips
// dotenv loading and keeps the binaries from binding sockets.
func InTestMode() bool {
	on, _ := strconv.ParseBool(os.Getenv(testModeEnv))
	return on
}
