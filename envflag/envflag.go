// Package envflag supplies flag defaults from OTHELLO_* environment variables.
//
// Flags always win: the environment only replaces the compiled-in default.
package envflag

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const Prefix = "OTHELLO_"

// Key turns a flag name such as "max-depth" into OTHELLO_MAX_DEPTH.
func Key(flagName string) string {
	return Prefix + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

func String(flagName, defaultVal string) string {
	if val := os.Getenv(Key(flagName)); val != "" {
		return val
	}
	return defaultVal
}

func Int(flagName string, defaultVal int) int {
	if val := os.Getenv(Key(flagName)); val != "" {
		var i int
		if _, err := fmt.Sscanf(val, "%d", &i); err == nil {
			return i
		}
	}
	return defaultVal
}

func Int64(flagName string, defaultVal int64) int64 {
	if val := os.Getenv(Key(flagName)); val != "" {
		var i int64
		if _, err := fmt.Sscanf(val, "%d", &i); err == nil {
			return i
		}
	}
	return defaultVal
}

func Duration(flagName string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(Key(flagName)); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func Bool(flagName string, defaultVal bool) bool {
	if val := os.Getenv(Key(flagName)); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
