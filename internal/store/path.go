package store

import (
	"fmt"
	"strconv"
	"strings"
)

// sanitiseName replaces path-hostile characters in a tracked name so it can
// be embedded directly in a filename (spec: "/", "\", ":" -> "_", no other
// characters are transformed).
func sanitiseName(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_")

	return replacer.Replace(name)
}

// deltaFilename returns "<sanitised-name>_v<N>.delta".
func deltaFilename(name string, version uint32) string {
	return fmt.Sprintf("%s_v%d.delta", sanitiseName(name), version)
}

// metaFilename returns "<sanitised-name>_v<N>.meta".
func metaFilename(name string, version uint32) string {
	return fmt.Sprintf("%s_v%d.meta", sanitiseName(name), version)
}

// parseVersionSuffix extracts the trailing "_v<N>" version number from a
// sanitised base filename (without extension), e.g. "widget_v3" -> 3.
func parseVersionSuffix(base string) (name string, version uint32, ok bool) {
	idx := strings.LastIndex(base, "_v")
	if idx < 0 {
		return "", 0, false
	}

	n, err := strconv.ParseUint(base[idx+2:], 10, 32)
	if err != nil {
		return "", 0, false
	}

	return base[:idx], uint32(n), true
}
