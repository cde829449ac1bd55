package version

import (
	"runtime/debug"
)

func GetVersion() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown (no build info)"
	}
	return buildInfo.Main.Version
}
