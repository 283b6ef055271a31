package global

import (
	"fmt"
	"runtime/debug"
)

const (
	// Version has the following structure: vA.B.C[-<label>]
	// A is major version, 0 until beta. B is minor, change means breaking change.
	// C is subversion, change usually means non-breaking change
	Version        = "v0.2.1-testnet"
	bannerTemplate = "starting Hereditas vault ledger node version %s, commit hash: %s, commit time: %s"
)

var (
	CommitHash = "N/A"
	CommitTime = "N/A"
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				CommitHash = setting.Value
			}
			if setting.Key == "vcs.time" {
				CommitTime = setting.Value
			}
		}
	}
}

func BannerString() string {
	return fmt.Sprintf(bannerTemplate, Version, CommitHash, CommitTime)
}
