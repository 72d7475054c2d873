/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package build

import (
	"fmt"
	"runtime/debug"
)

var (
	VersionStr   = "0.3.0"
	CopyrightStr = "Trellis Data, Inc., 2026"
)

var Commit = func() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}
	return ""
}()

// VersionInfo returns a version string for the application
func VersionInfo() string {
	if Commit != "" {
		return fmt.Sprintf(
			"%v (git commit %v)",
			VersionStr,
			Commit,
		)
	}

	return fmt.Sprintf(
		"%v",
		VersionStr,
	)
}
