// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package version

// Version is the vibebatch version. It is meant to be
// overwritten at build time via -ldflags.
var Version = "v0.1.0-dev"
