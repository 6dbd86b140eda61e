// Copyright 2024 Erraggy
// SPDX-License-Identifier: MIT

// Package pathutil provides path helpers shared by the job file loader, the
// merge engine and the MCP server.
//
// [Resolve] anchors relative paths to a base directory, [SamePath] decides
// whether two paths name the same file (used to reject a target that is also
// listed as one of its own sources), and [SanitizeOutputPath] cleans a target
// path received from an untrusted client.
package pathutil
