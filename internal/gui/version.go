package gui

import "github.com/atelierhq/atelier/internal/version"

// Version information for Atelier
const (
	// AppName is the application name
	AppName = "Atelier"

	// Copyright is the copyright notice
	Copyright = "Copyright © 2026 Atelier Contributors"

	// License is the software license
	License = "MIT License"

	// GitHubURL is the project repository URL
	GitHubURL = "https://github.com/atelierhq/atelier"

	// DocsURL is the documentation URL
	DocsURL = "https://github.com/atelierhq/atelier/blob/main/README.md"

	// IssuesURL is the issue tracker URL
	IssuesURL = "https://github.com/atelierhq/atelier/issues"
)

// Version is the current version of the application, set at build time
// through the internal/version package.
var Version = version.String()
