// Package giterror provides error inspection capabilities for GitHub API errors.
// It centralizes the logic for identifying the kinds of failures the GraphQL
// search endpoint reports, so the client can map them onto the sentinel errors
// in internal/errors instead of scattering string checks around the codebase.
package giterror
