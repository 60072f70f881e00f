//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are installed with `go install` or run through `go run` and are
// not imported by the portal itself.
package tools

// Development tools:
//
// Air - live reload for cmd/portal while editing templates and handlers
//   Install: go install github.com/air-verse/air@v1.63.0
//   Run:     air --build.cmd "go build -o ./tmp/portal ./cmd/portal" --build.bin ./tmp/portal
//   Docs: https://github.com/air-verse/air
//
// mockgen - regenerates internal/mocks
//   Run: go generate ./internal/mocks
//   Version: v0.6.0 (matches go.uber.org/mock in go.mod)
