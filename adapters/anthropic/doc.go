//go:build !anthropicstream
// +build !anthropicstream

// Package anthropicbridge adapts Anthropic Messages streaming responses into
// the neutral run event stream. The bridge is fenced behind the
// anthropicstream build tag because the SDK's streaming surface moves between
// minor versions; this stub keeps the package resolvable without the tag.
package anthropicbridge

const _adapterDisabled = true
