//go:build !adapters_sqs
// +build !adapters_sqs

// Package sqssource provides an SQS-backed run event source.
// This stub is built when the adapters_sqs build tag is not enabled so that
// editors and linters can still recognize the package and avoid "no packages
// found for open file" errors.
package sqssource

const _adapterDisabled = true
