// Package testutil provides shared constants for tests across go-packsource.
package testutil

const (
	// TestSourceURL is the canonical package-source endpoint used in tests.
	TestSourceURL = "https://nuget.example.com/v3/index.json"

	// TestUsername and TestPassword are the embedded source credentials used
	// in configuration and handler tests.
	TestUsername = "feed-user"
	TestPassword = "feed-secret"

	// TestNegotiatedUser and TestNegotiatedPassword are the credentials a
	// fake negotiator hands out.
	TestNegotiatedUser     = "prompted-user"
	TestNegotiatedPassword = "prompted-secret"
)
