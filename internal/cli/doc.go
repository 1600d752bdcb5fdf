// Package cli implements the command-line interface for gradescope-sync.
//
// The cli package provides the Cobra-based entry point. There are no
// flags or subcommands: configuration comes entirely from the
// environment (Gradescope credentials, the optional base64 Google token,
// and the optional token-cache passphrase). It wires together the
// portal client, the calendar service, and the syncer, and prints the
// final created/updated/skipped summary.
package cli
