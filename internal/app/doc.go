// Package app loads configuration and wires application dependencies for
// the CLI.
//
// Config comes from an optional config.yaml in the home directory, with
// command-line flags applied on top. NewWire builds the stores, the key
// ledger backend, the relay transport and the services, and SessionContext
// unlocks the local keys for a protocol call.
package app
