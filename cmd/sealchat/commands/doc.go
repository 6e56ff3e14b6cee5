// Package commands defines the sealchat CLI and wires dependencies for subcommands.
//
// Commands
//
//   - init         Create the local identity
//   - fingerprint  Print the identity fingerprint
//   - register     Rotate the signed pre-key and publish the bundle to a relay
//   - send         Encrypt and send a message
//   - recv         Fetch and decrypt queued messages
//   - listen       Poll for messages until interrupted
//   - history      Show a whole conversation
//   - session      Show key and ratchet state for a conversation
//
// # Implementation
//
// The root command reads config.yaml from the home directory, applies
// command-line flags on top, sets up console logging and builds the
// dependency graph (stores, services, relay client) before any subcommand
// runs.
package commands
