// Package message sends and receives encrypted chat messages.
//
// Each send or receive holds a per-session gate from the sequence-number
// lookup until the key is stored, so two operations on the same
// conversation never interleave. Inbound keys are committed only after the
// message decrypts, outbound keys only after the relay accepts the message.
package message
