// Package main runs the in-memory HTTP relay used by sealchat. It stores
// published prekey bundles, queues encrypted messages for recipients until
// they fetch them, and numbers the messages of every conversation.
//
// HTTP API
//
//	POST /register
//	    Store a user's PreKeyBundle (identity key, signing key, signed prekey + sig).
//
//	GET /prekey/{username}
//	    Return the latest published PreKeyBundle for {username}.
//
//	POST /msg/{user}
//	    Enqueue a Message destined to {user}. The message number must be one
//	    past the conversation's latest, otherwise the relay answers 409. The
//	    server assigns an ID and, if Timestamp is zero, the current Unix time.
//
//	GET /msg/{user}?limit=N
//	    Return up to N queued messages for {user}. If limit is absent or
//	    greater than the queue length, all queued messages are returned.
//
//	POST /msg/{user}/ack { "count": N }
//	    Drop the first N queued messages for {user}. If N exceeds the queue
//	    length, the queue is cleared.
//
//	GET /conversations/{a}/{b}
//	    Return every message exchanged between {a} and {b} in order.
//
//	GET /conversations/{a}/{b}/latest
//	    Return {"message_number": N, "exists": bool}.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - Responses are JSON. Non-2xx statuses carry a short error message.
//   - Every request is access-logged with method, URL, remote address,
//     status, size and duration.
//   - The default listen address is :8080.
//
// The relay never sees plaintext or private keys; it only stores ciphertext
// and public bundles.
package main
