// Package relay implements the store-and-forward relay and a client for it.
//
// Hub is the in-process relay. It keeps prekey bundles, a queue per
// recipient and the ordered history of every conversation, and it assigns
// the per-conversation message numbers: a message is accepted only when its
// number is one past the conversation's latest.
//
// NewHandler serves a Hub over JSON/HTTP:
//
//	POST /register                       publish a prekey bundle
//	GET  /prekey/{username}              fetch a prekey bundle
//	POST /msg/{username}                 queue a message for username
//	GET  /msg/{username}?limit=N         list queued messages
//	POST /msg/{username}/ack             drop the first N queued messages
//	GET  /conversations/{a}/{b}          full conversation history
//	GET  /conversations/{a}/{b}/latest   latest message number
//
// HTTP is the matching domain.Transport client. Unknown users map to
// domain.ErrUnknownUser (404) and sequence conflicts to
// domain.ErrSequenceConflict (409).
package relay
