package interfaces

import (
	"context"

	domaintypes "sealchat/internal/domain/types"
)

// Transport is how we talk to the central relay server, all with context.
//
// The relay is also the sequence authority: it numbers messages per
// conversation starting at 0.
type Transport interface {
	RegisterPreKeyBundle(ctx context.Context, bundle domaintypes.PreKeyBundle) error
	FetchPreKeyBundle(
		ctx context.Context,
		username domaintypes.Username,
	) (domaintypes.PreKeyBundle, error)

	// LatestMessageNumber returns the highest number used between a and b.
	// ok is false when the conversation is empty.
	LatestMessageNumber(
		ctx context.Context,
		a, b domaintypes.Username,
	) (n domaintypes.MessageNumber, ok bool, err error)
	HasAnyMessages(ctx context.Context, a, b domaintypes.Username) (bool, error)

	SendMessage(ctx context.Context, message domaintypes.Message) error
	FetchMessages(
		ctx context.Context,
		username domaintypes.Username,
		limit int,
	) ([]domaintypes.Message, error)
	AckMessages(ctx context.Context, username domaintypes.Username, count int) error
	FetchHistory(ctx context.Context, a, b domaintypes.Username) ([]domaintypes.Message, error)
}
