package platform

import "context"

// Handlers receives decoded gateway events. Handlers must swallow
// per-event failures; a returned error stops the listener.
type Handlers struct {
	OnAuditLogEntry func(ctx context.Context, communityID int64, entry AuditLogEntry) error
	OnBanAdd        func(ctx context.Context, event BanEvent) error
	OnBanRemove     func(ctx context.Context, event BanEvent) error
	OnComponent     func(ctx context.Context, interaction ComponentInteraction) error
}

// Gateway is the platform event stream. The concrete client lives outside
// this module.
type Gateway interface {
	Listen(ctx context.Context, handlers Handlers) error
}

// Messenger is the outbound platform API surface this module depends on.
type Messenger interface {
	SendDM(ctx context.Context, userID int64, message Message) (MessageRef, error)
	PostMessage(ctx context.Context, channelID int64, message Message) (int64, error)
	GetMessage(ctx context.Context, channelID, messageID int64) (Message, error)
	EditMessage(ctx context.Context, channelID, messageID int64, message Message) error
	DeleteMessage(ctx context.Context, channelID, messageID int64) error
}
