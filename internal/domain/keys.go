package domain

import "context"

type CtxKey string

const (
	KeyIdentity  CtxKey = "Identity"
	KeyRequestID CtxKey = "RequestID"
)

// Identity is the authenticated caller resolved by the access gate.
type Identity struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanModify reports whether the caller may change a record owned by ownerID.
func (i Identity) CanModify(ownerID string) bool {
	return i.IsAdmin() || (i.UserID != "" && i.UserID == ownerID)
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, KeyIdentity, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(KeyIdentity).(Identity)
	return id, ok && id.UserID != ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyRequestID, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(KeyRequestID).(string)
	return id
}
