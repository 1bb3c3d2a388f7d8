package model

import "time"

// Push token device types.
const (
	DeviceAndroid = "android"
	DeviceIOS     = "ios"
	DeviceWeb     = "web"
)

// IsValidDeviceType reports whether t is a supported device type.
func IsValidDeviceType(t string) bool {
	return t == DeviceAndroid || t == DeviceIOS || t == DeviceWeb
}

// PushToken registers a device for push delivery.  Dispatch to a real push
// provider is not wired up yet; the notification consumer only logs the
// deliveries it would perform against the active tokens.
type PushToken struct {
	ID         uint64    // push_tokens.id
	UserID     uint64    // push_tokens.user_id
	Token      string    // push_tokens.token
	DeviceType string    // push_tokens.device_type
	IsActive   bool      // push_tokens.is_active
	CreatedAt  time.Time // push_tokens.created_at
	UpdatedAt  time.Time // push_tokens.updated_at
}
