package model

import "time"

// Notification display types, matching the severity styling used by the
// front-end toast/badge components.
const (
	NotifInfo    = "info"
	NotifSuccess = "success"
	NotifWarning = "warning"
	NotifError   = "error"
)

// Notification is an in-app message addressed to a single user.  Titre and
// Message hold the already-rendered text; TemplateID keeps a pointer back to
// the template the text came from, when one was used.  Data carries an
// optional structured payload (raw JSON) the client can use for deep links.
type Notification struct {
	ID         uint64     // notifications.id
	UserID     uint64     // notifications.user_id
	TemplateID *uint64    // notifications.template_id (nullable)
	Titre      string     // notifications.titre
	Message    string     // notifications.message
	Type       string     // notifications.type
	Data       []byte     // notifications.data (nullable JSON)
	IsRead     bool       // notifications.is_read
	SentAt     time.Time  // notifications.sent_at
	ReadAt     *time.Time // notifications.read_at (nullable)
}

// NotificationTemplate is a named message skeleton with {{placeholder}}
// markers in Titre and Message.  VariablesRaw is the variables column as
// stored: historically it has held a JSON array, a single-quoted
// pseudo-JSON string, or a bare comma-separated list, so it must go through
// notification.ParseVariables before use and the raw form must not travel
// further than the loader.
type NotificationTemplate struct {
	ID           uint64    // notification_templates.id
	Nom          string    // notification_templates.nom
	Titre        string    // notification_templates.titre
	Message      string    // notification_templates.message
	Type         string    // notification_templates.type
	VariablesRaw string    // notification_templates.variables (loosely typed)
	CreatedAt    time.Time // notification_templates.created_at
	UpdatedAt    time.Time // notification_templates.updated_at
}
