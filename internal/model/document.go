package model

// Settings are process-wide preferences, persisted with the document.
type Settings struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
}

func DefaultSettings() Settings {
	return Settings{Theme: "light", Notifications: true}
}

// Document is the whole persisted state: every write goes through the store
// as one serialized document, which is the unit of atomicity. CurrentUser is
// the active session's username, empty when logged out.
type Document struct {
	Users       map[string]User `json:"users"`
	CurrentUser string          `json:"currentUser"`
	Tasks       []Task          `json:"tasks"`
	Badges      []Badge         `json:"badges"`
	Settings    Settings        `json:"settings"`
}

// EmptyDocument is the canonical initial state, also used to recover from a
// corrupted persisted payload.
func EmptyDocument() Document {
	return Document{
		Users:    make(map[string]User),
		Tasks:    make([]Task, 0),
		Badges:   make([]Badge, 0),
		Settings: DefaultSettings(),
	}
}

// Normalize backfills nil collections after deserialization so callers can
// index and append without nil checks.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = make(map[string]User)
	}
	if d.Tasks == nil {
		d.Tasks = make([]Task, 0)
	}
	if d.Badges == nil {
		d.Badges = make([]Badge, 0)
	}
	if d.Settings.Theme == "" {
		d.Settings.Theme = DefaultSettings().Theme
	}
}
