package models

import (
	"encoding/json"
	"time"
)

// ContactFormData is the user-editable part of a contact.
type ContactFormData struct {
	Name     string   `json:"name"`
	Company  string   `json:"company"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Position string   `json:"position"`
	Website  string   `json:"website"`
	Address  string   `json:"address"`
	Notes    string   `json:"notes"`
	Tags     []string `json:"tags"`
}

// Contact is a stored business card. ID and CreatedAt never change after
// creation.
type Contact struct {
	ID string
	ContactFormData
	ImageRef   string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	ReminderAt *time.Time
}

// contactJSON is the persisted shape. Times are Unix milliseconds.
type contactJSON struct {
	ID string `json:"id"`
	ContactFormData
	ImageURI     string `json:"imageUri,omitempty"`
	CreatedAt    int64  `json:"createdAt"`
	UpdatedAt    *int64 `json:"updatedAt,omitempty"`
	ReminderDate *int64 `json:"reminderDate,omitempty"`
}

func millis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func fromMillis(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms)
	return &t
}

func (c Contact) MarshalJSON() ([]byte, error) {
	return json.Marshal(contactJSON{
		ID:              c.ID,
		ContactFormData: c.ContactFormData,
		ImageURI:        c.ImageRef,
		CreatedAt:       c.CreatedAt.UnixMilli(),
		UpdatedAt:       millis(c.UpdatedAt),
		ReminderDate:    millis(c.ReminderAt),
	})
}

func (c *Contact) UnmarshalJSON(b []byte) error {
	var w contactJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*c = Contact{
		ID:              w.ID,
		ContactFormData: w.ContactFormData,
		ImageRef:        w.ImageURI,
		CreatedAt:       time.UnixMilli(w.CreatedAt),
		UpdatedAt:       fromMillis(w.UpdatedAt),
		ReminderAt:      fromMillis(w.ReminderDate),
	}
	return nil
}

// Clone returns a deep copy, so callers cannot mutate stored contacts.
func (c Contact) Clone() Contact {
	out := c
	if c.Tags != nil {
		out.Tags = append([]string(nil), c.Tags...)
	}
	if c.UpdatedAt != nil {
		t := *c.UpdatedAt
		out.UpdatedAt = &t
	}
	if c.ReminderAt != nil {
		t := *c.ReminderAt
		out.ReminderAt = &t
	}
	return out
}
