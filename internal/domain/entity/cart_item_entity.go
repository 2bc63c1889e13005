package entity

import "time"

// Reserved cart item keys. The server owns these; client values are dropped.
const (
	FieldID        = "_id"
	FieldUserID    = "userId"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// CartItem is a free-form document owned by exactly one user.
// Fields carries the client payload (title, isFav, ...) without the reserved keys.
type CartItem struct {
	ID        string
	UserID    string
	Fields    map[string]any
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// IsReservedField reports whether key is stamped by the server.
func IsReservedField(key string) bool {
	switch key {
	case FieldID, FieldUserID, FieldCreatedAt, FieldUpdatedAt:
		return true
	}
	return false
}

// SanitizeFields copies in without the reserved keys.
func SanitizeFields(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if IsReservedField(k) {
			continue
		}
		out[k] = v
	}
	return out
}

// Document flattens the item into the JSON shape served to clients.
func (i *CartItem) Document() map[string]any {
	doc := make(map[string]any, len(i.Fields)+4)
	for k, v := range i.Fields {
		doc[k] = v
	}
	doc[FieldID] = i.ID
	doc[FieldUserID] = i.UserID
	doc[FieldCreatedAt] = i.CreatedAt
	if i.UpdatedAt != nil {
		doc[FieldUpdatedAt] = *i.UpdatedAt
	}
	return doc
}
