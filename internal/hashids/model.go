package hashids

// Identifiable is implemented by anything with an integer identity that
// should be exposed as a hashid. Types keyed by a field other than ID
// implement HashidKey themselves.
type Identifiable interface {
	HashidKey() int
}

// Model can be embedded to adopt the default "ID" identity.
type Model struct {
	// Omit in JSON to prevent exposing the primary key
	ID int `db:"id" json:"-"`
}

func (m Model) HashidKey() int {
	return m.ID
}

// PublicID returns the hashid of e. It is computed on every call so it
// always follows the current identity value.
func (h *Hashids) PublicID(e Identifiable) (string, error) {
	return h.Encode(e.HashidKey())
}

// MustPublicID is like PublicID but panics on a negative identity.
func (h *Hashids) MustPublicID(e Identifiable) string {
	id, err := h.PublicID(e)
	if err != nil {
		panic(err)
	}
	return id
}
