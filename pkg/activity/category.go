package activity

import "strings"

// Kind enumerates the activity categories the cleaning and aggregation
// stages branch on.
type Kind int

const (
	// KindNone marks a record without a type field.
	KindNone Kind = iota
	// KindSleep is night sleep.
	KindSleep
	// KindNap is any sleep that is not night sleep.
	KindNap
	// KindOther is any other activity (feeding, bath, ...).
	KindOther
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSleep:
		return "sleep"
	case KindNap:
		return "nap"
	case KindOther:
		return "other"
	default:
		return "none"
	}
}

// Category is the normalized value of a record's type field.
type Category struct {
	Kind Kind

	// Name is the normalized type string: "sleep", "nap", or the
	// lower-cased activity name for KindOther.
	Name string
}

// Sleep and Nap are the two sleep categories.
var (
	Sleep = Category{Kind: KindSleep, Name: "sleep"}
	Nap   = Category{Kind: KindNap, Name: "nap"}
)

// ParseCategory normalizes a raw type value. Values mentioning "sleep"
// become Sleep when they also mention "night" and Nap otherwise. A value
// that lower-cases to "nap" is Nap, and an empty value is the zero
// Category. Anything else is kept lower-cased as KindOther.
func ParseCategory(raw string) Category {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case v == "":
		return Category{}
	case strings.Contains(v, "sleep"):
		if strings.Contains(v, "night") {
			return Sleep
		}
		return Nap
	case v == Nap.Name:
		return Nap
	}
	return Category{Kind: KindOther, Name: v}
}

// String returns the normalized type name.
func (c Category) String() string {
	return c.Name
}

// IsSleep reports whether c is either sleep category.
func (c Category) IsSleep() bool {
	return c.Kind == KindSleep || c.Kind == KindNap
}

// MarshalText encodes the category as its name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.Name), nil
}

// UnmarshalText decodes a name previously produced by MarshalText.
func (c *Category) UnmarshalText(b []byte) error {
	if name := string(b); name == Sleep.Name {
		*c = Sleep
	} else {
		*c = ParseCategory(name)
	}
	return nil
}
