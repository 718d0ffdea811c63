package models

// UserProfile is the document kept in the users collection.
type UserProfile struct {
	UID         string             `json:"uid"`
	DisplayName string             `json:"displayName"`
	Email       string             `json:"email"`
	PhotoURL    string             `json:"photoURL"`
	Bio         string             `json:"bio"`
	Location    string             `json:"location"`
	Preferences ProfilePreferences `json:"preferences"`
	CreatedAt   Timestamp          `json:"createdAt"`
	UpdatedAt   Timestamp          `json:"updatedAt"`
}

// ProfilePreferences are the optional drink preferences on the profile page.
type ProfilePreferences struct {
	FavoriteDrink  string `json:"favoriteDrink,omitempty"`
	PreferredRoast string `json:"preferredRoast,omitempty"`
}

// OptionalText tracks tri-state semantics for profile text updates (RFC 7396 PATCH).
// This is transport-agnostic (no JSON tags) - handler maps from httputil.OptionalString.
//   - Present=false: field absent from request (don't change)
//   - Present=true, Value=nil: field is null (clear)
//   - Present=true, Value=&"text": field has value
type OptionalText struct {
	Present bool
	Value   *string
}

// Apply returns the updated value of current.
func (o OptionalText) Apply(current string) string {
	if !o.Present {
		return current
	}
	if o.Value == nil {
		return ""
	}
	return *o.Value
}

// UpdateProfileRequest is a partial profile update.
type UpdateProfileRequest struct {
	DisplayName *string
	Bio         OptionalText
	Location    OptionalText
	Preferences *ProfilePreferences
}
