package domain

// Profile is the durable, user-owned row of the `users` table, keyed
// one-to-one by the owning identity.
type Profile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	About         string `json:"about"`
	PostalCode    string `json:"postal_code"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	Region        string `json:"region"`
	PhotoURL      string `json:"photo_url"`
	CoverPhotoURL string `json:"cover_photo_url"`
}

// SuggestedProfile is an ephemeral profile sourced from the random-user
// generator API. The nested structure mirrors the wire format.
type SuggestedProfile struct {
	Login struct {
		UUID     string `json:"uuid"`
		Username string `json:"username"`
	} `json:"login"`
	Name struct {
		First string `json:"first"`
		Last  string `json:"last"`
	} `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Medium string `json:"medium"`
		Large  string `json:"large"`
	} `json:"picture"`
	Location struct {
		City    string `json:"city"`
		Country string `json:"country"`
	} `json:"location"`
}

// ProfileSource discriminates the two profile variants behind a common
// display projection.
type ProfileSource string

const (
	ProfileSourceRegistered ProfileSource = "registered"
	ProfileSourceSuggested  ProfileSource = "suggested"
)

// DisplayProfile is the view shape both variants project into. Resolved
// once at load time; views never branch on the raw variant again.
type DisplayProfile struct {
	Source        ProfileSource
	ID            string
	Username      string
	FirstName     string
	LastName      string
	About         string
	City          string
	Region        string
	PhotoURL      string
	CoverPhotoURL string
}

// Display projects a registered profile into the display shape.
func (p *Profile) Display() DisplayProfile {
	return DisplayProfile{
		Source:        ProfileSourceRegistered,
		ID:            p.ID,
		Username:      p.Username,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		About:         p.About,
		City:          p.City,
		Region:        p.Region,
		PhotoURL:      p.PhotoURL,
		CoverPhotoURL: p.CoverPhotoURL,
	}
}

// Display projects a suggested profile into the display shape.
func (s *SuggestedProfile) Display() DisplayProfile {
	photo := s.Picture.Large
	if photo == "" {
		photo = s.Picture.Medium
	}
	return DisplayProfile{
		Source:    ProfileSourceSuggested,
		ID:        s.Login.UUID,
		Username:  s.Login.Username,
		FirstName: s.Name.First,
		LastName:  s.Name.Last,
		About:     "Perfil gerado automaticamente pela API RandomUser.",
		City:      s.Location.City,
		Region:    s.Location.Country,
		PhotoURL:  photo,
	}
}
