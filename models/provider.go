package models

// ProviderSnapshot is the cached provider profile held alongside the session.
// It replaces the browser-persisted provider blob of the legacy portal; the
// booking service remains the source of truth.
type ProviderSnapshot struct {
	ID           string `json:"id"`
	ProfileName  string `json:"profileName"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	ProviderType string `json:"providerType,omitempty"`
	LocationName string `json:"locationName,omitempty"`
}
