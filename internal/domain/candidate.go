package domain

// AddressCandidate is one geocoding search result offered to the user.
// Candidates only live for the duration of a single query.
type AddressCandidate struct {
	DisplayText string      `json:"display_text"`
	Coordinates Coordinates `json:"coordinates"`
}
