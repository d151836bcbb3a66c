// Package answer holds the backend payload the reply pipeline consumes.
package answer

// Match is one ranked search result returned by the backend.
// All fields are optional; an empty string means the field was absent.
type Match struct {
	Title       string
	Lede        string
	Description string
}

// Payload is the backend response: a direct answer plus supporting matches, best match first.
type Payload struct {
	Answer  string
	Matches []Match
}

// Top returns the best-ranked match, if any.
func (p Payload) Top() (Match, bool) {
	if len(p.Matches) == 0 {
		return Match{}, false
	}
	return p.Matches[0], true
}
