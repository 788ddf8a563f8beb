package domain

// RemoteCard is the part of a created card the reporter cares about.
type RemoteCard struct {
	ID string `json:"id"`
}

// Credentials authenticate requests against the board API.
type Credentials struct {
	APIKey string
	Token  string
}

// Complete reports whether both the key and the token are set.
func (c Credentials) Complete() bool {
	return c.APIKey != "" && c.Token != ""
}
