// Package user holds the read-only user context supplied by an external
// identity collaborator.
package user

// Friend is one entry in the user's friend list.
type Friend struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Context describes the visiting user as resolved by a provider. The core
// only reads it; it is never mutated or persisted.
type Context struct {
	AccountID   string   `json:"account_id"`
	DisplayName string   `json:"display_name"`
	Balance     int      `json:"vbucks"`
	Friends     []Friend `json:"friends"`
}
