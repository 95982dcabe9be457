// Package auth provides bearer-token authentication.
package auth

// AccessToken is an opaque bearer string. It carries no claims: the token
// store is the sole source of truth for the mapping to a user.
type AccessToken string

// String implements fmt.Stringer.
func (t AccessToken) String() string {
	return string(t)
}
