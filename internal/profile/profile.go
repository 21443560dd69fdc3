// Package profile encodes and parses the toy "k=v&k=v" user profile.
package profile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIllegalCharacter is returned when an email contains '&' or '='.
var ErrIllegalCharacter = errors.New("profile: illegal character in email")

// For builds "email=<email>&uid=10&role=user".
func For(email string) (string, error) {
	if i := strings.IndexAny(email, "&="); i >= 0 {
		return "", fmt.Errorf("%w: %q", ErrIllegalCharacter, email[i])
	}
	p := Profile{{"email", email}, {"uid", "10"}, {"role", "user"}}
	return p.String(), nil
}

// Field is one key/value pair of a parsed profile.
type Field struct {
	Key   string
	Value string
}

// Profile keeps fields in their encoded order.
type Profile []Field

// Parse splits a profile string. Pairs without '=' get an empty value.
func Parse(s string) Profile {
	var p Profile
	for _, kv := range strings.Split(s, "&") {
		if kv == "" {
			continue
		}
		k, v, _ := strings.Cut(kv, "=")
		p = append(p, Field{Key: k, Value: v})
	}
	return p
}

// Get returns the first value stored under key.
func (p Profile) Get(key string) (string, bool) {
	for _, f := range p {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

func (p Profile) String() string {
	parts := make([]string, len(p))
	for i, f := range p {
		parts[i] = f.Key + "=" + f.Value
	}
	return strings.Join(parts, "&")
}
