// Package updates implements the whitelist filter shared by every partial
// update endpoint. The set of mutable column names for an entity is declared
// once in code; a request can choose values for those columns but can never
// widen the set.
package updates

import "errors"

// ErrNoUpdates is returned when a requested update touches no whitelisted
// field. Callers must not perform any write in that case.
var ErrNoUpdates = errors.New("no updates provided")

// Whitelist is an ordered set of column names eligible for partial update.
type Whitelist []string

// UserFields are the User columns a moderation update may change.
var UserFields = Whitelist{"is_banned", "is_muted", "is_admin", "role", "status", "avatar_url"}

// FactionFields are the Faction columns a configuration update may change.
var FactionFields = Whitelist{"name", "type", "is_open", "general_username", "description"}

// Filter intersects the requested field map with the whitelist. Iteration is
// over the whitelist, never over the request, so the returned keys are always
// literal members of the declared set. Values pass through untouched. An
// empty intersection returns ErrNoUpdates.
func (w Whitelist) Filter(requested map[string]interface{}) (map[string]interface{}, error) {
	filtered := make(map[string]interface{}, len(w))
	for _, field := range w {
		if value, ok := requested[field]; ok {
			filtered[field] = value
		}
	}
	if len(filtered) == 0 {
		return nil, ErrNoUpdates
	}
	return filtered, nil
}
