package validation

import (
	"strings"

	"github.com/mmynk/splitpocket/internal/apperr"
)

// Username trims a chosen username and rejects blank ones.
func Username(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.MissingField("username")
	}
	return name, nil
}

// GroupName trims a group name and rejects blank ones.
func GroupName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.MissingField("name")
	}
	return name, nil
}

// MemberIDs returns creatorID followed by the other ids, without blanks or
// duplicates, keeping first-seen order.
func MemberIDs(creatorID string, ids []string) []string {
	return UserIDs(append([]string{creatorID}, ids...))
}

// UserIDs trims ids and drops blanks and duplicates, keeping first-seen order.
func UserIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
