package content

import "strings"

type Privacy string

const (
	PrivacyPublic   Privacy = "public"
	PrivacyPrivate  Privacy = "private"
	PrivacyUnlisted Privacy = "unlisted"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// ParsePrivacy normalizes the value and falls back to the default when empty.
// Unknown values are rejected, not coerced.
func ParsePrivacy(value string) (Privacy, bool) {
	v := Privacy(strings.ToLower(strings.TrimSpace(value)))
	switch v {
	case "":
		return PrivacyPublic, true
	case PrivacyPublic, PrivacyPrivate, PrivacyUnlisted:
		return v, true
	default:
		return "", false
	}
}

func ParseStatus(value string) (Status, bool) {
	v := Status(strings.ToLower(strings.TrimSpace(value)))
	switch v {
	case "":
		return StatusPublished, true
	case StatusDraft, StatusPublished, StatusArchived:
		return v, true
	default:
		return "", false
	}
}
