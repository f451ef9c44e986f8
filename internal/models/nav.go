package models

// NavEntry is one link in the shell navigation.
type NavEntry struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

// NavEntries derives the role-conditional navigation. Home, My complaints and
// New complaint are client-only; Track complaint is admin-only; signed-out
// users only see the sign-in entry.
func NavEntries(signedIn, isAdmin bool) []NavEntry {
	if !signedIn {
		return []NavEntry{{Path: "/auth", Label: "Sign in"}}
	}

	if isAdmin {
		return []NavEntry{{Path: "/track", Label: "Track complaint"}}
	}

	return []NavEntry{
		{Path: "/", Label: "Home"},
		{Path: "/my-complaints", Label: "My complaints"},
		{Path: "/create", Label: "New complaint"},
	}
}

// SessionIndicator summarises the session for the shell's token panel.
type SessionIndicator struct {
	SignedIn          bool   `json:"signed_in"`
	DisplayIdentifier string `json:"display_identifier,omitempty"`
}

// ShellView is the composed shell/navigation view model.
type ShellView struct {
	Nav     []NavEntry       `json:"nav"`
	Session SessionIndicator `json:"session"`
}
