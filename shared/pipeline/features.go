package pipeline

// Recognized feature keys. These tags on an organization enable portal
// features; any other tag is free-form and must survive a merge untouched.
const (
	FeatureAppointments   = "appointments"
	FeatureInventory      = "inventory"
	FeatureWebsiteContent = "website_content"
	FeatureInvites        = "invites"
	FeatureCaseNotes      = "case_notes"
)

// RecognizedFeatureKeys is the closed feature key set, in display order
var RecognizedFeatureKeys = []string{
	FeatureAppointments,
	FeatureInventory,
	FeatureWebsiteContent,
	FeatureInvites,
	FeatureCaseNotes,
}

// MergeFeatureTags merges a checkbox selection of feature keys into an
// existing tag collection. Unrecognized tags pass through, selected keys are
// added, and recognized keys missing from the selection are removed. Pure
// function with set semantics: no duplicates, deterministic output.
func MergeFeatureTags(existing, selected []string) []string {
	recognized := make(map[string]bool, len(RecognizedFeatureKeys))
	for _, key := range RecognizedFeatureKeys {
		recognized[key] = true
	}

	chosen := make(map[string]bool, len(selected))
	for _, key := range selected {
		if recognized[key] {
			chosen[key] = true
		}
	}

	out := make([]string, 0, len(existing)+len(chosen))
	seen := make(map[string]bool, len(existing)+len(chosen))

	// Free-form tags keep their original order
	for _, tag := range existing {
		if recognized[tag] || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}

	// Feature keys follow in canonical order
	for _, key := range RecognizedFeatureKeys {
		if chosen[key] && !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}

	return out
}

// HasFeature reports whether a tag collection enables a feature key
func HasFeature(tags []string, key string) bool {
	for _, tag := range tags {
		if tag == key {
			return true
		}
	}
	return false
}
