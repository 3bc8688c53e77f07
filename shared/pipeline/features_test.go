package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeFeatureTags_PreservesFreeFormTags(t *testing.T) {
	existing := []string{"faith-based", "inventory", "west-side"}
	merged := MergeFeatureTags(existing, []string{"invites"})

	assert.Equal(t, []string{"faith-based", "west-side", "invites"}, merged)
}

func TestMergeFeatureTags_EmptySelectionClearsFeatures(t *testing.T) {
	existing := []string{"inventory", "appointments", "grant-funded"}
	merged := MergeFeatureTags(existing, nil)

	assert.Equal(t, []string{"grant-funded"}, merged)
}

func TestMergeFeatureTags_CanonicalFeatureOrder(t *testing.T) {
	// Selection order never matters; recognized keys come out in display order
	merged := MergeFeatureTags(nil, []string{"case_notes", "appointments", "inventory"})
	assert.Equal(t, []string{"appointments", "inventory", "case_notes"}, merged)

	reordered := MergeFeatureTags(nil, []string{"inventory", "case_notes", "appointments"})
	assert.Equal(t, merged, reordered)
}

func TestMergeFeatureTags_SetSemantics(t *testing.T) {
	existing := []string{"pantry", "pantry", "inventory"}
	merged := MergeFeatureTags(existing, []string{"inventory", "inventory"})

	assert.Equal(t, []string{"pantry", "inventory"}, merged)
}

func TestMergeFeatureTags_IgnoresUnknownSelections(t *testing.T) {
	merged := MergeFeatureTags([]string{"legacy"}, []string{"not_a_feature", "invites"})
	assert.Equal(t, []string{"legacy", "invites"}, merged)
}

func TestMergeFeatureTags_DoesNotMutateInputs(t *testing.T) {
	existing := []string{"a", "inventory"}
	selected := []string{"invites"}
	MergeFeatureTags(existing, selected)

	assert.Equal(t, []string{"a", "inventory"}, existing)
	assert.Equal(t, []string{"invites"}, selected)
}

func TestHasFeature(t *testing.T) {
	tags := []string{"pantry", "inventory"}
	assert.True(t, HasFeature(tags, FeatureInventory))
	assert.False(t, HasFeature(tags, FeatureInvites))
	assert.False(t, HasFeature(nil, FeatureInventory))
}
