package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeConfig_EmptyOverrideReturnsDefaults(t *testing.T) {
	merged, err := MergeConfig("", DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), merged)
}

func TestMergeConfig_PartialOverride(t *testing.T) {
	override := `{
		"focusAreas": {"documentation": true},
		"preferences": {"maxIssuesShown": 5}
	}`
	merged, err := MergeConfig(override, DefaultConfig())
	require.NoError(t, err)

	// Overridden keys win.
	assert.True(t, merged.FocusAreas["documentation"])
	assert.Equal(t, 5, merged.Preferences.MaxIssuesShown)

	// Untouched keys keep their defaults.
	assert.True(t, merged.FocusAreas["issues"])
	assert.True(t, merged.FocusAreas["security"])
	assert.Equal(t, 30, merged.Preferences.MaxPRsShown)
	assert.True(t, merged.Preferences.HighlightNewContributors)
	assert.Equal(t, DefaultConfig().Alerts, merged.Alerts)
}

func TestMergeConfig_ZeroValuesAreRespected(t *testing.T) {
	// An explicit false/0 in the override must not be mistaken for
	// "absent" and replaced by the default.
	override := `{
		"focusAreas": {"issues": false},
		"preferences": {"highlightNewContributors": false, "maxPRsShown": 0},
		"alerts": {"minResponseTime": 0}
	}`
	merged, err := MergeConfig(override, DefaultConfig())
	require.NoError(t, err)

	assert.False(t, merged.FocusAreas["issues"])
	assert.False(t, merged.Preferences.HighlightNewContributors)
	assert.Equal(t, 0, merged.Preferences.MaxPRsShown)
	assert.Equal(t, 0, merged.Alerts.MinResponseTime)
}

func TestMergeConfig_UnparseableFallsBackToDefaults(t *testing.T) {
	merged, err := MergeConfig("{not json", DefaultConfig())
	assert.Error(t, err)
	assert.Equal(t, DefaultConfig(), merged)
}

func TestMergeConfig_Idempotent(t *testing.T) {
	override := `{"preferences": {"maxIssuesShown": 10}, "metrics": {"stars": false}}`

	once, err := MergeConfig(override, DefaultConfig())
	require.NoError(t, err)
	twice, err := MergeConfig(override, once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestMergeConfig_CustomSectionsReplacedWholly(t *testing.T) {
	defaults := DefaultConfig()
	defaults.CustomSections = []CustomSection{
		{Title: "Old A"}, {Title: "Old B"},
	}

	override := `{"customSections": [{"title": "Breaking Changes", "description": "API breaks", "keywords": ["BREAKING"]}]}`
	merged, err := MergeConfig(override, defaults)
	require.NoError(t, err)

	require.Len(t, merged.CustomSections, 1)
	assert.Equal(t, "Breaking Changes", merged.CustomSections[0].Title)
	assert.Equal(t, []string{"BREAKING"}, merged.CustomSections[0].Keywords)

	// Absent customSections key leaves the existing list alone.
	merged, err = MergeConfig(`{"metrics": {"forks": false}}`, defaults)
	require.NoError(t, err)
	assert.Len(t, merged.CustomSections, 2)
}

func TestMergeConfig_AlertKeywordListsReplaceNotAppend(t *testing.T) {
	override := `{"alerts": {"securityKeywords": ["CVE-2026"]}}`
	merged, err := MergeConfig(override, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"CVE-2026"}, merged.Alerts.SecurityKeywords)
	// The other lists keep their defaults.
	assert.Equal(t, DefaultConfig().Alerts.CriticalIssueKeywords, merged.Alerts.CriticalIssueKeywords)
	assert.Equal(t, 24, merged.Alerts.MinResponseTime)
}
