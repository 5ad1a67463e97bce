package report

import (
	"encoding/json"
	"fmt"
)

// Config controls what a generated report emphasizes. Projects may store
// a partial JSON override that is merged over DefaultConfig section by
// section.
type Config struct {
	FocusAreas     map[string]bool `json:"focusAreas"`
	Metrics        map[string]bool `json:"metrics"`
	Preferences    Preferences     `json:"preferences"`
	CustomSections []CustomSection `json:"customSections,omitempty"`
	Alerts         Alerts          `json:"alerts"`
}

// Preferences are numeric caps and toggles for report rendering.
type Preferences struct {
	IncludeCharts            bool `json:"includeCharts"`
	MaxIssuesShown           int  `json:"maxIssuesShown"`
	MaxPRsShown              int  `json:"maxPRsShown"`
	HighlightNewContributors bool `json:"highlightNewContributors"`
	IncludeCodeSnippets      bool `json:"includeCodeSnippets"`
}

// CustomSection is an operator-defined report section.
type CustomSection struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords,omitempty"`
}

// Alerts holds keyword lists and thresholds the model is asked to watch.
type Alerts struct {
	CriticalIssueKeywords []string `json:"criticalIssueKeywords,omitempty"`
	SecurityKeywords      []string `json:"securityKeywords,omitempty"`
	PerformanceKeywords   []string `json:"performanceKeywords,omitempty"`
	MinResponseTime       int      `json:"minResponseTime,omitempty"` // hours
}

// DefaultConfig returns the system default report configuration.
func DefaultConfig() Config {
	return Config{
		FocusAreas: map[string]bool{
			"issues":        true,
			"pullRequests":  true,
			"discussions":   true,
			"security":      true,
			"performance":   true,
			"documentation": false,
		},
		Metrics: map[string]bool{
			"stars":               true,
			"forks":               true,
			"contributors":        true,
			"codeVelocity":        true,
			"communityEngagement": true,
		},
		Preferences: Preferences{
			IncludeCharts:            false,
			MaxIssuesShown:           50,
			MaxPRsShown:              30,
			HighlightNewContributors: true,
			IncludeCodeSnippets:      false,
		},
		Alerts: Alerts{
			CriticalIssueKeywords: []string{"critical", "urgent", "blocker", "security"},
			SecurityKeywords:      []string{"vulnerability", "exploit", "CVE"},
			PerformanceKeywords:   []string{"slow", "performance", "memory leak", "crash"},
			MinResponseTime:       24,
		},
	}
}

// configPatch mirrors Config with presence-aware fields so a partial
// override can be told apart from zero values.
type configPatch struct {
	FocusAreas     map[string]bool   `json:"focusAreas"`
	Metrics        map[string]bool   `json:"metrics"`
	Preferences    *preferencesPatch `json:"preferences"`
	CustomSections []CustomSection   `json:"customSections"`
	Alerts         *alertsPatch      `json:"alerts"`
}

type preferencesPatch struct {
	IncludeCharts            *bool `json:"includeCharts"`
	MaxIssuesShown           *int  `json:"maxIssuesShown"`
	MaxPRsShown              *int  `json:"maxPRsShown"`
	HighlightNewContributors *bool `json:"highlightNewContributors"`
	IncludeCodeSnippets      *bool `json:"includeCodeSnippets"`
}

type alertsPatch struct {
	CriticalIssueKeywords []string `json:"criticalIssueKeywords"`
	SecurityKeywords      []string `json:"securityKeywords"`
	PerformanceKeywords   []string `json:"performanceKeywords"`
	MinResponseTime       *int     `json:"minResponseTime"`
}

// MergeConfig shallow-merges a project's JSON override over the defaults,
// section by section. Keys present in the override win; default keys
// absent from the override are retained. CustomSections are replaced
// wholly when present. An empty or unparseable override returns the
// defaults unchanged; the returned error reports the parse failure so the
// caller can log it, but it is never fatal.
func MergeConfig(override string, defaults Config) (Config, error) {
	if override == "" {
		return defaults, nil
	}

	var patch configPatch
	if err := json.Unmarshal([]byte(override), &patch); err != nil {
		return defaults, fmt.Errorf("parsing report config override: %w", err)
	}

	merged := defaults
	merged.FocusAreas = mergeBoolMap(defaults.FocusAreas, patch.FocusAreas)
	merged.Metrics = mergeBoolMap(defaults.Metrics, patch.Metrics)

	if p := patch.Preferences; p != nil {
		if p.IncludeCharts != nil {
			merged.Preferences.IncludeCharts = *p.IncludeCharts
		}
		if p.MaxIssuesShown != nil {
			merged.Preferences.MaxIssuesShown = *p.MaxIssuesShown
		}
		if p.MaxPRsShown != nil {
			merged.Preferences.MaxPRsShown = *p.MaxPRsShown
		}
		if p.HighlightNewContributors != nil {
			merged.Preferences.HighlightNewContributors = *p.HighlightNewContributors
		}
		if p.IncludeCodeSnippets != nil {
			merged.Preferences.IncludeCodeSnippets = *p.IncludeCodeSnippets
		}
	}

	if patch.CustomSections != nil {
		merged.CustomSections = patch.CustomSections
	}

	if a := patch.Alerts; a != nil {
		if a.CriticalIssueKeywords != nil {
			merged.Alerts.CriticalIssueKeywords = a.CriticalIssueKeywords
		}
		if a.SecurityKeywords != nil {
			merged.Alerts.SecurityKeywords = a.SecurityKeywords
		}
		if a.PerformanceKeywords != nil {
			merged.Alerts.PerformanceKeywords = a.PerformanceKeywords
		}
		if a.MinResponseTime != nil {
			merged.Alerts.MinResponseTime = *a.MinResponseTime
		}
	}

	return merged, nil
}

// mergeBoolMap overlays override keys on a copy of the defaults.
func mergeBoolMap(defaults, override map[string]bool) map[string]bool {
	merged := make(map[string]bool, len(defaults)+len(override))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}
