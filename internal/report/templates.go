package report

import "strings"

// TemplateVar is one (placeholder, value) substitution pair. Placeholders
// are brace-wrapped whole tokens, e.g. {projectName}.
type TemplateVar struct {
	Name  string
	Value string
}

// ApplyTemplate substitutes every occurrence of each placeholder in a
// single pass over the fixed ordered variable list. Substitution is
// literal and case-sensitive; no escaping is applied.
func ApplyTemplate(tmpl string, vars []TemplateVar) string {
	out := tmpl
	for _, v := range vars {
		out = strings.ReplaceAll(out, "{"+v.Name+"}", v.Value)
	}
	return out
}

// reportInstructions is the fixed instructional block of the detailed
// prompt. A stored prompt template (setting key REPORT_PROMPT_TEMPLATE)
// may replace the whole detailed prompt instead; see BuildPrompt.
const reportInstructions = `Please provide a structured report with the following sections:

1. **Executive Summary** (3-4 sentences)
   - Overall project health and activity level
   - Key metrics and their trends
   - Most significant developments

2. **Trend Analysis**
   - Compare current activity with historical patterns
   - Identify acceleration or deceleration in different areas
   - Highlight any anomalies or significant changes

3. **Issue Clustering & Analysis**
   - Group similar issues into themes (e.g., "Performance", "UI/UX", "Security", "Documentation")
   - For each cluster, provide:
     - Number of issues
     - Severity assessment (Critical/High/Medium/Low)
     - Common root causes if identifiable
     - Estimated impact on users

4. **Development Velocity**
   - PR merge rate and time to merge
   - Code review activity
   - Key contributors and their focus areas
   - Technical debt indicators

5. **Community Health Metrics**
   - Response time to issues
   - Engagement rate (comments, reactions)
   - New vs returning contributors
   - Geographic/timezone distribution if apparent

6. **Risk Assessment**
   - Critical unresolved issues
   - Security concerns
   - Maintainer burnout indicators
   - Technical debt accumulation

7. **Recommendations** (Prioritized)
   - Immediate actions (next 1-3 days)
   - Short-term improvements (next week)
   - Strategic considerations (next month)

8. **Notable Achievements**
   - Resolved critical issues
   - Successful feature launches
   - Community milestones

Use data-driven insights and avoid generic statements. Include specific issue numbers, PR numbers, and contributor names where relevant. Format with clear markdown, use tables for metrics where appropriate, and highlight critical items with bold or emoji indicators (🔴 Critical, 🟡 Warning, 🟢 Good).`

// summaryInstructions is the fixed instructional block of the compact
// executive-summary prompt.
const summaryInstructions = `Provide a brief report (max 500 words) with ONLY these sections:

1. **Project Status** (1-2 sentences)
   - Overall health indicator (🟢 Healthy, 🟡 Needs Attention, 🔴 Critical)
   - Key metric highlights

2. **Top 3 Priorities**
   - Most critical issues or decisions needed
   - Use bullet points with specific issue/PR numbers

3. **Key Metrics**
   - Activity trends (↑ ↓ →)
   - Community engagement level
   - Development velocity

4. **Action Required** (if any)
   - Immediate steps needed
   - Critical blockers

Keep it executive-friendly, data-driven, and actionable. Focus on what matters most.`

// defaultSummaryTemplate wraps generated report content for the summary
// sub-call. Overridable via the SUMMARY_PROMPT_TEMPLATE setting; {content}
// is substituted per ApplyTemplate.
const defaultSummaryTemplate = `Summarize the following GitHub project report in 2-3 sentences, highlighting the most important points:

{content}

Summary:`
