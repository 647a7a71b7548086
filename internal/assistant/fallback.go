package assistant

import "strings"

// fallbackRule pairs trigger keywords with a canned reply. Rules are checked
// in order; the first keyword hit wins.
type fallbackRule struct {
	keywords []string
	reply    string
}

var fallbackRules = []fallbackRule{
	{
		keywords: []string{"status", "progress", "how far", "where are we"},
		reply:    "The project dashboard above shows current milestone progress. Each phase lists its deliverables; completed items are checked off as the team finishes them.",
	},
	{
		keywords: []string{"deadline", "date", "schedule", "when", "timeline"},
		reply:    "Planned start and end dates for each phase are shown on the timeline. If a milestone is marked delayed, the team will follow up with a revised schedule.",
	},
	{
		keywords: []string{"risk", "issue", "problem", "blocker"},
		reply:    "Open risks are tracked in the risks panel with their severity. Anything marked high severity is being actively worked by the project team.",
	},
	{
		keywords: []string{"deliverable", "checklist", "checkbox"},
		reply:    "Deliverables are the checklist items under each milestone. Ticking one marks it complete and saves the change for everyone viewing the project.",
	},
	{
		keywords: []string{"team", "who", "contact"},
		reply:    "The team panel lists everyone assigned to this project and their role. Reach out to your project lead for anything urgent.",
	},
}

const fallbackDefault = "I'm having trouble reaching the assistant right now. The dashboard above always reflects the latest project state; please try asking again in a moment."

// FallbackReply picks a canned response by keyword matching against the
// inbound message. Used whenever the upstream is unreachable.
func FallbackReply(message string) string {
	lowered := strings.ToLower(message)
	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.reply
			}
		}
	}
	return fallbackDefault
}
