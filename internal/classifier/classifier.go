// Package classifier provides the rule-based intent classifier for
// incident text. It is an external collaborator of the decision core: the
// core only consumes the structured IntentResult it produces.
package classifier

import (
	"strings"

	"github.com/EeswaraReddy/L1agent/internal/incident"
)

// Intents is the closed set of intent labels the platform recognizes.
var Intents = []string{
	"dag_failure",
	"dag_alarm",
	"mwaa_failure",
	"glue_etl_failure",
	"athena_failure",
	"emr_failure",
	"kafka_events_failed",
	"data_missing",
	"source_zero_data",
	"data_not_available",
	"batch_auto_recovery_failed",
	"access_denied",
	"unknown",
}

var accessTerms = []string{
	"access to prod",
	"production access",
	"prod access",
	"grant access",
	"request access",
	"need access",
	"prod credentials",
	"permission to prod",
}

var requestTerms = []string{
	"request",
	"grant",
	"need",
	"please provide",
	"please give",
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// IsAccessRequest reports whether the incident is really a
// production-access request rather than an operational failure. Access
// requests must never flow through incident automation.
func IsAccessRequest(inc incident.Incident) bool {
	text := inc.Text()
	if containsAny(text, accessTerms) {
		return true
	}
	return (strings.Contains(text, "prod") || strings.Contains(text, "production")) &&
		containsAny(text, requestTerms) &&
		strings.Contains(text, "access")
}

// keyword rules, evaluated in order; first match wins.
type rule struct {
	intent    string
	rationale string
	match     func(string) bool
}

var rules = []rule{
	{
		intent:    "dag_alarm",
		rationale: "matched alarm for dag/mwaa",
		match: func(t string) bool {
			return strings.Contains(t, "alarm") &&
				(strings.Contains(t, "dag") || strings.Contains(t, "mwaa") || strings.Contains(t, "airflow"))
		},
	},
	{
		intent:    "mwaa_failure",
		rationale: "matched keyword dag/mwaa/airflow",
		match: func(t string) bool {
			return strings.Contains(t, "mwaa") || strings.Contains(t, "airflow") || strings.Contains(t, "dag")
		},
	},
	{
		intent:    "glue_etl_failure",
		rationale: "matched keyword glue/etl",
		match: func(t string) bool {
			return strings.Contains(t, "glue") || strings.Contains(t, "etl")
		},
	},
	{
		intent:    "athena_failure",
		rationale: "matched keyword athena",
		match:     func(t string) bool { return strings.Contains(t, "athena") },
	},
	{
		intent:    "emr_failure",
		rationale: "matched keyword emr",
		match:     func(t string) bool { return strings.Contains(t, "emr") },
	},
	{
		intent:    "kafka_events_failed",
		rationale: "matched keyword kafka/msk",
		match: func(t string) bool {
			return strings.Contains(t, "kafka") || strings.Contains(t, "msk")
		},
	},
	{
		intent:    "access_denied",
		rationale: "matched access denied",
		match: func(t string) bool {
			return strings.Contains(t, "access denied") || strings.Contains(t, "permission")
		},
	},
	{
		intent:    "source_zero_data",
		rationale: "matched zero/no data",
		match: func(t string) bool {
			return strings.Contains(t, "zero") || strings.Contains(t, "no data")
		},
	},
	{
		intent:    "data_missing",
		rationale: "matched missing data",
		match: func(t string) bool {
			return strings.Contains(t, "missing") || strings.Contains(t, "not available") || strings.Contains(t, "cmcm")
		},
	},
	{
		intent:    "batch_auto_recovery_failed",
		rationale: "matched recovery failure",
		match: func(t string) bool {
			return strings.Contains(t, "recovery") || strings.Contains(t, "auto recover")
		},
	},
}

// RuleBased classifies incidents with the keyword table. Total: unmatched
// text classifies as unknown at low confidence.
type RuleBased struct{}

// NewRuleBased returns the keyword classifier.
func NewRuleBased() *RuleBased {
	return &RuleBased{}
}

// Classify assigns an intent label to the incident.
func (c *RuleBased) Classify(inc incident.Incident) incident.IntentResult {
	if IsAccessRequest(inc) {
		return incident.IntentResult{
			Intent:     "access_denied",
			Confidence: 0.95,
			Rationale:  "access-to-production request detected; follow IAM/change-management access process",
		}
	}

	text := inc.Text()
	for _, r := range rules {
		if r.match(text) {
			return incident.IntentResult{Intent: r.intent, Confidence: 0.6, Rationale: r.rationale}
		}
	}
	return incident.IntentResult{Intent: "unknown", Confidence: 0.3, Rationale: "no keyword match"}
}
