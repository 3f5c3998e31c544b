package workflow

import (
	"strings"

	"github.com/EeswaraReddy/L1agent/internal/incident"
)

// spinupKeywords refine a coarse emr_failure intent into the stricter
// spin-up workflow when the incident text points at cluster provisioning.
var spinupKeywords = []string{"spin", "bootstrap", "provision", "cluster launch"}

var airflowIntents = map[string]bool{
	"dag_failure":  true,
	"mwaa_failure": true,
	"dag_alarm":    true,
}

var sourceDataIntents = map[string]bool{
	"data_missing":       true,
	"source_zero_data":   true,
	"data_not_available": true,
}

func containsAny(text string, values []string) bool {
	for _, v := range values {
		if strings.Contains(text, v) {
			return true
		}
	}
	return false
}

// Resolve maps a classified intent plus the raw incident to exactly one
// workflow spec. Total: it never fails and always returns a catalog entry,
// falling back to the terminal unknown workflow.
//
// Precedence, highest first: text-based refinements of coarse intents,
// intent-family routing, direct ID match, linear intent scan in catalog
// declaration order, fallback.
func (c *Catalog) Resolve(intent string, inc incident.Incident) Spec {
	text := inc.Text()

	if intent == "emr_failure" && containsAny(text, spinupKeywords) {
		if spec, ok := c.Lookup("emr_spinup_failed"); ok {
			return spec
		}
	}

	if airflowIntents[intent] {
		if spec, ok := c.Lookup("airflow_dag_failure"); ok {
			return spec
		}
	}

	if sourceDataIntents[intent] {
		if spec, ok := c.Lookup("source_data_failure"); ok {
			return spec
		}
	}

	if intent == "access_denied" {
		_, glueCtx := inc.Context["glue"]
		if strings.Contains(text, "glue") || glueCtx {
			if spec, ok := c.Lookup("glue_access_denied"); ok {
				return spec
			}
		}
		if spec, ok := c.Lookup("generic_access_denied"); ok {
			return spec
		}
	}

	if intent == "kafka_events_failed" {
		if spec, ok := c.Lookup("kafka_failure"); ok {
			return spec
		}
	}

	if spec, ok := c.Lookup(intent); ok {
		return spec
	}

	for _, id := range c.order {
		spec := c.specs[id]
		for _, candidate := range spec.Intents {
			if candidate == intent {
				return spec
			}
		}
	}

	return c.Fallback()
}
