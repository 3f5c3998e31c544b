package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/EeswaraReddy/L1agent/internal/incident"
)

func TestClassify_KeywordRouting(t *testing.T) {
	tests := []struct {
		name    string
		summary string
		details string
		want    string
	}{
		{"dag alarm", "CloudWatch alarm fired for DAG ingest_daily", "", "dag_alarm"},
		{"airflow failure", "Airflow task load_orders failed", "", "mwaa_failure"},
		{"glue failure", "Glue job nightly-etl aborted", "", "glue_etl_failure"},
		{"etl keyword", "etl pipeline stopped", "", "glue_etl_failure"},
		{"athena", "Athena query returned error", "", "athena_failure"},
		{"emr", "EMR step crashed", "", "emr_failure"},
		{"kafka", "Kafka consumer group stalled", "", "kafka_events_failed"},
		{"msk", "MSK broker unreachable", "", "kafka_events_failed"},
		{"access denied", "access denied writing to destination bucket", "", "access_denied"},
		{"permission", "role lacks permission on table", "", "access_denied"},
		{"zero data", "source delivered zero records", "", "source_zero_data"},
		{"missing data", "partition missing for 2024-05-01", "", "data_missing"},
		{"recovery", "batch auto recovery did not complete", "", "batch_auto_recovery_failed"},
		{"details matched", "pipeline issue", "the dag did not start", "mwaa_failure"},
		{"no match", "something odd happened", "", "unknown"},
	}

	c := NewRuleBased()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(incident.Incident{ID: "i-1", Summary: tt.summary, Details: tt.details})
			assert.Equal(t, tt.want, got.Intent)
		})
	}
}

func TestClassify_Confidences(t *testing.T) {
	c := NewRuleBased()

	matched := c.Classify(incident.Incident{ID: "i-1", Summary: "EMR step crashed"})
	assert.Equal(t, 0.6, matched.Confidence)

	unknown := c.Classify(incident.Incident{ID: "i-2", Summary: "???"})
	assert.Equal(t, 0.3, unknown.Confidence)
	assert.Equal(t, "unknown", unknown.Intent)
}

func TestClassify_RuleOrderFirstMatchWins(t *testing.T) {
	// "dag" plus "alarm" hits the alarm rule before the generic airflow rule.
	c := NewRuleBased()
	got := c.Classify(incident.Incident{ID: "i-1", Summary: "alarm raised on mwaa dag"})
	assert.Equal(t, "dag_alarm", got.Intent)
}

func TestIsAccessRequest(t *testing.T) {
	tests := []struct {
		name    string
		summary string
		want    bool
	}{
		{"direct phrase", "Requesting production access for new hire", true},
		{"grant access", "please grant access to the reporting schema in prod", true},
		{"prod credentials", "need prod credentials for the oncall runbook", true},
		{"compound form", "need access to the prod warehouse please", true},
		{"operational failure", "EMR cluster bootstrap failed in prod", false},
		{"access denied incident", "Glue job got access denied on s3 bucket", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsAccessRequest(incident.Incident{ID: "i-1", Summary: tt.summary})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_AccessRequestShortCircuits(t *testing.T) {
	c := NewRuleBased()
	got := c.Classify(incident.Incident{ID: "i-1", Summary: "please grant access to prod glue jobs"})
	assert.Equal(t, "access_denied", got.Intent)
	assert.Equal(t, 0.95, got.Confidence)
}
