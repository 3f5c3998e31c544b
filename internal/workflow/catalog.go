package workflow

import "fmt"

// FallbackWorkflowID is the terminal catalog entry the resolver returns
// when no other workflow applies. The catalog always contains it.
const FallbackWorkflowID = "unknown"

// Catalog is a read-only lookup table of workflow specs. Declaration order
// is preserved and is authoritative for the resolver's linear scan, so
// resolution stays deterministic. Safe for unlimited concurrent readers
// once built.
type Catalog struct {
	specs map[string]Spec
	order []string
}

// NewCatalog builds a catalog from the given specs, preserving order.
// Every spec must validate and IDs must be unique; the fallback entry must
// be present.
func NewCatalog(specs ...Spec) (*Catalog, error) {
	c := &Catalog{specs: make(map[string]Spec, len(specs))}
	for _, spec := range specs {
		if err := c.add(spec); err != nil {
			return nil, err
		}
	}
	if _, ok := c.specs[FallbackWorkflowID]; !ok {
		return nil, fmt.Errorf("catalog missing terminal fallback workflow %q", FallbackWorkflowID)
	}
	return c, nil
}

func (c *Catalog) add(spec Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if _, exists := c.specs[spec.ID]; exists {
		return fmt.Errorf("duplicate workflow id %q", spec.ID)
	}
	c.specs[spec.ID] = spec
	c.order = append(c.order, spec.ID)
	return nil
}

// Lookup returns the spec with the given ID.
func (c *Catalog) Lookup(id string) (Spec, bool) {
	spec, ok := c.specs[id]
	return spec, ok
}

// Fallback returns the terminal unknown-workflow entry.
func (c *Catalog) Fallback() Spec {
	return c.specs[FallbackWorkflowID]
}

// All returns the specs in declaration order.
func (c *Catalog) All() []Spec {
	out := make([]Spec, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.specs[id])
	}
	return out
}

// Len returns the number of specs in the catalog.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Builtin returns the default workflow catalog for the data platform.
// Declaration order matters: the resolver's generic intent scan returns
// the first entry whose intent set matches.
func Builtin() *Catalog {
	c, err := NewCatalog(
		Spec{
			ID:               "emr_failure",
			Service:          ServiceEMR,
			Intents:          []string{"emr_failure"},
			RiskTier:         RiskTierMedium,
			MinConfidence:    0.6,
			AutoRetryAllowed: true,
			InvestigationSteps: []InvestigationStep{
				{Tool: "get_emr_logs", ContextKey: "emr", EvidenceKey: "emr_logs", Query: "emr logs"},
				{Tool: "get_cloudwatch_alarm", ContextKey: "alarm", EvidenceKey: "alarm", Query: "cloudwatch emr alarm", Optional: true},
			},
			ActionSteps: []ActionStep{
				{Tool: "retry_emr", ContextKey: "emr_retry", ActionKey: "retry_emr"},
			},
			RequiredEvidenceKeys: []string{"emr_logs"},
			RequiredActionKeys:   []string{"retry_emr"},
		},
		Spec{
			ID:               "emr_spinup_failed",
			Service:          ServiceEMR,
			Intents:          []string{"emr_failure"},
			RiskTier:         RiskTierHigh,
			MinConfidence:    0.7,
			AutoRetryAllowed: true,
			InvestigationSteps: []InvestigationStep{
				{Tool: "get_emr_logs", ContextKey: "emr", EvidenceKey: "emr_logs", Query: "emr bootstrap provisioning logs"},
				{Tool: "get_cloudwatch_alarm", ContextKey: "alarm", EvidenceKey: "alarm", Query: "cloudwatch emr capacity alarm", Optional: true},
			},
			ActionSteps: []ActionStep{
				{Tool: "retry_emr", ContextKey: "emr_retry", ActionKey: "retry_emr"},
			},
			RequiredEvidenceKeys: []string{"emr_logs"},
			RequiredActionKeys:   []string{"retry_emr"},
		},
		Spec{
			ID:               "airflow_dag_failure",
			Service:          ServiceAirflow,
			Intents:          []string{"dag_failure", "mwaa_failure", "dag_alarm"},
			RiskTier:         RiskTierMedium,
			MinConfidence:    0.6,
			AutoRetryAllowed: true,
			InvestigationSteps: []InvestigationStep{
				{Tool: "get_mwaa_logs", ContextKey: "airflow", EvidenceKey: "airflow_logs", Query: "mwaa airflow dag logs"},
				{Tool: "get_cloudwatch_alarm", ContextKey: "alarm", EvidenceKey: "dag_alarm", Query: "cloudwatch alarm dag mwaa", Optional: true},
			},
			ActionSteps: []ActionStep{
				{Tool: "retry_airflow_dag", ContextKey: "airflow_retry", ActionKey: "retry_airflow_dag"},
			},
			RequiredEvidenceKeys: []string{"airflow_logs"},
			RequiredActionKeys:   []string{"retry_airflow_dag"},
		},
		Spec{
			ID:               "glue_etl_failure",
			Service:          ServiceGlue,
			Intents:          []string{"glue_etl_failure"},
			RiskTier:         RiskTierMedium,
			MinConfidence:    0.6,
			AutoRetryAllowed: true,
			InvestigationSteps: []InvestigationStep{
				{Tool: "get_glue_logs", ContextKey: "glue", EvidenceKey: "glue_logs", Query: "glue etl logs"},
				{Tool: "verify_source_data", ContextKey: "source", EvidenceKey: "source_check", Query: "s3 source data validation", Optional: true},
			},
			ActionSteps: []ActionStep{
				{Tool: "retry_glue_job", ContextKey: "glue_retry", ActionKey: "retry_glue_job"},
			},
			RequiredEvidenceKeys: []string{"glue_logs"},
			RequiredActionKeys:   []string{"retry_glue_job"},
		},
		Spec{
			ID:               "glue_access_denied",
			Service:          ServiceGlue,
			Intents:          []string{"access_denied", "glue_etl_failure"},
			RiskTier:         RiskTierHigh,
			MinConfidence:    0.7,
			AutoRetryAllowed: false,
			InvestigationSteps: []InvestigationStep{
				{Tool: "get_glue_logs", ContextKey: "glue", EvidenceKey: "glue_logs", Query: "glue access denied logs"},
			},
			RequiredEvidenceKeys: []string{"glue_logs"},
		},
		Spec{
			ID:               "athena_failure",
			Service:          ServiceAthena,
			Intents:          []string{"athena_failure"},
			RiskTier:         RiskTierMedium,
			MinConfidence:    0.6,
			AutoRetryAllowed: true,
			InvestigationSteps: []InvestigationStep{
				{Tool: "get_athena_query", ContextKey: "athena_query", EvidenceKey: "athena_query", Query: "athena query execution error"},
			},
			ActionSteps: []ActionStep{
				{Tool: "retry_athena_query", ContextKey: "athena_retry", ActionKey: "retry_athena_query"},
			},
			RequiredEvidenceKeys: []string{"athena_query"},
			RequiredActionKeys:   []string{"retry_athena_query"},
		},
		Spec{
			ID:               "kafka_failure",
			Service:          ServiceKafka,
			Intents:          []string{"kafka_events_failed"},
			RiskTier:         RiskTierHigh,
			MinConfidence:    0.7,
			AutoRetryAllowed: false,
			InvestigationSteps: []InvestigationStep{
				{Tool: "get_kafka_status", ContextKey: "kafka", EvidenceKey: "kafka_status", Query: "kafka msk status"},
			},
			RequiredEvidenceKeys: []string{"kafka_status"},
		},
		Spec{
			ID:               "source_data_failure",
			Service:          ServiceSourceData,
			Intents:          []string{"data_missing", "source_zero_data", "data_not_available"},
			RiskTier:         RiskTierLow,
			MinConfidence:    0.6,
			AutoRetryAllowed: false,
			InvestigationSteps: []InvestigationStep{
				{Tool: "verify_source_data", ContextKey: "source", EvidenceKey: "source_check", Query: "s3 source data validation"},
				{Tool: "get_s3_logs", ContextKey: "s3_logs", EvidenceKey: "s3_logs", Query: "s3 logs", Optional: true},
			},
			ActionSteps: []ActionStep{
				{Tool: "verify_source_data", ContextKey: "source", ActionKey: "verify_source_data"},
			},
			RequiredEvidenceKeys: []string{"source_check"},
		},
		Spec{
			ID:               "generic_access_denied",
			Service:          ServiceIAM,
			Intents:          []string{"access_denied"},
			RiskTier:         RiskTierHigh,
			MinConfidence:    0.7,
			AutoRetryAllowed: false,
		},
		Spec{
			ID:               FallbackWorkflowID,
			Service:          ServiceUnknown,
			Intents:          []string{"unknown", "batch_auto_recovery_failed"},
			RiskTier:         RiskTierHigh,
			MinConfidence:    0.8,
			AutoRetryAllowed: false,
		},
	)
	if err != nil {
		// The builtin catalog is fixed at compile time; a validation
		// failure here is a programming error.
		panic(err)
	}
	return c
}
