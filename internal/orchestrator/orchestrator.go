// Package orchestrator runs the full triage pipeline for one incident:
// classify, validate, resolve the workflow, evaluate coverage, score the
// policy decision, enforce governance, and assemble the report.
//
// The pipeline is synchronous and stateless across incidents. Evidence and
// actions are consumed as already-materialized structured data; no tool
// invocation happens here.
package orchestrator

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/EeswaraReddy/L1agent/internal/classifier"
	"github.com/EeswaraReddy/L1agent/internal/decision"
	"github.com/EeswaraReddy/L1agent/internal/eval"
	"github.com/EeswaraReddy/L1agent/internal/governance"
	"github.com/EeswaraReddy/L1agent/internal/incident"
	"github.com/EeswaraReddy/L1agent/internal/policy"
	"github.com/EeswaraReddy/L1agent/internal/report"
	"github.com/EeswaraReddy/L1agent/internal/schema"
	"github.com/EeswaraReddy/L1agent/internal/workflow"
)

// IntentClassifier assigns an intent label to an incident.
type IntentClassifier interface {
	Classify(inc incident.Incident) incident.IntentResult
}

// Input carries everything the pipeline needs for one incident. Intent,
// Investigation, and Action may be pre-supplied by external collaborators;
// absent ones are filled with built-in defaults.
type Input struct {
	Incident      incident.Incident
	Intent        *incident.IntentResult
	Investigation *incident.InvestigationResult
	Action        *incident.ActionResult

	// Health contexts from the external policy engine and quality checks.
	PolicyHealth     governance.PolicyHealth
	EvaluationHealth governance.EvaluationHealth
}

// Outcome is the full triage result for one incident.
type Outcome struct {
	IncidentID    string                       `json:"incident_id"`
	Intent        incident.IntentResult        `json:"intent"`
	Workflow      workflow.Profile             `json:"workflow"`
	Investigation incident.InvestigationResult `json:"investigation"`
	Actions       incident.ActionResult        `json:"actions"`
	Evaluation    eval.Result                  `json:"evaluation"`
	Policy        policy.Decision              `json:"policy"`
	Governance    GovernanceOutcome            `json:"governance"`
	Validation    map[string][]string          `json:"validation"`
	Report        report.Report                `json:"rca"`
}

// GovernanceOutcome echoes the health contexts the decision was merged
// against.
type GovernanceOutcome struct {
	Policy     governance.PolicyHealth     `json:"policy"`
	Evaluation governance.EvaluationHealth `json:"evaluation"`
}

// Engine runs the triage pipeline.
type Engine struct {
	catalog    *workflow.Catalog
	classifier IntentClassifier
	validator  *schema.Validator
	govConfig  governance.Config
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewEngine creates a triage engine over the given catalog. A nil validator
// disables schema checking.
func NewEngine(catalog *workflow.Catalog, validator *schema.Validator, govConfig governance.Config) *Engine {
	return &Engine{
		catalog:    catalog,
		classifier: classifier.NewRuleBased(),
		validator:  validator,
		govConfig:  govConfig,
		logger:     slog.Default(),
	}
}

// WithClassifier replaces the built-in rule-based classifier.
func (e *Engine) WithClassifier(c IntentClassifier) *Engine {
	e.classifier = c
	return e
}

// WithLogger sets the logger for the engine.
func (e *Engine) WithLogger(logger *slog.Logger) *Engine {
	e.logger = logger
	return e
}

// WithTracer sets the OpenTelemetry tracer for the engine.
func (e *Engine) WithTracer(tracer trace.Tracer) *Engine {
	e.tracer = tracer
	return e
}

func (e *Engine) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if e.tracer == nil {
		return ctx, nil
	}
	return e.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Handle triages one incident. It is total: it always produces an outcome,
// and every degradation surfaces as reasons or issues, never as an error.
func (e *Engine) Handle(ctx context.Context, input Input) Outcome {
	inc := input.Incident
	if inc.ID == "" {
		inc.ID = uuid.NewString()
	}

	ctx, span := e.startSpan(ctx, "triage.handle", attribute.String("incident.id", inc.ID))
	if span != nil {
		defer span.End()
	}

	intent, investigation, action := e.collect(inc, input)

	validation := e.validate(intent, investigation, action)
	hasValidationErrors := false
	for _, errs := range validation {
		if len(errs) > 0 {
			hasValidationErrors = true
			break
		}
	}

	wf := e.catalog.Resolve(intent.Intent, inc)
	profile := wf.Profile()

	evaluation := eval.Evaluate(inc, intent, investigation.Evidence, action.Actions, wf, validation)

	var decided policy.Decision
	if hasValidationErrors {
		decided = policy.Score("unknown", nil, 0.0, &profile, &evaluation)
		decided.Decision = decision.HumanReview
		decided.Reasons = append(decided.Reasons, "schema validation failed")
	} else {
		decided = policy.Score(intent.Intent, investigation.Evidence, intent.Confidence, &profile, &evaluation)
	}

	governed, govReasons := governance.Enforce(decided.Decision, e.govConfig, input.PolicyHealth, input.EvaluationHealth)
	decided.Decision = governed
	decided.Reasons = append(decided.Reasons, govReasons...)

	rca := e.buildReport(inc, intent, wf, investigation, action, evaluation, decided)

	outcome := Outcome{
		IncidentID:    inc.ID,
		Intent:        intent,
		Workflow:      profile,
		Investigation: investigation,
		Actions:       action,
		Evaluation:    evaluation,
		Policy:        decided,
		Governance: GovernanceOutcome{
			Policy:     input.PolicyHealth,
			Evaluation: input.EvaluationHealth,
		},
		Validation: validation,
		Report:     rca,
	}
	e.verifyOutcome(&outcome)

	if span != nil {
		span.SetAttributes(
			attribute.String("triage.intent", intent.Intent),
			attribute.String("triage.workflow", wf.ID),
			attribute.String("triage.decision", outcome.Policy.Decision.String()),
		)
	}
	e.logger.InfoContext(ctx, "incident triaged",
		"incident_id", inc.ID,
		"intent", intent.Intent,
		"workflow", wf.ID,
		"decision", outcome.Policy.Decision.String(),
		"score", outcome.Policy.Score,
		"hard_stop", evaluation.HardStop,
	)

	return outcome
}

// collect fills in intent, investigation, and action data, either from
// pre-supplied collaborator outputs or from the built-in defaults.
// Production-access requests short-circuit: they are not incidents and
// must never reach remediation.
func (e *Engine) collect(inc incident.Incident, input Input) (incident.IntentResult, incident.InvestigationResult, incident.ActionResult) {
	if classifier.IsAccessRequest(inc) {
		intent := e.classifier.Classify(inc)
		investigation := incident.InvestigationResult{
			Intent: intent.Intent,
			Evidence: map[string]any{
				"skipped":          true,
				"reason":           "access request is not an incident investigation workflow",
				"required_process": "use IAM/change-management access request process",
			},
		}
		action := incident.ActionResult{
			Intent: intent.Intent,
			Actions: []map[string]any{
				{"policy_block": "production access cannot be granted by incident automation; submit an IAM/change-management access request"},
			},
			Status: incident.ActionStatusBlocked,
		}
		return intent, investigation, action
	}

	var intent incident.IntentResult
	if input.Intent != nil {
		intent = *input.Intent
	} else {
		intent = e.classifier.Classify(inc)
	}

	var investigation incident.InvestigationResult
	if input.Investigation != nil {
		investigation = *input.Investigation
	} else {
		investigation = incident.InvestigationResult{Intent: intent.Intent, Evidence: map[string]any{}}
	}

	var action incident.ActionResult
	if input.Action != nil {
		action = *input.Action
	} else {
		action = incident.ActionResult{Intent: intent.Intent, Status: incident.ActionStatusSkipped}
	}

	return intent, investigation, action
}

// validate runs the collaborator payloads through the JSON schemas.
func (e *Engine) validate(intent incident.IntentResult, investigation incident.InvestigationResult, action incident.ActionResult) map[string][]string {
	if e.validator == nil {
		return map[string][]string{}
	}

	evidence := map[string]any{}
	for k, v := range investigation.Evidence {
		evidence[k] = v
	}
	actions := make([]any, 0, len(action.Actions))
	for _, a := range action.Actions {
		actions = append(actions, map[string]any(a))
	}

	return map[string][]string{
		"intent": e.validator.ValidateIntent(map[string]any{
			"intent":     intent.Intent,
			"confidence": intent.Confidence,
			"rationale":  intent.Rationale,
		}),
		"investigation": e.validator.ValidateInvestigation(map[string]any{
			"intent":   investigation.Intent,
			"evidence": evidence,
		}),
		"action": e.validator.ValidateAction(map[string]any{
			"intent":  action.Intent,
			"actions": actions,
			"status":  action.Status,
		}),
	}
}

// buildReport assembles the RCA document. Next steps lead with the two
// standing follow-ups and then carry over the first two evaluation issues.
func (e *Engine) buildReport(
	inc incident.Incident,
	intent incident.IntentResult,
	wf workflow.Spec,
	investigation incident.InvestigationResult,
	action incident.ActionResult,
	evaluation eval.Result,
	decided policy.Decision,
) report.Report {
	nextSteps := []string{"Review logs", "Validate downstream tables"}
	for i, issue := range evaluation.Issues {
		if i >= 2 {
			break
		}
		nextSteps = append(nextSteps, issue)
	}

	return report.Report{
		ID:           uuid.NewString(),
		IncidentID:   inc.ID,
		Intent:       intent.Intent,
		Summary:      "incident classified as " + intent.Intent + " using workflow " + wf.ID,
		RootCause:    intent.Rationale,
		Evidence:     investigation.Evidence,
		ActionsTaken: action.Actions,
		NextSteps:    nextSteps,
		Decision:     &decided,
	}
}

// verifyOutcome checks the assembled outcome document against the outcome
// schema. A failure forces human review; it never aborts triage.
func (e *Engine) verifyOutcome(outcome *Outcome) {
	if e.validator == nil {
		return
	}
	errs := e.validator.ValidateOutcome(map[string]any{
		"incident_id":   outcome.IncidentID,
		"intent":        map[string]any{"intent": outcome.Intent.Intent},
		"investigation": map[string]any{"intent": outcome.Investigation.Intent},
		"actions":       map[string]any{"intent": outcome.Actions.Intent},
		"policy":        map[string]any{"decision": outcome.Policy.Decision.String()},
		"rca":           map[string]any{"incident_id": outcome.Report.IncidentID},
	})
	if len(errs) > 0 {
		outcome.Validation["orchestrator"] = errs
		outcome.Policy.Decision = decision.MoreRestrictive(decision.HumanReview, outcome.Policy.Decision)
		outcome.Policy.Reasons = append(outcome.Policy.Reasons, "orchestrator output schema failed")
		outcome.Report.Decision = &outcome.Policy
	}
}
