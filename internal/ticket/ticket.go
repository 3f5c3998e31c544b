// Package ticket updates the ticketing system with the triage outcome.
// It maps the engine's decision onto ticket workflow states; the decision
// core never depends on it.
package ticket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/EeswaraReddy/L1agent/internal/decision"
	"github.com/EeswaraReddy/L1agent/internal/policy"
	"github.com/EeswaraReddy/L1agent/internal/types"
)

// decisionStates maps a remediation decision to a ticket state.
var decisionStates = map[decision.Decision]string{
	decision.AutoClose:   "Resolved",
	decision.AutoRetry:   "In Progress",
	decision.Escalate:    "Assigned",
	decision.HumanReview: "On Hold",
	decision.UpdateOnly:  "In Progress",
}

// defaultState is used for unrecognized decisions.
const defaultState = "In Progress"

// StateFor returns the ticket state for a decision.
func StateFor(d decision.Decision) string {
	if state, ok := decisionStates[d]; ok {
		return state
	}
	return defaultState
}

// TriageNotes renders the decision trail recorded in the ticket's work
// notes: final decision, policy score, resolved workflow, and the reason
// list in firing order.
func TriageNotes(d policy.Decision, workflowID string) string {
	return fmt.Sprintf(
		"Decision: %s\nScore: %.2f\nWorkflow: %s\nReasons: %s",
		d.Decision, d.Score, workflowID, strings.Join(d.Reasons, ", "))
}

// Client updates tickets over the ticket system's REST API.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a ticket client for the given instance.
func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:    baseURL,
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     slog.Default(),
	}
}

// WithHTTPClient sets the underlying HTTP client.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// WithLogger sets the logger for the client.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	return c
}

// updatePayload is the body sent to the ticket API.
type updatePayload struct {
	State      string `json:"state"`
	CloseCode  string `json:"close_code"`
	CloseNotes string `json:"close_notes"`
	WorkNotes  string `json:"work_notes"`
}

// UpdateResult reports what was written to the ticket.
type UpdateResult struct {
	TicketSysID string `json:"ticket_sys_id"`
	State       string `json:"state"`
	StatusCode  int    `json:"status_code"`
}

// Update transitions the ticket to the state derived from the decision
// and records the triage notes.
func (c *Client) Update(ctx context.Context, ticketSysID string, d decision.Decision, notes string) (*UpdateResult, error) {
	state := StateFor(d)
	body, err := json.Marshal(updatePayload{
		State:      state,
		CloseCode:  "Solved (Permanently)",
		CloseNotes: notes,
		WorkNotes:  notes,
	})
	if err != nil {
		return nil, types.WrapError(types.TICKET_UPDATE_FAILED, "marshal update payload", err)
	}

	url := fmt.Sprintf("%s/api/now/table/incident/%s", c.baseURL, ticketSysID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return nil, types.WrapError(types.TICKET_UPDATE_FAILED, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, types.WrapError(types.TICKET_UPDATE_FAILED, "call ticket API", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, types.NewError(types.TICKET_UPDATE_FAILED,
			fmt.Sprintf("ticket API returned %d for %s", resp.StatusCode, ticketSysID))
	}

	c.logger.InfoContext(ctx, "ticket updated",
		"ticket_sys_id", ticketSysID,
		"state", state,
		"decision", d.String(),
	)

	return &UpdateResult{TicketSysID: ticketSysID, State: state, StatusCode: resp.StatusCode}, nil
}
