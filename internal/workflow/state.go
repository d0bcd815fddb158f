package workflow

import "github.com/ethanbaker/hq-console/pkg/record"

// State is a read-only snapshot of the controller for presentation
type State struct {
	Current    *record.Record   `json:"current"`
	Editing    bool             `json:"editing"`
	Scratch    *Scratch         `json:"scratch,omitempty"`
	Report     *Report          `json:"report,omitempty"`
	Busy       Op               `json:"busy,omitempty"`
	Records    []*record.Record `json:"records"`
	Filter     record.Filter    `json:"filter"`
	CanEdit    bool             `json:"can_edit"`
	CanAudit   bool             `json:"can_audit"`
	CanApprove bool             `json:"can_approve"`
}

// State returns a snapshot. The Can* flags mirror the checks each operation makes
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := make([]*record.Record, len(c.records))
	for i, r := range c.records {
		records[i] = r.Clone()
	}

	state := State{
		Editing: c.editing,
		Busy:    c.busy,
		Records: records,
		Filter:  c.filter,
	}

	if current := c.current(); current != nil {
		state.Current = current.Clone()
		state.Report = c.reports[current.ID]

		open := c.busy == "" && !current.IsApproved()
		state.CanEdit = open
		state.CanAudit = open && !c.editing && current.Content != ""
		state.CanApprove = open
	}

	if c.editing {
		scratch := c.scratch
		state.Scratch = &scratch
	}

	return state
}
