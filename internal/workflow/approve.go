package workflow

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/ethanbaker/hq-console/internal/stores/approval"
	"github.com/ethanbaker/hq-console/pkg/record"
	"github.com/ethanbaker/hq-console/pkg/sheet"
)

// ApproveResult is a successful approval
type ApproveResult struct {
	Record     *record.Record `json:"record"`
	Collection string         `json:"collection"`
	Confirmed  bool           `json:"confirmed"`
}

// Approve persists the current record as approved. An open edit is committed
// first. The approver is the one stamped by a passing lesson plan audit, or
// reviewer (the default reviewer when empty) at the current time. On failure
// the record stays a draft and the call can be repeated
func (c *Controller) Approve(ctx context.Context, reviewer string) (*ApproveResult, error) {
	c.mu.Lock()
	target, err := c.beginOnCurrent(OpApprove)
	if err == nil && c.editing {
		if err = c.commit(c.current()); err != nil {
			c.busy = ""
		} else {
			target = c.current().Clone()
		}
	}
	var report *Report
	if err == nil {
		report = c.reports[target.ID]
	}
	c.mu.Unlock()

	if err != nil {
		return nil, err
	}
	defer c.end()

	if c.ledger != nil {
		approved, err := c.ledger.IsApproved(target.ID)
		if err != nil {
			log.Printf("[WORKFLOW]: Could not check approval ledger for %s: %v", target.ID, err)
		} else if approved {
			return nil, &OperationError{Op: OpApprove, Err: approval.ErrAlreadyApproved}
		}
	}

	approvedBy, approvedAt := c.resolveApproval(report, reviewer)
	collection := c.collections.For(target.EffectiveKind())

	outcome := c.store.Append(ctx, sheet.AppendRequest{
		Collection: collection,
		Record:     target,
		Status:     record.StatusApproved,
		ApprovedBy: approvedBy,
		ApprovedAt: approvedAt,
	})
	if !outcome.Success {
		reason := outcome.Reason
		if reason == "" {
			reason = "append failed"
		}
		log.Printf("[WORKFLOW]: Approval of %s failed (%s): %s", target.ID, outcome.Failure, reason)
		return nil, &OperationError{Op: OpApprove, Failure: outcome.Failure, Err: errors.New(reason)}
	}

	c.mu.Lock()
	r := c.find(target.ID)
	if r != nil {
		r.Status = record.StatusApproved
		r.ApprovedBy = approvedBy
		r.ApprovedAt = &approvedAt
		target = r.Clone()
	}
	c.mu.Unlock()

	if c.ledger != nil {
		entry := &approval.Entry{
			RecordID:   target.ID,
			Collection: collection,
			Kind:       string(target.EffectiveKind()),
			TopicName:  target.TopicName,
			ApprovedBy: approvedBy,
			ApprovedAt: approvedAt,
			Confirmed:  outcome.Confirmed,
		}
		if err := c.ledger.Record(entry); err != nil {
			log.Printf("[WORKFLOW]: Could not record approval of %s: %v", target.ID, err)
		}
	}

	log.Printf("[WORKFLOW]: Approved %s by %s (confirmed: %t)", target.ID, approvedBy, outcome.Confirmed)

	c.Search(ctx)

	return &ApproveResult{Record: target, Collection: collection, Confirmed: outcome.Confirmed}, nil
}

func (c *Controller) resolveApproval(report *Report, reviewer string) (string, time.Time) {
	if report != nil && report.Lesson.Passed() && report.Lesson.ApprovedBy != "" {
		if report.Lesson.ApprovedAt != nil {
			return report.Lesson.ApprovedBy, *report.Lesson.ApprovedAt
		}
		return report.Lesson.ApprovedBy, c.now()
	}

	if reviewer = strings.TrimSpace(reviewer); reviewer == "" {
		reviewer = c.reviewer
	}
	return reviewer, c.now()
}
