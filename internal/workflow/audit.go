package workflow

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/ethanbaker/hq-console/pkg/generation"
	"github.com/ethanbaker/hq-console/pkg/record"
)

// Report is the stored result of the last self-audit of a record
type Report struct {
	RecordID  string                  `json:"record_id"`
	Kind      record.Kind             `json:"kind"`
	Text      string                  `json:"text,omitempty"`
	Findings  []record.Finding        `json:"findings,omitempty"`
	Corrected bool                    `json:"corrected"`
	Lesson    *generation.LessonAudit `json:"lesson,omitempty"`
	AuditedAt time.Time               `json:"audited_at"`
}

// Audit self-audits the current record and stores the report. A knowledge card
// correction replaces the record's content, summary, keywords and meta_json
func (c *Controller) Audit(ctx context.Context) (*Report, error) {
	c.mu.Lock()
	target, err := c.beginOnCurrent(OpAudit)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	defer c.end()

	if strings.TrimSpace(target.Content) == "" {
		return nil, validationError("record content is empty")
	}

	report := &Report{
		RecordID:  target.ID,
		Kind:      target.EffectiveKind(),
		AuditedAt: c.now(),
	}

	var corrected *record.Record
	if report.Kind == record.KindLessonPlan {
		audit, err := c.generator.AuditLessonPlan(ctx, target.Content, target.MetaJSON)
		if err != nil {
			log.Printf("[WORKFLOW]: Audit of %s failed: %v", target.ID, err)
			return nil, &OperationError{Op: OpAudit, Err: err}
		}
		report.Lesson = audit
		report.Findings = audit.Checklist
		report.Text = audit.QuickNotes
	} else {
		audit, err := c.generator.AuditKnowledgeCard(ctx, target)
		if err != nil {
			log.Printf("[WORKFLOW]: Audit of %s failed: %v", target.ID, err)
			return nil, &OperationError{Op: OpAudit, Err: err}
		}
		report.Text = audit.Report
		report.Findings = audit.Findings
		corrected = audit.Corrected
		report.Corrected = corrected != nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	r := c.find(target.ID)
	if r == nil {
		return nil, &OperationError{Op: OpAudit, Err: ErrNotFound}
	}

	if corrected != nil {
		r.Content = corrected.Content
		r.Summary = corrected.Summary
		r.Keywords = append([]string(nil), corrected.Keywords...)
		r.MetaJSON = corrected.MetaJSON
	}
	c.reports[r.ID] = report

	log.Printf("[WORKFLOW]: Audited %s (corrected: %t)", r.ID, report.Corrected)
	return report, nil
}
