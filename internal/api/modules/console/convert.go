package console

import (
	"github.com/ethanbaker/hq-console/internal/stores/approval"
	"github.com/ethanbaker/hq-console/internal/workflow"
	"github.com/ethanbaker/hq-console/pkg/record"
	"github.com/ethanbaker/hq-console/pkg/sdk"
)

// ToSDKRecord converts a record to its API form
func ToSDKRecord(r *record.Record) sdk.Record {
	if r == nil {
		return sdk.Record{}
	}

	keywords := r.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	return sdk.Record{
		ID:         r.ID,
		Kind:       string(r.EffectiveKind()),
		TopicName:  r.TopicName,
		Brand:      r.Brand,
		Domain:     r.Domain,
		Content:    r.Content,
		Summary:    r.Summary,
		Keywords:   keywords,
		MetaJSON:   r.MetaJSON,
		Status:     string(r.Status),
		ApprovedBy: r.ApprovedBy,
		ApprovedAt: r.ApprovedAt,
	}
}

func toSDKRecords(records []*record.Record) []sdk.Record {
	out := make([]sdk.Record, 0, len(records))
	for _, r := range records {
		out = append(out, ToSDKRecord(r))
	}
	return out
}

func toSDKFilter(f record.Filter) sdk.Filter {
	return sdk.Filter{Kind: string(f.Kind), Brand: f.Brand, Domain: f.Domain, Text: f.Text}
}

func fromSDKFilter(f sdk.Filter) record.Filter {
	kind, _ := record.ParseKind(f.Kind)
	return record.Filter{Kind: kind, Brand: f.Brand, Domain: f.Domain, Text: f.Text}
}

// ToSDKReport converts an audit report to its API form
func ToSDKReport(r *workflow.Report) *sdk.AuditReport {
	if r == nil {
		return nil
	}

	out := &sdk.AuditReport{
		RecordID:  r.RecordID,
		Kind:      string(r.Kind),
		Text:      r.Text,
		Corrected: r.Corrected,
		AuditedAt: r.AuditedAt,
	}
	for _, f := range r.Findings {
		out.Findings = append(out.Findings, sdk.Finding{Rule: f.Rule, Passed: f.Passed, Detail: f.Detail})
	}

	if r.Lesson != nil {
		out.Verdict = string(r.Lesson.Verdict)
		out.MustFix = r.Lesson.MustFix
		out.ApprovedBy = r.Lesson.ApprovedBy
		out.ApprovedAt = r.Lesson.ApprovedAt
	}

	return out
}

// ToSDKState converts a workflow snapshot to its API form
func ToSDKState(s workflow.State) sdk.ConsoleState {
	out := sdk.ConsoleState{
		Editing:    s.Editing,
		Report:     ToSDKReport(s.Report),
		Busy:       string(s.Busy),
		Records:    toSDKRecords(s.Records),
		Filter:     toSDKFilter(s.Filter),
		CanEdit:    s.CanEdit,
		CanAudit:   s.CanAudit,
		CanApprove: s.CanApprove,
	}

	if s.Current != nil {
		current := ToSDKRecord(s.Current)
		out.Current = &current
	}

	if s.Scratch != nil {
		out.Scratch = &sdk.Scratch{
			Content:  s.Scratch.Content,
			Summary:  s.Scratch.Summary,
			Keywords: s.Scratch.Keywords,
			MetaJSON: s.Scratch.MetaJSON,
		}
	}

	return out
}

// ToSDKFinderResults converts a finder view to its API form
func ToSDKFinderResults(v *workflow.FinderView) *sdk.FinderResults {
	if v == nil {
		return nil
	}

	out := &sdk.FinderResults{
		Filter:   toSDKFilter(v.Filter),
		Records:  toSDKRecords(v.Records),
		Evidence: make([]sdk.Evidence, 0, len(v.Evidence)),
		Failure:  string(v.Failure),
		Reason:   v.Reason,
	}
	for _, e := range v.Evidence {
		out.Evidence = append(out.Evidence, sdk.Evidence{
			Source:       e.Source,
			Tab:          e.Tab,
			RowsReturned: e.RowsReturned,
			QueryUsed:    e.QueryUsed,
			Timestamp:    e.Timestamp,
		})
	}

	return out
}

func toSDKApproval(e *approval.Entry) sdk.Approval {
	return sdk.Approval{
		ID:         e.ID,
		RecordID:   e.RecordID,
		Collection: e.Collection,
		Kind:       e.Kind,
		TopicName:  e.TopicName,
		ApprovedBy: e.ApprovedBy,
		ApprovedAt: e.ApprovedAt,
		Confirmed:  e.Confirmed,
	}
}
