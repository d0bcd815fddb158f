package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ethanbaker/hq-console/pkg/sdk"
)

const helpText = `Commands:
  connect <url>          set the Apps Script address for this session ("connect" alone clears it)
  status                 show the connection indicator and the current record
  kind <card|lesson>     choose what generate drafts
  brand <n|text>         choose the brand (number from the catalog or free text)
  domain <n|text>        choose the domain
  generate <topic>       draft a record; source text is read until an empty line
  edit                   enter edit mode, or commit the buffer and leave it
  set <field> [value]    change a buffer field: content, summary, keywords, meta
                         (content and meta without a value are read until a line with ".")
  audit                  self-audit the current record
  approve [reviewer]     persist the current record as approved
  find [text]            search records with the chosen kind, brand and domain
  open <id>              make a record current
  show                   print the current record
  exit                   quit`

// session is one interactive console
type session struct {
	client  *sdk.Client
	in      *bufio.Scanner
	out     io.Writer
	catalog *sdk.Catalog

	kind   string
	brand  string
	domain string
}

func newSession(client *sdk.Client, in *bufio.Scanner, out io.Writer) *session {
	return &session{client: client, in: in, out: out, kind: "knowledge_card"}
}

// handle runs one command line and reports whether the session should end
func (s *session) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	var err error
	switch strings.ToLower(cmd) {
	case "exit", "quit":
		return true
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "connect":
		err = s.connect(ctx, arg)
	case "status":
		s.printStatus(ctx)
	case "kind":
		err = s.setKind(arg)
	case "brand":
		s.brand, err = s.pick(arg, s.catalogBrands())
		if err == nil {
			fmt.Fprintf(s.out, "Brand: %s\n", s.brand)
		}
	case "domain":
		s.domain, err = s.pick(arg, s.catalogDomains())
		if err == nil {
			fmt.Fprintf(s.out, "Domain: %s\n", s.domain)
		}
	case "generate":
		err = s.generate(ctx, arg)
	case "edit":
		err = s.toggleEdit(ctx)
	case "set":
		err = s.set(ctx, arg)
	case "audit":
		err = s.audit(ctx)
	case "approve":
		err = s.approve(ctx, arg)
	case "find":
		err = s.find(ctx, arg)
	case "open":
		err = s.open(ctx, arg)
	case "show":
		err = s.show(ctx)
	default:
		fmt.Fprintf(s.out, "Unknown command '%s'. Type 'help' for commands.\n", cmd)
	}

	if err != nil {
		s.printError(err)
	}
	return false
}

func (s *session) printError(err error) {
	var respErr *sdk.ResponseError
	if errors.As(err, &respErr) && respErr.Detail != nil {
		d := respErr.Detail
		switch {
		case d.Quota:
			fmt.Fprintf(s.out, "Error: the generation provider is out of quota (%s)\n", d.Reason)
		case d.Failure != "":
			fmt.Fprintf(s.out, "Error: %s [%s]: %s\n", respErr.Message, d.Failure, d.Reason)
		default:
			fmt.Fprintf(s.out, "Error: %s: %s\n", respErr.Message, d.Reason)
		}
		return
	}
	fmt.Fprintf(s.out, "Error: %v\n", err)
}

func (s *session) connect(ctx context.Context, endpoint string) error {
	resp, err := s.client.SetConnection(ctx, endpoint)
	if err != nil {
		return err
	}

	s.printConnection(resp.Status)
	if resp.Results != nil {
		s.printResults(resp.Results)
	}
	return nil
}

func (s *session) printStatus(ctx context.Context) {
	if status, err := s.client.GetConnection(ctx); err != nil {
		s.printError(err)
	} else {
		s.printConnection(*status)
	}

	fmt.Fprintf(s.out, "Kind: %s | Brand: %s | Domain: %s\n", s.kind, valueOr(s.brand, "-"), valueOr(s.domain, "-"))

	state, err := s.client.GetState(ctx)
	if err != nil {
		s.printError(err)
		return
	}
	if state.Current == nil {
		fmt.Fprintln(s.out, "No current record")
		return
	}

	fmt.Fprintf(s.out, "Current: %s [%s] %s (editing: %t)\n", state.Current.ID, state.Current.Status, state.Current.TopicName, state.Editing)
}

func (s *session) printConnection(status sdk.ConnectionStatus) {
	if status.Connected {
		fmt.Fprintf(s.out, "Connected (%s): %s\n", status.Source, status.Endpoint)
	} else {
		fmt.Fprintln(s.out, "Not connected")
	}
}

func (s *session) setKind(arg string) error {
	switch strings.ToLower(arg) {
	case "card", "knowledge_card", "topic":
		s.kind = "knowledge_card"
	case "lesson", "lesson_plan", "plan":
		s.kind = "lesson_plan"
	default:
		return fmt.Errorf("kind must be 'card' or 'lesson'")
	}
	fmt.Fprintf(s.out, "Kind: %s\n", s.kind)
	return nil
}

func (s *session) catalogBrands() []string {
	if s.catalog == nil {
		return nil
	}
	return s.catalog.Brands
}

func (s *session) catalogDomains() []string {
	if s.catalog == nil {
		return nil
	}
	return s.catalog.Domains
}

// pick resolves a 1-based catalog index or returns the free text. Without an
// argument the options are listed
func (s *session) pick(arg string, options []string) (string, error) {
	if arg == "" {
		for i, o := range options {
			fmt.Fprintf(s.out, "  %d. %s\n", i+1, o)
		}
		return "", fmt.Errorf("choose a number or type a value")
	}

	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(options) {
			return "", fmt.Errorf("choose a number between 1 and %d", len(options))
		}
		return options[n-1], nil
	}
	return arg, nil
}

// readBlock reads lines until a line equal to terminator
func (s *session) readBlock(prompt, terminator string) string {
	fmt.Fprintln(s.out, prompt)

	var lines []string
	for s.in.Scan() {
		line := s.in.Text()
		if strings.TrimSpace(line) == terminator {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (s *session) generate(ctx context.Context, topic string) error {
	if topic == "" {
		return fmt.Errorf("usage: generate <topic>")
	}

	source := s.readBlock("Paste the source text, end with an empty line:", "")

	fmt.Fprintln(s.out, "Generating...")
	r, err := s.client.Generate(ctx, &sdk.GenerateRequest{
		Kind:       s.kind,
		Brand:      s.brand,
		Domain:     s.domain,
		TopicName:  topic,
		SourceText: source,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Drafted %s\n", r.ID)
	printRecord(s.out, r)
	return nil
}

func (s *session) toggleEdit(ctx context.Context) error {
	resp, err := s.client.ToggleEdit(ctx)
	if err != nil {
		return err
	}

	if !resp.Editing {
		fmt.Fprintln(s.out, "Edits committed")
		return nil
	}

	state, err := s.client.GetState(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Editing. Use 'set <field>' and run 'edit' again to commit.")
	if state.Scratch != nil {
		fmt.Fprintf(s.out, "Summary: %s\nKeywords: %s\n", state.Scratch.Summary, state.Scratch.Keywords)
	}
	return nil
}

func (s *session) set(ctx context.Context, arg string) error {
	field, value, _ := strings.Cut(arg, " ")

	state, err := s.client.GetState(ctx)
	if err != nil {
		return err
	}
	if state.Scratch == nil {
		return fmt.Errorf("run 'edit' first")
	}
	scratch := *state.Scratch

	switch strings.ToLower(field) {
	case "content":
		scratch.Content = s.readBlock("Enter the content, end with a line containing only '.':", ".")
	case "meta":
		if value == "" {
			value = s.readBlock("Enter meta_json, end with a line containing only '.':", ".")
		}
		scratch.MetaJSON = value
	case "summary":
		scratch.Summary = value
	case "keywords":
		scratch.Keywords = value
	default:
		return fmt.Errorf("field must be content, summary, keywords or meta")
	}

	if _, err := s.client.UpdateScratch(ctx, &scratch); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Updated %s\n", field)
	return nil
}

func (s *session) audit(ctx context.Context) error {
	fmt.Fprintln(s.out, "Auditing...")
	report, err := s.client.Audit(ctx)
	if err != nil {
		return err
	}

	if report.Verdict != "" {
		fmt.Fprintf(s.out, "Verdict: %s\n", report.Verdict)
	}
	for _, f := range report.Findings {
		mark := "x"
		if f.Passed {
			mark = "ok"
		}
		fmt.Fprintf(s.out, "  [%s] %s %s\n", mark, f.Rule, f.Detail)
	}
	for _, fix := range report.MustFix {
		fmt.Fprintf(s.out, "  must fix: %s\n", fix)
	}
	if report.Text != "" {
		fmt.Fprintf(s.out, "Report:\n%s\n", report.Text)
	}
	if report.Corrected {
		fmt.Fprintln(s.out, "The record was replaced with the corrected version")
	}
	return nil
}

func (s *session) approve(ctx context.Context, reviewer string) error {
	resp, err := s.client.Approve(ctx, &sdk.ApproveRequest{Reviewer: reviewer})
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Approved %s into %s by %s\n", resp.Record.ID, resp.Collection, resp.Record.ApprovedBy)
	if !resp.Confirmed {
		fmt.Fprintln(s.out, "Warning: the store did not confirm the write")
	}
	return nil
}

func (s *session) find(ctx context.Context, text string) error {
	results, err := s.client.Search(ctx, &sdk.Filter{
		Kind:   s.kind,
		Brand:  s.brand,
		Domain: s.domain,
		Text:   text,
	})
	if err != nil {
		return err
	}

	s.printResults(results)
	return nil
}

func (s *session) printResults(results *sdk.FinderResults) {
	if results.Failure != "" {
		fmt.Fprintf(s.out, "Remote search failed [%s]: %s\n", results.Failure, results.Reason)
	}
	for _, e := range results.Evidence {
		fmt.Fprintf(s.out, "  %s/%s: %d rows\n", e.Source, e.Tab, e.RowsReturned)
	}
	if len(results.Records) == 0 {
		fmt.Fprintln(s.out, "No records")
		return
	}
	for _, r := range results.Records {
		fmt.Fprintf(s.out, "  %-20s %-9s %s\n", r.ID, r.Status, r.TopicName)
	}
}

func (s *session) open(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("usage: open <id>")
	}

	r, err := s.client.Open(ctx, id)
	if err != nil {
		return err
	}

	printRecord(s.out, r)
	return nil
}

func (s *session) show(ctx context.Context) error {
	state, err := s.client.GetState(ctx)
	if err != nil {
		return err
	}
	if state.Current == nil {
		fmt.Fprintln(s.out, "No current record")
		return nil
	}

	printRecord(s.out, state.Current)
	if state.Report != nil && state.Report.Text != "" {
		fmt.Fprintf(s.out, "\nLast audit:\n%s\n", state.Report.Text)
	}
	return nil
}

func printRecord(out io.Writer, r *sdk.Record) {
	fmt.Fprintf(out, "%s [%s] %s\n", r.ID, r.Status, r.TopicName)
	fmt.Fprintf(out, "Brand: %s | Domain: %s\n", r.Brand, r.Domain)
	if r.ApprovedBy != "" && r.ApprovedAt != nil {
		fmt.Fprintf(out, "Approved by %s at %s\n", r.ApprovedBy, r.ApprovedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(out, "\n%s\n\nSummary: %s\nKeywords: %s\nMeta: %s\n", r.Content, r.Summary, strings.Join(r.Keywords, ", "), r.MetaJSON)
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
