// Package workflow is the record workflow controller: it owns the local record
// set, the current record, edit mode and the finder, and drives the generation
// and store clients. A record moves drafted -> (editing) -> audited -> approved.
package workflow

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ethanbaker/hq-console/internal/stores/approval"
	"github.com/ethanbaker/hq-console/pkg/generation"
	"github.com/ethanbaker/hq-console/pkg/record"
	"github.com/ethanbaker/hq-console/pkg/sheet"
)

// DefaultReviewer is the approver identity used when no audit supplied one
const DefaultReviewer = "HQ"

// Generator is the generation client used by the controller
type Generator interface {
	DraftKnowledgeCard(ctx context.Context, req generation.DraftRequest) (*record.Record, error)
	DraftLessonPlan(ctx context.Context, req generation.DraftRequest) (*record.Record, error)
	AuditKnowledgeCard(ctx context.Context, r *record.Record) (*generation.CardAudit, error)
	AuditLessonPlan(ctx context.Context, content, meta string) (*generation.LessonAudit, error)
}

// Options configures a Controller. Ledger and Catalog are optional
type Options struct {
	Generator       Generator
	Store           sheet.Store
	Ledger          approval.StoreInterface
	Catalog         *record.Catalog
	Collections     Collections
	DefaultReviewer string
	Now             func() time.Time
}

// Controller is the record workflow state machine. All state is guarded by mu;
// network calls run outside the lock with the busy flag held
type Controller struct {
	generator   Generator
	store       sheet.Store
	ledger      approval.StoreInterface
	catalog     *record.Catalog
	collections Collections
	reviewer    string
	now         func() time.Time

	mu        sync.Mutex
	busy      Op
	records   []*record.Record
	currentID string
	editing   bool
	scratch   Scratch
	reports   map[string]*Report

	filter   record.Filter
	remote   []*record.Record
	evidence []sheet.Evidence
}

// New creates a Controller
func New(opts Options) (*Controller, error) {
	if opts.Generator == nil {
		return nil, fmt.Errorf("a generator must be provided")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("a store must be provided")
	}

	if opts.Collections == (Collections{}) {
		opts.Collections = DefaultCollections()
	}
	if opts.DefaultReviewer == "" {
		opts.DefaultReviewer = DefaultReviewer
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Controller{
		generator:   opts.Generator,
		store:       opts.Store,
		ledger:      opts.Ledger,
		catalog:     opts.Catalog,
		collections: opts.Collections,
		reviewer:    opts.DefaultReviewer,
		now:         opts.Now,
		reports:     make(map[string]*Report),
	}, nil
}

// Collections returns the kind to collection mapping
func (c *Controller) Collections() Collections {
	return c.collections
}

// begin marks op as in flight, failing when another operation already is or
// edit mode is on
func (c *Controller) begin(op Op) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy != "" {
		return fmt.Errorf("%w: %s", ErrBusy, c.busy)
	}
	if c.editing {
		return ErrEditing
	}
	c.busy = op
	return nil
}

func (c *Controller) end() {
	c.mu.Lock()
	c.busy = ""
	c.mu.Unlock()
}

// beginOnCurrent checks that the current record can be changed by op, marks op
// in flight and returns a copy of the record. Callers hold mu
func (c *Controller) beginOnCurrent(op Op) (*record.Record, error) {
	if c.busy != "" {
		return nil, fmt.Errorf("%w: %s", ErrBusy, c.busy)
	}

	current := c.current()
	switch {
	case current == nil:
		return nil, ErrNoCurrent
	case current.IsApproved():
		return nil, ErrReadOnly
	case c.editing && op != OpApprove:
		return nil, ErrEditing
	}

	c.busy = op
	return current.Clone(), nil
}

// find returns the local record with id. Callers hold mu
func (c *Controller) find(id string) *record.Record {
	for _, r := range c.records {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// current returns the current record. Callers hold mu
func (c *Controller) current() *record.Record {
	if c.currentID == "" {
		return nil
	}
	return c.find(c.currentID)
}

// GenerateRequest is the input of Generate
type GenerateRequest struct {
	Kind           record.Kind `json:"kind"`
	Brand          string      `json:"brand"`
	Domain         string      `json:"domain"`
	TopicName      string      `json:"topic_name"`
	SourceText     string      `json:"source_text"`
	RelatedTopicID string      `json:"related_topic_id,omitempty"`
}

func (c *Controller) validateGenerate(req GenerateRequest) error {
	if strings.TrimSpace(req.TopicName) == "" {
		return validationError("topic name is required")
	}
	if strings.TrimSpace(req.SourceText) == "" {
		return validationError("source text is required")
	}
	if !req.Kind.Valid() {
		return validationError("unknown record kind %q", req.Kind)
	}
	if strings.TrimSpace(req.Brand) == "" {
		return validationError("brand is required")
	}
	if c.catalog != nil {
		if !c.catalog.HasBrand(req.Brand) {
			return validationError("unknown brand %q", req.Brand)
		}
		if req.Domain != "" && !c.catalog.HasDomain(req.Domain) {
			return validationError("unknown domain %q", req.Domain)
		}
	}
	return nil
}

// Generate drafts a new record. The sequence is strictly fetch latest ids,
// compute the next id, call the generator, insert the draft at the front and
// make it current. Any failure leaves the prior state untouched
func (c *Controller) Generate(ctx context.Context, req GenerateRequest) (*record.Record, error) {
	if err := c.validateGenerate(req); err != nil {
		return nil, err
	}

	c.mu.Lock()
	editing := c.editing
	c.mu.Unlock()
	if editing {
		return nil, ErrEditing
	}

	if err := c.begin(OpGenerate); err != nil {
		return nil, err
	}
	defer c.end()

	collection := c.collections.For(req.Kind)
	id := c.nextID(ctx, collection, req.Brand, req.Kind)

	draftReq := generation.DraftRequest{
		ID:             id,
		Brand:          req.Brand,
		Domain:         req.Domain,
		TopicName:      strings.TrimSpace(req.TopicName),
		SourceText:     req.SourceText,
		Tab:            collection,
		RelatedTopicID: req.RelatedTopicID,
	}

	var draft *record.Record
	var err error
	if req.Kind == record.KindLessonPlan {
		draft, err = c.generator.DraftLessonPlan(ctx, draftReq)
	} else {
		draft, err = c.generator.DraftKnowledgeCard(ctx, draftReq)
	}
	if err != nil {
		log.Printf("[WORKFLOW]: Generation of %s failed: %v", id, err)
		return nil, &OperationError{Op: OpGenerate, Err: err}
	}
	if draft == nil || strings.TrimSpace(draft.Content) == "" {
		return nil, &OperationError{Op: OpGenerate, Err: fmt.Errorf("generator returned an empty draft")}
	}

	draft = draft.Clone()
	draft.ID = id
	draft.Kind = req.Kind
	draft.Brand = req.Brand
	draft.Domain = req.Domain
	draft.Status = record.StatusDraft
	draft.ApprovedBy = ""
	draft.ApprovedAt = nil
	if draft.TopicName == "" {
		draft.TopicName = draftReq.TopicName
	}

	c.mu.Lock()
	c.records = append([]*record.Record{draft}, c.records...)
	c.currentID = id
	c.editing = false
	c.scratch = Scratch{}
	delete(c.reports, id)
	c.mu.Unlock()

	log.Printf("[WORKFLOW]: Drafted %s", id)
	return draft.Clone(), nil
}

// nextID fetches the latest remote records of the collection and returns
// max(existing suffix)+1 over local and remote records. A failed fetch falls
// back to the local records
func (c *Controller) nextID(ctx context.Context, collection, brand string, kind record.Kind) string {
	result := c.store.Query(ctx, sheet.Query{Collection: collection, Kind: kind, Brand: brand})
	if result.Failed() {
		log.Printf("[WORKFLOW]: Could not fetch latest ids from '%s' (%s): %s", collection, result.Failure, result.Reason)
	}

	c.mu.Lock()
	existing := make([]*record.Record, 0, len(c.records)+len(c.remote)+len(result.Records))
	existing = append(existing, c.records...)
	existing = append(existing, c.remote...)
	c.mu.Unlock()
	existing = append(existing, result.Records...)

	return record.NextID(brand, kind, existing)
}
