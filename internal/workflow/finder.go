package workflow

import (
	"context"
	"fmt"
	"log"

	"github.com/ethanbaker/hq-console/pkg/record"
	"github.com/ethanbaker/hq-console/pkg/sheet"
)

// FinderView is the merged listing of local and remote records
type FinderView struct {
	Filter   record.Filter    `json:"filter"`
	Records  []*record.Record `json:"records"`
	Evidence []sheet.Evidence `json:"evidence"`
	Failure  sheet.Failure    `json:"failure,omitempty"`
	Reason   string           `json:"reason,omitempty"`
}

// SetFilter replaces the finder predicates
func (c *Controller) SetFilter(f record.Filter) {
	c.mu.Lock()
	c.filter = f
	c.mu.Unlock()
}

// Search refetches the remote result set with the current filter and returns
// the merged listing. A failed fetch leaves an empty remote set and reports its
// marker on the view
func (c *Controller) Search(ctx context.Context) *FinderView {
	c.mu.Lock()
	filter := c.filter
	c.mu.Unlock()

	kinds := []record.Kind{record.KindKnowledgeCard, record.KindLessonPlan}
	if filter.Kind.Valid() {
		kinds = []record.Kind{filter.Kind}
	}

	remote := []*record.Record{}
	evidence := make([]sheet.Evidence, 0, len(kinds))
	failure, reason := sheet.FailureNone, ""

	for _, kind := range kinds {
		result := c.store.Query(ctx, sheet.Query{
			Collection: c.collections.For(kind),
			Kind:       kind,
			Brand:      filter.Brand,
			Domain:     filter.Domain,
			Input:      filter.Text,
		})

		evidence = append(evidence, result.Evidence)
		if result.Failed() {
			if failure == sheet.FailureNone {
				failure, reason = result.Failure, result.Reason
			}
			continue
		}
		remote = append(remote, result.Records...)
	}

	if failure != sheet.FailureNone {
		log.Printf("[WORKFLOW]: Finder search failed (%s): %s", failure, reason)
	}

	c.mu.Lock()
	c.remote = remote
	c.evidence = evidence
	view := c.view()
	c.mu.Unlock()

	view.Failure, view.Reason = failure, reason
	return view
}

// Results returns the merged listing from the last search without fetching
func (c *Controller) Results() *FinderView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view()
}

// view merges the local and remote sets. Callers hold mu
func (c *Controller) view() *FinderView {
	merged := record.Merge(c.records, c.remote, c.filter)

	records := make([]*record.Record, len(merged))
	for i, r := range merged {
		records[i] = r.Clone()
	}

	return &FinderView{
		Filter:   c.filter,
		Records:  records,
		Evidence: append([]sheet.Evidence(nil), c.evidence...),
	}
}

// Open makes the record with id current. A record only known from the last
// search is copied into the local set first
func (c *Controller) Open(id string) (*record.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.editing {
		return nil, ErrEditing
	}

	if r := c.find(id); r != nil {
		c.currentID = id
		return r.Clone(), nil
	}

	for _, r := range c.remote {
		if r.ID == id {
			local := r.Clone()
			if !local.Kind.Valid() {
				local.Kind = local.EffectiveKind()
			}
			c.records = append([]*record.Record{local}, c.records...)
			c.currentID = id
			return local.Clone(), nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}
