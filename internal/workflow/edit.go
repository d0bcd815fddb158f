package workflow

import (
	"fmt"
	"log"
	"slices"

	"github.com/ethanbaker/hq-console/pkg/record"
)

// Scratch is the edit buffer of the current record. Keywords travel as text
type Scratch struct {
	Content  string `json:"content"`
	Summary  string `json:"summary"`
	Keywords string `json:"keywords"`
	MetaJSON string `json:"meta_json"`
}

func scratchOf(r *record.Record) Scratch {
	return Scratch{
		Content:  r.Content,
		Summary:  r.Summary,
		Keywords: r.KeywordsText(),
		MetaJSON: r.MetaJSON,
	}
}

// ToggleEdit enters or leaves edit mode on the current record and reports
// whether edit mode is now on. Leaving commits the scratch buffer; a commit
// that would break the record fails with ErrInvalidEdit and edit mode stays on
func (c *Controller) ToggleEdit() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy != "" {
		return c.editing, fmt.Errorf("%w: %s", ErrBusy, c.busy)
	}

	current := c.current()
	if current == nil {
		return false, ErrNoCurrent
	}

	if !c.editing {
		if current.IsApproved() {
			return false, ErrReadOnly
		}
		c.scratch = scratchOf(current)
		c.editing = true
		return true, nil
	}

	if err := c.commit(current); err != nil {
		return true, err
	}
	return false, nil
}

// UpdateScratch replaces the edit buffer. Nothing outside the buffer changes
// until edit mode is left
func (c *Controller) UpdateScratch(s Scratch) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.editing {
		return ErrNotEditing
	}
	c.scratch = s
	return nil
}

// commit writes the scratch buffer back into r and leaves edit mode. Only the
// fields that differ from r are rewritten so an unchanged buffer leaves r
// byte-identical. Callers hold mu
func (c *Controller) commit(r *record.Record) error {
	original := scratchOf(r)
	s := c.scratch

	content := r.Content
	if s.Content != original.Content {
		if !slices.Equal(record.Headings(s.Content), record.Headings(r.Content)) {
			return fmt.Errorf("%w: section headings must keep their numbering, labels and order", ErrInvalidEdit)
		}
		content = s.Content
	}

	meta := r.MetaJSON
	if s.MetaJSON != original.MetaJSON {
		compact, err := record.CompactMeta(s.MetaJSON)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidEdit, err)
		}
		meta = compact
	}

	r.Content = content
	r.MetaJSON = meta
	r.Summary = s.Summary
	if s.Keywords != original.Keywords {
		r.Keywords = record.ParseKeywords(s.Keywords)
	}

	c.editing = false
	c.scratch = Scratch{}

	log.Printf("[WORKFLOW]: Committed edits to %s", r.ID)
	return nil
}
