package record

import "strings"

// Filter holds the finder predicates. Empty fields match everything
type Filter struct {
	Kind   Kind   `json:"kind,omitempty"`
	Brand  string `json:"brand,omitempty"`
	Domain string `json:"domain,omitempty"`
	Text   string `json:"text,omitempty"`
}

// Matches applies the brand, domain, free-text and kind predicates. Brand and
// domain matching is lenient: a filter term matches when either string contains
// the other, case-insensitively, so legacy rows with partial labels still match
func (f Filter) Matches(r *Record) bool {
	if r == nil {
		return false
	}

	if f.Kind != "" && r.EffectiveKind() != f.Kind {
		return false
	}

	if f.Brand != "" && !lenientMatch(r.Brand, brandTerms(f.Brand)) {
		return false
	}

	if f.Domain != "" && !lenientMatch(r.Domain, domainTerms(f.Domain)) {
		return false
	}

	if text := strings.ToLower(strings.TrimSpace(f.Text)); text != "" {
		if !strings.Contains(strings.ToLower(r.TopicName), text) && !strings.Contains(strings.ToLower(r.ID), text) {
			return false
		}
	}

	return true
}

func lenientMatch(field string, terms []string) bool {
	if len(terms) == 0 {
		return true
	}

	value := strings.ToLower(strings.TrimSpace(field))
	for _, term := range terms {
		if strings.Contains(value, term) || strings.Contains(term, value) {
			return true
		}
	}
	return false
}

// Merge builds the finder listing: local records first, then remote records,
// both filtered with f. A local record masks every remote record with its id
func Merge(local, remote []*Record, f Filter) []*Record {
	localIDs := make(map[string]struct{}, len(local))
	for _, r := range local {
		if r != nil {
			localIDs[r.ID] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(local)+len(remote))
	out := make([]*Record, 0, len(local)+len(remote))

	for _, r := range local {
		if !f.Matches(r) {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}

	for _, r := range remote {
		if !f.Matches(r) {
			continue
		}
		if _, masked := localIDs[r.ID]; masked {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}

	return out
}
