package record

import (
	"fmt"
	"strconv"
	"strings"
)

// IDPrefix returns the "{BRANDCODE}-{TAG}" prefix shared by records of one brand and kind
func IDPrefix(brand string, kind Kind) string {
	return BrandCode(brand) + "-" + kind.Tag()
}

// NextID computes the next sequential id for brand+kind. The sequence is one
// more than the largest numeric suffix among ids carrying the same prefix; gaps
// are never reused and existing ids are never renumbered
func NextID(brand string, kind Kind, existing []*Record) string {
	prefix := IDPrefix(brand, kind)
	last := 0

	for _, r := range existing {
		if r == nil {
			continue
		}
		if n, ok := sequenceOf(r.ID, prefix); ok && n > last {
			last = n
		}
	}

	return fmt.Sprintf("%s-%03d", prefix, last+1)
}

// sequenceOf extracts the numeric suffix of id when it starts with prefix
func sequenceOf(id, prefix string) (int, bool) {
	upper := strings.ToUpper(strings.TrimSpace(id))
	if !strings.HasPrefix(upper, prefix+"-") {
		return 0, false
	}

	suffix := upper[strings.LastIndex(upper, "-")+1:]
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
