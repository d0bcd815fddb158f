package record

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	KnowledgeCardSections = 13
	LessonPlanSections    = 9
	LessonPlanVariants    = 2

	// ChecklistSection of each lesson plan variant holds exactly ChecklistItems check boxes
	ChecklistSection = 8
	ChecklistItems   = 5

	// MediaSection of each lesson plan variant may only reference media ids
	MediaSection = 9

	// InsufficientPlaceholder marks a section the source material did not support
	InsufficientPlaceholder = "目前內文資料不足，可日後補充"
)

var (
	headingPattern   = regexp.MustCompile(`^\s*#{1,6}\s*([一二三四五六七八九十]+)\s*[、.．]\s*(.*?)\s*$`)
	checkboxPattern  = regexp.MustCompile(`^\s*[-*]\s*\[[ xX]?\]`)
	fileRefPattern   = regexp.MustCompile(`(?i)(file_url|file://|https?://|[\p{L}\p{N}_-]+\.(png|jpe?g|gif|webp|svg|mp4|mov|avi|pdf|docx?|pptx?)\b)`)
	variantSeparator = "---"
)

var numerals = []rune("一二三四五六七八九十")

// Numeral renders 1..99 as a Chinese numeral (1 -> 一, 11 -> 十一, 20 -> 二十)
func Numeral(n int) string {
	switch {
	case n <= 0 || n >= 100:
		return fmt.Sprint(n)
	case n <= 10:
		return string(numerals[n-1])
	case n < 20:
		return "十" + string(numerals[n-11])
	case n%10 == 0:
		return string(numerals[n/10-1]) + "十"
	default:
		return string(numerals[n/10-1]) + "十" + string(numerals[n%10-1])
	}
}

// parseNumeral is the inverse of Numeral, returning 0 for anything it does not recognise
func parseNumeral(s string) int {
	for n := 1; n < 100; n++ {
		if Numeral(n) == s {
			return n
		}
	}
	return 0
}

// Section is one numbered block of record content
type Section struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// ParseSections splits text into its numbered heading sections. Text before the
// first heading is ignored
func ParseSections(text string) []Section {
	var sections []Section
	var body []string

	flush := func() {
		if len(sections) > 0 {
			sections[len(sections)-1].Body = strings.TrimSpace(strings.Join(body, "\n"))
		}
		body = body[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			flush()
			sections = append(sections, Section{
				Number:  parseNumeral(m[1]),
				Title:   m[2],
				Heading: strings.TrimSpace(line),
			})
			continue
		}
		body = append(body, line)
	}
	flush()

	return sections
}

// CheckSequence verifies sections are exactly 1..want in order
func CheckSequence(sections []Section, want int) error {
	if len(sections) != want {
		return fmt.Errorf("expected %d sections, found %d", want, len(sections))
	}

	for i, s := range sections {
		if s.Number != i+1 {
			return fmt.Errorf("section %d is numbered %q", i+1, s.Heading)
		}
	}

	return nil
}

// CheckTitles verifies sections carry the same titles as want, position by
// position. A want of a different length is not comparable and passes
func CheckTitles(sections, want []Section) error {
	if len(sections) != len(want) {
		return nil
	}

	for i, s := range sections {
		if strings.TrimSpace(s.Title) != strings.TrimSpace(want[i].Title) {
			return fmt.Errorf("section %d is titled %q, expected %q", i+1, s.Title, want[i].Title)
		}
	}

	return nil
}

// Headings returns the heading lines of text in order
func Headings(text string) []string {
	sections := ParseSections(text)
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.Heading
	}
	return out
}

// SplitVariants splits lesson plan content on separator lines ("---")
func SplitVariants(content string) []string {
	var variants []string
	var current []string

	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == variantSeparator {
			variants = append(variants, strings.TrimSpace(strings.Join(current, "\n")))
			current = current[:0]
			continue
		}
		current = append(current, line)
	}
	variants = append(variants, strings.TrimSpace(strings.Join(current, "\n")))

	out := variants[:0]
	for _, v := range variants {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// FillPlaceholders writes InsufficientPlaceholder under every heading whose body is blank
func FillPlaceholders(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	pending := false
	for _, line := range lines {
		isHeading := headingPattern.MatchString(line)
		isSeparator := strings.TrimSpace(line) == variantSeparator

		if pending && (isHeading || isSeparator) {
			out = append(out, InsufficientPlaceholder, "")
			pending = false
		}
		if pending && strings.TrimSpace(line) != "" {
			pending = false
		}
		if isHeading {
			pending = true
		}
		out = append(out, line)
	}
	if pending {
		out = append(out, InsufficientPlaceholder)
	}

	return strings.Join(out, "\n")
}

// CountCheckboxes counts markdown check box items ("- [ ] ...")
func CountCheckboxes(body string) int {
	count := 0
	for _, line := range strings.Split(body, "\n") {
		if checkboxPattern.MatchString(line) {
			count++
		}
	}
	return count
}

// HasFileReference reports whether text contains a raw file reference (URL, file_url key or media file name)
func HasFileReference(text string) bool {
	return fileRefPattern.MatchString(text)
}
