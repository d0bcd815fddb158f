package record

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog lists the organizational brands and subject domains a reviewer can pick from
type Catalog struct {
	Brands  []string `json:"brands" yaml:"brands"`
	Domains []string `json:"domains" yaml:"domains"`
}

// DefaultCatalog returns the built-in brand and domain lists
func DefaultCatalog() *Catalog {
	return &Catalog{
		Brands: []string{
			"YYS | 燿宇的游泳學校",
			"LEADER | 鐵人",
		},
		Domains: []string{
			"游泳 (Swimming)",
			"鐵人三項 (Triathlon)",
			"體能 (Fitness)",
			"行銷經營 (Marketing)",
			"教育訓練 (Training)",
		},
	}
}

// LoadCatalog reads a catalog from a YAML file. An empty path yields the default catalog
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	if len(catalog.Brands) == 0 {
		return nil, fmt.Errorf("catalog %s lists no brands", path)
	}
	if len(catalog.Domains) == 0 {
		return nil, fmt.Errorf("catalog %s lists no domains", path)
	}

	return &catalog, nil
}

// HasBrand reports whether brand is listed
func (c *Catalog) HasBrand(brand string) bool {
	return slices.Contains(c.Brands, brand)
}

// HasDomain reports whether domain is listed
func (c *Catalog) HasDomain(domain string) bool {
	return slices.Contains(c.Domains, domain)
}

// BrandCode returns the upper-cased code of a brand label ("YYS | name" -> "YYS")
func BrandCode(brand string) string {
	code, _, _ := strings.Cut(brand, "|")
	return strings.ToUpper(strings.TrimSpace(code))
}

// brandTerms returns the lower-cased terms a brand filter matches on
func brandTerms(brand string) []string {
	code, _, _ := strings.Cut(brand, "|")
	return nonEmpty(strings.ToLower(strings.TrimSpace(code)))
}

// domainTerms returns the lower-cased terms a domain filter matches on: the
// label before " (" and the text inside the parentheses
func domainTerms(domain string) []string {
	lower := strings.ToLower(strings.TrimSpace(domain))
	main, rest, found := strings.Cut(lower, "(")
	terms := []string{strings.TrimSpace(main)}

	if found {
		inner, _, _ := strings.Cut(rest, ")")
		terms = append(terms, strings.TrimSpace(inner))
	}

	return nonEmpty(terms...)
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
