package usecases

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// CategoryMap maps department -> category -> SKU prefixes. Loaded once
// per run from category-map.json.
type CategoryMap map[string]map[string][]string

type CategoryPair struct {
	Dept string
	Cat  string
}

func LoadCategoryMap(path string) (CategoryMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read category map: %w", err)
	}
	var m CategoryMap
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse category map: %w", err)
	}
	return m, nil
}

// Classify finds the department/category pair whose SKU prefixes match
// any of the given SKUs, case-insensitively. Departments and categories
// are scanned in sorted order so classification is deterministic when
// prefixes overlap.
func (m CategoryMap) Classify(skus []string) (CategoryPair, bool) {
	upperSkus := make([]string, 0, len(skus))
	for _, sku := range skus {
		if s := strings.ToUpper(strings.TrimSpace(sku)); s != "" {
			upperSkus = append(upperSkus, s)
		}
	}
	if len(upperSkus) == 0 {
		return CategoryPair{}, false
	}

	depts := make([]string, 0, len(m))
	for dept := range m {
		depts = append(depts, dept)
	}
	sort.Strings(depts)

	for _, dept := range depts {
		cats := make([]string, 0, len(m[dept]))
		for cat := range m[dept] {
			cats = append(cats, cat)
		}
		sort.Strings(cats)

		for _, cat := range cats {
			for _, prefix := range m[dept][cat] {
				upperPrefix := strings.ToUpper(prefix)
				for _, sku := range upperSkus {
					if strings.HasPrefix(sku, upperPrefix) {
						return CategoryPair{Dept: dept, Cat: cat}, true
					}
				}
			}
		}
	}
	return CategoryPair{}, false
}
