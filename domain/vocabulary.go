// Package domain carries per-business-domain vocabulary configuration used to
// bias natural-language column resolution.
//
// A Vocabulary is a plain value passed into the parser; this package holds no
// ambient state. How a domain is detected for a dataset is a separate concern
// and not handled here.
package domain

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vocabulary lists the metric and dimension keywords typical of one business
// domain. The parser treats a bound column matching one of these lists as
// stronger evidence than the generic name heuristic alone.
type Vocabulary struct {
	Name       string   `yaml:"name"`
	Metrics    []string `yaml:"metrics"`
	Dimensions []string `yaml:"dimensions"`
}

// MatchesMetric reports whether the column name contains any metric keyword.
func (v *Vocabulary) MatchesMetric(column string) bool {
	return containsAny(column, v.Metrics)
}

// MatchesDimension reports whether the column name contains any dimension
// keyword.
func (v *Vocabulary) MatchesDimension(column string) bool {
	return containsAny(column, v.Dimensions)
}

func containsAny(column string, keywords []string) bool {
	lower := strings.ToLower(column)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// LoadFile reads a vocabulary from a YAML file.
func LoadFile(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	if v.Name == "" {
		return nil, fmt.Errorf("vocabulary %s has no name", path)
	}
	return &v, nil
}

// Builtin returns a canned vocabulary by name, or nil if the name is unknown.
// Known names: ecommerce, finance, manufacturing.
func Builtin(name string) *Vocabulary {
	switch strings.ToLower(name) {
	case "ecommerce", "e-commerce":
		return &Vocabulary{
			Name:       "ecommerce",
			Metrics:    []string{"revenue", "sales", "gmv", "price", "quantity", "orders", "discount", "units"},
			Dimensions: []string{"product", "category", "customer", "region", "channel", "sku", "brand"},
		}
	case "finance":
		return &Vocabulary{
			Name:       "finance",
			Metrics:    []string{"amount", "premium", "claim", "balance", "interest", "margin", "aum", "nav"},
			Dimensions: []string{"account", "branch", "portfolio", "segment", "advisor", "instrument", "currency"},
		}
	case "manufacturing":
		return &Vocabulary{
			Name:       "manufacturing",
			Metrics:    []string{"output", "defects", "downtime", "yield", "cost", "units", "scrap"},
			Dimensions: []string{"plant", "line", "shift", "machine", "operator", "material", "batch"},
		}
	default:
		return nil
	}
}
