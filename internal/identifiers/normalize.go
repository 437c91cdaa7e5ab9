// Package identifiers normalizes and canonicalizes PMCID/PMID/DOI
// identifiers. Unlike free-text entity extraction, normalization here is
// an anchored whole-string match, not a scan for occurrences within prose.
package identifiers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ternarybob/pmcgrab/internal/errs"
)

var (
	pmcidPattern = regexp.MustCompile(`^(?i:PMC)?([0-9]+)$`)
	pmidPattern  = regexp.MustCompile(`^[0-9]+$`)
)

// NormalizePMCID accepts "PMC7181753", "pmc7181753", "7181753", or an
// integer-like string, and returns the canonical numeric-only form.
// The returned value always matches ^[0-9]+$.
func NormalizePMCID(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	m := pmcidPattern.FindStringSubmatch(trimmed)
	if m == nil || m[1] == "" {
		return "", errs.New(errs.UnsupportedInput, "NormalizePMCID", nil)
	}
	return m[1], nil
}

// NormalizePMCIDFromInt normalizes an integer PMCID, mirroring the
// source's acceptance of bare integers alongside strings.
func NormalizePMCIDFromInt(input int64) (string, error) {
	if input <= 0 {
		return "", errs.New(errs.UnsupportedInput, "NormalizePMCIDFromInt", nil)
	}
	return strconv.FormatInt(input, 10), nil
}

// NormalizePMID validates and returns a canonical PMID (decimal string).
func NormalizePMID(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if !pmidPattern.MatchString(trimmed) {
		return "", errs.New(errs.UnsupportedInput, "NormalizePMID", nil)
	}
	return trimmed, nil
}

// IsPMCID reports whether input already parses as a PMCID-ish token.
func IsPMCID(input string) bool {
	return pmcidPattern.MatchString(strings.TrimSpace(input))
}

// LooksLikeDOI is a conservative heuristic used by id-file auto-detection:
// DOIs begin with "10." per the DOI registration-agency prefix convention.
func LooksLikeDOI(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "10.")
}

// DedupPreserveOrder removes duplicate entries while preserving the first
// occurrence's position, matching the deterministic ordering the batch
// mode's ID conversion is required to produce.
func DedupPreserveOrder(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
