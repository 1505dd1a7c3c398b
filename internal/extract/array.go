// SPDX-License-Identifier: MPL-2.0

package extract

import "strings"

// ParseArray splits a raw dependency-array literal such as ['a', "b"] into
// its string literal entries.
//
// The text is not treated as JSON: trailing commas, line comments and
// non-literal entries are common in real modules. Entries that start with
// "//" are skipped. Entries that are at most one character long or are not
// wrapped in a matching pair of quote characters are returned in dropped
// instead of deps. Nested arrays are not a supported dependency shape.
func ParseArray(raw string) (deps, dropped []string) {
	body := strings.TrimSpace(raw)
	body = strings.TrimPrefix(body, "[")
	body = strings.TrimSuffix(body, "]")

	for entry := range strings.SplitSeq(body, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" || strings.HasPrefix(entry, "//") {
			continue
		}
		if dep, ok := literal(entry); ok {
			deps = append(deps, dep)
			continue
		}
		dropped = append(dropped, entry)
	}
	return deps, dropped
}

// literal unquotes a single- or double-quoted entry. Mismatched quotes, as in
// `"dep1','dep2"`, are rejected rather than split into two dependencies.
func literal(entry string) (string, bool) {
	if len(entry) <= 1 {
		return "", false
	}
	first, last := entry[0], entry[len(entry)-1]
	if first != last || (first != '\'' && first != '"') {
		return "", false
	}
	return entry[1 : len(entry)-1], true
}
