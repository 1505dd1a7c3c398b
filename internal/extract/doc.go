// SPDX-License-Identifier: MPL-2.0

// Package extract pulls AMD dependency identifiers out of source text.
//
// Extraction is lexical: require() and define() calls are located with
// regular expressions and their dependency-array argument is split on commas.
// No JavaScript is parsed or executed. Array entries that are not plain
// quoted string literals (variables, calls, comments) are dropped and
// reported back to the caller, never treated as errors.
//
// A call is only recognized when "require(" or "define(" directly follows
// the start of the text, whitespace, a semicolon or a '>' character. This
// keeps "my_require(" and "obj.define(" out while still matching calls that
// follow a <script> tag. It is a loose guard, not a tokenizer.
package extract
