// Package sanitizer normalizes free-form booking input before validation and
// storage.
//
// All functions are idempotent. Invalid input is handled by returning it
// trimmed or empty rather than by returning errors, so validation stays the
// single place that rejects a request.
//
// Normalization includes:
//   - Strings: collapse whitespace, trim leading/trailing spaces
//   - Notes: drop control characters, keep line breaks
//   - Detail keys: lowercase, non letters/digits become "_"
//   - Phone numbers: E.164 using the clinic's parsing regions
package sanitizer
