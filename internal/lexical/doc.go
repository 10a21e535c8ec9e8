// Package lexical classifies identifiers: it splits them into words, finds
// acronyms whose casing is inconsistent and re-cases identifiers for fixes.
//
// All functions are pure. A Dictionary is built once and shared read-only.
package lexical
