// Package syntax holds the trivia-complete syntax tree produced by
// internal/parser.
//
// A Tree owns the token stream of one file and an arena of nodes. Nodes refer
// to tokens and to each other by 1-based ids; the zero id means "absent".
// Every byte of the file belongs to exactly one token or one trivia item, so
// walking the tokens in order and concatenating their full text reproduces the
// file.
//
// Trees are never mutated after the parser returns them. A fix produces new
// text, and the new text is parsed into a new Tree.
package syntax
