// Package token defines lexical token kinds and trivia for C#-family sources.
// Invariants:
//   - Token.Text is exactly the source slice covered by Token.Span.
//   - Every byte of a file belongs to exactly one token or one trivia item,
//     so concatenating Leading, Text and Trailing of all tokens in order
//     (the EOF token included) reproduces the file.
//   - '>' is always lexed alone unless followed by '='; the parser joins
//     adjacent '>' tokens into shift operators so generic argument lists
//     like List<List<int>> need no re-lexing.
//   - Preprocessor lines (#region, #if, ...) are TriviaDirective and never
//     appear in the token stream.
package token
