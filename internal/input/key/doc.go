// Package key provides key tokens and parsing for the input system.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: Identifies a keyboard key (named keys or KeyRune for characters)
//   - Modifier: Represents modifier keys (Ctrl, Alt, Shift, Meta)
//   - Token: A single canonical key press with modifiers
//   - Sequence: An ordered run of tokens (binding triggers, expansions)
//
// # Key Notation
//
// Bare characters represent themselves. Named keys and modified keys are
// written in angle brackets with optional modifier prefixes:
//
//	"a", "V", ":"          plain characters
//	"<Esc>", "<CR>"        named keys
//	"<C-s>", "<S-+>"       modifiers S- (Shift), C- (Control), A- (Alt), M-/D- (Meta)
//	"<Esc>hi"              sequences mix both forms
//
// Tokens are always canonicalized: Shift on a character key is folded into
// the character itself, so "<S-+>" and "+" denote the same token.
package key
