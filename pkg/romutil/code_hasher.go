/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package romutil

import (
	"crypto/sha256"
	"fmt"
	"hash"

	"github.com/llamascript/llama/pkg/token"
)

// CodeHash is the content hash of a single function, or of the top-level
// script.
type CodeHash [sha256.Size]byte

// CodeHasher computes a content hash per function declared in a token
// stream, plus one hash for the top-level code outside any function. It
// operates directly on tokens rather than on a parsed tree, since
// llamaScript's compiler has none: a function body is simply the
// brace-matched span of tokens following `fn name(...)`.
//
// Hashing is used to detect meaningful changes to code -- changes that
// would require treating a function as a new version of itself.
type CodeHasher struct {
	// Hashes maps each function name to its content hash. The top-level
	// script (the tokens outside any `fn` declaration) is stored under the
	// empty name.
	Hashes map[string]CodeHash
}

// NewCodeHasher creates an empty CodeHasher.
func NewCodeHasher() *CodeHasher {
	return &CodeHasher{Hashes: map[string]CodeHash{}}
}

// HashTokens walks toks and populates Hashes, one entry per `fn`
// declaration plus one for the top-level script. A `fn` body whose braces
// never close is hashed through to the end of the stream; no error is
// reported.
func (hasher *CodeHasher) HashTokens(toks []token.Token) {
	top := sha256.New()
	i := 0

	for i < len(toks) && toks[i].Kind != token.End {
		if toks[i].Kind == token.Fn {
			name, digest, next := hashFunctionSpan(toks, i)
			hasher.Hashes[name] = digest
			i = next
			continue
		}

		writeToken(top, toks[i])
		i++
	}

	hasher.Hashes[""] = CodeHash(top.Sum(nil))
}

// hashFunctionSpan hashes the full span of the `fn` declaration starting
// at toks[start], from the `fn` keyword through its body's matching
// closing brace (inclusive). It returns the function's name, the span's
// digest, and the index just past the closing brace.
func hashFunctionSpan(toks []token.Token, start int) (name string, digest CodeHash, next int) {
	if start+1 < len(toks) && toks[start+1].Kind == token.Label {
		name = toks[start+1].Lexeme
	}

	h := sha256.New()
	depth := 0
	entered := false
	i := start

	for i < len(toks) {
		writeToken(h, toks[i])
		switch toks[i].Kind {
		case token.LBrace:
			depth++
			entered = true
		case token.RBrace:
			depth--
			if entered && depth == 0 {
				i++
				return name, CodeHash(h.Sum(nil)), i
			}
		}
		i++
	}

	return name, CodeHash(h.Sum(nil)), i
}

// writeToken feeds a token's kind and lexeme into h, with a separating
// zero byte so no sequence of tokens can collide with a different
// tokenization of the same bytes.
func writeToken(h hash.Hash, tok token.Token) {
	if _, err := fmt.Fprintf(h, "%d:%s", tok.Kind, tok.Lexeme); err != nil {
		panic(err)
	}
	if _, err := h.Write([]byte{0}); err != nil {
		panic(err)
	}
}
