// Package cow provides edit tokens for copy-on-write persistent structures.
//
// A persistent structure stamps every node it allocates with the Token of
// the edit session that created it. A node whose token matches the current
// session's token is private to that session and may be mutated in place;
// any other node is shared with a published snapshot and must be copied
// before it is changed.
//
// Tokens are compared by pointer identity only.
package cow

// Token identifies one edit session.
type Token struct {
	// Non-zero size so that distinct tokens never share an address.
	_ byte
}

// NewToken returns a fresh token that no existing node carries.
func NewToken() *Token {
	return &Token{}
}

// Owns reports whether a node stamped with owner belongs to the session t.
// A nil session owns nothing.
func (t *Token) Owns(owner *Token) bool {
	return t != nil && t == owner
}
