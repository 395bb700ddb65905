// Package token defines the lexical tokens of the Mu surface syntax.
package token

import (
	"fmt"

	"github.com/mu-lang/mu/internal/position"
)

// Kind identifies the lexical class of a Token.
type Kind int

const (
	EOF Kind = iota
	Illegal

	Num   // numeric literal, e.g. 42
	Ident // identifier, e.g. x, fib

	KwLet
	KwMut
	KwBox
	KwRef
	KwFn

	Assign // =
	Star   // *
	Colon  // :
	Comma  // ,
	LParen // (
	RParen // )
	LCurl  // {
	RCurl  // }
)

var names = map[Kind]string{
	EOF:     "EOF",
	Illegal: "ILLEGAL",
	Num:     "NUM",
	Ident:   "IDENT",
	KwLet:   "let",
	KwMut:   "mut",
	KwBox:   "box",
	KwRef:   "ref",
	KwFn:    "fn",
	Assign:  "=",
	Star:    "*",
	Colon:   ":",
	Comma:   ",",
	LParen:  "(",
	RParen:  ")",
	LCurl:   "{",
	RCurl:   "}",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps reserved identifiers to their keyword Kind.
var Keywords = map[string]Kind{
	"let": KwLet,
	"mut": KwMut,
	"box": KwBox,
	"ref": KwRef,
	"fn":  KwFn,
}

// Token is a single lexeme with its source position.
type Token struct {
	Kind    Kind
	Literal string
	Num     int64
	Pos     position.Position
}

func (t Token) String() string {
	if t.Literal != "" {
		return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Literal, t.Pos)
	}
	return fmt.Sprintf("%s@%s", t.Kind, t.Pos)
}
