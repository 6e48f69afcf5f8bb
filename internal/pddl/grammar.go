package pddl

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The PDDL surface is s-expressions; the grammar parses a generic
// s-expression tree and the reader interprets it against the supported
// subset.

var pddlLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `;[^\n]*`, nil},

		{"LParen", `\(`, nil},
		{"RParen", `\)`, nil},

		// Keywords like :action, :precondition (order matters)
		{"Keyword", `:[a-zA-Z][a-zA-Z0-9_-]*`, nil},
		{"Variable", `\?[a-zA-Z][a-zA-Z0-9_-]*`, nil},
		{"Number", `-?[0-9]+(\.[0-9]+)?`, nil},
		{"Dash", `-`, nil},
		{"Symbol", `[a-zA-Z_][a-zA-Z0-9_-]*`, nil},

		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})

type Document struct {
	Exprs []*SExpr `@@*`
}

type SExpr struct {
	Pos lexer.Position

	Atom *Atom    `  @@`
	List []*SExpr `| "(" @@* ")"`
	// IsList disambiguates the empty list from a bare atom.
	IsList bool
}

type Atom struct {
	Pos lexer.Position

	Keyword  *string `  @Keyword`
	Variable *string `| @Variable`
	Number   *string `| @Number`
	Symbol   *string `| @Symbol`
	Dash     bool    `| @Dash`
}

var parser = participle.MustBuild[Document](
	participle.Lexer(pddlLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// ParseDocument parses a whole file into its top-level s-expressions.
func ParseDocument(path, source string) (*Document, error) {
	doc, err := parser.ParseString(path, source)
	if err != nil {
		return nil, err
	}
	for _, e := range doc.Exprs {
		markLists(e)
	}
	return doc, nil
}

// markLists distinguishes () from a missing atom after parsing.
func markLists(e *SExpr) {
	if e.Atom == nil {
		e.IsList = true
		for _, child := range e.List {
			markLists(child)
		}
	}
}

// head returns the leading symbol of a list, lowercased by convention of
// the writer; "" when the expression is not a symbol-headed list.
func (e *SExpr) head() string {
	if !e.IsList || len(e.List) == 0 {
		return ""
	}
	first := e.List[0]
	if first.Atom != nil && first.Atom.Symbol != nil {
		return *first.Atom.Symbol
	}
	return ""
}

// keywordHead returns the leading keyword (":requirements", ...) of a
// list, or "".
func (e *SExpr) keywordHead() string {
	if !e.IsList || len(e.List) == 0 {
		return ""
	}
	first := e.List[0]
	if first.Atom != nil && first.Atom.Keyword != nil {
		return *first.Atom.Keyword
	}
	return ""
}

func (e *SExpr) symbol() (string, bool) {
	if e.Atom != nil && e.Atom.Symbol != nil {
		return *e.Atom.Symbol, true
	}
	return "", false
}

func (e *SExpr) variable() (string, bool) {
	if e.Atom != nil && e.Atom.Variable != nil {
		return (*e.Atom.Variable)[1:], true
	}
	return "", false
}

func (e *SExpr) isDash() bool {
	return e.Atom != nil && e.Atom.Dash
}
