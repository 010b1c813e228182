package generator

import (
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

// Prefix marks a directive comment.
const Prefix = "//indirect:"

// ModePrefix marks the line, before the package clause, selecting the mode of a whole file.
const ModePrefix = Prefix + "mode="

const optResolver = "resolver"

// Directive is a parsed //indirect: comment.
type Directive struct {
	Pos      token.Position // position of the comment
	Resolver ast.Expr       // nil when the directive carries no resolver option
	Source   string         // resolver expression as written
}

// IsDirective reports whether a comment is an //indirect: directive.
func IsDirective(c *ast.Comment) bool {
	return strings.HasPrefix(c.Text, Prefix)
}

// ParseDirective parses the options of an //indirect: comment.
//
// Options are comma separated key=value pairs, the only recognized key is resolver
// whose value is a Go string literal holding an expression:
//
//	//indirect:resolver="pick"
//	//indirect:resolver="dynamic.Resolver[func(int) int](mod, `sample.Run`)"
//
// Every failure is a *Diagnostic located at the offending token.
func ParseDirective(fset *token.FileSet, c *ast.Comment) (d *Directive, err error) {
	base := fset.Position(c.Slash)
	d = &Directive{Pos: base}
	text := strings.TrimPrefix(c.Text, Prefix)
	file := token.NewFileSet().AddFile("", -1, len(text))
	at := func(p token.Pos) token.Position {
		n := len(Prefix) + file.Offset(p)
		v := base
		v.Offset += n
		v.Column += n
		return v
	}
	var s scanner.Scanner
	s.Init(file, []byte(text), func(pos token.Position, msg string) {
		n := len(Prefix) + pos.Offset
		v := base
		v.Offset += n
		v.Column += n
		err = multierr.Append(err, diag(v, "%s", msg))
	}, 0)
	next := func() (token.Pos, token.Token, string) {
		pos, tok, lit := s.Scan()
		if tok == token.SEMICOLON && lit == "\n" {
			tok = token.EOF
		}
		return pos, tok, lit
	}
	seen := false
	pos, tok, lit := next()
	for tok != token.EOF && err == nil {
		if tok != token.IDENT {
			return nil, diag(at(pos), "unexpected %s", describe(tok, lit))
		}
		key, keyPos := lit, pos
		pos, tok, lit = next()
		if key != optResolver {
			return nil, diag(at(keyPos), "unknown option %q, expected 'resolver'", key)
		}
		if seen {
			return nil, diag(at(keyPos), "duplicate option %q", key)
		}
		seen = true
		if tok != token.ASSIGN {
			return nil, diag(at(keyPos), "resolver must be a string containing an expression")
		}
		pos, tok, lit = next()
		if tok != token.STRING {
			return nil, diag(at(pos), "resolver must be a string containing an expression")
		}
		if d.Source, err = strconv.Unquote(lit); err != nil {
			return nil, diag(at(pos), "resolver must be a string containing an expression")
		}
		if d.Resolver, err = parser.ParseExpr(d.Source); err != nil {
			return nil, diag(at(pos), "bad expression: %s", err)
		}
		pos, tok, lit = next()
		switch tok {
		case token.COMMA:
			pos, tok, lit = next()
		case token.EOF:
		default:
			return nil, diag(at(pos), "unexpected %s", describe(tok, lit))
		}
	}
	if err != nil {
		return nil, err
	}
	return
}

func describe(tok token.Token, lit string) string {
	if lit != "" && tok != token.SEMICOLON {
		return strconv.Quote(lit)
	}
	return tok.String()
}

// FindDirective parses the directives of a function declaration doc comment.
//
// It returns nil without error when the declaration carries no directive with a resolver,
// such declarations are passed through unmodified.
func FindDirective(fset *token.FileSet, decl *ast.FuncDecl) (d *Directive, err error) {
	if decl.Doc == nil {
		return
	}
	for _, c := range decl.Doc.List {
		if !IsDirective(c) {
			continue
		}
		x, e := ParseDirective(fset, c)
		if e != nil {
			err = multierr.Append(err, e)
			continue
		}
		if x.Resolver == nil {
			continue
		}
		if d != nil {
			err = multierr.Append(err, diag(x.Pos, "duplicate option %q", optResolver))
			continue
		}
		d = x
	}
	if err != nil {
		return nil, err
	}
	return
}
