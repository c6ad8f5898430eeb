/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

// Package compiler is llamaScript's semantic analyser: it consumes the
// refactored token stream, dispatches on each statement's leading token,
// and drives an IR builder through a precedence-climbing expression
// engine equivalent to Shunting-Yard.
package compiler

import (
	"strconv"
	"strings"

	"github.com/llamascript/llama/pkg/bytecode"
	"github.com/llamascript/llama/pkg/errs"
	"github.com/llamascript/llama/pkg/ir"
	"github.com/llamascript/llama/pkg/token"
)

// unaryFloor is the minimum precedence a unary +/- operand parse
// continues to absorb. Set above every binary operator's precedence, a
// unary +/- operand parse never absorbs one: it grabs only the following
// primary/postfix chain, so the unary op is flushed ahead of any binary
// operator still waiting -- `-2 ** 2` parses as `(-2) ** 2`, not
// `-(2 ** 2)`.
var unaryFloor = token.Equal.Precedence() + 1

// binaryOps is the set of token kinds handled by the generic
// precedence-climbing binary-operator loop. Dot is handled in the postfix
// chain; Equal/Colon/Comma are handled structurally by their surrounding
// productions, never as a generic infix operator.
var binaryOps = map[token.Kind]bool{
	token.Plus: true, token.Minus: true, token.Multiply: true,
	token.Divide: true, token.Modulo: true, token.Power: true,
	token.Equals: true, token.NotEquals: true,
	token.Lesser: true, token.LeEquals: true,
	token.Greater: true, token.GrEquals: true,
	token.And: true, token.Or: true, token.As: true,
}

// Compiler drives one compilation unit: a flat token stream into a
// Module's function pool, sharing a single logger with the scanner.
type Compiler struct {
	toks []token.Token
	pos  int
	log  *errs.Logger
	mod  *bytecode.Module
}

// Compile compiles toks (already scanned and refactored) as a top-level
// program against mod, registering its implicit entry function and
// returning its index. Each statement compilation error is reported
// through log; if log.Recoverable is unset, the first error exits the
// process per the logger's default behavior.
func Compile(toks []token.Token, mod *bytecode.Module, log *errs.Logger) (int, errs.Error) {
	c := &Compiler{toks: toks, log: log, mod: mod}

	b := ir.NewBuilder(mod)
	for !c.atEnd() {
		if err := c.statement(b); err != nil {
			return 0, err
		}
	}
	b.ReturnV()

	code, _ := b.Build()
	idx := mod.Functions.Add(&bytecode.FunctionEntry{Name: "", Code: code})
	mod.EntryFunction = idx
	return idx, nil
}

// DumpIR compiles toks against a throwaway module and returns the textual
// dump of the top-level program's IR instructions before they are packed
// into bytecode, for the `dev ir` diagnostic command. Functions declared
// with `fn` are compiled (and registered in the throwaway module) but are
// not included in the returned dump, which only covers top-level code.
func DumpIR(toks []token.Token, log *errs.Logger) (string, errs.Error) {
	mod := bytecode.NewModule()
	c := &Compiler{toks: toks, log: log, mod: mod}

	b := ir.NewBuilder(mod)
	for !c.atEnd() {
		if err := c.statement(b); err != nil {
			return "", err
		}
	}
	b.ReturnV()

	return b.Dump(), nil
}

//
// Token cursor
//

func (c *Compiler) peek() token.Token {
	return c.toks[c.pos]
}

func (c *Compiler) peekAt(offset int) token.Token {
	i := c.pos + offset
	if i >= len(c.toks) {
		return c.toks[len(c.toks)-1]
	}
	return c.toks[i]
}

func (c *Compiler) advance() token.Token {
	tok := c.toks[c.pos]
	if tok.Kind != token.End {
		c.pos++
	}
	return tok
}

func (c *Compiler) atEnd() bool {
	return c.peek().Kind == token.End
}

func (c *Compiler) check(k token.Kind) bool {
	return c.peek().Kind == k
}

func (c *Compiler) match(k token.Kind) bool {
	if !c.check(k) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) expect(k token.Kind, what string) (token.Token, errs.Error) {
	if !c.check(k) {
		return token.Token{}, c.errorAt("expected %v, found `%v`", what, c.peek().Lexeme)
	}
	return c.advance(), nil
}

func (c *Compiler) errorAt(format string, a ...any) errs.Error {
	tok := c.peek()
	c.log.SetSnippet(tok.Position.Line, tok.Position.Column, tok.Lexeme)
	return c.log.Log(errs.LevelSyntaxError, format, a...)
}

//
// Statements
//

func (c *Compiler) statement(b *ir.Builder) errs.Error {
	switch c.peek().Kind {
	case token.LBrace:
		return c.blockStatement(b)
	case token.If:
		return c.ifStatement(b)
	case token.While:
		return c.whileStatement(b)
	case token.Loop:
		return c.loopStatement(b)
	case token.Fn:
		return c.fnDeclaration(b)
	case token.Return:
		return c.returnStatement(b)
	case token.Repeat:
		c.advance()
		if _, err := c.expect(token.Semicolon, "`;`"); err != nil {
			return err
		}
		b.Repeat()
		return nil
	case token.Break:
		c.advance()
		if _, err := c.expect(token.Semicolon, "`;`"); err != nil {
			return err
		}
		b.Break()
		return nil
	case token.Var, token.Let, token.Const:
		return c.declStatement(b)
	case token.Else:
		return c.errorAt("`else` without matching `if`")
	case token.Class:
		return c.errorAt("class declarations are not supported")
	case token.For:
		return c.errorAt("`for` loops are not supported, use `while` or `loop`")
	default:
		return c.exprStatement(b)
	}
}

func (c *Compiler) blockStatement(b *ir.Builder) errs.Error {
	c.advance() // {
	b.PushBlock()
	for !c.check(token.RBrace) && !c.atEnd() {
		if err := c.statement(b); err != nil {
			return err
		}
	}
	if _, err := c.expect(token.RBrace, "`}`"); err != nil {
		return err
	}
	b.EndBlock()
	return nil
}

// bareBlockBody compiles the statements of a `{ ... }` body directly into
// an already-open structured scope (used by if/while/loop, whose opening
// IF/LOOP instruction is itself the scope's opener -- no extra BLOCK is
// emitted around the braces).
func (c *Compiler) bareBlockBody(b *ir.Builder) errs.Error {
	if _, err := c.expect(token.LBrace, "`{`"); err != nil {
		return err
	}
	for !c.check(token.RBrace) && !c.atEnd() {
		if err := c.statement(b); err != nil {
			return err
		}
	}
	_, err := c.expect(token.RBrace, "`}`")
	return err
}

func (c *Compiler) ifStatement(b *ir.Builder) errs.Error {
	c.advance() // if
	if err := c.expr(b, 0); err != nil {
		return err
	}
	b.PushIf()
	if err := c.bareBlockBody(b); err != nil {
		return err
	}
	if c.match(token.Else) {
		b.PushElse()
		if err := c.bareBlockBody(b); err != nil {
			return err
		}
	}
	b.EndBlock()
	return nil
}

func (c *Compiler) whileStatement(b *ir.Builder) errs.Error {
	c.advance() // while
	b.PushLoop()
	if err := c.expr(b, 0); err != nil {
		return err
	}
	b.Not()
	b.PushIf()
	b.Break()
	b.EndBlock()
	if err := c.bareBlockBody(b); err != nil {
		return err
	}
	b.Repeat()
	b.EndBlock()
	return nil
}

func (c *Compiler) loopStatement(b *ir.Builder) errs.Error {
	c.advance() // loop
	b.PushLoop()
	if err := c.bareBlockBody(b); err != nil {
		return err
	}
	b.Repeat()
	b.EndBlock()
	return nil
}

func (c *Compiler) returnStatement(b *ir.Builder) errs.Error {
	c.advance() // return
	if c.match(token.Semicolon) {
		b.ReturnV()
		return nil
	}
	if err := c.expr(b, 0); err != nil {
		return err
	}
	if _, err := c.expect(token.Semicolon, "`;`"); err != nil {
		return err
	}
	b.Return()
	return nil
}

func (c *Compiler) fnDeclaration(b *ir.Builder) errs.Error {
	line := c.peek().Position.Line
	c.advance() // fn

	name := ""
	if c.check(token.Label) {
		name = c.advance().Lexeme
	}

	if _, err := c.expect(token.LParen, "`(`"); err != nil {
		return err
	}
	var params []bytecode.Param
	if !c.check(token.RParen) {
		for {
			fieldTok, err := c.expect(token.Label, "parameter name")
			if err != nil {
				return err
			}
			p := bytecode.Param{Field: fieldTok.Lexeme}
			if c.match(token.Colon) {
				typeTok := c.advance()
				p.Type = typeTok.Lexeme
			}
			params = append(params, p)
			if !c.match(token.Comma) {
				break
			}
		}
	}
	if _, err := c.expect(token.RParen, "`)`"); err != nil {
		return err
	}

	fb := ir.NewBuilder(c.mod)
	if err := c.bareBlockBody(fb); err != nil {
		return err
	}
	fb.ReturnV()
	code, _ := fb.Build()

	idx := c.mod.Functions.Add(&bytecode.FunctionEntry{
		Name: name,
		Args: params,
		Code: code,
		Line: line,
	})

	if name == "" {
		b.PushFunc(int32(idx))
		b.Pop()
		return nil
	}

	b.NewGlobal(name)
	b.RefGlobal(name)
	b.PushFunc(int32(idx))
	b.RefSet(-1)
	b.Pop()
	return nil
}

func (c *Compiler) declStatement(b *ir.Builder) errs.Error {
	isGlobal := c.peek().Kind == token.Var
	c.advance() // var/let/const

	nameTok, err := c.expect(token.Label, "variable name")
	if err != nil {
		return err
	}

	if c.match(token.Colon) {
		for !c.check(token.Equal) && !c.check(token.Semicolon) && !c.atEnd() {
			c.advance()
		}
	}

	if isGlobal {
		b.NewGlobal(nameTok.Lexeme)
	} else {
		b.NewLocal(nameTok.Lexeme)
	}

	if c.match(token.Equal) {
		b.RefGlobal(nameTok.Lexeme)
		if err := c.expr(b, 0); err != nil {
			return err
		}
		b.RefSet(-1)
		b.Pop()
	}

	_, err = c.expect(token.Semicolon, "`;`")
	return err
}

func (c *Compiler) exprStatement(b *ir.Builder) errs.Error {
	handled, err := c.tryAssignment(b)
	if err != nil {
		return err
	}
	if !handled {
		if err := c.expr(b, 0); err != nil {
			return err
		}
	}
	if _, err := c.expect(token.Semicolon, "`;`"); err != nil {
		return err
	}
	b.Pop()
	return nil
}

// tryAssignment looks ahead for a Label (.Label)* chain immediately
// followed by `=`; if found, it compiles the whole statement as an
// assignment and reports handled=true. Otherwise it rewinds and reports
// handled=false, leaving normal expression parsing to re-scan the tokens.
func (c *Compiler) tryAssignment(b *ir.Builder) (handled bool, err errs.Error) {
	if !c.check(token.Label) {
		return false, nil
	}
	start := c.pos
	c.advance()
	for c.check(token.Dot) {
		c.advance()
		if !c.check(token.Label) {
			c.pos = start
			return false, nil
		}
		c.advance()
	}
	if !c.check(token.Equal) {
		c.pos = start
		return false, nil
	}

	c.pos = start
	if err := c.refChain(b); err != nil {
		return true, err
	}
	c.advance() // =
	if err := c.expr(b, 0); err != nil {
		return true, err
	}
	b.RefSet(-1)
	return true, nil
}

// refChain compiles a Label (`.` Label)* lvalue chain, emitting a
// REFGLOBAL for the base name and rewriting it into REFPROPERTY for each
// following `.`, per the compiler's dot-rewrite rule.
func (c *Compiler) refChain(b *ir.Builder) errs.Error {
	nameTok, err := c.expect(token.Label, "variable name")
	if err != nil {
		return err
	}
	b.RefGlobal(nameTok.Lexeme)
	for c.match(token.Dot) {
		propTok, err := c.expect(token.Label, "property name")
		if err != nil {
			return err
		}
		b.PopInst()
		b.RefProperty(propTok.Lexeme)
	}
	return nil
}

//
// Expressions
//

// expr parses an expression via precedence climbing, stopping at the
// first token that is not a recognized continuing operator at or above
// minPrec -- equivalent to a Shunting-Yard pass with an implicit operator
// stack represented by the Go call stack.
func (c *Compiler) expr(b *ir.Builder, minPrec int) errs.Error {
	if err := c.unaryAndPostfix(b); err != nil {
		return err
	}

	for {
		opTok := c.peek()
		if !binaryOps[opTok.Kind] {
			return nil
		}
		prec := opTok.Kind.Precedence()
		if prec == 0 || prec < minPrec {
			return nil
		}
		c.advance()

		if opTok.Kind == token.As {
			typeTok := c.peek()
			if !typeTok.Kind.IsPrimitive() {
				return c.errorAt("expected a type name after `as`")
			}
			c.advance()
			b.As(typeTok.Lexeme)
			continue
		}

		nextMin := prec + 1
		if opTok.Kind.IsRightAssociative() {
			nextMin = prec
		}
		if err := c.expr(b, nextMin); err != nil {
			return err
		}
		emitBinary(b, opTok.Kind)
	}
}

func emitBinary(b *ir.Builder, k token.Kind) {
	switch k {
	case token.Plus:
		b.Add()
	case token.Minus:
		b.Sub()
	case token.Multiply:
		b.Mul()
	case token.Divide:
		b.Div()
	case token.Modulo:
		b.Mod()
	case token.Power:
		b.Pow()
	case token.Equals:
		b.Eq()
	case token.NotEquals:
		b.Ne()
	case token.Lesser:
		b.Lt()
	case token.LeEquals:
		b.Le()
	case token.Greater:
		b.Gt()
	case token.GrEquals:
		b.Ge()
	case token.And:
		b.And()
	case token.Or:
		b.Or()
	}
}

// unaryAndPostfix parses one primary expression, any unary prefix, and
// any trailing dot/call postfix chain.
func (c *Compiler) unaryAndPostfix(b *ir.Builder) errs.Error {
	tok := c.peek()
	switch tok.Kind {
	case token.UnaryMinus:
		c.advance()
		if err := c.expr(b, unaryFloor); err != nil {
			return err
		}
		b.Negate()
		return nil
	case token.UnaryPlus:
		c.advance()
		if err := c.expr(b, unaryFloor); err != nil {
			return err
		}
		b.Promote()
		return nil
	case token.Not:
		c.advance()
		if err := c.expr(b, tok.Kind.Precedence()); err != nil {
			return err
		}
		b.Not()
		return nil
	}

	if err := c.primary(b); err != nil {
		return err
	}
	return c.postfix(b)
}

func (c *Compiler) primary(b *ir.Builder) errs.Error {
	tok := c.advance()
	switch tok.Kind {
	case token.Integer:
		v, err := parseInt(tok.Lexeme)
		if err != nil {
			return c.errorAt("malformed integer literal `%v`", tok.Lexeme)
		}
		b.PushInt(v)
	case token.Decimal:
		v, err := parseFloat(tok.Lexeme)
		if err != nil {
			return c.errorAt("malformed decimal literal `%v`", tok.Lexeme)
		}
		b.PushFloat(v)
	case token.String, token.RawString:
		b.PushString(tok.Lexeme)
	case token.Null:
		b.PushNull()
	case token.True:
		b.PushTrue()
	case token.False:
		b.PushFalse()
	case token.Label:
		b.GetGlobal(tok.Lexeme)
	case token.LParen:
		if err := c.expr(b, 0); err != nil {
			return err
		}
		if _, err := c.expect(token.RParen, "`)`"); err != nil {
			return err
		}
	case token.LBracket:
		var n int32
		if !c.check(token.RBracket) {
			if err := c.expr(b, 0); err != nil {
				return err
			}
			n = 1
			for c.match(token.Comma) {
				if err := c.expr(b, 0); err != nil {
					return err
				}
				n++
			}
		}
		if _, err := c.expect(token.RBracket, "`]`"); err != nil {
			return err
		}
		b.PushList(n)
	default:
		return c.errorAt("unexpected token `%v`", tok.Lexeme)
	}
	return nil
}

func (c *Compiler) postfix(b *ir.Builder) errs.Error {
	for {
		switch c.peek().Kind {
		case token.Dot:
			c.advance()
			propTok, err := c.expect(token.Label, "property name")
			if err != nil {
				return err
			}
			last := b.PopInst()
			if last.Opcode == bytecode.OpRefGlobal || last.Opcode == bytecode.OpRefProperty {
				b.RefProperty(propTok.Lexeme)
			} else {
				b.GetProperty(propTok.Lexeme)
			}
		case token.CallStart:
			if err := c.call(b); err != nil {
				return err
			}
		case token.LBracket:
			c.advance()
			if err := c.expr(b, 0); err != nil {
				return err
			}
			if _, err := c.expect(token.RBracket, "`]`"); err != nil {
				return err
			}
			b.GetIndex()
		default:
			return nil
		}
	}
}

func (c *Compiler) call(b *ir.Builder) errs.Error {
	c.advance() // CallStart
	if _, err := c.expect(token.LParen, "`(`"); err != nil {
		return err
	}

	var arity int32
	if !c.check(token.RParen) {
		if err := c.expr(b, 0); err != nil {
			return err
		}
		arity = 1
		for c.match(token.Comma) {
			if err := c.expr(b, 0); err != nil {
				return err
			}
			arity++
		}
	}

	if _, err := c.expect(token.RParen, "`)`"); err != nil {
		return err
	}
	if _, err := c.expect(token.CallEnd, "call terminator"); err != nil {
		return err
	}
	b.Call(arity)
	return nil
}

//
// Literal parsing
//

func parseInt(lexeme string) (int32, error) {
	cleaned := strings.ReplaceAll(lexeme, "_", "")
	v, err := strconv.ParseInt(cleaned, 0, 64)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

func parseFloat(lexeme string) (float64, error) {
	cleaned := strings.ReplaceAll(lexeme, "_", "")
	return strconv.ParseFloat(cleaned, 64)
}
