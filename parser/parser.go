// Package parser implements a recursive-descent statement parser with a
// Pratt expression parser for Lx, following the same prefix/infix
// function-table shape as the lexer-paired parser it is modeled on.
package parser

import (
	"strconv"
	"strings"

	"github.com/ppyne/lx/ast"
	"github.com/ppyne/lx/diag"
	"github.com/ppyne/lx/lexer"
	"github.com/ppyne/lx/token"
)

// Operator precedence levels, lowest to highest.
const (
	_ int = iota
	LOWEST
	ASSIGNMENT     // = += -= *= /= .=
	TERNARY        // ?: ??
	LOGICAL_OR     // ||
	LOGICAL_AND    // &&
	EQUALITY       // == != === !==
	COMPARISON     // < <= > >=
	BITOR          // |
	BITXOR         // ^
	BITAND         // &
	SHIFT          // << >>
	CONCATENATION  // .
	ADDITIVE       // + -
	MULTIPLICATIVE // * / %
	POWER          // ** (right-associative)
	UNARY          // ! ~ unary- ++ --
	CALL           // f(...), a[...]
)

var precedences = map[token.Kind]int{
	token.ASSIGN:        ASSIGNMENT,
	token.PLUS_ASSIGN:   ASSIGNMENT,
	token.MINUS_ASSIGN:  ASSIGNMENT,
	token.STAR_ASSIGN:   ASSIGNMENT,
	token.SLASH_ASSIGN:  ASSIGNMENT,
	token.CONCAT_ASSIGN: ASSIGNMENT,
	token.QUESTION:      TERNARY,
	token.COALESCE:      TERNARY,
	token.OROR:          LOGICAL_OR,
	token.ANDAND:        LOGICAL_AND,
	token.EQ:            EQUALITY,
	token.NEQ:           EQUALITY,
	token.SEQ:           EQUALITY,
	token.SNEQ:          EQUALITY,
	token.LT:            COMPARISON,
	token.LTE:           COMPARISON,
	token.GT:            COMPARISON,
	token.GTE:           COMPARISON,
	token.PIPE:          BITOR,
	token.CARET:         BITXOR,
	token.AMP:           BITAND,
	token.SHL:           SHIFT,
	token.SHR:           SHIFT,
	token.CONCAT:        CONCATENATION,
	token.PLUS:          ADDITIVE,
	token.MINUS:         ADDITIVE,
	token.STAR:          MULTIPLICATIVE,
	token.SLASH:         MULTIPLICATIVE,
	token.PERCENT:       MULTIPLICATIVE,
	token.POW:           POWER,
	token.LPAREN:        CALL,
	token.LBRACKET:      CALL,
	token.INC:           CALL,
	token.DEC:           CALL,
}

// magic constants resolved at evaluation time rather than lexed directly.
var evalTimeMagics = map[string]bool{
	"__LINE__": true, "__FILE__": true, "__DIR__": true, "__FUNCTION__": true,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser turns a token stream into an *ast.Program. It stops at the first
// error: no error-recovery/synchronization is attempted, matching the
// single-diagnostic-slot model the rest of the language uses.
type Parser struct {
	l        *lexer.Lexer
	filename string

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.Kind]prefixParseFn
	infixParseFns  map[token.Kind]infixParseFn
}

// New creates a Parser reading from l. filename is passed on to the
// nested parsers that handle `${...}` interpolation; the parser does not
// otherwise use it.
func New(l *lexer.Lexer, filename string) *Parser {
	p := &Parser{l: l, filename: filename}

	p.prefixParseFns = make(map[token.Kind]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifierOrCall)
	p.registerPrefix(token.VARIABLE, p.parseVariable)
	p.registerPrefix(token.DOLLAR2, p.parseDynamicVariable)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.SSTRING, p.parseSingleQuotedString)
	p.registerPrefix(token.DSTRING, p.parseDoubleQuotedString)
	p.registerPrefix(token.TRUE, p.parseBoolLiteral)
	p.registerPrefix(token.FALSE, p.parseBoolLiteral)
	p.registerPrefix(token.NULL, p.parseNullLiteral)
	p.registerPrefix(token.UNDEFINED, p.parseUndefinedLiteral)
	p.registerPrefix(token.VOID, p.parseVoidLiteral)
	p.registerPrefix(token.MAGIC_INT, p.parseMagicIntLiteral)
	p.registerPrefix(token.MAGIC_FLOAT, p.parseMagicFloatLiteral)
	p.registerPrefix(token.MAGIC_STRING, p.parseMagicStringLiteral)
	p.registerPrefix(token.NOT, p.parseUnaryExpression)
	p.registerPrefix(token.TILDE, p.parseUnaryExpression)
	p.registerPrefix(token.MINUS, p.parseUnaryExpression)
	p.registerPrefix(token.PLUS, p.parseUnaryExpression)
	p.registerPrefix(token.INC, p.parsePrefixIncDec)
	p.registerPrefix(token.DEC, p.parsePrefixIncDec)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)

	p.infixParseFns = make(map[token.Kind]infixParseFn)
	for _, k := range []token.Kind{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.POW,
		token.CONCAT, token.AMP, token.PIPE, token.CARET, token.SHL, token.SHR,
		token.EQ, token.NEQ, token.SEQ, token.SNEQ,
		token.LT, token.LTE, token.GT, token.GTE,
		token.ANDAND, token.OROR,
	} {
		p.registerInfix(k, p.parseBinaryExpression)
	}
	for _, k := range []token.Kind{
		token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN,
		token.STAR_ASSIGN, token.SLASH_ASSIGN, token.CONCAT_ASSIGN,
	} {
		p.registerInfix(k, p.parseAssignExpression)
	}
	p.registerInfix(token.QUESTION, p.parseTernaryExpression)
	p.registerInfix(token.COALESCE, p.parseNullCoalesceExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)
	p.registerInfix(token.INC, p.parsePostfixIncDec)
	p.registerInfix(token.DEC, p.parsePostfixIncDec)

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(k token.Kind, fn prefixParseFn) { p.prefixParseFns[k] = fn }
func (p *Parser) registerInfix(k token.Kind, fn infixParseFn)   { p.infixParseFns[k] = fn }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(k token.Kind) bool  { return p.curToken.Kind == k }
func (p *Parser) peekTokenIs(k token.Kind) bool { return p.peekToken.Kind == k }

func (p *Parser) expectPeek(k token.Kind) bool {
	if p.peekTokenIs(k) {
		p.nextToken()
		return true
	}
	p.peekError(k)
	return false
}

func (p *Parser) peekError(want token.Kind) {
	if diag.Present() {
		return
	}
	diag.Set(diag.Parse, p.peekToken.Line, p.peekToken.Col,
		"expected %s, got %s (%q)", want, p.peekToken.Kind, p.peekToken.Literal)
}

func (p *Parser) errorf(format string, args ...any) {
	if diag.Present() {
		return
	}
	diag.Set(diag.Parse, p.curToken.Line, p.curToken.Col, format, args...)
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Kind]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Kind]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses the whole token stream. It stops as soon as the
// diagnostic slot becomes non-empty, returning whatever was built so far.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for !p.curTokenIs(token.EOF) && !diag.Present() {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if diag.Present() {
			break
		}
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}
	return program
}

// -----------------------------------------------------------------------
// Statements
// -----------------------------------------------------------------------

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Kind {
	case token.FUNCTION:
		return p.parseFunctionDeclaration()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		return &ast.BreakStatement{Base: ast.Base{Tok: p.curToken}}
	case token.CONTINUE:
		return &ast.ContinueStatement{Base: ast.Base{Tok: p.curToken}}
	case token.UNSET:
		return p.parseUnsetStatement()
	case token.GLOBAL:
		return p.parseGlobalStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.DO:
		return p.parseDoWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.FOREACH:
		return p.parseForeachStatement()
	case token.SWITCH:
		return p.parseSwitchStatement()
	case token.INCLUDE:
		return p.parseIncludeStatement(false)
	case token.INCLUDE_ONCE:
		return p.parseIncludeStatement(true)
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.LBRACKET:
		if !p.peekTokenIs(token.VARIABLE) && !p.peekTokenIs(token.DOLLAR2) && !p.peekTokenIs(token.COMMA) {
			return p.parseExpressionStatement()
		}
		d := p.parseDestructureAssignStatement()
		if d == nil {
			return nil
		}
		return &ast.ExpressionStatement{Base: d.Base, Expr: d}
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Base: ast.Base{Tok: p.curToken}}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) && !diag.Present() {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if diag.Present() {
			return block
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

func (p *Parser) parseFunctionDeclaration() *ast.FunctionDeclaration {
	fn := &ast.FunctionDeclaration{Base: ast.Base{Tok: p.curToken}}
	if !p.expectPeek(token.IDENT) {
		return fn
	}
	fn.Name = p.curToken.Literal
	if !p.expectPeek(token.LPAREN) {
		return fn
	}

	seenDefault := false
	for !p.peekTokenIs(token.RPAREN) {
		if !p.expectPeek(token.VARIABLE) {
			return fn
		}
		param := ast.Param{Name: p.curToken.Literal}
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			param.Default = p.parseExpression(ASSIGNMENT)
			seenDefault = true
		} else if seenDefault {
			p.errorf("non-default parameter %q follows a default parameter", param.Name)
			return fn
		}
		fn.Params = append(fn.Params, param)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return fn
	}
	if !p.expectPeek(token.LBRACE) {
		return fn
	}
	fn.Body = p.parseBlockStatement()
	return fn
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Base: ast.Base{Tok: p.curToken}}
	if p.peekTokenIs(token.SEMICOLON) || p.peekTokenIs(token.RBRACE) {
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	return stmt
}

func (p *Parser) parseUnsetStatement() *ast.UnsetStatement {
	stmt := &ast.UnsetStatement{Base: ast.Base{Tok: p.curToken}}
	if !p.expectPeek(token.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Target = p.parseExpression(LOWEST)
	if !isLvalue(stmt.Target) {
		p.errorf("unset target must be a variable, dynamic variable, or index expression")
		return stmt
	}
	if !p.expectPeek(token.RPAREN) {
		return stmt
	}
	return stmt
}

func (p *Parser) parseGlobalStatement() *ast.GlobalStatement {
	stmt := &ast.GlobalStatement{Base: ast.Base{Tok: p.curToken}}
	for {
		if !p.expectPeek(token.VARIABLE) {
			return stmt
		}
		stmt.Names = append(stmt.Names, p.curToken.Literal)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	return stmt
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	stmt := &ast.IfStatement{Base: ast.Base{Tok: p.curToken}}
	if !p.expectPeek(token.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return stmt
	}
	if !p.expectPeek(token.LBRACE) {
		return stmt
	}
	stmt.Consequence = p.parseBlockStatement()

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			stmt.Alternative = p.parseIfStatement()
		} else if p.expectPeek(token.LBRACE) {
			stmt.Alternative = p.parseBlockStatement()
		}
	}
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	stmt := &ast.WhileStatement{Base: ast.Base{Tok: p.curToken}}
	if !p.expectPeek(token.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return stmt
	}
	if !p.expectPeek(token.LBRACE) {
		return stmt
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseDoWhileStatement() *ast.DoWhileStatement {
	stmt := &ast.DoWhileStatement{Base: ast.Base{Tok: p.curToken}}
	if !p.expectPeek(token.LBRACE) {
		return stmt
	}
	stmt.Body = p.parseBlockStatement()
	if !p.expectPeek(token.WHILE) {
		return stmt
	}
	if !p.expectPeek(token.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return stmt
	}
	return stmt
}

func (p *Parser) parseExpressionListUntil(end token.Kind) []ast.Expression {
	var list []ast.Expression
	if p.peekTokenIs(end) {
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}
	return list
}

func (p *Parser) parseForStatement() *ast.ForStatement {
	stmt := &ast.ForStatement{Base: ast.Base{Tok: p.curToken}}
	if !p.expectPeek(token.LPAREN) {
		return stmt
	}
	stmt.Init = p.parseExpressionListUntil(token.SEMICOLON)
	if !p.expectPeek(token.SEMICOLON) {
		return stmt
	}
	if !p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		stmt.Condition = p.parseExpression(LOWEST)
	}
	if !p.expectPeek(token.SEMICOLON) {
		return stmt
	}
	stmt.Step = p.parseExpressionListUntil(token.RPAREN)
	if !p.expectPeek(token.RPAREN) {
		return stmt
	}
	if !p.expectPeek(token.LBRACE) {
		return stmt
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseForeachStatement() *ast.ForeachStatement {
	stmt := &ast.ForeachStatement{Base: ast.Base{Tok: p.curToken}}
	if !p.expectPeek(token.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Iterable = p.parseExpression(LOWEST)
	if !p.expectPeek(token.AS) {
		return stmt
	}
	if !p.expectPeek(token.VARIABLE) {
		return stmt
	}
	first := &ast.Variable{Base: ast.Base{Tok: p.curToken}, Name: p.curToken.Literal}
	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		if !p.expectPeek(token.VARIABLE) {
			return stmt
		}
		stmt.KeyVar = first
		stmt.ValueVar = &ast.Variable{Base: ast.Base{Tok: p.curToken}, Name: p.curToken.Literal}
	} else {
		stmt.ValueVar = first
	}
	if !p.expectPeek(token.RPAREN) {
		return stmt
	}
	if !p.expectPeek(token.LBRACE) {
		return stmt
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseSwitchStatement() *ast.SwitchStatement {
	stmt := &ast.SwitchStatement{Base: ast.Base{Tok: p.curToken}}
	if !p.expectPeek(token.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Scrutinee = p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return stmt
	}
	if !p.expectPeek(token.LBRACE) {
		return stmt
	}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) && !diag.Present() {
		clause := &ast.CaseClause{}
		switch p.curToken.Kind {
		case token.CASE:
			p.nextToken()
			clause.Expr = p.parseExpression(LOWEST)
			if !p.expectPeek(token.COLON) {
				return stmt
			}
		case token.DEFAULT:
			if !p.expectPeek(token.COLON) {
				return stmt
			}
		default:
			p.errorf("expected case or default, got %s", p.curToken.Kind)
			return stmt
		}
		p.nextToken()
		for !p.curTokenIs(token.CASE) && !p.curTokenIs(token.DEFAULT) &&
			!p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) && !diag.Present() {
			if p.curTokenIs(token.SEMICOLON) {
				p.nextToken()
				continue
			}
			s := p.parseStatement()
			if diag.Present() {
				return stmt
			}
			if s != nil {
				clause.Body = append(clause.Body, s)
			}
			p.nextToken()
		}
		stmt.Cases = append(stmt.Cases, clause)
	}
	return stmt
}

func (p *Parser) parseIncludeStatement(once bool) *ast.IncludeStatement {
	stmt := &ast.IncludeStatement{Base: ast.Base{Tok: p.curToken}, Once: once}
	hasParen := p.peekTokenIs(token.LPAREN)
	if hasParen {
		p.nextToken()
	}
	p.nextToken()
	stmt.Path = p.parseExpression(LOWEST)
	if hasParen && !p.expectPeek(token.RPAREN) {
		return stmt
	}
	return stmt
}

func isLvalue(e ast.Expression) bool {
	switch e.(type) {
	case *ast.Variable, *ast.DynamicVariable, *ast.IndexExpression:
		return true
	default:
		return false
	}
}

func (p *Parser) parseDestructureAssignStatement() *ast.DestructureAssignExpression {
	tok := p.curToken
	var targets []ast.Expression
	p.nextToken() // consume '['
	for !p.curTokenIs(token.RBRACKET) {
		if p.curTokenIs(token.COMMA) {
			targets = append(targets, nil)
			p.nextToken()
			continue
		}
		target := p.parseExpression(LOWEST)
		if !isLvalue(target) {
			p.errorf("destructuring target must be a variable or index expression")
			return nil
		}
		targets = append(targets, target)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		p.nextToken()
	}
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	return &ast.DestructureAssignExpression{Base: ast.Base{Tok: tok}, Targets: targets, Value: value}
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	stmt := &ast.ExpressionStatement{Base: ast.Base{Tok: p.curToken}}
	stmt.Expr = p.parseExpression(LOWEST)
	return stmt
}

// -----------------------------------------------------------------------
// Expressions
// -----------------------------------------------------------------------

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Kind]
	if prefix == nil {
		p.errorf("no prefix parse function for %s (got %q)", p.curToken.Kind, p.curToken.Literal)
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() && !diag.Present() {
		infix := p.infixParseFns[p.peekToken.Kind]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifierOrCall() ast.Expression {
	tok := p.curToken
	if evalTimeMagics[tok.Literal] {
		return &ast.MagicConstant{Base: ast.Base{Tok: tok}, Name: tok.Literal}
	}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		call := &ast.CallExpression{Base: ast.Base{Tok: tok}, Function: tok.Literal}
		call.Args = p.parseExpressionListUntil(token.RPAREN)
		if !p.expectPeek(token.RPAREN) {
			return call
		}
		return call
	}
	return &ast.Identifier{Base: ast.Base{Tok: tok}, Value: tok.Literal}
}

func (p *Parser) parseVariable() ast.Expression {
	return &ast.Variable{Base: ast.Base{Tok: p.curToken}, Name: p.curToken.Literal}
}

func (p *Parser) parseDynamicVariable() ast.Expression {
	tok := p.curToken
	p.nextToken()
	if p.curTokenIs(token.IDENT) {
		// `$$name`: the variable $name holds the name to look up.
		inner := &ast.Variable{Base: ast.Base{Tok: p.curToken}, Name: p.curToken.Literal}
		return &ast.DynamicVariable{Base: ast.Base{Tok: tok}, NameExpr: inner}
	}
	inner := p.parseExpression(UNARY)
	return &ast.DynamicVariable{Base: ast.Base{Tok: tok}, NameExpr: inner}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	return &ast.IntegerLiteral{Base: ast.Base{Tok: p.curToken}, Value: p.curToken.IntVal}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	return &ast.FloatLiteral{Base: ast.Base{Tok: p.curToken}, Value: p.curToken.FloatVal}
}

func (p *Parser) parseMagicIntLiteral() ast.Expression {
	return &ast.MagicIntLiteral{Base: ast.Base{Tok: p.curToken}, Value: p.curToken.IntVal}
}

func (p *Parser) parseMagicFloatLiteral() ast.Expression {
	return &ast.MagicFloatLiteral{Base: ast.Base{Tok: p.curToken}, Value: p.curToken.FloatVal}
}

func (p *Parser) parseMagicStringLiteral() ast.Expression {
	return &ast.StringLiteral{Base: ast.Base{Tok: p.curToken}, Value: p.curToken.Literal}
}

func (p *Parser) parseSingleQuotedString() ast.Expression {
	return &ast.StringLiteral{Base: ast.Base{Tok: p.curToken}, Value: p.curToken.Literal}
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	return &ast.BoolLiteral{Base: ast.Base{Tok: p.curToken}, Value: p.curToken.Kind == token.TRUE}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.NullLiteral{Base: ast.Base{Tok: p.curToken}}
}

func (p *Parser) parseUndefinedLiteral() ast.Expression {
	return &ast.UndefinedLiteral{Base: ast.Base{Tok: p.curToken}}
}

func (p *Parser) parseVoidLiteral() ast.Expression {
	return &ast.VoidLiteral{Base: ast.Base{Tok: p.curToken}}
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	operand := p.parseExpression(UNARY)
	return &ast.UnaryExpression{Base: ast.Base{Tok: tok}, Operator: tok.Literal, Operand: operand}
}

func (p *Parser) parsePrefixIncDec() ast.Expression {
	tok := p.curToken
	p.nextToken()
	operand := p.parseExpression(UNARY)
	return &ast.IncDecExpression{Base: ast.Base{Tok: tok}, Operator: tok.Literal, Operand: operand, Prefix: true}
}

func (p *Parser) parsePostfixIncDec(left ast.Expression) ast.Expression {
	tok := p.curToken
	if !isLvalue(left) {
		p.errorf("%s requires a variable, dynamic variable, or index expression", tok.Literal)
		return left
	}
	return &ast.IncDecExpression{Base: ast.Base{Tok: tok}, Operator: tok.Literal, Operand: left, Prefix: false}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return exp
	}
	return exp
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	arr := &ast.ArrayLiteral{Base: ast.Base{Tok: p.curToken}}
	for !p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		first := p.parseExpression(LOWEST)
		pair := ast.ArrayPair{Value: first}
		if p.peekTokenIs(token.ARROW) {
			p.nextToken()
			p.nextToken()
			pair.Key = first
			pair.Value = p.parseExpression(LOWEST)
		}
		arr.Pairs = append(arr.Pairs, pair)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	if !p.expectPeek(token.RBRACKET) {
		return arr
	}
	return arr
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()
	var right ast.Expression
	if tok.Kind == token.POW {
		right = p.parseExpression(precedence - 1) // right-associative
	} else {
		right = p.parseExpression(precedence)
	}
	return &ast.BinaryExpression{Base: ast.Base{Tok: tok}, Left: left, Operator: tok.Literal, Right: right}
}

func (p *Parser) parseAssignExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	if !isLvalue(left) {
		p.errorf("left side of %s must be a variable, dynamic variable, or index expression", tok.Literal)
		return left
	}
	p.nextToken()
	value := p.parseExpression(ASSIGNMENT - 1) // right-associative
	return &ast.AssignExpression{Base: ast.Base{Tok: tok}, Target: left, Operator: tok.Literal, Value: value}
}

func (p *Parser) parseTernaryExpression(cond ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	then := p.parseExpression(LOWEST)
	if !p.expectPeek(token.COLON) {
		return cond
	}
	p.nextToken()
	els := p.parseExpression(TERNARY - 1) // right-associative
	return &ast.TernaryExpression{Base: ast.Base{Tok: tok}, Condition: cond, Then: then, Else: els}
}

func (p *Parser) parseNullCoalesceExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	right := p.parseExpression(TERNARY - 1) // right-associative
	return &ast.NullCoalesceExpression{Base: ast.Base{Tok: tok}, Left: left, Right: right}
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	idx := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return left
	}
	return &ast.IndexExpression{Base: ast.Base{Tok: tok}, Left: left, Index: idx}
}

// -----------------------------------------------------------------------
// Double-quoted string interpolation
// -----------------------------------------------------------------------

// parseDoubleQuotedString reparses the raw (escape-preserving) contents of
// a double-quoted token into a concatenation of literal fragments and
// embedded expressions.
func (p *Parser) parseDoubleQuotedString() ast.Expression {
	tok := p.curToken
	parts, ok := p.interpolate(tok.Literal, tok)
	if !ok {
		return &ast.StringLiteral{Base: ast.Base{Tok: tok}, Value: tok.Literal}
	}
	if len(parts) == 1 {
		if s, ok := parts[0].(*ast.StringLiteral); ok {
			return s
		}
	}
	return &ast.InterpolatedString{Base: ast.Base{Tok: tok}, Parts: parts}
}

func (p *Parser) interpolate(raw string, tok token.Token) ([]ast.Expression, bool) {
	var parts []ast.Expression
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, &ast.StringLiteral{Base: ast.Base{Tok: tok}, Value: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(raw) {
		ch := raw[i]
		switch {
		case ch == '\\' && i+1 < len(raw):
			esc := raw[i+1]
			switch esc {
			case 'n':
				lit.WriteByte('\n')
				i += 2
			case 't':
				lit.WriteByte('\t')
				i += 2
			case 'r':
				lit.WriteByte('\r')
				i += 2
			case '\\':
				lit.WriteByte('\\')
				i += 2
			case '"':
				lit.WriteByte('"')
				i += 2
			case '$':
				lit.WriteByte('$')
				i += 2
			case 'x':
				if i+3 < len(raw) {
					if v, err := strconv.ParseUint(raw[i+2:i+4], 16, 8); err == nil {
						lit.WriteByte(byte(v))
						i += 4
						continue
					}
				}
				lit.WriteByte(esc)
				i += 2
			default:
				lit.WriteByte('\\')
				lit.WriteByte(esc)
				i += 2
			}
		case ch == '$' && i+1 < len(raw) && raw[i+1] == '{':
			flush()
			depth := 1
			j := i + 2
			for j < len(raw) && depth > 0 {
				if raw[j] == '{' {
					depth++
				} else if raw[j] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				j++
			}
			inner := raw[i+2 : j]
			parts = append(parts, p.parseEmbedded(inner))
			i = j + 1
		case ch == '$' && i+1 < len(raw) && (isIdentStart(raw[i+1])):
			flush()
			j := i + 1
			for j < len(raw) && isIdentPart(raw[j]) {
				j++
			}
			name := raw[i+1 : j]
			parts = append(parts, &ast.Variable{Base: ast.Base{Tok: tok}, Name: name})
			i = j
		default:
			lit.WriteByte(ch)
			i++
		}
	}
	flush()
	if len(parts) == 0 {
		parts = append(parts, &ast.StringLiteral{Base: ast.Base{Tok: tok}, Value: ""})
	}
	return parts, true
}

// parseEmbedded lexes and parses src (the contents of a `${...}`) as a
// standalone expression. When src is a bare identifier with no leading
// `$`, it is ambiguous between a variable reference and a bareword; the
// conservative fallback treats it as a variable.
func (p *Parser) parseEmbedded(src string) ast.Expression {
	if isBareIdentifier(src) {
		src = "$" + src
	}
	sub := New(lexer.New(src), p.filename)
	expr := sub.parseExpressionOnly()
	if diag.Present() {
		return &ast.StringLiteral{Value: ""}
	}
	return expr
}

func (p *Parser) parseExpressionOnly() ast.Expression {
	return p.parseExpression(LOWEST)
}

func isBareIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}
