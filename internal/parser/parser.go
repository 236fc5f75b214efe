package parser

import (
	"errors"
	"fmt"

	"psh/internal/ast"
)

// MaxArgs bounds the argument list of one exec node, terminator slot
// included. The tenth word of a command is a fatal parse error.
const MaxArgs = 10

type TokenType int

const (
	TokenWord TokenType = iota
	TokenPipe
	TokenRedirectIn
	TokenRedirectOut
	TokenRedirectAppend
	TokenBackground
	TokenSequence
	TokenOpenGroup
	TokenCloseGroup
	TokenEOF
)

type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

type Lexer struct {
	input  string
	pos    int
	tokens []Token
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '\v':
		return true
	}
	return false
}

func isOperator(ch byte) bool {
	switch ch {
	case '|', '(', ')', ';', '&', '<', '>':
		return true
	}
	return false
}

func (l *Lexer) Tokenize() []Token {
	for l.pos < len(l.input) {
		if isSpace(l.input[l.pos]) {
			l.pos++
			continue
		}

		start := l.pos
		switch l.input[l.pos] {
		case '|':
			l.addToken(TokenPipe, "|", start)
			l.pos++
		case '(':
			l.addToken(TokenOpenGroup, "(", start)
			l.pos++
		case ')':
			l.addToken(TokenCloseGroup, ")", start)
			l.pos++
		case ';':
			l.addToken(TokenSequence, ";", start)
			l.pos++
		case '&':
			l.addToken(TokenBackground, "&", start)
			l.pos++
		case '<':
			l.addToken(TokenRedirectIn, "<", start)
			l.pos++
		case '>':
			if l.pos+1 < len(l.input) && l.input[l.pos+1] == '>' {
				l.addToken(TokenRedirectAppend, ">>", start)
				l.pos += 2
			} else {
				l.addToken(TokenRedirectOut, ">", start)
				l.pos++
			}
		default:
			l.tokenizeWord()
		}
	}

	l.addToken(TokenEOF, "", l.pos)
	return l.tokens
}

func (l *Lexer) tokenizeWord() {
	start := l.pos
	for l.pos < len(l.input) && !isSpace(l.input[l.pos]) && !isOperator(l.input[l.pos]) {
		l.pos++
	}
	l.addToken(TokenWord, l.input[start:l.pos], start)
}

func (l *Lexer) addToken(tokenType TokenType, value string, pos int) {
	l.tokens = append(l.tokens, Token{Type: tokenType, Value: value, Pos: pos})
}

// Parser builds the command tree with one token of lookahead. Grammar,
// loosest binding first:
//
//	line  := pipe ('&')* (';' line)?
//	pipe  := exec ('|' pipe)?
//	exec  := '(' line ')' redirs | redirs (word redirs)*
//	redirs := ('<' word | '>' word | '>>' word)*
//
// Any parse error aborts the whole input line; nothing is executed.
type Parser struct {
	input  string
	tokens []Token
	pos    int
}

func New() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(input string) (*ast.Command, error) {
	p.input = input
	p.tokens = NewLexer(input).Tokenize()
	p.pos = 0

	cmd, err := p.parseLine()
	if err != nil {
		return nil, err
	}

	if tok := p.current(); tok.Type != TokenEOF {
		return nil, fmt.Errorf("leftovers: %s", input[tok.Pos:])
	}

	return cmd, nil
}

func (p *Parser) parseLine() (*ast.Command, error) {
	cmd, err := p.parsePipe()
	if err != nil {
		return nil, err
	}

	// Each trailing '&' wraps again; "a & &" is two Back layers.
	for p.current().Type == TokenBackground {
		p.advance()
		cmd = ast.NewBack(cmd)
	}

	if p.current().Type == TokenSequence {
		p.advance()
		right, err := p.parseLine()
		if err != nil {
			return nil, err
		}
		cmd = ast.NewList(cmd, right)
	}

	return cmd, nil
}

func (p *Parser) parsePipe() (*ast.Command, error) {
	cmd, err := p.parseExec()
	if err != nil {
		return nil, err
	}

	if p.current().Type == TokenPipe {
		p.advance()
		right, err := p.parsePipe()
		if err != nil {
			return nil, err
		}
		cmd = ast.NewPipe(cmd, right)
	}

	return cmd, nil
}

func (p *Parser) parseExec() (*ast.Command, error) {
	if p.current().Type == TokenOpenGroup {
		return p.parseBlock()
	}

	cmd := ast.NewExec()
	ret, err := p.parseRedirs(cmd)
	if err != nil {
		return nil, err
	}

	for {
		tok := p.current()
		switch tok.Type {
		case TokenPipe, TokenCloseGroup, TokenBackground, TokenSequence, TokenEOF:
			return ret, nil
		case TokenWord:
			cmd.Exec.Argv = append(cmd.Exec.Argv, tok.Value)
			p.advance()
			if len(cmd.Exec.Argv) >= MaxArgs {
				return nil, errors.New("too many args")
			}
		default:
			return nil, fmt.Errorf("syntax error near %q", tok.Value)
		}

		ret, err = p.parseRedirs(ret)
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseBlock() (*ast.Command, error) {
	p.advance() // consume '('

	cmd, err := p.parseLine()
	if err != nil {
		return nil, err
	}

	if p.current().Type != TokenCloseGroup {
		return nil, errors.New("syntax - missing )")
	}
	p.advance()

	return p.parseRedirs(cmd)
}

// parseRedirs wraps cmd in one redirect node per operator, in source
// order, so the outermost wrapper is the last one written. Each operator
// must be followed by a filename word.
func (p *Parser) parseRedirs(cmd *ast.Command) (*ast.Command, error) {
	for {
		var mode ast.RedirectType
		var fd int

		switch p.current().Type {
		case TokenRedirectIn:
			mode, fd = ast.RedirectInput, 0
		case TokenRedirectOut:
			mode, fd = ast.RedirectOutput, 1
		case TokenRedirectAppend:
			mode, fd = ast.RedirectAppend, 1
		default:
			return cmd, nil
		}
		p.advance()

		file := p.current()
		if file.Type != TokenWord {
			return nil, errors.New("missing file for redirection")
		}
		p.advance()

		cmd = ast.NewRedirect(cmd, file.Value, mode, fd)
	}
}

func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF, Pos: len(p.input)}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}
