package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type kind int

const (
	kindIdent kind = iota
	kindString
	kindNumber
	kindBool
	kindNull
	kindEq
	kindNeq
	kindLt
	kindLte
	kindGt
	kindGte
	kindAnd
	kindOr
	kindNot
	kindOpen
	kindClose
)

var symbols = map[kind]string{
	kindEq:    "==",
	kindNeq:   "!=",
	kindLt:    "<",
	kindLte:   "<=",
	kindGt:    ">",
	kindGte:   ">=",
	kindAnd:   "&&",
	kindOr:    "||",
	kindNot:   "!",
	kindOpen:  "(",
	kindClose: ")",
}

func (k kind) comparison() bool {
	return k >= kindEq && k <= kindGte
}

type lexeme struct {
	kind kind
	text string
}

type lexer struct {
	src string
	pos int
	out []lexeme
}

func lex(src string) ([]lexeme, error) {
	l := &lexer{src: src}
	for l.pos < len(l.src) {
		if err := l.step(); err != nil {
			return nil, err
		}
	}
	return l.out, nil
}

func (l *lexer) peek(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *lexer) emit(k kind, width int) {
	l.out = append(l.out, lexeme{kind: k, text: symbols[k]})
	l.pos += width
}

func (l *lexer) step() error {
	ch := l.peek(0)
	switch {
	case isSpace(ch):
		l.pos++
	case ch == '(':
		l.emit(kindOpen, 1)
	case ch == ')':
		l.emit(kindClose, 1)
	case ch == '!':
		if l.peek(1) == '=' {
			l.emit(kindNeq, 2)
		} else {
			l.emit(kindNot, 1)
		}
	case ch == '<':
		if l.peek(1) == '=' {
			l.emit(kindLte, 2)
		} else {
			l.emit(kindLt, 1)
		}
	case ch == '>':
		if l.peek(1) == '=' {
			l.emit(kindGte, 2)
		} else {
			l.emit(kindGt, 1)
		}
	case ch == '=':
		if l.peek(1) != '=' {
			return fmt.Errorf("rules/expr: unexpected '=' at %d; use '=='", l.pos)
		}
		l.emit(kindEq, 2)
	case ch == '&':
		if l.peek(1) != '&' {
			return fmt.Errorf("rules/expr: unexpected '&' at %d; use '&&'", l.pos)
		}
		l.emit(kindAnd, 2)
	case ch == '|':
		if l.peek(1) != '|' {
			return fmt.Errorf("rules/expr: unexpected '|' at %d; use '||'", l.pos)
		}
		l.emit(kindOr, 2)
	case ch == '"' || ch == '\'':
		return l.quoted(ch)
	default:
		l.word()
	}
	return nil
}

func (l *lexer) quoted(quote byte) error {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		l.pos++
		switch ch {
		case '\\':
			l.pos++
		case quote:
			body := l.src[start+1 : l.pos-1]
			if quote == '\'' {
				body = strings.ReplaceAll(body, `\'`, `'`)
				body = strings.ReplaceAll(body, `"`, `\"`)
			}
			value, err := strconv.Unquote(`"` + body + `"`)
			if err != nil {
				return fmt.Errorf("rules/expr: invalid string literal %s: %w", l.src[start:l.pos], err)
			}
			l.out = append(l.out, lexeme{kind: kindString, text: value})
			return nil
		}
	}
	return errors.New("rules/expr: unterminated string literal")
}

func (l *lexer) word() {
	start := l.pos
	for l.pos < len(l.src) && !isDelimiter(l.src[l.pos]) {
		l.pos++
	}
	text := l.src[start:l.pos]
	switch strings.ToLower(text) {
	case "true", "false":
		l.out = append(l.out, lexeme{kind: kindBool, text: strings.ToLower(text)})
	case "null", "nil", "undefined":
		l.out = append(l.out, lexeme{kind: kindNull, text: "null"})
	default:
		if _, err := strconv.ParseFloat(text, 64); err == nil {
			l.out = append(l.out, lexeme{kind: kindNumber, text: text})
			return
		}
		l.out = append(l.out, lexeme{kind: kindIdent, text: text})
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDelimiter(ch byte) bool {
	if isSpace(ch) {
		return true
	}
	switch ch {
	case '(', ')', '!', '=', '&', '|', '<', '>', '"', '\'':
		return true
	}
	return false
}
