package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppyne/lx/token"
)

func TestNextTokenOperators(t *testing.T) {
	input := `= + - * / % ** . & | ^ ~ << >> == != === !== < <= > >= && || ! ++ -- += -= *= /= .= ?? ? : => $$`
	expected := []token.Kind{
		token.ASSIGN, token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.POW, token.CONCAT, token.AMP, token.PIPE, token.CARET, token.TILDE,
		token.SHL, token.SHR, token.EQ, token.NEQ, token.SEQ, token.SNEQ,
		token.LT, token.LTE, token.GT, token.GTE, token.ANDAND, token.OROR, token.NOT,
		token.INC, token.DEC, token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN,
		token.SLASH_ASSIGN, token.CONCAT_ASSIGN, token.COALESCE, token.QUESTION,
		token.COLON, token.ARROW, token.DOLLAR2, token.EOF,
	}

	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		assert.Equalf(t, want, tok.Kind, "token %d literal=%q", i, tok.Literal)
	}
}

func TestKeywordsAndVariables(t *testing.T) {
	l := New(`$count if while function return global undefined void`)

	tok := l.NextToken()
	require.Equal(t, token.VARIABLE, tok.Kind)
	require.Equal(t, "count", tok.Literal)

	kinds := []token.Kind{token.IF, token.WHILE, token.FUNCTION, token.RETURN, token.GLOBAL, token.UNDEFINED, token.VOID}
	for _, k := range kinds {
		tok = l.NextToken()
		assert.Equal(t, k, tok.Kind)
		assert.True(t, tok.Kind.IsKeyword())
	}
}

func TestNumericLiterals(t *testing.T) {
	tests := []struct {
		input    string
		kind     token.Kind
		intVal   int64
		floatVal float64
	}{
		{"123", token.INT, 123, 0},
		{"0x1A", token.INT, 26, 0},
		{"0b101", token.INT, 5, 0},
		{"017", token.INT, 15, 0},
		{"019", token.INT, 19, 0}, // 8/9 forces decimal, not octal
		{"1.5", token.FLOAT, 0, 1.5},
		{".5", token.FLOAT, 0, 0.5},
		{"1e3", token.FLOAT, 0, 1000},
	}
	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		require.Equalf(t, tt.kind, tok.Kind, "input %q", tt.input)
		if tt.kind == token.INT {
			assert.Equal(t, tt.intVal, tok.IntVal)
		} else {
			assert.InDelta(t, tt.floatVal, tok.FloatVal, 1e-9)
		}
	}
}

func TestStringLiterals(t *testing.T) {
	l := New(`'it\'s' "hello $x"`)

	tok := l.NextToken()
	require.Equal(t, token.SSTRING, tok.Kind)
	assert.Equal(t, "it's", tok.Literal)

	tok = l.NextToken()
	require.Equal(t, token.DSTRING, tok.Kind)
	assert.Equal(t, "hello $x", tok.Literal)
}

func TestCommentsAndWhitespace(t *testing.T) {
	l := New("1 // line comment\n2 # hash comment\n3 /* block\ncomment */ 4")
	var got []int64
	for {
		tok := l.NextToken()
		if tok.Kind == token.EOF {
			break
		}
		got = append(got, tok.IntVal)
	}
	assert.Equal(t, []int64{1, 2, 3, 4}, got)
}

func TestMagicConstants(t *testing.T) {
	l := New("LX_EOL M_PI LX_INT_MAX")

	tok := l.NextToken()
	require.Equal(t, token.MAGIC_STRING, tok.Kind)
	assert.Equal(t, "\n", tok.Literal)

	tok = l.NextToken()
	require.Equal(t, token.MAGIC_FLOAT, tok.Kind)
	assert.InDelta(t, 3.14159265, tok.FloatVal, 1e-6)

	tok = l.NextToken()
	require.Equal(t, token.MAGIC_INT, tok.Kind)
	assert.Equal(t, int64(9223372036854775807), tok.IntVal)
}

func TestTokenize(t *testing.T) {
	toks := Tokenize("$a = 1;")
	require.Len(t, toks, 5)
	assert.Equal(t, token.EOF, toks[len(toks)-1].Kind)
}
