package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/compdoc/docgen"
)

func TestTypeScript_Reindents(t *testing.T) {
	input := "export interface AlertProps {\n" +
		"/**\n" +
		"* Alert kind\n" +
		"   * @default \"info\"\n" +
		"*/\n" +
		"kind?: \"info\" | \"error\";   \n" +
		"\n\n\n" +
		"meta?: { id: string; tags: [string, string] };\n" +
		"nested?: {\n" +
		"a: number;\n" +
		"};\n" +
		"}\n"

	got, err := New().Format(input, docgen.SyntaxTypeScript)
	require.NoError(t, err)

	want := "export interface AlertProps {\n" +
		"  /**\n" +
		"   * Alert kind\n" +
		"   * @default \"info\"\n" +
		"   */\n" +
		"  kind?: \"info\" | \"error\";\n" +
		"\n" +
		"  meta?: { id: string; tags: [string, string] };\n" +
		"  nested?: {\n" +
		"    a: number;\n" +
		"  };\n" +
		"}\n"
	assert.Equal(t, want, got)
}

func TestTypeScript_BracketsInStringsAndComments(t *testing.T) {
	input := "export type Brace = \"{\" | '}' | \"\\\"(\";\n" +
		"// a comment with { an open brace\n" +
		"/* and ( another */\n" +
		"export type T = `${string}}`;\n"

	got, err := New().Format(input, docgen.SyntaxTypeScript)
	require.NoError(t, err)
	assert.Equal(t, input, got)
}

func TestTypeScript_Idempotent(t *testing.T) {
	input := "declare module \"x\" {\nexport class A {\nfn: () => void;\n}\n}\n"

	once, err := New().Format(input, docgen.SyntaxTypeScript)
	require.NoError(t, err)
	twice, err := New().Format(once, docgen.SyntaxTypeScript)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestTypeScript_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"unclosed brace", "export interface A {\n  a: string;\n", "unclosed"},
		{"stray closer", "export type A = string;\n}\n", "unexpected"},
		{"mismatched", "export type A = { a: [string };\n", "closes"},
		{"unterminated string", "export type A = \"open;\n", "unterminated string"},
		{"unterminated comment", "/** never closed\nexport type A = string;\n", "block comment"},
		{"unterminated template", "export type A = `x\n", "template"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Format(tt.input, docgen.SyntaxTypeScript)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestMarkdown_AlignsTables(t *testing.T) {
	input := "# Title\n\n\n" +
		"| Prop name | Type | Default value |\n" +
		"| :- | :- | -: |\n" +
		"| kind | `string` | `\"info\"` |\n" +
		"| onClose | `() => void` | -- |\n"

	got, err := New().Format(input, docgen.SyntaxMarkdown)
	require.NoError(t, err)

	want := "# Title\n\n" +
		"| Prop name | Type         | Default value |\n" +
		"| :-------- | :----------- | ------------: |\n" +
		"| kind      | `string`     | `\"info\"`      |\n" +
		"| onClose   | `() => void` | --            |\n"
	assert.Equal(t, want, got)
}

func TestMarkdown_EscapedPipes(t *testing.T) {
	input := "| Type |\n| --- |\n| `\"a\" \\| \"b\"` |\n"

	got, err := New().Format(input, docgen.SyntaxMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "| Type         |\n| ------------ |\n| `\"a\" \\| \"b\"` |\n", got)
}

func TestMarkdown_CodeFences(t *testing.T) {
	input := "## Import\n\n```js\nimport { Alert } from \"ui-kit\";\n| not a table |\n```\n\ntext   \n"

	got, err := New().Format(input, docgen.SyntaxMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "## Import\n\n```js\nimport { Alert } from \"ui-kit\";\n| not a table |\n```\n\ntext\n", got)

	_, err = New().Format("```ts\nexport {};\n", docgen.SyntaxMarkdown)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated code fence")
}

func TestFormat_UnsupportedSyntax(t *testing.T) {
	_, err := New().Format("x", docgen.Syntax("css"))
	assert.Error(t, err)
}
