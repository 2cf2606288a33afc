package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionDoc() map[string]any {
	return map[string]any{
		"user": map[string]any{
			"id":    "u1",
			"email": "a@b.com",
		},
		"session": map[string]any{
			"id": "s1",
		},
	}
}

func TestResolve(t *testing.T) {
	doc := sessionDoc()

	assert.Equal(t, "a@b.com", Resolve("user.email", doc))
	assert.Equal(t, "s1", Resolve("session.id", doc))

	// Missing paths resolve to nil, never an error.
	assert.Nil(t, Resolve("user.missing.field", doc))
	assert.Nil(t, Resolve("nope", doc))
	// Indexing through a scalar short-circuits.
	assert.Nil(t, Resolve("user.email.domain", doc))
}

func TestMergeSubstitutesPlaceholders(t *testing.T) {
	tpl := Template{
		"email":   "{{user.email}}",
		"greet":   "hello {{user.id}}!",
		"both":    "{{user.id}}/{{session.id}}",
		"literal": "no placeholders here",
	}

	out := tpl.Merge(sessionDoc())
	assert.Equal(t, "a@b.com", out["email"])
	assert.Equal(t, "hello u1!", out["greet"])
	assert.Equal(t, "u1/s1", out["both"])
	assert.Equal(t, "no placeholders here", out["literal"])
}

func TestMergeMissingPathYieldsEmptyString(t *testing.T) {
	tpl := Template{"field": "{{user.missing.field}}"}
	out := tpl.Merge(sessionDoc())
	assert.Equal(t, "", out["field"])
}

func TestMergePreservesShape(t *testing.T) {
	tpl := Template{
		"nested": map[string]any{
			"email": "{{user.email}}",
			"deep": map[string]any{
				"sid": "{{session.id}}",
			},
		},
		"list":   []any{"{{user.id}}", 42, true, map[string]any{"e": "{{user.email}}"}},
		"number": 7,
		"flag":   false,
	}

	out := tpl.Merge(sessionDoc())

	nested, ok := out["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a@b.com", nested["email"])
	deep, ok := nested["deep"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "s1", deep["sid"])

	list, ok := out["list"].([]any)
	require.True(t, ok)
	require.Len(t, list, 4)
	assert.Equal(t, "u1", list[0])
	assert.Equal(t, 42, list[1])
	assert.Equal(t, true, list[2])
	obj, ok := list[3].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a@b.com", obj["e"])

	// Non-string scalars pass through untouched.
	assert.Equal(t, 7, out["number"])
	assert.Equal(t, false, out["flag"])

	// Same keys as the template.
	assert.Len(t, out, len(tpl))
}

func TestMergeEmptyTemplate(t *testing.T) {
	out := Template(nil).Merge(sessionDoc())
	assert.Empty(t, out)
}
