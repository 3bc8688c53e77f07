package pipeline

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeForm_RequiredString(t *testing.T) {
	fields := []Field{{Name: "name", Kind: KindRequiredString}}

	form, failure := DecodeForm(url.Values{"name": {"  Harbor Light  "}}, fields)
	require.Nil(t, failure)
	assert.Equal(t, "Harbor Light", form.StrOr("name", ""))

	_, failure = DecodeForm(url.Values{"name": {"   "}}, fields)
	require.NotNil(t, failure)
	assert.Equal(t, FailureValidation, failure.Kind)
	assert.Equal(t, "name", failure.Field)
}

func TestDecodeForm_OptionalStringAbsentIsNil(t *testing.T) {
	form, failure := DecodeForm(url.Values{}, []Field{{Name: "notes", Kind: KindString}})
	require.Nil(t, failure)
	assert.Nil(t, form.Str("notes"))
}

func TestDecodeForm_BooleanCoercion(t *testing.T) {
	fields := []Field{{Name: "published", Kind: KindBoolean}}

	for _, v := range []string{"true", "1", "on", "yes", "YES", " On "} {
		form, failure := DecodeForm(url.Values{"published": {v}}, fields)
		require.Nil(t, failure)
		assert.True(t, form.Bool("published"), "input %q", v)
	}

	for _, v := range []string{"false", "0", "off", "no"} {
		form, failure := DecodeForm(url.Values{"published": {v}}, fields)
		require.Nil(t, failure)
		assert.False(t, form.Bool("published"), "input %q", v)
	}

	// Unrecognized values fall back to the field default
	defaulted := []Field{{Name: "published", Kind: KindBoolean, Default: true}}
	form, failure := DecodeForm(url.Values{"published": {"maybe"}}, defaulted)
	require.Nil(t, failure)
	assert.True(t, form.Bool("published"))
}

func TestDecodeForm_EnumRejectsUnknownValues(t *testing.T) {
	fields := []Field{{Name: "status", Kind: KindEnum, Allowed: []string{"active", "inactive"}}}

	form, failure := DecodeForm(url.Values{"status": {"active"}}, fields)
	require.Nil(t, failure)
	require.NotNil(t, form.Str("status"))
	assert.Equal(t, "active", *form.Str("status"))

	// Unknown and wrong-case values decode to nil, never an error
	for _, v := range []string{"deleted", "Active", "ACTIVE", ""} {
		form, failure := DecodeForm(url.Values{"status": {v}}, fields)
		require.Nil(t, failure)
		assert.Nil(t, form.Str("status"), "input %q", v)
	}
}

func TestDecodeForm_Integer(t *testing.T) {
	fields := []Field{{Name: "quantity", Kind: KindInteger}}

	form, failure := DecodeForm(url.Values{"quantity": {"-42"}}, fields)
	require.Nil(t, failure)
	require.NotNil(t, form.Int("quantity"))
	assert.Equal(t, int64(-42), *form.Int("quantity"))

	for _, v := range []string{"", "abc", "1.5", "0x10"} {
		form, failure := DecodeForm(url.Values{"quantity": {v}}, fields)
		require.Nil(t, failure)
		assert.Nil(t, form.Int("quantity"), "input %q", v)
	}
}

func TestDecodeForm_MultiFiltersAndTrims(t *testing.T) {
	fields := []Field{{Name: "features", Kind: KindMulti, Allowed: []string{"inventory", "invites"}}}

	form, failure := DecodeForm(url.Values{
		"features": {" inventory ", "", "bogus", "invites"},
	}, fields)
	require.Nil(t, failure)
	assert.Equal(t, []string{"inventory", "invites"}, form.List("features"))
}

func TestDecodeForm_Idempotent(t *testing.T) {
	fields := []Field{
		{Name: "name", Kind: KindRequiredString},
		{Name: "status", Kind: KindEnum, Allowed: []string{"active"}},
		{Name: "published", Kind: KindBoolean},
		{Name: "tags", Kind: KindMulti},
	}
	values := url.Values{
		"name":      {"Northside Pantry"},
		"status":    {"active"},
		"published": {"on"},
		"tags":      {"a", "b"},
	}

	first, failure := DecodeForm(values, fields)
	require.Nil(t, failure)
	second, failure := DecodeForm(values, fields)
	require.Nil(t, failure)
	assert.Equal(t, first, second)
}
