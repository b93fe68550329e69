package mapping

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapperSerializeDeserializeRoundTrip(t *testing.T) {
	mad := NewMad()
	mad.Set("v", "KERI10JSON0000ff_")
	mad.Set("active", true)
	mad.Set("disabled", false)
	mad.Set("nothing", nil)
	mad.Set("count", int64(42))

	nested := NewMad()
	nested.Set("x", int64(1))
	nested.Set("y", int64(2))
	mad.Set("point", nested)

	mad.Set("tags", []any{"alpha", "beta", int64(3)})

	m, err := NewMapper(mad)
	require.NoError(t, err)
	require.True(t, m.Count() > 0)

	round, err := ParseMapper(m.Raw())
	require.NoError(t, err)

	rv, ok := round.Mad().Get("v")
	require.True(t, ok)
	require.Equal(t, "KERI10JSON0000ff_", rv)

	active, _ := round.Mad().Get("active")
	require.Equal(t, true, active)

	disabled, _ := round.Mad().Get("disabled")
	require.Equal(t, false, disabled)

	nothing, ok := round.Mad().Get("nothing")
	require.True(t, ok)
	require.Nil(t, nothing)

	count, _ := round.Mad().Get("count")
	require.Equal(t, int64(42), count)

	point, ok := round.Mad().Get("point")
	require.True(t, ok)
	pointMad, ok := point.(*Mad)
	require.True(t, ok)
	x, _ := pointMad.Get("x")
	require.Equal(t, int64(1), x)

	tags, ok := round.Mad().Get("tags")
	require.True(t, ok)
	tagList, ok := tags.([]any)
	require.True(t, ok)
	require.Equal(t, []any{"alpha", "beta", int64(3)}, tagList)
}

func TestMapperSaidMakifyAndVerify(t *testing.T) {
	mad := NewMad()
	mad.Set("d", "")
	mad.Set("i", "someAID")
	mad.Set("s", int64(0))

	m, err := NewMapper(mad, WithSaidive(true), WithMakify(true))
	require.NoError(t, err)

	said, ok := m.Mad().Get("d")
	require.True(t, ok)
	require.NotEmpty(t, said)

	round, err := ParseMapper(m.Raw(), WithSaidive(true))
	require.NoError(t, err)
	roundSaid, _ := round.Mad().Get("d")
	require.Equal(t, said, roundSaid)
}

func TestMapperSaidVerifyFailsOnTamper(t *testing.T) {
	mad := NewMad()
	mad.Set("d", "")
	mad.Set("i", "someAID")

	m, err := NewMapper(mad, WithSaidive(true), WithMakify(true))
	require.NoError(t, err)

	tamperedMad := m.Mad().Clone()
	tamperedMad.Set("i", "differentAID")
	raw, _, err := (&Mapper{strict: true, saidive: true, saids: map[string]string{"d": "E"}}).exhale(tamperedMad, false)
	require.NoError(t, err)

	_, err = ParseMapper(raw, WithSaidive(true))
	require.Error(t, err)
}

func TestMapperDeserializeRejectsWrongCounter(t *testing.T) {
	_, err := ParseMapper([]byte("-BAA"))
	require.Error(t, err)
}

func TestMapperStrictLabelRejectsNonIdentifier(t *testing.T) {
	mad := NewMad()
	mad.Set("not a valid ident", int64(1))
	_, err := NewMapper(mad)
	require.Error(t, err)
}

func TestMapperNonStrictAllowsTextLabels(t *testing.T) {
	mad := NewMad()
	mad.Set("not a valid ident", int64(1))
	m, err := NewMapper(mad, WithStrict(false))
	require.NoError(t, err)

	round, err := ParseMapper(m.Raw(), WithStrict(false))
	require.NoError(t, err)
	v, ok := round.Mad().Get("not a valid ident")
	require.True(t, ok)
	require.Equal(t, int64(1), v)
}
