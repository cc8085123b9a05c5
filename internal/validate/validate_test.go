package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canteenbooks/internal/domain"
)

func TestProductID(t *testing.T) {
	id, ok := ProductID("  brd-01 ")
	assert.True(t, ok)
	assert.Equal(t, "BRD-01", id)

	for _, bad := range []string{"", "   ", "a b", "x/y", strings.Repeat("A", 65)} {
		_, ok := ProductID(bad)
		assert.False(t, ok, bad)
	}
}

func TestTypeID(t *testing.T) {
	id, ok := TypeID("transport")
	assert.True(t, ok)
	assert.Equal(t, "TRANSPORT", id)
	_, ok = TypeID(strings.Repeat("A", 31))
	assert.False(t, ok)
}

func TestText(t *testing.T) {
	s, ok := Name("  <b>Mandazi</b> ")
	assert.True(t, ok)
	assert.Equal(t, "&lt;b&gt;Mandazi&lt;/b&gt;", s)

	_, ok = Label(strings.Repeat("é", 101))
	assert.False(t, ok)
	_, ok = Label(strings.Repeat("é", 100))
	assert.True(t, ok)
	_, ok = Name(" ")
	assert.False(t, ok)
}

func TestQ(t *testing.T) {
	q, ok := Q(" chai ")
	assert.True(t, ok)
	assert.Equal(t, "chai", q)
	_, ok = Q("drop;table")
	assert.False(t, ok)
}

type sample struct {
	BuyerName string  `validate:"required,max=100"`
	Amount    float64 `validate:"gt=0"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(sample{BuyerName: "Juma", Amount: 1}))

	err := Struct(sample{Amount: 1})
	require.Error(t, err)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "buyerName", ve.Field)

	err = Struct(sample{BuyerName: "Juma"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "amount", ve.Field)
	assert.Equal(t, "failed gt=0", ve.Reason)
}
