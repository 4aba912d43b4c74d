package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromFloat(19.99), USD)
	require.NoError(t, err)
	assert.Equal(t, "19.99", m.Amount().String())
	assert.Equal(t, USD, m.Currency())

	_, err = NewMoney(decimal.NewFromInt(1), "")
	assert.Error(t, err)
}

func TestMoneyAdd(t *testing.T) {
	a := NewMoneyUSDFromFloat(10.50)
	b := NewMoneyUSDFromFloat(4.25)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "14.75", sum.Amount().String())

	eur, _ := NewMoneyFromFloat(1, EUR)
	_, err = a.Add(eur)
	assert.Error(t, err)
}

func TestMoneySubtract(t *testing.T) {
	a := NewMoneyUSDFromFloat(10)
	b := NewMoneyUSDFromFloat(3.5)

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, "6.5", diff.Amount().String())
}

func TestMoneyMultiplyByInt(t *testing.T) {
	unit := NewMoneyUSDFromFloat(29.99)
	total := unit.MultiplyByInt(3)
	assert.Equal(t, "89.97", total.Amount().String())
}

func TestMoneyComparisons(t *testing.T) {
	small := NewMoneyUSDFromFloat(5)
	big := NewMoneyUSDFromFloat(10)

	less, err := small.LessThan(big)
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := big.GreaterThan(small)
	require.NoError(t, err)
	assert.True(t, greater)

	assert.True(t, small.Equals(NewMoneyUSDFromFloat(5)))
	assert.False(t, small.Equals(big))
}

func TestMoneyApplyDiscount(t *testing.T) {
	price := NewMoneyUSDFromFloat(100)
	discounted := price.ApplyDiscount(decimal.NewFromInt(25))
	assert.Equal(t, "75", discounted.Amount().String())
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	m := NewMoneyUSDFromFloat(49.99)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"49.99","currency":"USD"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoneyScan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("12.34"))
	assert.Equal(t, "12.34", m.Amount().String())
	assert.Equal(t, DefaultCurrency, m.Currency())

	var nilMoney Money
	require.NoError(t, nilMoney.Scan(nil))
	assert.True(t, nilMoney.IsZero())
}
