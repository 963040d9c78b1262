package mcpe

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type testCard struct {
	name, number, cvv, brand, issue string
	month, year                     int
	startMonth, startYear           int
}

func (c testCard) Name() string              { return c.name }
func (c testCard) Number() string            { return c.number }
func (c testCard) ExpiryMonth() int          { return c.month }
func (c testCard) ExpiryYear() int           { return c.year }
func (c testCard) StartMonth() int           { return c.startMonth }
func (c testCard) StartYear() int            { return c.startYear }
func (c testCard) IssueNumber() string       { return c.issue }
func (c testCard) VerificationValue() string { return c.cvv }
func (c testCard) Brand() string             { return c.brand }

func visaCard() testCard {
	return testCard{
		name:   "Joe Bloggs",
		number: "4242424242424242",
		month:  8,
		year:   2009,
		cvv:    "123",
		brand:  "visa",
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{99, "0.99"},
		{100, "1.00"},
		{1000, "10.00"},
		{123456789, "1234567.89"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, FormatAmount(c.in), "amount %d", c.in)
	}
}

func TestFormatAmount_RoundTrip(t *testing.T) {
	for minor := int64(0); minor < 20000; minor += 7 {
		s := FormatAmount(minor)
		require.Equal(t, byte('.'), s[len(s)-3])

		d, err := decimal.NewFromString(s)
		require.NoError(t, err)
		require.Equal(t, minor, d.Shift(2).IntPart())
	}
}

func TestAmountFields(t *testing.T) {
	p, err := amountFields(1000, "GBP")
	require.NoError(t, err)
	require.Equal(t, []string{FieldAmount, FieldCurrency}, p.Keys())
	v, _ := p.Get(FieldAmount)
	require.Equal(t, "10.00", v)
	v, _ = p.Get(FieldCurrency)
	require.Equal(t, "GBP", v)

	_, err = amountFields(1000, "")
	require.ErrorIs(t, err, ErrMissingCurrency)

	_, err = amountFields(-1, "GBP")
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCardFields_CreditBrand(t *testing.T) {
	p, err := cardFields(visaCard())
	require.NoError(t, err)

	m := p.Map()
	require.Equal(t, "Joe Bloggs", m[FieldCardHolder])
	require.Equal(t, "4242424242424242", m[FieldCardNumber])
	require.Equal(t, "0809", m[FieldExpiryDate])
	require.Equal(t, "123", m[FieldCV2])
	require.Equal(t, "VISA", m[FieldCardType])
	require.NotContains(t, m, FieldStartDate)
	require.NotContains(t, m, FieldIssueNo)
}

func TestCardFields_StartDateBrands(t *testing.T) {
	for _, brand := range []string{"switch", "solo", "SOLO"} {
		card := visaCard()
		card.brand = brand
		card.startMonth = 1
		card.startYear = 2007
		card.issue = "3"

		p, err := cardFields(card)
		require.NoError(t, err)
		m := p.Map()
		require.Equal(t, "0107", m[FieldStartDate], brand)
		require.Equal(t, "3", m[FieldIssueNo], brand)
	}

	for _, brand := range []string{"visa", "master", "american_express", "discover", ""} {
		require.False(t, RequiresStartDateOrIssueNumber(brand), brand)
	}
}

func TestCardFields_NilCard(t *testing.T) {
	_, err := cardFields(nil)
	require.ErrorIs(t, err, ErrMissingCard)
}

func TestAddressFields(t *testing.T) {
	t.Run("billing preferred", func(t *testing.T) {
		p := addressFields(Options{
			BillingAddress: &Address{Address1: "1 High St", Address2: "Flat 2", City: "Bath", Zip: "BA1 2BU", Country: "GB", Phone: "0123"},
			Address:        &Address{Address1: "ignored"},
		})
		m := p.Map()
		require.Equal(t, "1 High St\nFlat 2", m[FieldAddress])
		require.Equal(t, "Bath", m[FieldCity])
		require.Equal(t, "BA1 2BU", m[FieldPostcode])
		require.Equal(t, "GB", m[FieldCountry])
		require.Equal(t, "0123", m[FieldTel])
	})

	t.Run("generic address fallback", func(t *testing.T) {
		p := addressFields(Options{Address: &Address{Address2: "Flat 2", State: "Somerset"}})
		m := p.Map()
		require.Equal(t, "Flat 2", m[FieldAddress])
		require.Equal(t, "Somerset", m[FieldState])
	})

	t.Run("no address", func(t *testing.T) {
		p := addressFields(Options{})
		require.Equal(t, 6, p.Len())
		for _, k := range p.Keys() {
			v, _ := p.Get(k)
			require.Empty(t, v, k)
		}
	})
}

func TestRecurringFields(t *testing.T) {
	p, err := recurringFields("12345678", "abc")
	require.NoError(t, err)
	require.Equal(t, map[string]string{FieldTransID: "12345678", FieldSecurityToken: "abc"}, p.Map())

	_, err = recurringFields("12345678", "")
	require.ErrorIs(t, err, ErrMissingSecurityToken)
}

func TestParams_MergeRejectsOverlap(t *testing.T) {
	a := NewParams()
	a.Set(FieldDesc, "one")
	b := NewParams()
	b.Set(FieldDesc, "two")

	err := a.Merge(b)
	require.ErrorIs(t, err, ErrDuplicateField)
	v, _ := a.Get(FieldDesc)
	require.Equal(t, "one", v)
}

func TestParams_SetKeepsSingleKey(t *testing.T) {
	p := NewParams()
	p.Set("a", "1")
	p.Set("b", "2")
	p.Set("a", "3")
	require.Equal(t, []string{"a", "b"}, p.Keys())
	v, _ := p.Get("a")
	require.Equal(t, "3", v)
}
