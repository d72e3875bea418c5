package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalContribute(t *testing.T) {
	goal := Goal{ID: 3, Name: "Vacation", CurrentAmount: dec("10.50"), Version: 2}
	today := NewDate(2025, 6, 1)

	c := goal.Contribute(dec("0.25"), today)

	assert.True(t, c.Goal.CurrentAmount.Equal(dec("10.75")), "got %s", c.Goal.CurrentAmount)
	assert.Equal(t, int64(2), c.Goal.Version)
	assert.True(t, goal.CurrentAmount.Equal(dec("10.50")), "original goal must not change")

	assert.Equal(t, "Contribution to goal: Vacation", c.Expense.Description)
	assert.Equal(t, TypeExpense, c.Expense.Type)
	require.NotNil(t, c.Expense.Category)
	assert.Equal(t, SavingsCategory, *c.Expense.Category)
	assert.True(t, c.Expense.Amount.Valid)
	assert.True(t, c.Expense.Amount.Decimal.Equal(dec("0.25")))
	assert.Equal(t, today, c.Expense.Date)
}

func TestValidateContributionAmount(t *testing.T) {
	cases := []struct {
		name   string
		amount decimal.NullDecimal
		ok     bool
	}{
		{"positive", amount("0.01"), true},
		{"zero", amount("0"), false},
		{"negative", amount("-5"), false},
		{"missing", decimal.NullDecimal{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateContributionAmount(tc.amount)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidAmount)
			}
		})
	}
}

func TestTransactionJSON(t *testing.T) {
	tx := Transaction{
		ID:          1,
		Description: "Rent",
		Amount:      amount("950.00"),
		Type:        "expense",
		Date:        NewDate(2025, 2, 1),
	}

	data, err := json.Marshal(tx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"description":"Rent","amount":950,"type":"expense","category":null,"date":"2025-02-01"}`, string(data))

	var back Transaction
	require.NoError(t, json.Unmarshal([]byte(`{"description":"Pay","amount":"12.30","type":"income","category":"Job","date":"2025-02-03"}`), &back))
	assert.True(t, back.Amount.Decimal.Equal(dec("12.30")))
	assert.Equal(t, "Job", *back.Category)
	assert.Equal(t, NewDate(2025, 2, 3), back.Date)

	var undated Transaction
	require.NoError(t, json.Unmarshal([]byte(`{"date":null}`), &undated))
	assert.True(t, undated.Date.IsZero())
	assert.False(t, undated.Amount.Valid)
}

func TestReservedDateRejected(t *testing.T) {
	_, err := ParseDate("0001-01-01")
	assert.ErrorIs(t, err, ErrReservedDate)

	var tx Transaction
	err = json.Unmarshal([]byte(`{"date":"0001-01-01"}`), &tx)
	assert.ErrorIs(t, err, ErrReservedDate)

	d, err := ParseDate("0001-01-02")
	require.NoError(t, err)
	data, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"0001-01-02"`, string(data))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2025-04-09"))
	assert.Equal(t, NewDate(2025, 4, 9), d)

	require.NoError(t, d.Scan(time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, NewDate(2025, 4, 10), d)

	require.NoError(t, d.Scan([]byte("2025-04-11T00:00:00Z")))
	assert.Equal(t, NewDate(2025, 4, 11), d)

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))

	v, err := NewDate(2025, 12, 31).Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-12-31", v)
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, UncategorizedLabel, Transaction{}.CategoryLabel())
	assert.Equal(t, UncategorizedLabel, Transaction{Category: StringPtr(" \t")}.CategoryLabel())
	assert.Equal(t, "Food", Transaction{Category: StringPtr("Food")}.CategoryLabel())
}
