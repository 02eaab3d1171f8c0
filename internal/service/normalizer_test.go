package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeping-web/internal/models"
)

func TestNormalizeAccountName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Cash", "cash"},
		{"  Cash  ", "cash"},
		{"ACCOUNTS RECEIVABLE", "accounts receivable"},
		{"R&D-Expense", "r d expense"},
		{"Travel/Meals_Expense", "travel meals expense"},
		{"Office   Supplies", "office supplies"},
		{"Rent (Office)", "rent office"},
		{"", ""},
		{"  &/-_  ", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeAccountName(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeAccountNameIdempotent(t *testing.T) {
	inputs := []string{"R&D-Expense", "  Accounts Receivable ", "Sales  Revenue"}
	for _, in := range inputs {
		once := NormalizeAccountName(in)
		assert.Equal(t, once, NormalizeAccountName(once))
	}
}

func TestAccountResolverMatchesVariants(t *testing.T) {
	resolver := NewAccountResolver([]models.Account{
		{GLAccount: "R&D Expense", Type: models.TypeDirectExpense},
		{GLAccount: "Cash", Type: models.TypeCurrentAsset},
	})

	for _, variant := range []string{"R&D Expense", "r&d expense", "R D EXPENSE", " r-d_expense "} {
		acc, ok := resolver.Resolve(variant)
		require.True(t, ok, "variant %q should resolve", variant)
		assert.Equal(t, "R&D Expense", acc.GLAccount)
	}

	_, ok := resolver.Resolve("Petty Cash")
	assert.False(t, ok)
}
