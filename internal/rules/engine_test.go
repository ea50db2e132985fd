package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Jiegrein/PersonalBankNote/internal/model"
)

func rule(condition model.RuleCondition, value, category string, priority int) *model.Rule {
	return &model.Rule{
		ID:             "r-" + category,
		Condition:      condition,
		ConditionValue: value,
		Category:       category,
		Priority:       priority,
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name      string
		condition model.RuleCondition
		value     string
		text      string
		merchant  string
		want      bool
	}{
		{"contains hit", model.RuleContains, "gojek", "payment GOJEK ride", "", true},
		{"contains miss", model.RuleContains, "grab", "payment GOJEK ride", "", false},
		{"startsWith", model.RuleStartsWith, "trsf", "TRSF E-BANKING", "", true},
		{"endsWith", model.RuleEndsWith, "qris", "Pembayaran QRIS", "", true},
		{"equals", model.RuleEquals, "starbucks", "STARBUCKS", "", true},
		{"equals is exact", model.RuleEquals, "starbucks", "STARBUCKS COFFEE", "", false},
		{"merchant scope ignores body", model.RuleMerchantContains, "gojek", "gojek mentioned in body", "ALFAMART", false},
		{"merchant scope hit", model.RuleMerchantContains, "gojek", "unrelated body", "GOJEK", true},
		{"merchant equals", model.RuleMerchantEquals, "gojek", "", "Gojek", true},
		{"merchant startsWith", model.RuleMerchantStartsWith, "toko", "", "TOKOPEDIA", true},
		{"unknown condition", model.RuleCondition("regex"), "x", "x", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rule(tt.condition, tt.value, "Test", 0)
			assert.Equal(t, tt.want, Match(tt.text, tt.merchant, r))
		})
	}
}

func TestApplyPriority(t *testing.T) {
	ruleList := []*model.Rule{
		rule(model.RuleContains, "gojek", "Transport", 1),
		rule(model.RuleContains, "gojek", "Food", 10),
	}

	// Higher priority wins regardless of list position.
	got := Apply("GOJEK order", "", ruleList, model.BankTypeDebit)
	assert.Equal(t, "Food", got)
}

func TestApplyStableTiebreak(t *testing.T) {
	ruleList := []*model.Rule{
		rule(model.RuleContains, "gojek", "First", 5),
		rule(model.RuleContains, "gojek", "Second", 5),
	}

	got := Apply("gojek", "", ruleList, model.BankTypeDebit)
	assert.Equal(t, "First", got)
}

func TestApplyBankTypeScope(t *testing.T) {
	creditOnly := rule(model.RuleContains, "cicilan", "Installment", 10)
	creditOnly.BankType = "credit"
	everywhere := rule(model.RuleContains, "cicilan", "Other", 1)

	ruleList := []*model.Rule{creditOnly, everywhere}

	assert.Equal(t, "Installment", Apply("cicilan 12x", "", ruleList, model.BankTypeCredit))
	// Debit transactions never see the credit-scoped rule.
	assert.Equal(t, "Other", Apply("cicilan 12x", "", ruleList, model.BankTypeDebit))
}

func TestApplyNoMatch(t *testing.T) {
	assert.Equal(t, model.CategoryUncategorized, Apply("anything", "", nil, model.BankTypeDebit))

	ruleList := []*model.Rule{rule(model.RuleContains, "grab", "Transport", 1)}
	assert.Equal(t, model.CategoryUncategorized, Apply("gojek", "", ruleList, model.BankTypeDebit))
}
