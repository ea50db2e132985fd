// Package rules classifies transactions into categories by matching
// user-defined text rules against the parsed email content.
package rules

import (
	"sort"
	"strings"

	"github.com/Jiegrein/PersonalBankNote/internal/model"
)

// Match reports whether a rule's condition holds. Matching is case
// insensitive. The contains/startsWith/endsWith/equals kinds run against
// the combined text; the merchant-scoped variants run against the merchant
// name alone, so a broad word in the email body cannot trigger them.
func Match(text, merchant string, rule *model.Rule) bool {
	target := strings.ToLower(text)
	if rule.Condition.IsMerchantScoped() {
		target = strings.ToLower(merchant)
	}
	value := strings.ToLower(rule.ConditionValue)

	switch rule.Condition {
	case model.RuleContains, model.RuleMerchantContains:
		return strings.Contains(target, value)
	case model.RuleStartsWith, model.RuleMerchantStartsWith:
		return strings.HasPrefix(target, value)
	case model.RuleEndsWith, model.RuleMerchantEndsWith:
		return strings.HasSuffix(target, value)
	case model.RuleEquals, model.RuleMerchantEquals:
		return target == value
	default:
		return false
	}
}

// Apply returns the category of the highest-priority matching rule, or
// "Uncategorized" when nothing matches. Rules scoped to a bank type only
// apply to transactions from that type; an empty scope applies everywhere.
// Equal priorities keep their input order (stable sort), so the stored
// rule order is the tiebreak.
func Apply(text, merchant string, ruleList []*model.Rule, bankType model.BankType) string {
	if len(ruleList) == 0 {
		return model.CategoryUncategorized
	}

	applicable := make([]*model.Rule, 0, len(ruleList))
	for _, r := range ruleList {
		if r.BankType == "" || r.BankType == string(bankType) {
			applicable = append(applicable, r)
		}
	}

	sort.SliceStable(applicable, func(i, j int) bool {
		return applicable[i].Priority > applicable[j].Priority
	})

	for _, r := range applicable {
		if Match(text, merchant, r) {
			return r.Category
		}
	}
	return model.CategoryUncategorized
}
