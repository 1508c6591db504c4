package intent

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	accountx "github.com/tanpawarit/facebank-assistant/agent/account"
)

const (
	CurrencyGlyph         = "₹"
	TransferDescription   = "Demo transfer"
	DefaultTransferAmount = 100
	historyLimit          = 3

	noTransactionsMessage = "No transactions found."
	historyHeader         = "Here are your recent transactions:"
	noEligibleFDMessage   = "You don't have enough balance for the sample FD plans."
	helpMessage           = "Hello — I'm FaceBank. You can ask me to 'Check my balance', 'Show transactions', " +
		"'Suggest FD', or 'Send ₹500 to Ramesh'."
)

var amountPattern = regexp.MustCompile(`\p{Nd}+`)

// rule pairs a predicate over lowercased text with the handler that answers it.
type rule struct {
	name   Name
	match  func(lowered string) bool
	handle func(a *Agent, lowered string, acct *accountx.UserAccount) string
}

var helpRule = rule{
	name:   IntentHelp,
	match:  func(string) bool { return true },
	handle: func(*Agent, string, *accountx.UserAccount) string { return helpMessage },
}

// defaultRules is evaluated in order; the first match wins.
func defaultRules() []rule {
	return []rule{
		{name: IntentBalance, match: containsAny("balance"), handle: (*Agent).balance},
		{name: IntentHistory, match: containsAny("transaction", "history", "last"), handle: (*Agent).history},
		{name: IntentFD, match: containsAny("fd", "fixed deposit", "deposit"), handle: (*Agent).recommendFD},
		{name: IntentTransfer, match: isTransfer, handle: (*Agent).transfer},
	}
}

func containsAny(keywords ...string) func(string) bool {
	return func(lowered string) bool {
		for _, kw := range keywords {
			if strings.Contains(lowered, kw) {
				return true
			}
		}
		return false
	}
}

func isTransfer(lowered string) bool {
	return strings.HasPrefix(lowered, "send") || strings.Contains(lowered, "transfer")
}

func (a *Agent) balance(_ string, acct *accountx.UserAccount) string {
	return fmt.Sprintf("Your current balance is %s.", formatMoney(acct.Balance))
}

func (a *Agent) history(_ string, acct *accountx.UserAccount) string {
	recent := acct.Recent(historyLimit)
	if len(recent) == 0 {
		return noTransactionsMessage
	}

	lines := make([]string, 0, len(recent)+1)
	lines = append(lines, historyHeader)
	for _, tx := range recent {
		lines = append(lines, fmt.Sprintf("%s: %s %s (%s)",
			tx.Date, capitalize(string(tx.Type)), formatMoney(tx.Amount), tx.Desc))
	}
	return strings.Join(lines, "\n")
}

func (a *Agent) recommendFD(_ string, acct *accountx.UserAccount) string {
	best, ok := BestPlan(a.catalog, acct.Balance)
	if !ok {
		return noEligibleFDMessage
	}
	return fmt.Sprintf("I recommend the %s FD at %s. Min amount %s.",
		best.Duration, best.Rate, formatMoney(best.MinAmount))
}

func (a *Agent) transfer(lowered string, acct *accountx.UserAccount) string {
	amount := ExtractAmount(lowered)
	acct.Debit(amount, a.today(), TransferDescription)
	return fmt.Sprintf("%s sent successfully. New balance %s.", formatMoney(amount), formatMoney(acct.Balance))
}

// BestPlan picks the highest-rate plan whose minimum is covered by balance.
// The first plan wins among equal rates. Plans with unparseable rates are skipped.
func BestPlan(catalog accountx.Catalog, balance decimal.Decimal) (accountx.FDPlan, bool) {
	var (
		best     accountx.FDPlan
		bestRate float64
		found    bool
	)
	for _, plan := range catalog {
		if plan.MinAmount.GreaterThan(balance) {
			continue
		}
		rate, err := accountx.ParseRate(plan.Rate)
		if err != nil {
			continue
		}
		if !found || rate > bestRate {
			best, bestRate, found = plan, rate, true
		}
	}
	return best, found
}

// ExtractAmount returns the first run of decimal digits in text after
// dropping thousands separators, or DefaultTransferAmount when there is none.
// Digits from any script count ("५००" is 500).
func ExtractAmount(text string) decimal.Decimal {
	digits := amountPattern.FindString(strings.ReplaceAll(text, ",", ""))
	if digits == "" {
		return decimal.NewFromInt(DefaultTransferAmount)
	}
	return decimal.RequireFromString(asciiDigits(digits))
}

// asciiDigits maps Unicode decimal digits onto 0-9. Nd code points come in
// contiguous runs of ten starting at zero, so a digit's value is its offset
// from the start of its run, modulo ten.
func asciiDigits(digits string) string {
	var b strings.Builder
	b.Grow(len(digits))
	for _, r := range digits {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		start := r
		for unicode.IsDigit(start - 1) {
			start--
		}
		b.WriteByte(byte('0' + (r-start)%10))
	}
	return b.String()
}

func formatMoney(d decimal.Decimal) string {
	return CurrencyGlyph + d.Truncate(0).String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
