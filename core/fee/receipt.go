package fee

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/blacklytning/alc/core/student"
)

// Receipt is the data behind a fee receipt. Document rendering is a
// collaborator concern; this is only the derived content.
type Receipt struct {
	Number        string          `json:"number"`
	StudentName   string          `json:"student_name"`
	CourseName    string          `json:"course_name"`
	Payment       Payment         `json:"payment"`
	TotalReceived decimal.Decimal `json:"total_received"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	AmountInWords string          `json:"amount_in_words"`
}

func BuildReceipt(std student.Student, pay Payment, balanceAfter decimal.Decimal) Receipt {
	total := pay.CollectedTotal()
	return Receipt{
		Number:        NewReceiptNumber(pay.PaymentDate),
		StudentName:   std.FullName(),
		CourseName:    std.CourseName,
		Payment:       pay,
		TotalReceived: total,
		BalanceAfter:  balanceAfter,
		AmountInWords: AmountInWords(total),
	}
}

// NewReceiptNumber generates a unique receipt number like RCP-20240131-1A2B3C4D.
func NewReceiptNumber(paymentDate string) string {
	datePart := strings.ReplaceAll(paymentDate, "-", "")
	uniquePart := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("RCP-%s-%s", datePart, uniquePart)
}

var (
	onesWords = []string{
		"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
		"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
		"Seventeen", "Eighteen", "Nineteen",
	}
	tensWords = []string{
		"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
	}
)

func wordsBelowThousand(n int64) string {
	var sb strings.Builder
	if n >= 100 {
		sb.WriteString(onesWords[n/100])
		sb.WriteString(" Hundred ")
		n %= 100
	}
	if n >= 20 {
		sb.WriteString(tensWords[n/10])
		sb.WriteString(" ")
		n %= 10
	}
	if n > 0 {
		sb.WriteString(onesWords[n])
		sb.WriteString(" ")
	}
	return sb.String()
}

// numberToWords spells out a number in the Indian numbering system
// (ones, thousands, lakhs, crores).
func numberToWords(n int64) string {
	if n == 0 {
		return "Zero"
	}
	if n < 0 {
		return "Negative " + numberToWords(-n)
	}
	if n < 1000 {
		return strings.TrimSpace(wordsBelowThousand(n))
	}

	var sb strings.Builder
	if n >= 10000000 {
		sb.WriteString(wordsBelowThousand(n / 10000000))
		sb.WriteString("Crore ")
		n %= 10000000
	}
	if n >= 100000 {
		sb.WriteString(wordsBelowThousand(n / 100000))
		sb.WriteString("Lakh ")
		n %= 100000
	}
	if n >= 1000 {
		sb.WriteString(wordsBelowThousand(n / 1000))
		sb.WriteString("Thousand ")
		n %= 1000
	}
	if n > 0 {
		sb.WriteString(wordsBelowThousand(n))
	}
	return strings.TrimSpace(sb.String())
}

// AmountInWords spells out a currency amount, e.g.
// "Rupees One Thousand Two Hundred and Fifty Paise Only".
func AmountInWords(amount decimal.Decimal) string {
	rupees := amount.IntPart()
	paise := amount.Sub(decimal.NewFromInt(rupees)).Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	result := "Rupees " + numberToWords(rupees)
	if paise > 0 {
		result += " and " + numberToWords(paise) + " Paise"
	}
	return result + " Only"
}
