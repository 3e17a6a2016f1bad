package fee

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/blacklytning/alc/core/student"
)

func Test_NewReceiptNumber(t *testing.T) {
	num := NewReceiptNumber("2024-01-31")
	assert.Regexp(t, regexp.MustCompile(`^RCP-20240131-[0-9A-F]{8}$`), num)
	assert.NotEqual(t, num, NewReceiptNumber("2024-01-31"))
}

func Test_numberToWords_indianNumbering(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "Zero"},
		{7, "Seven"},
		{19, "Nineteen"},
		{42, "Forty Two"},
		{100, "One Hundred"},
		{999, "Nine Hundred Ninety Nine"},
		{1000, "One Thousand"},
		{2500, "Two Thousand Five Hundred"},
		{99999, "Ninety Nine Thousand Nine Hundred Ninety Nine"},
		{100000, "One Lakh"},
		{250000, "Two Lakh Fifty Thousand"},
		{10000000, "One Crore"},
		{12345678, "One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, numberToWords(tt.n))
		})
	}
}

func Test_AmountInWords(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		want   string
	}{
		{"whole rupees", decimal.NewFromInt(3000), "Rupees Three Thousand Only"},
		{"with paise", decimal.NewFromFloat(1250.50), "Rupees One Thousand Two Hundred Fifty and Fifty Paise Only"},
		{"zero", decimal.Zero, "Rupees Zero Only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AmountInWords(tt.amount))
		})
	}
}

func Test_BuildReceipt(t *testing.T) {
	std := student.Student{FirstName: "Asha", LastName: "Pawar", CourseName: "MS-CIT"}
	pay := Payment{
		Amount:      decimal.NewFromInt(1000),
		LateFee:     decimal.NewFromInt(100),
		Discount:    decimal.NewFromInt(50),
		PaymentDate: "2024-01-31",
		Method:      MethodCash,
	}

	r := BuildReceipt(std, pay, decimal.NewFromInt(2000))

	assert.Equal(t, "Asha Pawar", r.StudentName)
	assert.Equal(t, "MS-CIT", r.CourseName)
	assert.True(t, r.TotalReceived.Equal(decimal.NewFromInt(1050)))
	assert.True(t, r.BalanceAfter.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, "Rupees One Thousand Fifty Only", r.AmountInWords)
}
