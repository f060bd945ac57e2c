package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeSalary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean value untouched", "£12.50 per hour", "£12.50 per hour"},
		{"phone number stripped", "£12.50 per hour 07123456789", "£12.50 per hour"},
		{
			"call-or-text tail stripped",
			"£90 - £110 per day Call or Text Ben on 07123456789",
			"£90 - £110 per day",
		},
		{"email stripped", "£10/hr apply jobs@acme.test", "£10/hr apply"},
		{"pure contact info discarded", "Call or Text 07123456789", ""},
		{"email only discarded", "jobs@acme.test", ""},
		{"empty stays empty", "", ""},
		{"whitespace collapsed", "  £9.50   per   hour ", "£9.50 per hour"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeSalary(tt.in))
		})
	}
}

func TestSalaryFromDescription(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"range with both currency marks",
			"Great role. £90 - £110 per day plus tips.",
			"£90 - £110 per day",
		},
		{
			"range with single currency mark",
			"Pay is £11.50-13.00 per hour depending on experience.",
			"£11.50 - £13.00 per hour",
		},
		{
			"single amount",
			"We pay £32,000 per annum with a review at 6 months.",
			"£32,000 per annum",
		},
		{
			"slash form",
			"Earning £14/hour on weekends.",
			"£14 per hour",
		},
		{
			"earn shift form",
			"EARN £120 - £150 PER SHIFT self employed couriers.",
			"£120 - £150 per shift",
		},
		{"no salary present", "Immediate start, great team.", ""},
		{"empty description", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SalaryFromDescription(tt.in))
		})
	}
}
