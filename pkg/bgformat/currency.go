package bgformat

import "github.com/shopspring/decimal"

// EURRate фиксиран курс: 1 EUR = 1.95583 BGN.
var EURRate = decimal.RequireFromString("1.95583")

// ToEUR importe en euros. Todo lo que no es EUR se toma como BGN.
func ToEUR(amount decimal.Decimal, currency string) decimal.Decimal {
	if currency == CurrencyEUR {
		return amount
	}
	return amount.Div(EURRate)
}

// ToBGN importe en leva.
func ToBGN(amount decimal.Decimal, currency string) decimal.Decimal {
	if currency == CurrencyEUR {
		return amount.Mul(EURRate)
	}
	return amount
}
