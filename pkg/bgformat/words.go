// Package bgformat formatos en búlgaro: importes en letras, fechas, teléfonos,
// nombres de empresa y direcciones.
package bgformat

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Monedas soportadas.
const (
	CurrencyBGN = "BGN"
	CurrencyEUR = "EUR"
)

var (
	unitsMasc = [...]string{"", "един", "два", "три", "четири", "пет", "шест", "седем", "осем", "девет"}
	unitsFem  = [...]string{"", "една", "две", "три", "четири", "пет", "шест", "седем", "осем", "девет"}
	teens     = [...]string{"десет", "единадесет", "дванадесет", "тринадесет", "четиринадесет", "петнадесет", "шестнадесет", "седемнадесет", "осемнадесет", "деветнадесет"}
	tens      = [...]string{"", "десет", "двадесет", "тридесет", "четиридесет", "петдесет", "шестдесет", "седемдесет", "осемдесет", "деветдесет"}
	hundreds  = [...]string{"", "сто", "двеста", "триста", "четиристотин", "петстотин", "шестстотин", "седемстотин", "осемстотин", "деветстотин"}
)

// AmountInWords importe en letras: "сто и двадесет лева и 50 стотинки" o "... евро и 50 цента".
func AmountInWords(amount decimal.Decimal, currency string) string {
	amount = amount.Abs().Round(2)
	integer := amount.IntPart()
	fraction := amount.Sub(decimal.NewFromInt(integer)).Mul(decimal.NewFromInt(100)).IntPart()
	words := IntegerInWords(integer)
	frac := strconv.FormatInt(fraction, 10)
	if fraction < 10 {
		frac = "0" + frac
	}

	if currency == CurrencyEUR {
		return words + " евро и " + frac + " цента"
	}
	mainUnit, fracUnit := "лева", "стотинки"
	if integer == 1 {
		mainUnit = "лев"
	}
	if fraction == 1 {
		fracUnit = "стотинка"
	}
	return words + " " + mainUnit + " и " + frac + " " + fracUnit
}

// IntegerInWords número entero (masculino) en letras, hasta 999 999 999.
func IntegerInWords(n int64) string {
	if n == 0 {
		return "нула"
	}
	if n < 0 || n >= 1_000_000_000 {
		return strconv.FormatInt(n, 10)
	}
	var parts []string
	if mil := n / 1_000_000; mil > 0 {
		if mil == 1 {
			parts = append(parts, "един милион")
		} else {
			parts = append(parts, chunk(int(mil), false)+" милиона")
		}
	}
	if th := (n % 1_000_000) / 1000; th > 0 {
		if th == 1 {
			parts = append(parts, "хиляда")
		} else {
			parts = append(parts, chunk(int(th), true)+" хиляди")
		}
	}
	if rest := n % 1000; rest > 0 {
		if len(parts) > 0 && rest < 100 {
			parts = append(parts, "и")
		}
		parts = append(parts, chunk(int(rest), false))
	}
	return strings.Join(parts, " ")
}

// chunk convierte 1..999; feminine para las miles ("две хиляди").
func chunk(num int, feminine bool) string {
	h, t, u := num/100, (num%100)/10, num%10
	units := unitsMasc
	if feminine {
		units = unitsFem
	}
	var res []string
	if h > 0 {
		res = append(res, hundreds[h])
	}
	switch {
	case t == 1:
		if h > 0 {
			res = append(res, "и")
		}
		res = append(res, teens[u])
	case t > 0:
		if h > 0 {
			res = append(res, "и")
		}
		res = append(res, tens[t])
		if u > 0 {
			res = append(res, "и", units[u])
		}
	case u > 0:
		if h > 0 {
			res = append(res, "и")
		}
		res = append(res, units[u])
	}
	return strings.Join(res, " ")
}

// FormatAmount "12.50 лв." para BGN o "€ 12.50" para EUR.
func FormatAmount(amount decimal.Decimal, currency string) string {
	if currency == CurrencyEUR {
		return "€ " + amount.StringFixed(2)
	}
	return amount.StringFixed(2) + " лв."
}
