package common

import (
	"math/big"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

// BigToFloat converts a big int to float according to its number of decimal digits
// Example:
// - BigToFloat(1100, 3) = 1.1
// - BigToFloat(1100, 2) = 11
// - BigToFloat(1100, 5) = 0.11
func BigToFloat(b *big.Int, decimal uint64) float64 {
	if b == nil {
		return 0
	}
	f := new(big.Float).SetInt(b)
	power := new(big.Float).SetInt(new(big.Int).Exp(
		big.NewInt(10), big.NewInt(int64(decimal)), nil,
	))
	res := new(big.Float).Quo(f, power)
	result, _ := res.Float64()
	return result
}

func BigToFloatString(value *big.Int, decimal uint64) string {
	if value == nil {
		return "0"
	}
	f := new(big.Float).SetInt(value)
	power := new(big.Float).SetInt(new(big.Int).Exp(
		big.NewInt(10), big.NewInt(int64(decimal)), nil,
	))
	res := new(big.Float).Quo(f, power)
	text := res.Text('f', int(decimal))
	if strings.Contains(text, ".") {
		text = strings.TrimRight(strings.TrimRight(text, "0"), ".")
	}
	return text
}

func StringToBig(input string) *big.Int {
	resultBig, ok := big.NewInt(0).SetString(input, 10)
	if !ok {
		return big.NewInt(0)
	}
	return resultBig
}

// FormatAmount renders a token amount with thousands separators and at
// most 4 fractional digits, e.g. 1234500000000000000000 (18) -> "1,234.5".
func FormatAmount(value *big.Int, decimal uint64) string {
	f := BigToFloat(value, decimal)
	s := amountPrinter.Sprintf("%.4f", f)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}

// BigToString is the decimal form of b, "0" for nil.
func BigToString(b *big.Int) string {
	if b == nil {
		return "0"
	}
	return b.String()
}
