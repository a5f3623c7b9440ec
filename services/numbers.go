package services

import (
	"fmt"
	"math"
	"strings"
)

// Spanish numeral tables for spelling out contract amounts.
var (
	numUnits = []string{"", "UNO", "DOS", "TRES", "CUATRO", "CINCO", "SEIS", "SIETE", "OCHO", "NUEVE"}

	numTeens = []string{"DIEZ", "ONCE", "DOCE", "TRECE", "CATORCE", "QUINCE",
		"DIECISÉIS", "DIECISIETE", "DIECIOCHO", "DIECINUEVE"}

	numTwenties = []string{"VEINTE", "VEINTIUNO", "VEINTIDÓS", "VEINTITRÉS", "VEINTICUATRO",
		"VEINTICINCO", "VEINTISÉIS", "VEINTISIETE", "VEINTIOCHO", "VEINTINUEVE"}

	numTens = []string{"", "", "", "TREINTA", "CUARENTA", "CINCUENTA",
		"SESENTA", "SETENTA", "OCHENTA", "NOVENTA"}

	numHundreds = []string{"", "CIENTO", "DOSCIENTOS", "TRESCIENTOS", "CUATROCIENTOS",
		"QUINIENTOS", "SEISCIENTOS", "SETECIENTOS", "OCHOCIENTOS", "NOVECIENTOS"}
)

// NumberToWords spells a non-negative integer below one million in Spanish.
func NumberToWords(n int) string {
	if n == 0 {
		return "CERO"
	}
	if n < 0 || n >= 1000000 {
		return fmt.Sprintf("%d", n)
	}

	var parts []string

	if thousands := n / 1000; thousands > 0 {
		if thousands == 1 {
			parts = append(parts, "MIL")
		} else {
			parts = append(parts, apocope(belowThousand(thousands)), "MIL")
		}
		n %= 1000
	}

	if n > 0 {
		parts = append(parts, belowThousand(n))
	}

	return strings.Join(parts, " ")
}

func belowThousand(n int) string {
	var parts []string

	if h := n / 100; h > 0 {
		if h == 1 && n%100 == 0 {
			return "CIEN"
		}
		parts = append(parts, numHundreds[h])
		n %= 100
	}

	if n > 0 {
		parts = append(parts, belowHundred(n))
	}

	return strings.Join(parts, " ")
}

func belowHundred(n int) string {
	switch {
	case n < 10:
		return numUnits[n]
	case n < 20:
		return numTeens[n-10]
	case n < 30:
		return numTwenties[n-20]
	default:
		tens := numTens[n/10]
		if units := n % 10; units > 0 {
			return tens + " Y " + numUnits[units]
		}
		return tens
	}
}

// apocope shortens a trailing UNO before a masculine noun: UN DÓLAR,
// VEINTIÚN DÓLARES, TREINTA Y UN CENTAVOS.
func apocope(words string) string {
	if strings.HasSuffix(words, "VEINTIUNO") {
		return strings.TrimSuffix(words, "VEINTIUNO") + "VEINTIÚN"
	}
	if strings.HasSuffix(words, "UNO") {
		return strings.TrimSuffix(words, "UNO") + "UN"
	}
	return words
}

// AmountInWords spells a monetary amount, converting whole dollars and cents
// independently: 120.50 -> "CIENTO VEINTE DÓLARES CON CINCUENTA CENTAVOS".
func AmountInWords(amount float64) string {
	whole := int(amount)
	cents := int(math.Round((amount - float64(whole)) * 100))
	if cents >= 100 {
		whole++
		cents -= 100
	}

	words := apocope(NumberToWords(whole))
	currency := "DÓLARES"
	if whole == 1 {
		currency = "DÓLAR"
	}

	if cents == 0 {
		return fmt.Sprintf("%s %s", words, currency)
	}

	centWords := apocope(NumberToWords(cents))
	centUnit := "CENTAVOS"
	if cents == 1 {
		centUnit = "CENTAVO"
	}
	return fmt.Sprintf("%s %s CON %s %s", words, currency, centWords, centUnit)
}

// DurationInWords describes a stay length for the lease text: short stays in
// days, longer ones composed from years and months (30-day months).
func DurationInWords(days int) string {
	if days < 30 {
		if days == 1 {
			return "1 día"
		}
		return fmt.Sprintf("%d días", days)
	}

	years := days / 365
	months := (days % 365) / 30

	var parts []string
	if years > 0 {
		if years == 1 {
			parts = append(parts, "1 año")
		} else {
			parts = append(parts, fmt.Sprintf("%d años", years))
		}
	}
	if months > 0 {
		if months == 1 {
			parts = append(parts, "1 mes")
		} else {
			parts = append(parts, fmt.Sprintf("%d meses", months))
		}
	}
	if len(parts) == 0 {
		return "1 mes"
	}
	return strings.Join(parts, " y ")
}
