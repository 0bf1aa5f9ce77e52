package lexer

import "strconv"

func parseDecimal(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func parseOctal(s string) int64 {
	v, _ := strconv.ParseInt(s, 8, 64)
	return v
}

func parseHex(s string) int64 {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0
	}
	return int64(v)
}

func parseBin(s string) int64 {
	v, err := strconv.ParseUint(s, 2, 64)
	if err != nil {
		return 0
	}
	return int64(v)
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
