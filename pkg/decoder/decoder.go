// Package decoder reverses the two-character substitution cipher the catalog
// applies to provider paths.
package decoder

import "strings"

var codes = map[string]byte{
	// uppercase
	"79": 'A', "7a": 'B', "7b": 'C', "7c": 'D', "7d": 'E',
	"7e": 'F', "7f": 'G', "70": 'H', "71": 'I', "72": 'J',
	"73": 'K', "74": 'L', "75": 'M', "76": 'N', "77": 'O',
	"68": 'P', "69": 'Q', "6a": 'R', "6b": 'S', "6c": 'T',
	"6d": 'U', "6e": 'V', "6f": 'W', "60": 'X', "61": 'Y',
	"62": 'Z',
	// lowercase
	"59": 'a', "5a": 'b', "5b": 'c', "5c": 'd', "5d": 'e',
	"5e": 'f', "5f": 'g', "50": 'h', "51": 'i', "52": 'j',
	"53": 'k', "54": 'l', "55": 'm', "56": 'n', "57": 'o',
	"48": 'p', "49": 'q', "4a": 'r', "4b": 's', "4c": 't',
	"4d": 'u', "4e": 'v', "4f": 'w', "40": 'x', "41": 'y',
	"42": 'z',
	// digits
	"08": '0', "09": '1', "0a": '2', "0b": '3', "0c": '4',
	"0d": '5', "0e": '6', "0f": '7', "00": '8', "01": '9',
	// punctuation
	"15": '-', "16": '.', "67": '_', "46": '~',
	"02": ':', "17": '/', "07": '?', "1b": '#',
	"63": '[', "65": ']', "78": '@', "19": '!',
	"1c": '$', "1e": '&', "10": '(', "11": ')',
	"12": '*', "13": '+', "14": ',', "03": ';',
	"05": '=', "1d": '%',
}

// reverse of codes, used by Encode.
var chars = func() map[byte]string {
	m := make(map[byte]string, len(codes))
	for code, c := range codes {
		m[c] = code
	}
	return m
}()

const (
	clock     = "/clock"
	clockJSON = "/clock.json"
)

// Decode maps every known pair to its character and copies anything else
// through one byte at a time. It never fails.
func Decode(s string) string {
	var b strings.Builder
	b.Grow(len(s)/2 + len(clockJSON))

	for i := 0; i < len(s); {
		if i+1 < len(s) {
			if c, ok := codes[strings.ToLower(s[i:i+2])]; ok {
				b.WriteByte(c)
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}

	return rewriteClock(b.String())
}

// rewriteClock turns "/clock" into "/clock.json", leaving existing
// "/clock.json" segments alone.
func rewriteClock(s string) string {
	if !strings.Contains(s, clock) {
		return s
	}

	var b strings.Builder
	for {
		i := strings.Index(s, clock)
		if i < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:i])
		b.WriteString(clockJSON)
		s = strings.TrimPrefix(s[i+len(clock):], ".json")
	}
	return b.String()
}

// Encode is the inverse of the substitution; characters outside the table
// are copied as-is.
func Encode(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 2)
	for i := 0; i < len(s); i++ {
		if code, ok := chars[s[i]]; ok {
			b.WriteString(code)
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Size is the number of codes in the table.
func Size() int {
	return len(codes)
}

// Table returns a copy of the substitution table.
func Table() map[string]string {
	out := make(map[string]string, len(codes))
	for code, c := range codes {
		out[code] = string(c)
	}
	return out
}
