package workbook

import (
	"strings"
	"unicode"
)

// builtinNumFmt maps the ECMA-376 built-in number format ids to their codes.
var builtinNumFmt = map[int]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	5:  `"$"#,##0_);("$"#,##0)`,
	6:  `"$"#,##0_);[Red]("$"#,##0)`,
	7:  `"$"#,##0.00_);("$"#,##0.00)`,
	8:  `"$"#,##0.00_);[Red]("$"#,##0.00)`,
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	37: "#,##0_);(#,##0)",
	38: "#,##0_);[Red](#,##0)",
	39: "#,##0.00_);(#,##0.00)",
	40: "#,##0.00_);[Red](#,##0.00)",
	41: `_(* #,##0_);_(* \(#,##0\);_(* "-"_);_(@_)`,
	42: `_("$"* #,##0_);_("$"* \(#,##0\);_("$"* "-"_);_(@_)`,
	43: `_(* #,##0.00_);_(* \(#,##0.00\);_(* "-"??_);_(@_)`,
	44: `_("$"* #,##0.00_)_("$"* \(#,##0.00\)_("$"* "-"??_)_(@_)`,
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mmss.0",
	48: "##0.0E+0",
	49: "@",
}

// IsDateFormat reports whether a number format code renders dates or times.
// Quoted literals, escaped characters, fill and padding directives and
// bracketed colour or condition sections are ignored; elapsed-time brackets
// such as [h] count.
func IsDateFormat(code string) bool {
	if code == "" || strings.EqualFold(code, "General") {
		return false
	}

	var plain strings.Builder
	runes := []rune(code)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '"':
			for i++; i < len(runes) && runes[i] != '"'; i++ {
			}
		case '\\', '_', '*':
			i++
		case '[':
			end := i + 1
			for end < len(runes) && runes[end] != ']' {
				end++
			}
			if section := strings.ToLower(string(runes[i+1 : min(end, len(runes))])); isElapsedTime(section) {
				return true
			}
			i = end
		default:
			plain.WriteRune(unicode.ToLower(r))
		}
	}
	return strings.ContainsAny(plain.String(), "dmyhs")
}

func isElapsedTime(section string) bool {
	if section == "" {
		return false
	}
	for _, r := range section {
		if r != 'h' && r != 'm' && r != 's' {
			return false
		}
	}
	return true
}
