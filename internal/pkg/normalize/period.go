package normalize

import (
	"regexp"
	"strconv"
)

// Providers report fixed terms in an ISO-8601-duration-like shorthand:
// "P1Y" is 12 months, "P3M" is 3 months, day counts round down to whole
// months ("P10D" is 0). Anything the grammar does not accept yields 0,
// meaning term unspecified — never an error.

var periodRe = regexp.MustCompile(`^P(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)D)?$`)

// ParsePeriodMonths parses a period shorthand into whole months.
func ParsePeriodMonths(s string) int {
	m := periodRe.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "" && m[3] == "") {
		return 0
	}
	months := atoi(m[1])*12 + atoi(m[2]) + atoi(m[3])/30
	return months
}

// atoi is safe here: the regexp only captures digit runs.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
