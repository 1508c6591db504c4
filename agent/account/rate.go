package account

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRate turns a percentage string such as "7.5%" into 7.5.
func ParseRate(rate string) (float64, error) {
	trimmed := strings.TrimSpace(strings.Trim(rate, "%"))
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("parse rate %q: %w", rate, err)
	}
	return v, nil
}
