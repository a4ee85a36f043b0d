package main

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ErrEmptyCounts is returned when a mode is requested from an empty distribution.
var ErrEmptyCounts = errors.New("empty outcome distribution")

// Counts maps an outcome string to the number of shots that produced it.
// Outcome strings list the classical register highest bit first, so for the
// half adder "10" means carry=1, sum=0.
type Counts map[string]int

// FormatOutcome renders a classical register as an outcome string.
func FormatOutcome(cbits []int) string {
	var sb strings.Builder
	for i := len(cbits) - 1; i >= 0; i-- {
		sb.WriteByte(byte('0' + cbits[i]))
	}
	return sb.String()
}

// outcomeBit returns classical bit i of an outcome string.
func outcomeBit(outcome string, i int) (int, error) {
	pos := len(outcome) - 1 - i
	if pos < 0 || pos >= len(outcome) {
		return 0, fmt.Errorf("outcome %q has no bit %d", outcome, i)
	}
	switch outcome[pos] {
	case '0':
		return 0, nil
	case '1':
		return 1, nil
	default:
		return 0, fmt.Errorf("outcome %q: invalid bit %q", outcome, outcome[pos])
	}
}

// DecodeOutcome splits a half-adder outcome into its sum and carry bits.
func DecodeOutcome(outcome string) (sum, carry int, err error) {
	if len(outcome) != halfAdderCbits {
		return 0, 0, fmt.Errorf("outcome %q: want %d bits", outcome, halfAdderCbits)
	}
	if sum, err = outcomeBit(outcome, cbitSum); err != nil {
		return 0, 0, err
	}
	if carry, err = outcomeBit(outcome, cbitCarry); err != nil {
		return 0, 0, err
	}
	return sum, carry, nil
}

// Total returns the number of shots recorded.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Keys returns the outcomes in lexicographic order.
func (c Counts) Keys() []string {
	return slices.Sorted(maps.Keys(c))
}

// Mode returns the most frequent outcome. Ties go to the lexicographically
// smallest outcome.
func (c Counts) Mode() (string, error) {
	if len(c) == 0 {
		return "", ErrEmptyCounts
	}
	best, bestN := "", -1
	for _, k := range c.Keys() {
		if c[k] > bestN {
			best, bestN = k, c[k]
		}
	}
	return best, nil
}

// String renders the distribution as {'00': 1024, '01': 3}, ordered by outcome.
func (c Counts) String() string {
	parts := make([]string, 0, len(c))
	for _, k := range c.Keys() {
		parts = append(parts, fmt.Sprintf("'%s': %d", k, c[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
