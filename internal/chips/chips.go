// Package chips tracks chip denomination breakdowns alongside numeric
// amounts. The numeric ledger is always authoritative; stacks exist so the
// host can show physical chip movement.
package chips

import "sort"

// Denominations lists the chip values in play, highest first.
var Denominations = []int{500, 100, 25, 10, 5, 1}

// Stack maps denomination value to chip count
type Stack map[int]int

// NewStack returns an empty stack
func NewStack() Stack {
	return make(Stack)
}

// Clone returns a deep copy of the stack
func (s Stack) Clone() Stack {
	out := make(Stack, len(s))
	for denom, count := range s {
		if count > 0 {
			out[denom] = count
		}
	}
	return out
}

// Value returns the total chip value of the stack
func (s Stack) Value() int {
	total := 0
	for denom, count := range s {
		total += denom * count
	}
	return total
}

// Denoms returns the denominations present in the stack, highest first
func (s Stack) Denoms() []int {
	denoms := make([]int, 0, len(s))
	for denom, count := range s {
		if count > 0 {
			denoms = append(denoms, denom)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(denoms)))
	return denoms
}

// StackFor breaks amount into denominations greedily, highest first.
// Whatever cannot be represented (amount not a multiple of the smallest
// denomination) is dropped; with a 1-chip in Denominations everything is
// representable.
func StackFor(amount int) Stack {
	stack := NewStack()
	for _, denom := range Denominations {
		if amount <= 0 {
			break
		}
		if n := amount / denom; n > 0 {
			stack[denom] = n
			amount -= n * denom
		}
	}
	return stack
}

// Take removes the largest representable amount <= amount from the stack,
// consuming the highest denominations first and never driving a count
// negative. It returns the removed breakdown and the shortfall: the portion
// of amount the stack could not represent. Callers settle any shortfall
// against the numeric ledger, which stays authoritative.
func Take(s Stack, amount int) (removed Stack, shortfall int) {
	removed = NewStack()
	remaining := amount
	for _, denom := range s.Denoms() {
		if remaining <= 0 {
			break
		}
		want := remaining / denom
		if want == 0 {
			continue
		}
		n := min(want, s[denom])
		if n == 0 {
			continue
		}
		s[denom] -= n
		if s[denom] == 0 {
			delete(s, denom)
		}
		removed[denom] = n
		remaining -= n * denom
	}
	return removed, remaining
}

// Add merges src into dst, mutating dst
func Add(dst Stack, src Stack) {
	for denom, count := range src {
		if count > 0 {
			dst[denom] += count
		}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
