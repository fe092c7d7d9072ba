package polli

import "math/rand/v2"

// RandomSeed returns a random seed of 5 to 8 digits.
func RandomSeed() int {
	digits := 5 + rand.IntN(4)
	low := 1
	for range digits - 1 {
		low *= 10
	}
	high := low*10 - 1
	return low + rand.IntN(high-low+1)
}
