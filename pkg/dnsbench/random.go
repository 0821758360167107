package dnsbench

import "math/rand"

const (
	randomLabelMinLen = 3
	randomLabelMaxLen = 7
	randomAlphabet    = "abcdefghijklmnopqrstuvwxyz"

	// maxNameLen is the longest domain name in its textual form without the trailing dot.
	maxNameLen = 253
)

// randomSubdomain prepends a random label of 3 to 7 lowercase letters to the domain.
func randomSubdomain(rando *rand.Rand, domain string) string {
	n := randomLabelMinLen + rando.Intn(randomLabelMaxLen-randomLabelMinLen+1)
	label := make([]byte, n, n+1+len(domain))
	for i := range label {
		label[i] = randomAlphabet[rando.Intn(len(randomAlphabet))]
	}
	label = append(label, '.')
	return string(append(label, domain...))
}
