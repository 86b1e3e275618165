package cmd

import "strings"

// maxSuggestDistance is the largest edit distance still worth suggesting.
const maxSuggestDistance = 3

// levenshtein computes the edit distance between a and b, counting runes so
// names like "kategorier" and "kätegorier" differ by one.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			next := min(row[j]+1, row[j-1]+1, diag+cost)
			diag = row[j]
			row[j] = next
		}
	}
	return row[len(rb)]
}

// closest returns the candidate nearest to input after key normalization.
// A unique prefix match wins over edit distance.
func closest(input string, candidates []string, key func(string) string) string {
	input = key(input)
	if input == "" {
		return ""
	}

	var prefixed []string
	for _, c := range candidates {
		if strings.HasPrefix(key(c), input) {
			prefixed = append(prefixed, c)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0]
	}

	best, bestDist := "", maxSuggestDistance+1
	for _, c := range candidates {
		if d := levenshtein(input, key(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// suggestCommand finds the closest command name to the unknown input.
func suggestCommand(unknown string, commands []string) string {
	return closest(unknown, commands, strings.ToLower)
}

// suggestFlag finds the closest flag to the unknown input, ignoring leading
// dashes, and returns it with its original prefix.
func suggestFlag(unknown string, flagNames []string) string {
	return closest(unknown, flagNames, func(s string) string {
		return strings.ToLower(strings.TrimLeft(s, "-"))
	})
}
