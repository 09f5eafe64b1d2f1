package game

import (
	"strings"
	"unicode"

	"github.com/PrintfDebuggerr/cift-wordle/models"
	"github.com/PrintfDebuggerr/cift-wordle/words"
)

// Evaluate grades a guess against a target word with the two-pass algorithm:
// exact positions first, then present-but-misplaced letters against the
// remaining letter counts. Letters appearing in the guess more often than in
// the target are marked absent once the target's count is used up. Both words
// must have the same rune length; the caller validates that before calling.
func Evaluate(guess, target string) []models.LetterResult {
	guessRunes := []rune(words.Normalize(guess))
	targetRunes := []rune(words.Normalize(target))

	result := make([]models.LetterResult, len(guessRunes))
	remaining := make(map[rune]int, len(targetRunes))

	// First pass: exact positions. Every other letter of the target feeds
	// the remaining-count multiset.
	for i, r := range guessRunes {
		result[i] = models.LetterResult{
			Letter:   strings.ToUpperSpecial(unicode.TurkishCase, string(r)),
			Status:   models.LetterAbsent,
			Position: i,
		}
		if r == targetRunes[i] {
			result[i].Status = models.LetterCorrect
		} else {
			remaining[targetRunes[i]]++
		}
	}

	// Second pass: misplaced letters consume remaining counts.
	for i, r := range guessRunes {
		if result[i].Status == models.LetterCorrect {
			continue
		}
		if remaining[r] > 0 {
			result[i].Status = models.LetterPresent
			remaining[r]--
		}
	}
	return result
}

func allCorrect(result []models.LetterResult) bool {
	for _, lr := range result {
		if lr.Status != models.LetterCorrect {
			return false
		}
	}
	return true
}
