// Package matching holds the roommate compatibility scorer. Everything here
// is pure: no I/O, no mutation of the profiles passed in.
package matching

import (
	"fmt"
	"strings"

	"github.com/mroshb/roommatch/internal/models"
)

// Factor weights. They sum to 1.0.
const (
	WeightBudget    = 0.30
	WeightLifestyle = 0.40
	WeightPet       = 0.10
	WeightSmoking   = 0.10
	WeightLocation  = 0.10
)

// Threshold is the score a pair must strictly exceed to become a match.
const Threshold = 0.6

const (
	maxReasons = 3
	// levelSpan is the largest distance on the 1-5 scale.
	levelSpan = 4.0
)

// DefaultReason is used when no specific clause applies.
const DefaultReason = "Good overall compatibility"

// lifestyle is the fixed set of numeric lifestyle factors compared pairwise.
type lifestyle struct {
	cleanliness int
	social      int
	noise       int
}

func lifestyleOf(p *models.Profile) lifestyle {
	return lifestyle{
		cleanliness: p.CleanlinessLevel,
		social:      p.SocialLevel,
		noise:       p.NoiseTolerance,
	}
}

// Evaluate returns the compatibility score of a and b together with a short
// human-readable explanation.
func Evaluate(a, b *models.Profile) (float64, string) {
	return Score(a, b), Reason(a, b)
}

// Qualifies reports whether a score is high enough to create a match.
func Qualifies(score float64) bool {
	return score > Threshold
}

// Score computes the weighted compatibility of two profiles in [0, 1].
// Only factors with data on both sides count towards the total weight,
// except lifestyle whose weight is always counted.
func Score(a, b *models.Profile) float64 {
	score := 0.0
	totalWeight := 0.0

	// Budget compatibility. A disjoint range still counts its weight.
	if a.HasBudget() && b.HasBudget() {
		if overlap := budgetOverlap(a, b); overlap > 0 {
			widest := max(a.BudgetMax-a.BudgetMin, b.BudgetMax-b.BudgetMin)
			score += float64(overlap) / float64(widest) * WeightBudget
		}
		totalWeight += WeightBudget
	}

	// Lifestyle: missing sub-factors add nothing but still divide by three.
	la, lb := lifestyleOf(a), lifestyleOf(b)
	lifestyleScore := levelAgreement(la.cleanliness, lb.cleanliness) +
		levelAgreement(la.social, lb.social) +
		levelAgreement(la.noise, lb.noise)
	score += lifestyleScore / 3 * WeightLifestyle
	totalWeight += WeightLifestyle

	if a.PetPreference != "" && b.PetPreference != "" {
		score += preferenceScore(a.PetPreference, b.PetPreference) * WeightPet
		totalWeight += WeightPet
	}

	if a.SmokingPreference != "" && b.SmokingPreference != "" {
		score += preferenceScore(a.SmokingPreference, b.SmokingPreference) * WeightSmoking
		totalWeight += WeightSmoking
	}

	if a.LocationPreference != "" && b.LocationPreference != "" {
		if sameLocation(a, b) {
			score += WeightLocation
		}
		totalWeight += WeightLocation
	}

	if totalWeight > 0 {
		score = score / totalWeight
	}

	return min(score, 1.0)
}

// Reason lists up to three qualifying clauses in a fixed order.
func Reason(a, b *models.Profile) string {
	var reasons []string

	if a.HasBudget() && b.HasBudget() && budgetOverlap(a, b) > 0 {
		reasons = append(reasons, "Similar budget range")
	}

	la, lb := lifestyleOf(a), lifestyleOf(b)
	if near(la.cleanliness, lb.cleanliness) {
		reasons = append(reasons, "Compatible cleanliness standards")
	}
	if near(la.social, lb.social) {
		reasons = append(reasons, "Similar social preferences")
	}
	if near(la.noise, lb.noise) {
		reasons = append(reasons, "Compatible noise tolerance")
	}

	if a.PetPreference != "" && a.PetPreference == b.PetPreference && a.PetPreference != models.PreferenceMaybe {
		reasons = append(reasons, fmt.Sprintf("Both %s pets", a.PetPreference))
	}

	if a.LocationPreference != "" && b.LocationPreference != "" && sameLocation(a, b) {
		reasons = append(reasons, "Same location preference")
	}

	if len(reasons) == 0 {
		return DefaultReason
	}
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	return strings.Join(reasons, ", ")
}

func budgetOverlap(a, b *models.Profile) int {
	return min(a.BudgetMax, b.BudgetMax) - max(a.BudgetMin, b.BudgetMin)
}

// levelAgreement is 1 for equal levels and 0 at opposite ends of the scale.
// A missing level on either side contributes nothing.
func levelAgreement(x, y int) float64 {
	if x == 0 || y == 0 {
		return 0
	}
	return 1 - float64(abs(x-y))/levelSpan
}

func near(x, y int) bool {
	return x != 0 && y != 0 && abs(x-y) <= 1
}

func preferenceScore(x, y string) float64 {
	switch {
	case x == y:
		return 1
	case x == models.PreferenceMaybe || y == models.PreferenceMaybe:
		return 0.5
	}
	return 0
}

func sameLocation(a, b *models.Profile) bool {
	return strings.EqualFold(a.LocationPreference, b.LocationPreference)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
