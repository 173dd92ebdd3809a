package rental

import (
	"math"
	"time"

	"carrental/pkg/models"

	"github.com/google/uuid"
)

const MaxScore = 5.0

// ValidateScore accepts scores in [0, 5] with at most two decimal digits.
func ValidateScore(score float64) error {
	if math.IsNaN(score) || score < 0 || score > MaxScore {
		return &InvalidScoreError{Score: score}
	}
	cents := score * 100
	if math.Abs(cents-math.Round(cents)) > 1e-6 {
		return &InvalidScoreError{Score: score}
	}
	return nil
}

// SubmitReview builds the client's first review of a vehicle. existing must
// hold the reviews currently known for that vehicle.
func SubmitReview(clientID, vehicleID string, score float64, comment *string, existing []models.Review, now time.Time) (models.Review, error) {
	if err := ValidateScore(score); err != nil {
		return models.Review{}, err
	}
	if _, ok := FindReview(existing, clientID, vehicleID); ok {
		return models.Review{}, &DuplicateReviewError{ClientID: clientID, VehicleID: vehicleID}
	}
	return models.Review{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		VehicleID: vehicleID,
		Score:     roundCents(score),
		Comment:   comment,
		CreatedAt: now,
	}, nil
}

// UpdateReview assumes the caller already checked ownership.
func UpdateReview(review models.Review, score float64, comment *string) (models.Review, error) {
	if err := ValidateScore(score); err != nil {
		return review, err
	}
	review.Score = roundCents(score)
	review.Comment = comment
	return review, nil
}

// DeleteReview returns a new slice without the review; reviews is not modified.
func DeleteReview(reviewID string, reviews []models.Review) ([]models.Review, error) {
	idx := -1
	for i, r := range reviews {
		if r.ID == reviewID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return reviews, &NotFoundError{Kind: "review", ID: reviewID}
	}
	out := make([]models.Review, 0, len(reviews)-1)
	out = append(out, reviews[:idx]...)
	return append(out, reviews[idx+1:]...), nil
}

// ReplaceReview swaps the review with the same ID.
func ReplaceReview(updated models.Review, reviews []models.Review) ([]models.Review, error) {
	out := make([]models.Review, len(reviews))
	copy(out, reviews)
	for i := range out {
		if out[i].ID == updated.ID {
			out[i] = updated
			return out, nil
		}
	}
	return reviews, &NotFoundError{Kind: "review", ID: updated.ID}
}

func FindReview(reviews []models.Review, clientID, vehicleID string) (models.Review, bool) {
	for _, r := range reviews {
		if r.ClientID == clientID && r.VehicleID == vehicleID {
			return r, true
		}
	}
	return models.Review{}, false
}

// RecomputeAverage is the mean score rounded to two decimals, 0 when unrated.
func RecomputeAverage(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Score
	}
	return roundCents(sum / float64(len(reviews)))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
