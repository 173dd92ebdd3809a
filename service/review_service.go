package service

import (
	"context"
	"errors"

	"carrental/pkg/logger"
	"carrental/pkg/models"
	"carrental/pkg/rental"
	"carrental/storage"
)

// VehicleRatings is the caller's local view of a vehicle's reviews. Every
// mutation returns a new view; on failure the view passed in is returned
// unchanged.
type VehicleRatings struct {
	VehicleID string          `json:"vehicle_id"`
	Reviews   []models.Review `json:"reviews"`
	Average   float64         `json:"average"`
}

func (v VehicleRatings) Stars() rental.Stars {
	return rental.StarBreakdown(v.Average)
}

type ReviewService interface {
	Load(ctx context.Context, vehicleID string) (VehicleRatings, error)
	Submit(ctx context.Context, view VehicleRatings, clientID string, score float64, comment *string) (VehicleRatings, error)
	Update(ctx context.Context, view VehicleRatings, clientID, reviewID string, score float64, comment *string) (VehicleRatings, error)
	Delete(ctx context.Context, view VehicleRatings, clientID, reviewID string) (VehicleRatings, error)
}

type reviewService struct {
	stg storage.IStorage
	*base
}

func NewReviewService(stg storage.IStorage, b *base) ReviewService {
	return &reviewService{stg: stg, base: b}
}

func (s *reviewService) Load(ctx context.Context, vehicleID string) (VehicleRatings, error) {
	list, err := s.stg.Review().GetByVehicle(ctx, vehicleID)
	if err != nil {
		return VehicleRatings{}, err
	}
	reviews := make([]models.Review, 0, len(list))
	for _, r := range list {
		reviews = append(reviews, *r)
	}
	return VehicleRatings{
		VehicleID: vehicleID,
		Reviews:   reviews,
		Average:   rental.RecomputeAverage(reviews),
	}, nil
}

func (s *reviewService) Submit(ctx context.Context, view VehicleRatings, clientID string, score float64, comment *string) (VehicleRatings, error) {
	release, err := s.acquire("review:" + clientID + ":" + view.VehicleID)
	if err != nil {
		return view, err
	}
	defer release()

	review, err := rental.SubmitReview(clientID, view.VehicleID, score, comment, view.Reviews, s.now())
	if err != nil {
		return view, err
	}
	next := withReviews(view, append(append([]models.Review(nil), view.Reviews...), review))

	return s.commit(ctx, "submit review", view, next,
		func(ctx context.Context) error { return s.stg.Review().Create(ctx, &review) },
		func(ctx context.Context) error { return s.stg.Review().Delete(ctx, review.ID) },
	)
}

func (s *reviewService) Update(ctx context.Context, view VehicleRatings, clientID, reviewID string, score float64, comment *string) (VehicleRatings, error) {
	release, err := s.acquire("review:" + clientID + ":" + view.VehicleID)
	if err != nil {
		return view, err
	}
	defer release()

	old, err := ownedReview(view, clientID, reviewID)
	if err != nil {
		return view, err
	}
	updated, err := rental.UpdateReview(old, score, comment)
	if err != nil {
		return view, err
	}
	reviews, err := rental.ReplaceReview(updated, view.Reviews)
	if err != nil {
		return view, err
	}
	next := withReviews(view, reviews)

	return s.commit(ctx, "update review", view, next,
		func(ctx context.Context) error { return s.stg.Review().Update(ctx, &updated) },
		func(ctx context.Context) error { return s.stg.Review().Update(ctx, &old) },
	)
}

func (s *reviewService) Delete(ctx context.Context, view VehicleRatings, clientID, reviewID string) (VehicleRatings, error) {
	release, err := s.acquire("review:" + clientID + ":" + view.VehicleID)
	if err != nil {
		return view, err
	}
	defer release()

	old, err := ownedReview(view, clientID, reviewID)
	if err != nil {
		return view, err
	}
	reviews, err := rental.DeleteReview(reviewID, view.Reviews)
	if err != nil {
		return view, err
	}
	next := withReviews(view, reviews)

	return s.commit(ctx, "delete review", view, next,
		func(ctx context.Context) error { return s.stg.Review().Delete(ctx, reviewID) },
		func(ctx context.Context) error { return s.stg.Review().Create(ctx, &old) },
	)
}

// commit writes the review change and then has the backend recompute the
// vehicle average from the reviews it actually holds. Any failure undoes the
// review change, since a write that timed out may still have landed, and
// returns prev. On success the view is rebuilt from the backend so changes
// made by other clients are picked up.
func (s *reviewService) commit(ctx context.Context, op string, prev, next VehicleRatings, apply, undo func(context.Context) error) (VehicleRatings, error) {
	if err := s.remote(ctx, apply); err != nil {
		var dup *rental.DuplicateReviewError
		if errors.As(err, &dup) {
			return prev, dup
		}
		s.rollback(ctx, op, next.VehicleID, undo)
		return prev, s.syncError(op, err)
	}

	var average float64
	err := s.remote(ctx, func(ctx context.Context) (err error) {
		average, err = s.stg.Vehicle().RefreshRating(ctx, next.VehicleID)
		return err
	})
	if err != nil {
		s.rollback(ctx, op, next.VehicleID, undo)
		return prev, s.syncError(op, err)
	}
	s.log.Info("vehicle rating updated",
		logger.String("op", op),
		logger.String("vehicle_id", next.VehicleID),
		logger.Float64("average", average),
	)

	fresh, err := s.Load(ctx, next.VehicleID)
	if err != nil {
		s.log.Warning("could not reload reviews after change", logger.String("op", op), logger.Error(err))
		return next, nil
	}
	return fresh, nil
}

// rollback undoes a review change on a fresh context, since the caller's may
// be the reason the change failed, and brings the stored average back in line.
func (s *reviewService) rollback(ctx context.Context, op, vehicleID string, undo func(context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	if err := s.remote(ctx, undo); err != nil {
		var notFound *rental.NotFoundError
		var dup *rental.DuplicateReviewError
		if !errors.As(err, &notFound) && !errors.As(err, &dup) {
			s.log.Error("failed to undo review change", logger.String("op", op), logger.Error(err))
		}
	}
	err := s.remote(ctx, func(ctx context.Context) error {
		_, err := s.stg.Vehicle().RefreshRating(ctx, vehicleID)
		return err
	})
	if err != nil {
		s.log.Error("failed to refresh vehicle rating after undo", logger.String("op", op), logger.Error(err))
	}
}

func ownedReview(view VehicleRatings, clientID, reviewID string) (models.Review, error) {
	for _, r := range view.Reviews {
		if r.ID == reviewID {
			if r.ClientID != clientID {
				return models.Review{}, ErrNotOwner
			}
			return r, nil
		}
	}
	return models.Review{}, &rental.NotFoundError{Kind: "review", ID: reviewID}
}

func withReviews(view VehicleRatings, reviews []models.Review) VehicleRatings {
	return VehicleRatings{
		VehicleID: view.VehicleID,
		Reviews:   reviews,
		Average:   rental.RecomputeAverage(reviews),
	}
}
