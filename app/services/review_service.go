package services

import (
	"errors"
	"math"

	"github.com/hbdiaz/ferremat/app/models"
	"github.com/hbdiaz/ferremat/app/repositories"
	"github.com/hbdiaz/ferremat/pkg/apperr"
	"github.com/hbdiaz/ferremat/pkg/auth"
	"gorm.io/gorm"
)

type ReviewService struct {
	reviews  *repositories.ReviewRepository
	products *repositories.ProductRepository
	users    *repositories.UserRepository
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{
		reviews:  repositories.NewReviewRepository(db),
		products: repositories.NewProductRepository(db),
		users:    repositories.NewUserRepository(db),
	}
}

// CreateReviewInput is the rating payload.
type CreateReviewInput struct {
	ProductID    uint    `json:"productId" validate:"required"`
	Calificacion int     `json:"calificacion" validate:"required,between=1,5"`
	Comentario   *string `json:"comentario" validate:"nullable,max=1000"`
}

// Create records a rating. One review per user/product pair.
func (s *ReviewService) Create(caller auth.Caller, in CreateReviewInput) (*models.Review, error) {
	if _, err := s.products.FindByID(in.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Producto no encontrado")
		}
		return nil, apperr.Wrap(apperr.Internal, err, "error consultando producto")
	}

	if _, err := s.reviews.FindByUserAndProduct(caller.ID, in.ProductID); err == nil {
		return nil, apperr.New(apperr.BusinessRule, "Ya has calificado este producto")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.Internal, err, "error consultando reseñas")
	}

	review := &models.Review{
		UserID:       caller.ID,
		ProductID:    in.ProductID,
		Calificacion: in.Calificacion,
		Comentario:   in.Comentario,
	}
	if err := s.reviews.Create(review); err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "error creando reseña")
	}
	return review, nil
}

// ProductReviews is the listing payload for one product: the reviews plus
// aggregate rating.
type ProductReviews struct {
	Reviews  []models.Review `json:"reviews"`
	Promedio float64         `json:"promedio"` // avg calificacion, 1 decimal
	Total    int             `json:"total"`
}

// ListByProduct returns a product's reviews with the average rating.
func (s *ReviewService) ListByProduct(productID uint) (*ProductReviews, error) {
	if _, err := s.products.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Producto no encontrado")
		}
		return nil, apperr.Wrap(apperr.Internal, err, "error consultando producto")
	}

	reviews, err := s.reviews.ListByProduct(productID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "error listando reseñas")
	}

	out := &ProductReviews{Reviews: reviews, Total: len(reviews)}
	if len(reviews) > 0 {
		var sum int
		for _, r := range reviews {
			sum += r.Calificacion
		}
		out.Promedio = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	}
	return out, nil
}

// Mine returns the caller's own review for a product, if any.
func (s *ReviewService) Mine(caller auth.Caller, productID uint) (*models.Review, error) {
	review, err := s.reviews.FindByUserAndProduct(caller.ID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "No has calificado este producto")
		}
		return nil, apperr.Wrap(apperr.Internal, err, "error consultando reseña")
	}
	return review, nil
}

// UpdateReviewInput carries rating changes.
type UpdateReviewInput struct {
	Calificacion *int    `json:"calificacion" validate:"nullable,between=1,5"`
	Comentario   *string `json:"comentario" validate:"nullable,max=1000"`
}

// Update edits a review. Owner only.
func (s *ReviewService) Update(caller auth.Caller, id uint, in UpdateReviewInput) (*models.Review, error) {
	review, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(review.UserID) {
		return nil, apperr.New(apperr.Permission, "No autorizado")
	}

	if in.Calificacion != nil {
		review.Calificacion = *in.Calificacion
	}
	if in.Comentario != nil {
		review.Comentario = in.Comentario
	}

	if err := s.reviews.Update(review); err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "error actualizando reseña")
	}
	return review, nil
}

// Delete removes a review. Owner or admin.
func (s *ReviewService) Delete(caller auth.Caller, id uint) error {
	review, err := s.find(id)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() && !caller.Owns(review.UserID) {
		return apperr.New(apperr.Permission, "No autorizado")
	}

	if err := s.reviews.Delete(id); err != nil {
		return apperr.Wrap(apperr.Internal, err, "error eliminando reseña")
	}
	return nil
}

func (s *ReviewService) find(id uint) (*models.Review, error) {
	review, err := s.reviews.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Reseña no encontrada")
		}
		return nil, apperr.Wrap(apperr.Internal, err, "error consultando reseña")
	}
	return review, nil
}
