package repositories

import (
	"github.com/hbdiaz/ferremat/app/models"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

func (r *ReviewRepository) FindByID(id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.Preload("User").First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// FindByUserAndProduct returns the user's review for a product, if any.
func (r *ReviewRepository) FindByUserAndProduct(userID, productID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListByProduct returns a product's reviews newest-first with authors loaded.
func (r *ReviewRepository) ListByProduct(productID uint) ([]models.Review, error) {
	reviews := make([]models.Review, 0)
	err := r.db.Preload("User").
		Where("product_id = ?", productID).
		Order("created_at desc").
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepository) Update(review *models.Review) error {
	return r.db.Save(review).Error
}

func (r *ReviewRepository) Delete(id uint) error {
	return r.db.Delete(&models.Review{}, id).Error
}
