package user

import (
	"errors"

	"gorm.io/gorm"

	"github.com/scottstamp/AFFiNE/internal/database"
)

func ExistsByEmail(email string) bool {
	var count int64
	database.DB.Model(&User{}).Where("email = ?", email).Count(&count)
	return count > 0
}

func ExistsByUsername(username string) bool {
	var count int64
	database.DB.Model(&User{}).Where("username = ?", username).Count(&count)
	return count > 0
}

func FindByID(id string) (*User, error) {
	var u User
	if err := database.DB.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// SetStripeCustomerID mémorise l'ID client Stripe une fois créé
func SetStripeCustomerID(userID, customerID string) error {
	return database.DB.Model(&User{}).Where("id = ?", userID).
		Update("stripe_customer_id", customerID).Error
}
