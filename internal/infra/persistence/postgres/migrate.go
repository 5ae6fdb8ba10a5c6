package postgres

import (
	"acharwala/internal/errors"
	"acharwala/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the full schema. It is used by the
// in-memory test databases and by deployments that opt into automatic
// migration instead of managed SQL migrations.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.UserModel{},
		&model.RefreshTokenModel{},
		&model.OTPChallengeModel{},
		&model.ProductModel{},
		&model.CartModel{},
		&model.CartItemModel{},
		&model.OrderModel{},
		&model.OrderItemModel{},
		&model.CustomRecipeModel{},
		&model.DidiProfileModel{},
		&model.LocationPingModel{},
		&model.TrainingContentModel{},
		&model.TrainingProgressModel{},
	); err != nil {
		return errors.Wrap(err, "failed to run schema migration")
	}

	return nil
}
