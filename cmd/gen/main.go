package main

import (
	"acharwala/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.UserModel{},
		model.RefreshTokenModel{},
		model.OTPChallengeModel{},
		model.ProductModel{},
		model.CartModel{},
		model.CartItemModel{},
		model.OrderModel{},
		model.OrderItemModel{},
		model.CustomRecipeModel{},
		model.DidiProfileModel{},
		model.LocationPingModel{},
		model.TrainingContentModel{},
		model.TrainingProgressModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
