package mock

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"backbar/internal/catalog"
	"backbar/internal/db"
	applog "backbar/internal/log"
	"backbar/models"
)

// Password of every seeded account.
const Password = "backbar"

// New returns an in-memory sqlite database seeded with a small cocktail bar:
// accounts, categories, priced ingredients, a syrup and a milk wash
// sub-recipe, cocktails and a menu.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	dsn := fmt.Sprintf("file:backbar-mock-%s?mode=memory&cache=shared", uuid.NewString())
	database, err := gorm.Open(sqlite.Open(dsn), db.GormConfig(logger.Silent))
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(database); err != nil {
		return nil, err
	}

	if err := seed(ctx, database); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

func seed(ctx context.Context, database *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	password, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	accounts := []models.Account{
		{Name: "Rowan Vale", Email: "rowan@backbar.app", Venue: "The Copper Still", Role: models.RoleManager, PasswordHash: string(password)},
		{Name: "Sam Ortiz", Email: "sam@backbar.app", Venue: "The Copper Still", Role: models.RoleBartender, PasswordHash: string(password)},
	}
	if err := database.WithContext(ctx).Create(&accounts).Error; err != nil {
		return err
	}

	ingredientCategories := []models.IngredientCategory{
		{Name: "Spirits", Alcoholic: true},
		{Name: "Liqueur", Alcoholic: true},
		{Name: "Vermouth", Alcoholic: true},
		{Name: "Produce"},
		{Name: "Pantry"},
		{Name: "Dairy"},
		{Name: "Mixers"},
	}
	if err := database.WithContext(ctx).Create(&ingredientCategories).Error; err != nil {
		return err
	}
	recipeCategories := []models.RecipeCategory{
		{Name: "Cocktails"},
		{Name: "Syrups", IsSubRecipe: true},
		{Name: "Milk Wash", IsSubRecipe: true},
	}
	if err := database.WithContext(ctx).Create(&recipeCategories).Error; err != nil {
		return err
	}

	svc := catalog.New(database)
	for _, ingredient := range seedIngredients() {
		if err := svc.CreateIngredient(ctx, &ingredient); err != nil {
			return fmt.Errorf("seed ingredient %q: %w", ingredient.Name, err)
		}
	}

	var menuRecipes []uint
	for _, recipe := range seedRecipes() {
		if err := svc.SaveRecipe(ctx, &recipe); err != nil {
			return fmt.Errorf("seed recipe %q: %w", recipe.Name, err)
		}
		if recipe.Category == "Cocktails" {
			menuRecipes = append(menuRecipes, recipe.ID)
		}
	}

	if _, err := svc.RecomputeSubRecipes(ctx); err != nil {
		return err
	}

	menu := models.Menu{
		Name:      "Autumn Classics",
		Notes:     "House pours, stirred and shaken.",
		Active:    true,
		RecipeIDs: menuRecipes,
	}
	return database.WithContext(ctx).Create(&menu).Error
}

func seedIngredients() []models.Ingredient {
	return []models.Ingredient{
		{
			Name: "London Dry Gin", Category: "Spirits", SpiritType: "gin", Unit: "oz", ABV: 47,
			Aliases: []string{"Gin"},
			Variants: []models.ProductVariant{
				{PurchaseQuantity: 750, PurchaseUnit: "ml", PurchasePrice: 28, SKUNumber: "GIN-750"},
				{PurchaseQuantity: 1, PurchaseUnit: "l", PurchasePrice: 34, CasePrice: 360, BottlesPerCase: 12, SKUNumber: "GIN-1000"},
			},
		},
		{
			Name: "Vodka", Category: "Spirits", SpiritType: "vodka", Unit: "oz", ABV: 40,
			PurchasePrice: 22, PurchaseQuantity: 750, PurchaseUnit: "ml",
		},
		{
			Name: "Bourbon", Category: "Spirits", SpiritType: "whiskey", Unit: "oz", ABV: 45,
			PurchasePrice: 32, PurchaseQuantity: 750, PurchaseUnit: "ml",
			CasePrice: 336, BottlesPerCase: 12, UseCasePricing: true,
		},
		{
			Name: "Campari", Category: "Liqueur", Unit: "oz", ABV: 24,
			PurchasePrice: 30, PurchaseQuantity: 1, PurchaseUnit: "l",
		},
		{
			Name: "Sweet Vermouth", Category: "Vermouth", Unit: "oz", ABV: 16,
			PurchasePrice: 18, PurchaseQuantity: 1, PurchaseUnit: "l",
			Aliases: []string{"Rosso Vermouth"},
		},
		{
			Name: "Lime", Category: "Produce", Unit: "each",
			PurchasePrice: 0.35, PurchaseQuantity: 1, PurchaseUnit: "each",
			PrepActions: []models.PrepAction{{ID: "juice", Name: "Juice", YieldAmount: 1, YieldUnit: "oz"}},
		},
		{
			Name: "Lemon", Category: "Produce", Unit: "each",
			PurchasePrice: 0.4, PurchaseQuantity: 1, PurchaseUnit: "each",
			PrepActions: []models.PrepAction{
				{ID: "juice", Name: "Juice", YieldAmount: 1.5, YieldUnit: "oz"},
				{ID: "peel", Name: "Peel", YieldAmount: 4, YieldUnit: "each"},
			},
		},
		{
			Name: "Sugar", Category: "Pantry", Unit: "g",
			PurchasePrice: 3.5, PurchaseQuantity: 1, PurchaseUnit: "kg",
			DensityValue: 0.85, DensityUnit: "g/ml",
		},
		{
			Name: "Whole Milk", Category: "Dairy", Unit: "oz",
			PurchasePrice: 4.2, PurchaseQuantity: 1, PurchaseUnit: "gallon",
		},
		{
			Name: "Angostura Bitters", Category: "Liqueur", Unit: "dash", ABV: 44.7,
			PurchasePrice: 11, PurchaseQuantity: 4, PurchaseUnit: "oz",
		},
	}
}

func line(name string, amount float64, unit string) models.RecipeIngredient {
	return models.RecipeIngredient{IngredientName: name, Amount: amount, Unit: unit}
}

func prepared(name, action string, amount float64, unit string) models.RecipeIngredient {
	l := line(name, amount, unit)
	l.PrepActionID = action
	return l
}

func seedRecipes() []models.Recipe {
	return []models.Recipe{
		{
			Name: "Simple Syrup", Category: "Syrups",
			Instructions: "Stir sugar into hot water until dissolved. Cool and bottle.",
			YieldAmount:  24, YieldUnit: "oz",
			Ingredients: []models.RecipeIngredient{
				line("Sugar", 2, "cup"),
				line("Hot Water", 2, "cup"),
			},
		},
		{
			Name: "Milk Washed Gin", Category: "Milk Wash",
			Instructions: "Add gin to milk, rest until curdled, strain through a coffee filter.",
			Ingredients: []models.RecipeIngredient{
				line("London Dry Gin", 750, "ml"),
				line("Whole Milk", 6, "oz"),
			},
		},
		{
			Name: "Negroni", Category: "Cocktails", Glassware: "Rocks", Garnish: "Orange peel", MenuPrice: 14,
			Instructions: "Stir with ice, strain over a large cube.",
			Ingredients: []models.RecipeIngredient{
				line("London Dry Gin", 1, "oz"),
				line("Campari", 1, "oz"),
				line("Sweet Vermouth", 1, "oz"),
			},
		},
		{
			Name: "Daiquiri", Category: "Cocktails", Glassware: "Coupe", MenuPrice: 13,
			Instructions: "Shake hard with ice, double strain.",
			Ingredients: []models.RecipeIngredient{
				line("Vodka", 2, "oz"),
				prepared("Lime", "juice", 0.75, "oz"),
				line("Simple Syrup", 0.75, "oz"),
			},
		},
		{
			Name: "Gin Rickey", Category: "Cocktails", Glassware: "Highball", Garnish: "Lime wheel", MenuPrice: 12,
			Ingredients: []models.RecipeIngredient{
				line("London Dry Gin", 2, "oz"),
				prepared("Lime", "juice", 0.5, "oz"),
				line("Club Soda", 0, "top"),
			},
		},
		{
			Name: "Old Fashioned", Category: "Cocktails", Glassware: "Rocks", Garnish: "Orange peel", MenuPrice: 15,
			Ingredients: []models.RecipeIngredient{
				line("Bourbon", 2, "oz"),
				line("Simple Syrup", 0.25, "oz"),
				line("Angostura Bitters", 2, "dash"),
			},
		},
		{
			Name: "Clarified Martini", Category: "Cocktails", Glassware: "Nick and Nora", Garnish: "Lemon twist", MenuPrice: 16,
			Ingredients: []models.RecipeIngredient{
				line("Milk Washed Gin", 2.5, "oz"),
				line("Sweet Vermouth", 0.5, "oz"),
				prepared("Lemon", "peel", 1, "each"),
			},
		},
	}
}
