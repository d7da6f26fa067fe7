package handlers

import (
	"net/http"

	"gorm.io/datatypes"

	applog "backbar/internal/log"
	"backbar/models"
)

type variantRequest struct {
	SizeML           float64 `json:"size_ml" validate:"gte=0"`
	PurchaseQuantity float64 `json:"purchase_quantity" validate:"gte=0"`
	PurchaseUnit     string  `json:"purchase_unit"`
	PurchasePrice    float64 `json:"purchase_price" validate:"gte=0"`
	CasePrice        float64 `json:"case_price" validate:"gte=0"`
	BottlesPerCase   int     `json:"bottles_per_case" validate:"gte=0"`
	SKUNumber        string  `json:"sku_number"`
}

func (v variantRequest) model() models.ProductVariant {
	return models.ProductVariant{
		SizeML:           v.SizeML,
		PurchaseQuantity: v.PurchaseQuantity,
		PurchaseUnit:     v.PurchaseUnit,
		PurchasePrice:    v.PurchasePrice,
		CasePrice:        v.CasePrice,
		BottlesPerCase:   v.BottlesPerCase,
		SKUNumber:        v.SKUNumber,
	}
}

type ingredientRequest struct {
	Name              string                    `json:"name" validate:"required"`
	Category          string                    `json:"category"`
	SpiritType        string                    `json:"spirit_type"`
	Unit              string                    `json:"unit"`
	IngredientType    string                    `json:"ingredient_type" validate:"omitempty,oneof=purchased sub_recipe"`
	PurchasePrice     float64                   `json:"purchase_price" validate:"gte=0"`
	PurchaseQuantity  float64                   `json:"purchase_quantity" validate:"gte=0"`
	PurchaseUnit      string                    `json:"purchase_unit"`
	CasePrice         float64                   `json:"case_price" validate:"gte=0"`
	BottlesPerCase    int                       `json:"bottles_per_case" validate:"gte=0"`
	UseCasePricing    bool                      `json:"use_case_pricing"`
	CustomConversions []models.CustomConversion `json:"custom_conversions"`
	DensityValue      float64                   `json:"density_value" validate:"gte=0"`
	DensityUnit       string                    `json:"density_unit"`
	ABV               float64                   `json:"abv" validate:"gte=0,lte=100"`
	PrepActions       []models.PrepAction       `json:"prep_actions"`
	Aliases           []string                  `json:"aliases"`
	ImageURL          string                    `json:"image_url"`
	Variants          []variantRequest          `json:"variants" validate:"dive"`
}

func (p ingredientRequest) model() *models.Ingredient {
	ingredient := &models.Ingredient{
		Name:              p.Name,
		Category:          p.Category,
		SpiritType:        p.SpiritType,
		Unit:              p.Unit,
		IngredientType:    p.IngredientType,
		PurchasePrice:     p.PurchasePrice,
		PurchaseQuantity:  p.PurchaseQuantity,
		PurchaseUnit:      p.PurchaseUnit,
		CasePrice:         p.CasePrice,
		BottlesPerCase:    p.BottlesPerCase,
		UseCasePricing:    p.UseCasePricing,
		CustomConversions: p.CustomConversions,
		DensityValue:      p.DensityValue,
		DensityUnit:       p.DensityUnit,
		ABV:               p.ABV,
		PrepActions:       p.PrepActions,
		Aliases:           p.Aliases,
		ImageURL:          p.ImageURL,
	}
	for _, variant := range p.Variants {
		ingredient.Variants = append(ingredient.Variants, variant.model())
	}
	return ingredient
}

// ingredientPatchRequest only touches the fields present in the body. The
// name changes through the rename endpoint.
type ingredientPatchRequest struct {
	Category          *string                    `json:"category"`
	SpiritType        *string                    `json:"spirit_type"`
	Unit              *string                    `json:"unit" validate:"omitempty,min=1"`
	IngredientType    *string                    `json:"ingredient_type" validate:"omitempty,oneof=purchased sub_recipe"`
	PurchasePrice     *float64                   `json:"purchase_price" validate:"omitempty,gte=0"`
	PurchaseQuantity  *float64                   `json:"purchase_quantity" validate:"omitempty,gte=0"`
	PurchaseUnit      *string                    `json:"purchase_unit"`
	CasePrice         *float64                   `json:"case_price" validate:"omitempty,gte=0"`
	BottlesPerCase    *int                       `json:"bottles_per_case" validate:"omitempty,gte=0"`
	UseCasePricing    *bool                      `json:"use_case_pricing"`
	CustomConversions *[]models.CustomConversion `json:"custom_conversions"`
	DensityValue      *float64                   `json:"density_value" validate:"omitempty,gte=0"`
	DensityUnit       *string                    `json:"density_unit"`
	ABV               *float64                   `json:"abv" validate:"omitempty,gte=0,lte=100"`
	PrepActions       *[]models.PrepAction       `json:"prep_actions"`
	Aliases           *[]string                  `json:"aliases"`
	ImageURL          *string                    `json:"image_url"`
}

func (p ingredientPatchRequest) columns() map[string]any {
	patch := map[string]any{}
	setString := func(column string, value *string) {
		if value != nil {
			patch[column] = *value
		}
	}
	setFloat := func(column string, value *float64) {
		if value != nil {
			patch[column] = *value
		}
	}

	setString("category", p.Category)
	setString("spirit_type", p.SpiritType)
	setString("unit", p.Unit)
	setString("ingredient_type", p.IngredientType)
	setFloat("purchase_price", p.PurchasePrice)
	setFloat("purchase_quantity", p.PurchaseQuantity)
	setString("purchase_unit", p.PurchaseUnit)
	setFloat("case_price", p.CasePrice)
	if p.BottlesPerCase != nil {
		patch["bottles_per_case"] = *p.BottlesPerCase
	}
	if p.UseCasePricing != nil {
		patch["use_case_pricing"] = *p.UseCasePricing
	}
	if p.CustomConversions != nil {
		patch["custom_conversions"] = datatypes.NewJSONSlice(*p.CustomConversions)
	}
	setFloat("density_value", p.DensityValue)
	setString("density_unit", p.DensityUnit)
	setFloat("abv", p.ABV)
	if p.PrepActions != nil {
		patch["prep_actions"] = datatypes.NewJSONSlice(*p.PrepActions)
	}
	if p.Aliases != nil {
		patch["aliases"] = datatypes.NewJSONSlice(*p.Aliases)
	}
	setString("image_url", p.ImageURL)
	return patch
}

type renameRequest struct {
	Name string `json:"name" validate:"required"`
}

type variantsRequest struct {
	Variants []variantRequest `json:"variants" validate:"dive"`
}

// IngredientResource handles the ingredient catalog API.
func IngredientResource(w http.ResponseWriter, r *http.Request) {
	if !requireService(w, r) {
		return
	}

	segments := resourcePath(r.URL.Path, "/app/api/ingredients")
	if len(segments) == 0 {
		switch r.Method {
		case http.MethodGet:
			listIngredients(w, r)
		case http.MethodPost:
			createIngredient(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	if segments[0] == "profile" && len(segments) == 1 {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		IngredientProfile(w, r)
		return
	}

	id, ok := parseID(segments[0])
	if !ok {
		applog.Debug(r.Context(), "invalid ingredient identifier", "identifier", segments[0])
		http.NotFound(w, r)
		return
	}

	if len(segments) > 1 {
		switch {
		case segments[1] == "rename" && r.Method == http.MethodPost:
			renameIngredient(w, r, id)
		case segments[1] == "variants" && r.Method == http.MethodGet:
			listVariants(w, r, id)
		case segments[1] == "variants" && r.Method == http.MethodPut:
			syncVariants(w, r, id)
		case segments[1] == "rename", segments[1] == "variants":
			w.WriteHeader(http.StatusMethodNotAllowed)
		default:
			http.NotFound(w, r)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		showIngredient(w, r, id)
	case http.MethodPatch, http.MethodPut:
		updateIngredient(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := service.ListIngredients(r.Context())
	if err != nil {
		writeCatalogError(w, r, err, "unable to load ingredients")
		return
	}
	if ingredients == nil {
		ingredients = []models.Ingredient{}
	}
	writeJSON(w, http.StatusOK, ingredients)
}

func showIngredient(w http.ResponseWriter, r *http.Request, id uint) {
	ingredient, err := service.GetIngredient(r.Context(), id)
	if err != nil {
		writeCatalogError(w, r, err, "unable to load ingredient")
		return
	}
	writeJSON(w, http.StatusOK, ingredient)
}

func createIngredient(w http.ResponseWriter, r *http.Request) {
	var payload ingredientRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		applog.Debug(r.Context(), "invalid ingredient payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, payloadMessage(err))
		return
	}

	ingredient := payload.model()
	if err := service.CreateIngredient(r.Context(), ingredient); err != nil {
		writeCatalogError(w, r, err, "unable to create ingredient")
		return
	}
	applog.Info(r.Context(), "ingredient created", "ingredient_id", ingredient.ID, "name", ingredient.Name)
	writeJSON(w, http.StatusCreated, ingredient)
}

func updateIngredient(w http.ResponseWriter, r *http.Request, id uint) {
	var payload ingredientPatchRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		applog.Debug(r.Context(), "invalid ingredient patch", "error", err)
		writeJSONError(w, http.StatusBadRequest, payloadMessage(err))
		return
	}

	ingredient, err := service.UpdateIngredient(r.Context(), id, payload.columns())
	if err != nil {
		writeCatalogError(w, r, err, "unable to update ingredient")
		return
	}
	writeJSON(w, http.StatusOK, ingredient)
}

func renameIngredient(w http.ResponseWriter, r *http.Request, id uint) {
	var payload renameRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, payloadMessage(err))
		return
	}

	result, err := service.RenameIngredient(r.Context(), id, payload.Name)
	if err != nil {
		writeCatalogError(w, r, err, "unable to rename ingredient")
		return
	}
	ingredient, err := service.GetIngredient(r.Context(), id)
	if err != nil {
		writeCatalogError(w, r, err, "unable to load ingredient")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ingredient": ingredient,
		"recipes":    result,
	})
}

func listVariants(w http.ResponseWriter, r *http.Request, id uint) {
	ingredient, err := service.GetIngredient(r.Context(), id)
	if err != nil {
		writeCatalogError(w, r, err, "unable to load variants")
		return
	}
	variants := ingredient.Variants
	if variants == nil {
		variants = []models.ProductVariant{}
	}
	writeJSON(w, http.StatusOK, variants)
}

func syncVariants(w http.ResponseWriter, r *http.Request, id uint) {
	var payload variantsRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, payloadMessage(err))
		return
	}

	variants := make([]models.ProductVariant, 0, len(payload.Variants))
	for _, variant := range payload.Variants {
		variants = append(variants, variant.model())
	}
	result, err := service.SyncVariants(r.Context(), id, variants)
	if err != nil {
		writeCatalogError(w, r, err, "unable to sync variants")
		return
	}

	status := http.StatusOK
	if !result.OK() {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, result)
}
