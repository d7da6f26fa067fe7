package matching

import (
	"fmt"
	"strconv"
	"strings"
)

// Reference identifies what a recipe line points at: a base ingredient, or
// an ingredient in a prepared form when PrepAction is set.
type Reference struct {
	IngredientID uint   `json:"ingredient_id"`
	PrepAction   string `json:"prep_action,omitempty"`
}

func Base(ingredientID uint) Reference {
	return Reference{IngredientID: ingredientID}
}

func Prepared(ingredientID uint, prepAction string) Reference {
	return Reference{IngredientID: ingredientID, PrepAction: prepAction}
}

func (r Reference) IsPrepared() bool {
	return r.PrepAction != ""
}

// Key renders the composite "{id}_{prep}" identity older clients send.
func (r Reference) Key() string {
	id := strconv.FormatUint(uint64(r.IngredientID), 10)
	if !r.IsPrepared() {
		return id
	}
	return id + "_" + r.PrepAction
}

// ParseKey reverses Key.
func ParseKey(key string) (Reference, error) {
	idPart, prep, _ := strings.Cut(strings.TrimSpace(key), "_")
	id, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil || id == 0 {
		return Reference{}, fmt.Errorf("matching: invalid reference %q", key)
	}
	return Reference{IngredientID: uint(id), PrepAction: prep}, nil
}
