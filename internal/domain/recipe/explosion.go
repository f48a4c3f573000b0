// Package recipe implementa la explosión de recetas (BOM): traducir demanda
// de platos terminados en requerimientos de ingredientes.
package recipe

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
)

// Explosion es el resultado de explotar un vector de demanda.
// Los platos demandados sin receta NO aportan requerimiento cero en silencio:
// se reportan en MissingRecipe porque "sin requerimiento" y "requerimiento
// desconocido" significan cosas distintas aguas abajo.
type Explosion struct {
	// Required: ingredient ID -> cantidad total requerida (2 decimales).
	Required map[string]decimal.Decimal
	// MissingRecipe: IDs de platos con demanda > 0 y sin líneas de receta.
	MissingRecipe []string
}

// Explode convierte demanda {menuItemID: qty} en requerimientos
// {ingredientID: qty} sumando qty × qtyPerUnit sobre las líneas de receta.
// Cada aporte se cuantiza a 2 decimales (redondeo half-up, igual que el
// resto del sistema). Demanda <= 0 se ignora.
func Explode(demand map[string]decimal.Decimal, lines []entity.RecipeLine) Explosion {
	hasRecipe := make(map[string]bool, len(lines))
	required := make(map[string]decimal.Decimal)

	for _, rl := range lines {
		hasRecipe[rl.MenuItemID] = true
		qty, ok := demand[rl.MenuItemID]
		if !ok || qty.LessThanOrEqual(decimal.Zero) {
			continue
		}
		req := qty.Mul(rl.Qty).Round(2)
		required[rl.IngredientID] = required[rl.IngredientID].Add(req)
	}

	var missing []string
	for menuItemID, qty := range demand {
		if qty.GreaterThan(decimal.Zero) && !hasRecipe[menuItemID] {
			missing = append(missing, menuItemID)
		}
	}
	sort.Strings(missing)

	return Explosion{Required: required, MissingRecipe: missing}
}

// SortedIngredientIDs devuelve los IDs de ingredientes requeridos en orden
// ascendente. Es el orden de adquisición de locks del motor de conciliación.
func (e Explosion) SortedIngredientIDs() []string {
	ids := make([]string, 0, len(e.Required))
	for id := range e.Required {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
