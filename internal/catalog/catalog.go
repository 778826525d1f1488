package catalog

import "kassenboard/internal/domain"

// Menu is the full card as served by GET /api/menu. Category keys are part
// of the frontend contract.
type Menu struct {
	Speisen          []domain.MenuItem `json:"speisen"`
	Sonntagsgerichte []domain.MenuItem `json:"sonntagsgerichte"`
}

// Default returns the fixed card. Prices change on paper first, then here.
func Default() Menu {
	return Menu{
		Speisen: []domain.MenuItem{
			{ID: 1, Name: "½ Hähnchen m. Semmel", Price: 8.50},
			{ID: 2, Name: "½ Hähnchen m. Pommes/Salat", Price: 11.50},
			{ID: 3, Name: "Schaschlikpfanne m. Semmel", Price: 7.50},
			{ID: 4, Name: "Schaschlikpfanne m. Pommes/Salat", Price: 10.50},
			{ID: 5, Name: "Gyros m. Tzatziki u. Semmel", Price: 7.50},
			{ID: 6, Name: "Gyros m. Tzatziki u. Pommes/Salat", Price: 10.50},
			{ID: 7, Name: "Steak m. Semmel", Price: 5.00},
			{ID: 8, Name: "Steak m. Pommes/Kartoffelsalat", Price: 8.00},
			{ID: 9, Name: "1 Paar Grillwürste m. Semmel", Price: 4.00},
			{ID: 10, Name: "1 Paar Grillwürste m. Pommes/Salat", Price: 7.00},
			{ID: 11, Name: "Einzelne Grillwurst m. Semmel", Price: 3.00},
			{ID: 12, Name: "Gemüsemaultaschen", Price: 8.50},
			{ID: 13, Name: "Portion Pommes/Kartoffelsalat", Price: 3.50},
			{ID: 14, Name: "100g Käse", Price: 3.20},
			{ID: 15, Name: "Käsesemmel", Price: 3.20},
			{ID: 16, Name: "Semmel", Price: 0.50},
		},
		Sonntagsgerichte: []domain.MenuItem{
			{ID: 20, Name: "Schweinebraten m. Spätzle/Gemüse", Price: 13.00},
			{ID: 21, Name: "Schweinebraten m. Kartoffelsalat", Price: 12.50},
			{ID: 22, Name: "Schweineschnitzel", Price: 11.80},
			{ID: 23, Name: "Spätzle mit Soße", Price: 3.50},
		},
	}
}
