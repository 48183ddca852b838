package gamedata

import (
	"sort"
	"strconv"
	"strings"

	"github.com/PieInTheSky-Inc/yadc/pkg/details"
	"github.com/PieInTheSky-Inc/yadc/pkg/entity"
	"github.com/PieInTheSky-Inc/yadc/pkg/format"
)

const (
	itemIDField   = "ItemDesignId"
	itemNameField = "ItemDesignName"
)

// ItemContext is the render context for items. The items table is the first
// auxiliary table.
type ItemContext struct {
	Sprites  *SpriteResolver
	Currency string
}

var rarityColors = map[string]string{
	"common":    "#9e9e9e",
	"elite":     "#ffffff",
	"unique":    "#4caf50",
	"epic":      "#2196f3",
	"hero":      "#9c27b0",
	"special":   "#ff9800",
	"legendary": "#ffc107",
}

// Ingredient is one entry of an item's recipe.
type Ingredient struct {
	ItemID string
	Count  int
}

// ParseIngredients reads the upstream "id x count|id x count" recipe format.
func ParseIngredients(s string) []Ingredient {
	if entity.IsAbsent(s) {
		return nil
	}
	var out []Ingredient
	for _, part := range strings.Split(s, "|") {
		id, count, found := strings.Cut(strings.TrimSpace(part), "x")
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		n := 1
		if found {
			if parsed, err := strconv.Atoi(strings.TrimSpace(count)); err == nil && parsed > 0 {
				n = parsed
			}
		}
		out = append(out, Ingredient{ItemID: id, Count: n})
	}
	return out
}

// UpgradesInto returns the ids of the items that use itemID as an ingredient.
func UpgradesInto(items entity.Table, itemID string) []string {
	var ids []string
	for id, rec := range items {
		for _, ing := range ParseIngredients(entity.LookupString(rec, "Ingredients")) {
			if ing.ItemID == itemID {
				ids = append(ids, id)
				break
			}
		}
	}
	sort.Strings(ids)
	return ids
}

func itemEnhancement(in details.Input[ItemContext]) string {
	kind := entity.LookupString(in.Record, "EnhancementType")
	value, ok := entity.LookupFloat(in.Record, "EnhancementValue")
	if kind == "" || !ok {
		return ""
	}
	return format.Title(kind) + " " + format.Signed(value, 2)
}

func itemType(in details.Input[ItemContext]) string {
	if sub := entity.LookupString(in.Record, "ItemSubType"); sub != "" {
		return format.Title(sub)
	}
	return format.Title(entity.LookupString(in.Record, "ItemType"))
}

func itemIngredients(in details.Input[ItemContext]) string {
	items := in.Table(0)
	var parts []string
	for _, ing := range ParseIngredients(in.FieldString()) {
		n := nameOf(items, ing.ItemID, itemNameField)
		if n == "" {
			n = "#" + ing.ItemID
		}
		parts = append(parts, strconv.Itoa(ing.Count)+"x "+n)
	}
	return strings.Join(parts, ", ")
}

func itemUpgrades(in details.Input[ItemContext]) string {
	items := in.Table(0)
	ids := UpgradesInto(items, entity.LookupString(in.Record, itemIDField))
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if n := nameOf(items, id, itemNameField); n != "" {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func itemPrice(field string) func(details.Input[ItemContext]) string {
	return func(in details.Input[ItemContext]) string {
		n, ok := entity.LookupInt(in.Record, field)
		if !ok || n <= 0 {
			return ""
		}
		return withUnit(format.Int(int64(n)), in.Context.Currency)
	}
}

func itemRarityColor(in details.Input[ItemContext]) string {
	return rarityColors[strings.ToLower(entity.LookupString(in.Record, "Rarity"))]
}

func itemConfig() details.Config[ItemContext] {
	rarity := enumProperty[ItemContext]("Rarity", "Rarity")
	enhancement := transformProperty("Enhancement", "", itemEnhancement)
	marketPrice := transformProperty("Market price", "", itemPrice("MarketPrice"))

	long := []*details.Property[ItemContext]{
		rarity,
		transformProperty("Type", "", itemType),
		enhancement,
		marketPrice,
		transformProperty("Fair price", "", itemPrice("FairPrice")),
		transformProperty("Ingredients", "Ingredients", itemIngredients),
		transformProperty("Upgrades into", "", itemUpgrades),
	}

	return details.Config[ItemContext]{
		Title: details.SingleProperty(valueProperty[ItemContext](itemNameField)),
		Description: details.MustPropertySet(
			valueProperty[ItemContext]("ItemDesignDescription"),
			absent[ItemContext](),
			nil,
			nil,
		),
		Properties: details.NewListPropertySet(
			long,
			[]*details.Property[ItemContext]{rarity, enhancement, marketPrice},
			[]*details.Property[ItemContext]{enhancement},
		),
		EmbedSettings: map[details.EmbedSetting]*details.Property[ItemContext]{
			details.SettingColor: details.MustProperty(details.PropertyConfig[ItemContext]{
				Transform: details.Sync(itemRarityColor),
			}),
			details.SettingThumbnailURL: details.MustProperty(details.PropertyConfig[ItemContext]{
				Field:     "ImageSpriteId",
				Transform: spriteURL(func(c ItemContext) *SpriteResolver { return c.Sprites }),
			}),
			details.SettingFooter: footerProperty[ItemContext](),
		},
	}
}

func footerProperty[C any]() *details.Property[C] {
	return details.MustProperty(details.PropertyConfig[C]{
		Transform: details.Sync(func(details.Input[C]) string { return Footer }),
	})
}
