package gamedata

import (
	"strconv"
	"strings"

	"github.com/PieInTheSky-Inc/yadc/pkg/details"
	"github.com/PieInTheSky-Inc/yadc/pkg/entity"
	"github.com/PieInTheSky-Inc/yadc/pkg/format"
)

const (
	roomIDField   = "RoomDesignId"
	roomNameField = "RoomName"
)

// RoomContext is the render context for rooms. The research table is the
// first auxiliary table.
type RoomContext struct {
	Sprites *SpriteResolver
}

func roomShortTitle(in details.Input[RoomContext]) string {
	if short := entity.LookupString(in.Record, "RoomShortName"); short != "" {
		return short
	}
	return entity.LookupString(in.Record, roomNameField)
}

func roomSize(in details.Input[RoomContext]) string {
	cols, okCols := entity.LookupInt(in.Record, "Columns")
	rows, okRows := entity.LookupInt(in.Record, "Rows")
	if !okCols || !okRows {
		return ""
	}
	return strconv.Itoa(cols) + "x" + strconv.Itoa(rows)
}

// roomPrice reads "currency:amount" price strings.
func roomPrice(in details.Input[RoomContext]) string {
	currency, amount, ok := parseAmount(in.FieldString())
	if !ok {
		return ""
	}
	if n, err := strconv.Atoi(amount); err == nil {
		amount = format.Int(int64(n))
	}
	return withUnit(amount, strings.ToLower(currency))
}

// roomRequirement reads "kind:id" requirement strings. Research requirements
// are resolved by name through the research table.
func roomRequirement(in details.Input[RoomContext]) string {
	kind, id, ok := parseAmount(in.FieldString())
	if !ok {
		return ""
	}
	if strings.EqualFold(kind, "research") {
		if n := nameOf(in.Table(0), id, researchNameField); n != "" {
			return n
		}
	}
	return format.Title(kind) + " " + id
}

func roomConfig() details.Config[RoomContext] {
	size := transformProperty("Size", "", roomSize)
	minLevel := fieldProperty[RoomContext]("Min ship level", "MinShipLevel")

	return details.Config[RoomContext]{
		Title: details.MustPropertySet(
			valueProperty[RoomContext](roomNameField),
			nil,
			details.MustProperty(details.PropertyConfig[RoomContext]{Transform: details.Sync(roomShortTitle)}),
			nil,
		),
		Description: details.MustPropertySet(valueProperty[RoomContext]("RoomDescription"), absent[RoomContext](), nil, nil),
		Properties: details.NewListPropertySet(
			[]*details.Property[RoomContext]{
				enumProperty[RoomContext]("Type", "RoomType"),
				size,
				fieldProperty[RoomContext]("Capacity", "Capacity"),
				minLevel,
				fieldProperty[RoomContext]("Volley", "MissileDesign.Volley"),
				durationProperty[RoomContext]("Construction time", "ConstructionTime"),
				transformProperty("Price", "PriceString", roomPrice),
				transformProperty("Requires", "RequirementString", roomRequirement),
			},
			[]*details.Property[RoomContext]{size, minLevel},
			nil,
		),
		EmbedSettings: map[details.EmbedSetting]*details.Property[RoomContext]{
			details.SettingThumbnailURL: details.MustProperty(details.PropertyConfig[RoomContext]{
				Field:     "ImageSpriteId",
				Transform: spriteURL(func(c RoomContext) *SpriteResolver { return c.Sprites }),
			}),
			details.SettingFooter: footerProperty[RoomContext](),
		},
	}
}
