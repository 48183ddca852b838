package gamedata

import (
	"strings"

	"github.com/PieInTheSky-Inc/yadc/pkg/details"
	"github.com/PieInTheSky-Inc/yadc/pkg/entity"
	"github.com/PieInTheSky-Inc/yadc/pkg/format"
)

const (
	researchIDField   = "ResearchDesignId"
	researchNameField = "ResearchName"
)

// ResearchContext is the render context for research. The research table is
// the first auxiliary table.
type ResearchContext struct {
	Sprites *SpriteResolver
}

func researchCost(in details.Input[ResearchContext]) string {
	var parts []string
	if gas, ok := entity.LookupInt(in.Record, "GasCost"); ok && gas > 0 {
		parts = append(parts, format.Int(int64(gas))+" gas")
	}
	if bux, ok := entity.LookupInt(in.Record, "StarbuxCost"); ok && bux > 0 {
		parts = append(parts, format.Int(int64(bux))+" bux")
	}
	return strings.Join(parts, " + ")
}

// requiredResearch resolves the field as a research id through the first
// auxiliary table.
func requiredResearch[C any](in details.Input[C]) string {
	return nameOf(in.Table(0), in.FieldString(), researchNameField)
}

func researchConfig() details.Config[ResearchContext] {
	cost := transformProperty("Cost", "", researchCost)
	duration := durationProperty[ResearchContext]("Research time", "ResearchTime")

	return details.Config[ResearchContext]{
		Title:       details.SingleProperty(valueProperty[ResearchContext](researchNameField)),
		Description: details.MustPropertySet(valueProperty[ResearchContext]("ResearchDescription"), absent[ResearchContext](), nil, nil),
		Properties: details.NewListPropertySet(
			[]*details.Property[ResearchContext]{
				enumProperty[ResearchContext]("Type", "ResearchDesignType"),
				cost,
				duration,
				fieldProperty[ResearchContext]("Required lab level", "RequiredLabLevel"),
				transformProperty("Required research", "RequiredResearchDesignId", requiredResearch[ResearchContext]),
			},
			[]*details.Property[ResearchContext]{cost, duration},
			nil,
		),
		EmbedSettings: map[details.EmbedSetting]*details.Property[ResearchContext]{
			details.SettingThumbnailURL: details.MustProperty(details.PropertyConfig[ResearchContext]{
				Field:     "ImageSpriteId",
				Transform: spriteURL(func(c ResearchContext) *SpriteResolver { return c.Sprites }),
			}),
			details.SettingFooter: footerProperty[ResearchContext](),
		},
	}
}
