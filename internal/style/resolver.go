// Package style resolves the effective presentation style of an artwork from the
// defaults of its display variant and the artwork's own partial override.
package style

import (
	"math"

	"github.com/templui/folio/internal/model"
)

// Text is the resolved typography of one text role.
type Text struct {
	Size         string `json:"size"`
	Weight       string `json:"weight"`
	LineHeight   string `json:"lineHeight"`
	MarginBottom int    `json:"marginBottom"`
}

// Box is a resolved spacing pair on the Tailwind spacing scale.
type Box struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Effective is a fully resolved style. Every field is set.
type Effective struct {
	TextPlacement        model.Placement `json:"textPlacement"`
	DescriptionPlacement model.Placement `json:"descriptionPlacement"`
	TextColor            string          `json:"textColor"`
	BgOpacity            float64         `json:"bgOpacity"`
	Title                Text            `json:"title"`
	Subtitle             Text            `json:"subtitle"`
	Description          Text            `json:"description"`
	Padding              Box             `json:"padding"`
	Margin               Box             `json:"margin"`
}

var defaults = map[model.DisplayType]Effective{
	model.DisplayFullScreen: {
		TextPlacement:        model.PlacementBottomLeft,
		DescriptionPlacement: model.PlacementBottomLeft,
		TextColor:            "white",
		BgOpacity:            0.9,
		Title:                Text{Size: "2xl", Weight: "bold", LineHeight: "normal", MarginBottom: 2},
		Subtitle:             Text{Size: "lg", Weight: "normal", LineHeight: "normal", MarginBottom: 2},
		Description:          Text{Size: "base", Weight: "normal", LineHeight: "relaxed", MarginBottom: 4},
		Padding:              Box{X: 4, Y: 4},
	},
	model.DisplaySplitScreenTextLeft: {
		TextPlacement:        model.PlacementTopLeft,
		DescriptionPlacement: model.PlacementTopLeft,
		TextColor:            "black",
		BgOpacity:            0,
		Title:                Text{Size: "3xl", Weight: "bold", LineHeight: "normal", MarginBottom: 4},
		Subtitle:             Text{Size: "xl", Weight: "medium", LineHeight: "normal", MarginBottom: 2},
		Description:          Text{Size: "base", Weight: "normal", LineHeight: "relaxed", MarginBottom: 4},
		Padding:              Box{X: 4, Y: 1},
	},
	model.DisplayFullScreenWithOverlay: {
		TextPlacement:        model.PlacementBottomLeft,
		DescriptionPlacement: model.PlacementBottomLeft,
		TextColor:            "black",
		BgOpacity:            0.1,
		Title:                Text{Size: "4xl", Weight: "bold", LineHeight: "normal", MarginBottom: 4},
		Subtitle:             Text{Size: "2xl", Weight: "medium", LineHeight: "normal", MarginBottom: 2},
		Description:          Text{Size: "xl", Weight: "normal", LineHeight: "relaxed", MarginBottom: 2},
		Padding:              Box{X: 6, Y: 6},
		Margin:               Box{X: 2},
	},
}

// Default returns the variant's default style. Unknown variants get the full-screen defaults.
func Default(variant model.DisplayType) Effective {
	eff, ok := defaults[variant]
	if !ok {
		return defaults[model.DisplayFullScreen]
	}
	return eff
}

// Resolve merges override on top of the variant defaults, field by field at every
// nesting level. A nil override yields the defaults.
func Resolve(variant model.DisplayType, override *model.Style) Effective {
	eff := Default(variant)
	if override == nil {
		return eff
	}

	if override.TextPlacement != nil && ValidPlacement(*override.TextPlacement) {
		eff.TextPlacement = *override.TextPlacement
		// Description follows the text unless it is placed explicitly.
		eff.DescriptionPlacement = *override.TextPlacement
	}
	if override.DescriptionPlacement != nil && ValidPlacement(*override.DescriptionPlacement) {
		eff.DescriptionPlacement = *override.DescriptionPlacement
	}
	if override.TextColor != nil && *override.TextColor != "" {
		eff.TextColor = *override.TextColor
	}
	if override.BgOpacity != nil && *override.BgOpacity >= 0 && *override.BgOpacity <= 1 {
		eff.BgOpacity = *override.BgOpacity
	}
	eff.BgOpacity = SnapOpacity(eff.BgOpacity)

	if t := override.Typography; t != nil {
		eff.Title = mergeText(eff.Title, t.Title)
		eff.Subtitle = mergeText(eff.Subtitle, t.Subtitle)
		eff.Description = mergeText(eff.Description, t.Description)
	}

	if s := override.Spacing; s != nil {
		eff.Padding = mergeBox(eff.Padding, s.Padding)
		eff.Margin = mergeBox(eff.Margin, s.Margin)
	}

	return eff
}

func mergeText(base Text, o *model.TextStyle) Text {
	if o == nil {
		return base
	}
	if o.Size != nil && *o.Size != "" {
		base.Size = *o.Size
	}
	if o.Weight != nil && *o.Weight != "" {
		base.Weight = *o.Weight
	}
	if o.LineHeight != nil && *o.LineHeight != "" {
		base.LineHeight = *o.LineHeight
	}
	if o.MarginBottom != nil {
		base.MarginBottom = *o.MarginBottom
	}
	return base
}

func mergeBox(base Box, o *model.Box) Box {
	if o == nil {
		return base
	}
	if o.X != nil {
		base.X = *o.X
	}
	if o.Y != nil {
		base.Y = *o.Y
	}
	return base
}

// OpacitySteps are the eleven background opacities the overlay supports.
var OpacitySteps = []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1}

// SnapOpacity returns the step nearest to v. Values outside [0,1] clamp to the ends.
func SnapOpacity(v float64) float64 {
	closest := OpacitySteps[0]
	for _, step := range OpacitySteps[1:] {
		if math.Abs(step-v) < math.Abs(closest-v) {
			closest = step
		}
	}
	return closest
}
