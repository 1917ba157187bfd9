package model

// Placement positions a text block on the artwork.
type Placement string

const (
	PlacementTopLeft      Placement = "top-left"
	PlacementTopCenter    Placement = "top-center"
	PlacementTopRight     Placement = "top-right"
	PlacementCenter       Placement = "center"
	PlacementBottomLeft   Placement = "bottom-left"
	PlacementBottomCenter Placement = "bottom-center"
	PlacementBottomRight  Placement = "bottom-right"
)

// Style is a partial per-artwork override. Nil fields inherit the variant default.
type Style struct {
	TextPlacement        *Placement  `json:"textPlacement,omitempty"`
	DescriptionPlacement *Placement  `json:"descriptionPlacement,omitempty"`
	TextColor            *string     `json:"textColor,omitempty"`
	BgOpacity            *float64    `json:"bgOpacity,omitempty"`
	Typography           *Typography `json:"typography,omitempty"`
	Spacing              *Spacing    `json:"spacing,omitempty"`
}

// Typography holds overrides per text role.
type Typography struct {
	Title       *TextStyle `json:"title,omitempty"`
	Subtitle    *TextStyle `json:"subtitle,omitempty"`
	Description *TextStyle `json:"description,omitempty"`
}

type TextStyle struct {
	Size         *string `json:"size,omitempty"`
	Weight       *string `json:"weight,omitempty"`
	LineHeight   *string `json:"lineHeight,omitempty"`
	MarginBottom *int    `json:"marginBottom,omitempty"`
}

type Spacing struct {
	Padding *Box `json:"padding,omitempty"`
	Margin  *Box `json:"margin,omitempty"`
}

type Box struct {
	X *int `json:"x,omitempty"`
	Y *int `json:"y,omitempty"`
}
