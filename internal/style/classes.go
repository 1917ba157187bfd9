package style

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/templui/folio/internal/model"
)

// Classes are the Tailwind class lists the presentation layer applies to the overlay.
type Classes struct {
	Container            string `json:"container"`
	DescriptionContainer string `json:"descriptionContainer"`
	Title                string `json:"title"`
	Subtitle             string `json:"subtitle"`
	Description          string `json:"description"`
}

const (
	fallbackTextColor = "text-white/90"
	titleBase         = "text-2xl font-bold"
	descriptionBase   = "mb-4 leading-relaxed"
)

var placementClasses = map[model.Placement]string{
	model.PlacementTopLeft:      "top-4 left-4",
	model.PlacementTopCenter:    "top-4 left-1/2 -translate-x-1/2",
	model.PlacementTopRight:     "top-4 right-4",
	model.PlacementCenter:       "top-1/2 left-1/2 -translate-x-1/2 -translate-y-1/2",
	model.PlacementBottomLeft:   "bottom-4 left-4",
	model.PlacementBottomCenter: "bottom-4 left-1/2 -translate-x-1/2",
	model.PlacementBottomRight:  "bottom-4 right-4",
}

var colorPalette = map[string]string{
	"black":  "text-black",
	"white":  "text-white",
	"red":    "text-red-500",
	"blue":   "text-blue-500",
	"green":  "text-green-500",
	"yellow": "text-yellow-500",
	"gray":   "text-gray-500",
	"purple": "text-purple-500",
	"pink":   "text-pink-500",
	"orange": "text-orange-500",

	"neutral": "text-neutral-500",
	"slate":   "text-slate-500",
	"stone":   "text-stone-500",

	"dark-black":  "text-neutral-900",
	"light-white": "text-neutral-100",
}

// colorShape matches palette shade identifiers such as "red" or "green-600".
var colorShape = regexp.MustCompile(`^([a-z]+)(-\d{1,3})?$`)

// ValidColor reports whether color is a palette name or a word or word-number shade.
func ValidColor(color string) bool {
	_, ok := colorPalette[color]
	return ok || colorShape.MatchString(color)
}

// PlacementClass maps a placement to positioning classes, defaulting to bottom-left.
func PlacementClass(p model.Placement) string {
	c, ok := placementClasses[p]
	if !ok {
		return placementClasses[model.PlacementBottomLeft]
	}
	return c
}

// TextColorClass resolves a color name: palette first, then the word or word-number
// shape passed through, else translucent white.
func TextColorClass(color string) string {
	if c, ok := colorPalette[color]; ok {
		return c
	}
	if ValidColor(color) {
		return "text-" + color
	}
	return fallbackTextColor
}

// BackgroundClass returns the black background at the snapped opacity.
func BackgroundClass(opacity float64) string {
	pct := int(SnapOpacity(opacity)*100 + 0.5)
	return "bg-black bg-opacity-" + strconv.Itoa(pct)
}

// merge resolves Tailwind conflicts and returns the surviving classes in the
// order they were given.
func merge(classes ...string) string {
	kept := make(map[string]bool)
	for _, c := range strings.Fields(twmerge.Merge(classes...)) {
		kept[c] = true
	}

	out := make([]string, 0, len(kept))
	for _, c := range strings.Fields(strings.Join(classes, " ")) {
		if kept[c] {
			out = append(out, c)
			delete(kept, c)
		}
	}
	return strings.Join(out, " ")
}

func textClass(base string, t Text) string {
	return merge(base, fmt.Sprintf("text-%s font-%s leading-%s mb-%d", t.Size, t.Weight, t.LineHeight, t.MarginBottom))
}

func spacingClass(padding, margin Box) string {
	s := fmt.Sprintf("px-%d py-%d", padding.X, padding.Y)
	if margin.X != 0 {
		s += fmt.Sprintf(" mx-%d", margin.X)
	}
	if margin.Y != 0 {
		s += fmt.Sprintf(" my-%d", margin.Y)
	}
	return s
}

// ClassesFor renders the effective style into class lists.
func ClassesFor(eff Effective) Classes {
	shared := merge(
		TextColorClass(eff.TextColor),
		BackgroundClass(eff.BgOpacity),
		spacingClass(eff.Padding, eff.Margin),
	)

	return Classes{
		Container:            merge("absolute", PlacementClass(eff.TextPlacement), shared),
		DescriptionContainer: merge("absolute", PlacementClass(eff.DescriptionPlacement), shared),
		Title:                textClass(titleBase, eff.Title),
		Subtitle:             textClass("", eff.Subtitle),
		Description:          textClass(descriptionBase, eff.Description),
	}
}
