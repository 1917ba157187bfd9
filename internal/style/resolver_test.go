package style

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/folio/internal/model"
)

func ptr[T any](v T) *T { return &v }

func TestDefaultPerVariant(t *testing.T) {
	full := Default(model.DisplayFullScreen)
	assert.Equal(t, model.PlacementBottomLeft, full.TextPlacement)
	assert.Equal(t, "white", full.TextColor)
	assert.InDelta(t, 0.9, full.BgOpacity, 1e-9)
	assert.Equal(t, "2xl", full.Title.Size)

	split := Default(model.DisplaySplitScreenTextLeft)
	assert.Equal(t, model.PlacementTopLeft, split.TextPlacement)
	assert.InDelta(t, 0.0, split.BgOpacity, 1e-9)
	assert.Equal(t, "3xl", split.Title.Size)

	overlay := Default(model.DisplayFullScreenWithOverlay)
	assert.Equal(t, "4xl", overlay.Title.Size)
	assert.Equal(t, "xl", overlay.Description.Size)
	assert.Equal(t, Box{X: 2}, overlay.Margin)
}

func TestResolveUnknownVariantFallsBack(t *testing.T) {
	assert.Equal(t, Default(model.DisplayFullScreen), Resolve(model.DisplayType(42), nil))
}

func TestResolveMergesNestedFieldsIndividually(t *testing.T) {
	override := &model.Style{
		TextPlacement: ptr(model.PlacementCenter),
		TextColor:     ptr("green"),
		Typography: &model.Typography{
			Title: &model.TextStyle{Size: ptr("4xl")},
		},
		Spacing: &model.Spacing{
			Padding: &model.Box{X: ptr(2)},
		},
	}

	eff := Resolve(model.DisplayFullScreen, override)

	assert.Equal(t, model.PlacementCenter, eff.TextPlacement)
	assert.Equal(t, model.PlacementCenter, eff.DescriptionPlacement)
	assert.Equal(t, "green", eff.TextColor)
	assert.Equal(t, "4xl", eff.Title.Size)
	// siblings of the overridden typography field keep their defaults
	assert.Equal(t, "bold", eff.Title.Weight)
	assert.Equal(t, 2, eff.Title.MarginBottom)
	assert.Equal(t, Default(model.DisplayFullScreen).Description, eff.Description)
	assert.Equal(t, Box{X: 2, Y: 4}, eff.Padding)
	assert.InDelta(t, 0.9, eff.BgOpacity, 1e-9)
}

func TestResolveDescriptionPlacement(t *testing.T) {
	eff := Resolve(model.DisplayFullScreenWithOverlay, &model.Style{
		TextPlacement:        ptr(model.PlacementTopRight),
		DescriptionPlacement: ptr(model.PlacementBottomCenter),
	})
	assert.Equal(t, model.PlacementTopRight, eff.TextPlacement)
	assert.Equal(t, model.PlacementBottomCenter, eff.DescriptionPlacement)
}

func TestResolveIgnoresInvalidValues(t *testing.T) {
	eff := Resolve(model.DisplayFullScreen, &model.Style{
		TextPlacement: ptr(model.Placement("somewhere")),
		BgOpacity:     ptr(1.5),
	})
	assert.Equal(t, model.PlacementBottomLeft, eff.TextPlacement)
	assert.InDelta(t, 0.9, eff.BgOpacity, 1e-9)
}

func TestResolveSnapsOpacity(t *testing.T) {
	eff := Resolve(model.DisplaySplitScreenTextLeft, &model.Style{BgOpacity: ptr(0.33)})
	assert.InDelta(t, 0.3, eff.BgOpacity, 1e-9)
}

func TestResolveNeverLeavesFieldsEmpty(t *testing.T) {
	overrides := []*model.Style{
		nil,
		{},
		{TextColor: ptr("")},
		{Typography: &model.Typography{}},
		{Typography: &model.Typography{Title: &model.TextStyle{Size: ptr(""), Weight: ptr("")}}},
		{Typography: &model.Typography{Description: &model.TextStyle{LineHeight: ptr("loose")}}},
		{Spacing: &model.Spacing{Margin: &model.Box{Y: ptr(3)}}},
	}
	variants := append([]model.DisplayType{0, 99}, model.DisplayTypes...)

	for _, variant := range variants {
		for _, o := range overrides {
			eff := Resolve(variant, o)
			assert.NotEmpty(t, eff.TextPlacement)
			assert.NotEmpty(t, eff.TextColor)
			assert.NotEmpty(t, eff.DescriptionPlacement)
			for _, text := range []Text{eff.Title, eff.Subtitle, eff.Description} {
				assert.NotEmpty(t, text.Size)
				assert.NotEmpty(t, text.Weight)
				assert.NotEmpty(t, text.LineHeight)
			}

			classes := ClassesFor(eff)
			assert.NotEmpty(t, classes.Container)
			assert.NotEmpty(t, classes.Title)
			assert.NotEmpty(t, classes.Description)
		}
	}
}

func TestResolveIgnoresEmptyTextColor(t *testing.T) {
	eff := Resolve(model.DisplayFullScreen, &model.Style{TextColor: ptr("")})
	assert.Equal(t, "white", eff.TextColor)
}

func TestSnapOpacity(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{0.04, 0},
		{0.06, 0.1},
		{0.94, 0.9},
		{0.96, 1},
		{-3, 0},
		{7, 1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, SnapOpacity(tt.in), 1e-9, "input %v", tt.in)
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(nil))
	require.NoError(t, Validate(&model.Style{
		TextPlacement: ptr(model.PlacementTopCenter),
		Typography:    &model.Typography{Title: &model.TextStyle{Size: ptr("3xl"), MarginBottom: ptr(6)}},
		Spacing:       &model.Spacing{Padding: &model.Box{X: ptr(16)}},
	}))

	assert.Error(t, Validate(&model.Style{TextPlacement: ptr(model.Placement("middle"))}))
	assert.Error(t, Validate(&model.Style{BgOpacity: ptr(-0.1)}))
	assert.Error(t, Validate(&model.Style{TextColor: ptr("not a color!")}))
	assert.Error(t, Validate(&model.Style{TextColor: ptr("#ff0000")}))
	assert.NoError(t, Validate(&model.Style{TextColor: ptr("emerald-600")}))
	assert.NoError(t, Validate(&model.Style{TextColor: ptr("dark-black")}))
	assert.NoError(t, Validate(&model.Style{TextColor: ptr("")}))
	assert.Error(t, Validate(&model.Style{Typography: &model.Typography{Description: &model.TextStyle{Weight: ptr("heavy")}}}))
	assert.Error(t, Validate(&model.Style{Spacing: &model.Spacing{Margin: &model.Box{X: ptr(7)}}}))

	err := Validate(&model.Style{Typography: &model.Typography{Title: &model.TextStyle{MarginBottom: ptr(9)}}})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "typography.title"))
}
