package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/templui/folio/internal/client"
	"github.com/templui/folio/internal/model"
	"github.com/templui/folio/internal/service"
)

func ListCmd() *cobra.Command {
	var category, output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List artworks",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter model.Category
			if category != "" && category != "all" {
				c, err := model.ParseCategory(category)
				if err != nil {
					return err
				}
				filter = c
			}

			format, err := detectFormat(output)
			if err != nil {
				return err
			}

			artworks := service.Filter(newManager().List(cmd.Context()), filter)
			return writeArtworks(os.Stdout, format, artworks)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only show one category (name or number)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "table, json or yaml (default table on a terminal, json otherwise)")
	return cmd
}

func AddCmd() *cobra.Command {
	var f artworkFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an artwork from image files",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := requireToken()
			if err != nil {
				return err
			}

			var draft client.Draft
			closeAll, err := f.apply(cmd, &draft)
			if err != nil {
				return err
			}
			defer closeAll()

			artwork, err := client.NewEditor(newManager()).Save(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Printf("Created %s (%s)\n", artwork.ID, strings.Join(artwork.ImageURL, ", "))
			return nil
		},
	}

	f.register(cmd)
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func EditCmd() *cobra.Command {
	var f artworkFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update an artwork. Only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := requireToken()
			if err != nil {
				return err
			}

			m := newManager()
			artworks := m.List(cmd.Context())
			idx := model.FindArtwork(artworks, args[0])
			if idx < 0 {
				return fmt.Errorf("%w: %s", client.ErrNotFound, args[0])
			}
			existing := artworks[idx]

			draft := client.Draft{
				ID:                  existing.ID,
				Title:               existing.Title,
				TitleLine2:          existing.TitleLine2,
				Category:            existing.Category,
				Type:                existing.Type,
				TextWidthPercentage: existing.TextWidthPercentage,
				Style:               existing.Style,
			}
			closeAll, err := f.apply(cmd, &draft)
			if err != nil {
				return err
			}
			defer closeAll()

			artwork, err := client.NewEditor(m).Save(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Printf("Updated %s\n", artwork.ID)
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func DeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an artwork and its files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := requireToken()
			if err != nil {
				return err
			}
			err = client.NewEditor(newManager()).Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
}

// artworkFlags are shared by add and edit.
type artworkFlags struct {
	title           string
	subtitle        string
	category        string
	displayType     string
	images          []string
	descriptionFile string
	noDescription   bool
	textWidth       int
	styleFile       string
}

func (f *artworkFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.title, "title", "", "title")
	flags.StringVar(&f.subtitle, "subtitle", "", "second title line")
	flags.StringVar(&f.category, "category", "", "drawings, installations, paintings or video")
	flags.StringVar(&f.displayType, "type", model.DisplayFullScreen.String(), "full-screen, full-screen-overlay or split-screen-text-left")
	flags.StringSliceVar(&f.images, "image", nil, "image file, repeat for up to 3")
	flags.StringVar(&f.descriptionFile, "description", "", "Markdown description file")
	flags.BoolVar(&f.noDescription, "no-description", false, "remove the description")
	flags.IntVar(&f.textWidth, "text-width", model.DefaultTextWidth, "text column width in percent (split screen)")
	flags.StringVar(&f.styleFile, "style", "", "YAML or JSON style override file")
}

// apply copies the flags the user set onto d. The returned func closes the
// opened image files.
func (f *artworkFlags) apply(cmd *cobra.Command, d *client.Draft) (func(), error) {
	var files []*os.File
	closeAll := func() {
		for _, file := range files {
			_ = file.Close()
		}
	}
	changed := cmd.Flags().Changed

	if changed("title") {
		d.Title = f.title
	}
	if changed("subtitle") {
		d.TitleLine2 = f.subtitle
	}
	if changed("category") {
		c, err := model.ParseCategory(f.category)
		if err != nil {
			return closeAll, err
		}
		d.Category = c
	}
	if changed("type") || d.Type == 0 {
		t, err := model.ParseDisplayType(f.displayType)
		if err != nil {
			return closeAll, err
		}
		d.Type = t
	}
	if changed("text-width") {
		width := f.textWidth
		d.TextWidthPercentage = &width
	}

	if changed("description") && f.noDescription {
		return closeAll, fmt.Errorf("--description and --no-description are exclusive")
	}
	if changed("description") {
		data, err := os.ReadFile(f.descriptionFile)
		if err != nil {
			return closeAll, err
		}
		text := string(data)
		d.Description = &text
	}
	if f.noDescription {
		empty := ""
		d.Description = &empty
	}

	if changed("style") {
		s, err := readStyle(f.styleFile)
		if err != nil {
			return closeAll, err
		}
		d.Style = s
	}

	for _, p := range f.images {
		file, err := os.Open(p)
		if err != nil {
			closeAll()
			return func() {}, err
		}
		files = append(files, file)
		d.Images = append(d.Images, client.Image{Filename: filepath.Base(p), Body: file})
	}

	return closeAll, nil
}

// readStyle loads a style override from YAML or JSON.
func readStyle(path string) (*model.Style, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
		data, err = yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("invalid style file %s: %w", path, err)
		}
	}

	var s model.Style
	err = json.Unmarshal(data, &s)
	if err != nil {
		return nil, fmt.Errorf("invalid style file %s: %w", path, err)
	}
	return &s, nil
}
