package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/templui/folio/internal/model"
)

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

// detectFormat picks the explicit format, else a table on a terminal and JSON
// for pipes and redirects.
func detectFormat(explicit string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(explicit)); f {
	case formatTable, formatJSON, formatYAML:
		return f, nil
	case "":
		if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			return formatTable, nil
		}
		return formatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (table, json or yaml)", explicit)
	}
}

func writeArtworks(w io.Writer, format outputFormat, artworks []model.Artwork) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(artworks)
	case formatYAML:
		data, err := json.Marshal(artworks)
		if err != nil {
			return err
		}
		out, err := yaml.JSONToYAML(data)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	}

	config := tablewriter.Config{}
	align := []tw.Align{tw.AlignLeft, tw.AlignLeft, tw.AlignLeft, tw.AlignLeft, tw.AlignRight}
	config.Header.Alignment = tw.CellAlignment{PerColumn: align}
	config.Row.Alignment = tw.CellAlignment{PerColumn: align}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(config))
	table.Header("ID", "Category", "Type", "Title", "Images")
	for _, a := range artworks {
		err := table.Append(a.ID, a.Category.String(), a.Type.String(), a.Title, strconv.Itoa(len(a.ImageURL)))
		if err != nil {
			return err
		}
	}
	return table.Render()
}
