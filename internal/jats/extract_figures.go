package jats

import "github.com/ternarybob/pmcgrab/internal/models"

// ExtractFigures implements the Figures extractor (C6): label, caption,
// the href of the first graphic, and alt-text if present. No image bytes
// are downloaded.
func ExtractFigures(root *Node) []models.Figure {
	var figures []models.Figure

	for _, fig := range root.FindAll("fig") {
		f := models.Figure{ID: fig.Attr("id")}
		if label := fig.FirstChild("label"); label != nil {
			f.Label = Text(label)
		}
		if caption := fig.FirstChild("caption"); caption != nil {
			f.Caption = Text(caption)
		}
		if graphic := fig.FirstChild("graphic"); graphic != nil {
			f.GraphicHref = graphic.Attr("href")
		}
		if alt := fig.FirstChild("alt-text"); alt != nil {
			f.AltText = Text(alt)
		}
		figures = append(figures, f)
	}

	return figures
}
