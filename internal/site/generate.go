// Package site rewrites the static showcase pages from a scanned library.
// The gallery page gets a grid item per image and the collections page gets
// a carousel section per collection, each spliced between marker comments so
// the surrounding page survives every update.
package site

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/atelierhq/atelier/internal/library"
)

// galleryItemTemplate renders one cell of the gallery grid.
const galleryItemTemplate = `        <div class="gallery-grid-item">
            <img src="{{.Src}}" alt="{{.Alt}}">
        </div>`

// collectionCardTemplate renders one card inside a carousel track.
const collectionCardTemplate = `                        <div class="collection-card">
                            <div class="card-image">
                                <img src="{{.Src}}" alt="{{.Alt}}">
                            </div>
                        </div>`

// collectionSectionTemplate renders one collection: heading, optional
// description, and a carousel whose prev/next buttons carry the collection
// key so the page script can find the matching track.
const collectionSectionTemplate = `        <section class="collection-section" data-collection="{{.Key}}">
            <div class="collection-header">
                <h2>{{.DisplayName}}</h2>{{if .Description}}
                <div class="collection-description">{{.Description}}</div>{{end}}
            </div>
            <div class="collection-carousel-container">
                <button class="carousel-btn prev" data-carousel="{{.Key}}">&lsaquo;</button>
                <div class="collection-carousel" id="carousel-{{.Key}}">
                    <div class="carousel-track">
{{.Cards}}
                    </div>
                </div>
                <button class="carousel-btn next" data-carousel="{{.Key}}">&rsaquo;</button>
            </div>
        </section>`

var (
	galleryItemTmpl       = template.Must(template.New("galleryItem").Parse(galleryItemTemplate))
	collectionCardTmpl    = template.Must(template.New("collectionCard").Parse(collectionCardTemplate))
	collectionSectionTmpl = template.Must(template.New("collectionSection").Parse(collectionSectionTemplate))
)

// descriptionMarkdown converts description.md contents to HTML.
var descriptionMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Typographer),
)

type imageView struct {
	Src string
	Alt string
}

type sectionView struct {
	Key         string
	DisplayName string
	Description template.HTML
	Cards       template.HTML
}

// RenderGallery produces the gallery grid markup for the given images, one
// item per image, joined by newlines. Image paths are rewritten relative to
// pagesDir with forward slashes so they resolve from the page.
func RenderGallery(images []*library.Image, pagesDir string) (string, error) {
	pagesDir, err := filepath.Abs(pagesDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve pages directory: %w", err)
	}

	items := make([]string, 0, len(images))
	var buf bytes.Buffer
	for _, img := range images {
		src, err := pageRelative(pagesDir, img.Path)
		if err != nil {
			return "", err
		}
		buf.Reset()
		if err := galleryItemTmpl.Execute(&buf, imageView{Src: src, Alt: img.Title}); err != nil {
			return "", fmt.Errorf("failed to render gallery item %s: %w", img.RelPath, err)
		}
		items = append(items, buf.String())
	}
	return strings.Join(items, "\n"), nil
}

// RenderCollections produces one carousel section per non-empty collection,
// joined by newlines, in the order the collections appear in the slice.
func RenderCollections(collections []*library.Collection, pagesDir string) (string, error) {
	pagesDir, err := filepath.Abs(pagesDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve pages directory: %w", err)
	}

	sections := make([]string, 0, len(collections))
	for _, c := range collections {
		if len(c.Images) == 0 {
			continue
		}
		section, err := renderSection(c, pagesDir)
		if err != nil {
			return "", err
		}
		sections = append(sections, section)
	}
	return strings.Join(sections, "\n"), nil
}

func renderSection(c *library.Collection, pagesDir string) (string, error) {
	cards := make([]string, 0, len(c.Images))
	var buf bytes.Buffer
	for _, img := range c.Images {
		src, err := pageRelative(pagesDir, img.Path)
		if err != nil {
			return "", err
		}
		buf.Reset()
		if err := collectionCardTmpl.Execute(&buf, imageView{Src: src, Alt: img.Title}); err != nil {
			return "", fmt.Errorf("failed to render card %s: %w", img.RelPath, err)
		}
		cards = append(cards, buf.String())
	}

	description, err := renderDescription(c.Description)
	if err != nil {
		return "", fmt.Errorf("failed to render description for %s: %w", c.Name, err)
	}

	buf.Reset()
	view := sectionView{
		Key:         c.Key,
		DisplayName: c.DisplayName,
		Description: description,
		Cards:       template.HTML(strings.Join(cards, "\n")),
	}
	if err := collectionSectionTmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to render collection %s: %w", c.Name, err)
	}

	// html/template elides comments, so the section label is prepended here.
	return fmt.Sprintf("        <!-- Collection: %s -->\n", c.Name) + buf.String(), nil
}

// renderDescription converts a collection's markdown description to HTML.
// The result is already escaped by goldmark and safe to embed.
func renderDescription(markdown string) (template.HTML, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := descriptionMarkdown.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return template.HTML(strings.TrimSpace(buf.String())), nil
}

// pageRelative rewrites an image path relative to the page directory using
// forward slashes.
func pageRelative(pagesDir, imagePath string) (string, error) {
	imagePath, err := filepath.Abs(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve image path %s: %w", imagePath, err)
	}
	rel, err := filepath.Rel(pagesDir, imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to relativize %s against %s: %w", imagePath, pagesDir, err)
	}
	return filepath.ToSlash(rel), nil
}
