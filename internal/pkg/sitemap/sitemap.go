// Package sitemap builds the sitemap.xml served at /sitemap and
// rewritten on disk after content mutations.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkraiem/boutiqa/app/repository"
	"github.com/mkraiem/boutiqa/internal/pkg/env"
)

// URL is one <url> entry of the sitemap.
type URL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
	LastMod    string `xml:"lastmod,omitempty"`
}

// URLSet is the sitemap root element.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

type staticRoute struct {
	path       string
	changeFreq string
	priority   string
}

var staticRoutes = []staticRoute{
	{"/", "weekly", "1.0"},
	{"/services", "weekly", "0.8"},
	{"/products", "daily", "0.9"},
	{"/articles", "weekly", "0.7"},
	{"/catalog", "weekly", "0.7"},
	{"/contact", "weekly", "0.7"},
}

// Generator assembles the sitemap from active products and published
// articles.
type Generator struct {
	Products repository.ProductRepository
	Articles repository.ArticleRepository
}

// NewGenerator creates a sitemap generator over the given repositories.
func NewGenerator(products repository.ProductRepository, articles repository.ArticleRepository) *Generator {
	return &Generator{Products: products, Articles: articles}
}

// Generate builds the sitemap XML document.
func (g *Generator) Generate() ([]byte, error) {
	base := strings.TrimRight(env.GetEnv("SITE_BASE_URL", "http://localhost:3000"), "/")

	set := URLSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, r := range staticRoutes {
		set.URLs = append(set.URLs, URL{
			Loc:        base + r.path,
			ChangeFreq: r.changeFreq,
			Priority:   r.priority,
		})
	}

	products, err := g.Products.GetActive()
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.Slug == "" {
			continue
		}
		set.URLs = append(set.URLs, URL{
			Loc:        fmt.Sprintf("%s/products/%s", base, p.Slug),
			ChangeFreq: "weekly",
			Priority:   "0.9",
			LastMod:    p.UpdatedAt.Format("2006-01-02"),
		})
	}

	articles, err := g.Articles.GetPublished()
	if err != nil {
		return nil, err
	}
	for _, a := range articles {
		if a.Slug == "" {
			continue
		}
		set.URLs = append(set.URLs, URL{
			Loc:        fmt.Sprintf("%s/articles/%s", base, a.Slug),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

// Regenerate rebuilds the sitemap and writes it to every configured
// output path (SITEMAP_PATHS, comma-separated). Failures are logged and
// swallowed so content mutations never fail on sitemap trouble.
func (g *Generator) Regenerate() {
	data, err := g.Generate()
	if err != nil {
		log.Printf("sitemap generation failed: %v", err)
		return
	}

	paths := strings.Split(env.GetEnv("SITEMAP_PATHS", "public/sitemap.xml"), ",")
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o775); err != nil {
			log.Printf("sitemap: cannot create %s: %v", filepath.Dir(path), err)
			continue
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			log.Printf("sitemap: cannot write %s: %v", path, err)
			continue
		}
		log.Printf("sitemap saved to %s", path)
	}
}
