package export

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/Dicklesworthstone/museum/pkg/model"
)

// markdown renders entry bodies. Raw HTML in an entry is dropped.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Typographer))

// SiteOptions configures WriteSite
type SiteOptions struct {
	Dir     string
	Catalog *model.Catalog
	Title   string
	IsRead  func(postID string) bool // optional, marks entries already read
}

var siteTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { background:#0F172A; color:#F4EFE6; font-family:Georgia,serif; margin:0 auto; max-width:960px; padding:2rem; }
h1, h2 { color:#C9A96A; letter-spacing:0.1em; }
h3 { margin-bottom:0.25rem; }
.kicker { color:#94A3B8; font-size:0.8rem; text-transform:uppercase; letter-spacing:0.15em; }
.entry { border-left:2px solid #C9A96A; margin:1rem 0; padding-left:1rem; }
.entry.read h4::after { content:" ✓"; color:#7FB77E; }
.content { color:#CBD5E1; line-height:1.6; }
.content a { color:#C9A96A; }
.plate { width:100%; max-height:320px; object-fit:cover; border:1px solid #C9A96A; background:linear-gradient(90deg,#1E293B,#334155,#1E293B); }
footer { color:#94A3B8; text-align:center; margin-top:3rem; font-style:italic; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<img src="map.svg" alt="Floor plan" width="100%">
{{range .Rooms}}
<section id="room-{{.ID}}">
<h2>{{.Title}}</h2>
<p>{{.Description}}</p>
{{range .Hotspots}}
<article id="hotspot-{{.ID}}">
<div class="kicker">{{.Category}}</div>
<h3>{{.Name}}</h3>
<p>{{.Description}}</p>
{{range .Posts}}
<div class="entry{{if .Read}} read{{end}}" id="post-{{.ID}}">
<div class="kicker">{{.Category}} • {{.Subcategory}}</div>
<h4>{{.Title}}</h4>
<p><em>{{.Excerpt}}</em></p>
{{if .ImageSrc}}<img class="plate" src="{{.ImageSrc}}" alt="{{.Title}}" loading="lazy">{{end}}
<div class="content">{{.HTML}}</div>
</div>
{{end}}
</article>
{{end}}
</section>
{{end}}
<footer>~ End of Archives ~ · generated {{.Generated}}</footer>
</body>
</html>
`))

type sitePost struct {
	model.Post
	Read     bool
	ImageSrc string        // URL of the illustration relative to index.html
	HTML     template.HTML // rendered Content
}

type siteHotspot struct {
	ID, Name, Description, Category string
	Posts                           []sitePost
}

type siteRoom struct {
	ID, Title, Description string
	Hotspots               []siteHotspot
}

type sitePage struct {
	Title     string
	Generated string
	Rooms     []siteRoom
}

// WriteSite writes a static bundle to opts.Dir: index.html with every room,
// hotspot and entry, and map.svg with the floor plan
func WriteSite(opts SiteOptions) error {
	if opts.Catalog == nil {
		return fmt.Errorf("site export needs a catalog")
	}
	if opts.Title == "" {
		opts.Title = "Museum of Sacred Science"
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return fmt.Errorf("create site dir: %w", err)
	}

	page := sitePage{Title: opts.Title, Generated: time.Now().Format("2006-01-02")}
	for _, r := range opts.Catalog.Rooms {
		sr := siteRoom{ID: r.ID, Title: r.Title, Description: r.Description}
		for _, h := range r.Hotspots {
			sh := siteHotspot{ID: h.ID, Name: h.Name, Description: h.Description, Category: h.Category()}
			for _, p := range h.Posts {
				html, err := renderMarkdown(p.Content)
				if err != nil {
					return fmt.Errorf("render entry %s: %w", p.ID, err)
				}
				sh.Posts = append(sh.Posts, sitePost{
					Post:     p,
					Read:     opts.IsRead != nil && opts.IsRead(p.ID),
					ImageSrc: siteImage(opts.Dir, p),
					HTML:     html,
				})
			}
			sr.Hotspots = append(sr.Hotspots, sh)
		}
		page.Rooms = append(page.Rooms, sr)
	}

	var html bytes.Buffer
	if err := siteTemplate.Execute(&html, page); err != nil {
		return fmt.Errorf("render site: %w", err)
	}
	if err := os.WriteFile(filepath.Join(opts.Dir, "index.html"), html.Bytes(), 0644); err != nil {
		return fmt.Errorf("write index.html: %w", err)
	}

	var plan bytes.Buffer
	FloorPlanSVG(&plan, opts.Catalog, opts.Title)
	if err := os.WriteFile(filepath.Join(opts.Dir, "map.svg"), plan.Bytes(), 0644); err != nil {
		return fmt.Errorf("write map.svg: %w", err)
	}
	return nil
}

func renderMarkdown(md string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// siteImage returns where index.html finds an entry's illustration. Remote
// references are linked as they are; local files are copied into images/.
// A local file that cannot be copied is left out.
func siteImage(dir string, p model.Post) string {
	switch {
	case p.Image == "":
		return ""
	case strings.Contains(p.Image, "://"):
		return p.Image
	}
	name := p.ID + strings.ToLower(filepath.Ext(p.Image))
	if err := copyFile(p.Image, filepath.Join(dir, "images", name)); err != nil {
		return ""
	}
	return "images/" + name
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
