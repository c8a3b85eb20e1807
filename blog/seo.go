package blog

import (
	"encoding/json"
	"html/template"
	"strings"
	"time"

	"portfolio/posts"
)

// StructuredData is the schema.org BlogPosting document embedded in post
// pages as JSON-LD.
type StructuredData struct {
	Context       string `json:"@context"`
	Type          string `json:"@type"`
	Headline      string `json:"headline"`
	DatePublished string `json:"datePublished"`
	Description   string `json:"description,omitempty"`
	URL           string `json:"url"`
	Image         string `json:"image,omitempty"`
	Keywords      string `json:"keywords,omitempty"`
}

func NewStructuredData(post posts.Post, baseURL string) StructuredData {
	sd := StructuredData{
		Context:       "https://schema.org",
		Type:          "BlogPosting",
		Headline:      post.Title,
		DatePublished: post.Date.Format(time.RFC3339),
		Description:   post.Excerpt,
		URL:           baseURL + post.Permalink,
	}
	if post.CoverImage != nil {
		sd.Image = baseURL + post.CoverImage.Src
	}
	if len(post.Tags) > 0 {
		sd.Keywords = strings.Join(post.Tags, ", ")
	}
	return sd
}

// Script returns the document ready to embed in a script element.
// encoding/json escapes <, > and & so the payload cannot close the tag.
func (sd StructuredData) Script() (template.JS, error) {
	b, err := json.Marshal(sd)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}

