package posts

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

// Collection is the directory under the content root holding blog posts.
const Collection = "blog"

const (
	maxTitleLength   = 120
	maxExcerptLength = 280
	minSlugLength    = 3
	maxSlugLength    = 200
	wordsPerMinute   = 200
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Linkify,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithUnsafe(), // post sources are trusted
	),
)

// Options controls side effects of loading.
type Options struct {
	// AssetsDir receives copies of cover images. Empty disables copying;
	// metadata is still derived.
	AssetsDir string
}

// ValidationError describes one front matter or body violation.
type ValidationError struct {
	Path  string
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Field, e.Msg)
}

type frontMatter struct {
	Slug       string   `yaml:"slug"`
	Title      string   `yaml:"title"`
	Date       any      `yaml:"date"`
	Excerpt    string   `yaml:"excerpt"`
	CoverImage string   `yaml:"coverImage"`
	Tags       []string `yaml:"tags"`
}

// Load compiles every markdown file of the blog collection under dir.
// Any violation in any file fails the whole load.
func Load(dir string) (*Library, error) {
	return LoadWithOptions(dir, Options{})
}

func LoadWithOptions(dir string, opts Options) (*Library, error) {
	root := filepath.Join(dir, Collection)
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("blog collection %s: %w", root, err)
	}

	var (
		posts    []Post
		problems []error
		seen     = map[string]string{}
	)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error accessing path %s: %w", path, walkErr)
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".md") {
			return nil
		}

		post, errs := compileFile(path, opts)
		if len(errs) > 0 {
			problems = append(problems, errs...)
			return nil
		}

		if other, dup := seen[post.Slug]; dup {
			problems = append(problems, &ValidationError{
				Path:  path,
				Field: "slug",
				Msg:   fmt.Sprintf("duplicate slug %q (also used by %s)", post.Slug, other),
			})
			return nil
		}
		seen[post.Slug] = path
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error during content walk: %w", err)
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("content validation failed: %w", errors.Join(problems...))
	}
	return newLibrary(posts), nil
}

func compileFile(path string, opts Options) (Post, []error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Post{}, []error{fmt.Errorf("failed to read %s: %w", path, err)}
	}

	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		return Post{}, []error{&ValidationError{Path: path, Msg: "invalid front matter: " + err.Error()}}
	}

	var errs []error
	fail := func(field, msg string) {
		errs = append(errs, &ValidationError{Path: path, Field: field, Msg: msg})
	}

	slug := fm.Slug
	if slug == "" {
		slug = strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
	switch n := utf8.RuneCountInString(slug); {
	case n < minSlugLength:
		fail("slug", fmt.Sprintf("must be at least %d characters", minSlugLength))
	case n > maxSlugLength:
		fail("slug", fmt.Sprintf("must be at most %d characters", maxSlugLength))
	case !slugPattern.MatchString(slug):
		fail("slug", "must contain only lowercase letters, digits and hyphens")
	}

	title := strings.TrimSpace(fm.Title)
	if title == "" {
		fail("title", "is required")
	} else if utf8.RuneCountInString(title) > maxTitleLength {
		fail("title", fmt.Sprintf("must be at most %d characters", maxTitleLength))
	}

	date, dateErr := parseDate(fm.Date)
	if dateErr != nil {
		fail("date", dateErr.Error())
	}

	if utf8.RuneCountInString(fm.Excerpt) > maxExcerptLength {
		fail("excerpt", fmt.Sprintf("must be at most %d characters", maxExcerptLength))
	}

	var cover *CoverImage
	if fm.CoverImage != "" {
		cover, err = processCover(filepath.Join(filepath.Dir(path), fm.CoverImage), opts.AssetsDir)
		if err != nil {
			fail("coverImage", err.Error())
		}
	}

	var html bytes.Buffer
	if err := md.Convert(body, &html); err != nil {
		fail("content", "failed to render markdown: "+err.Error())
	}

	if len(errs) > 0 {
		return Post{}, errs
	}

	words := len(strings.Fields(string(body)))
	return Post{
		Slug:       slug,
		Title:      title,
		Date:       date,
		Excerpt:    fm.Excerpt,
		CoverImage: cover,
		Tags:       fm.Tags,
		Content:    html.String(),
		Permalink:  Permalink(slug),
		Metadata: Metadata{
			WordCount:   words,
			ReadingTime: int(math.Ceil(float64(words) / wordsPerMinute)),
		},
		Markdown:   string(body),
		SourcePath: path,
	}, nil
}

// parseDate accepts the YAML timestamp a front matter decoder produces or
// an ISO-8601 date / date-time string.
func parseDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, errors.New("is required")
	case time.Time:
		return d, nil
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return time.Time{}, errors.New("is required")
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("%q is not an ISO-8601 date", s)
	default:
		return time.Time{}, fmt.Errorf("unsupported value %v", v)
	}
}
