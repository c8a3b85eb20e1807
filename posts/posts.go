// Package posts compiles the markdown blog collection into immutable Post
// records. A Library is built once from source files and never mutated;
// a Store swaps whole libraries when the source changes.
package posts

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var ErrNotFound = errors.New("post not found")

// Post is one compiled blog entry.
type Post struct {
	Slug       string      `json:"slug"`
	Title      string      `json:"title"`
	Date       time.Time   `json:"date"`
	Excerpt    string      `json:"excerpt,omitempty"`
	CoverImage *CoverImage `json:"coverImage,omitempty"`
	Tags       []string    `json:"tags,omitempty"`
	Content    string      `json:"content"`
	Permalink  string      `json:"permalink"`
	Metadata   Metadata    `json:"metadata"`

	// Markdown is the source body without front matter.
	Markdown   string `json:"-"`
	SourcePath string `json:"-"`
}

type CoverImage struct {
	Src         string `json:"src"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	BlurDataURL string `json:"blurDataURL"`
}

type Metadata struct {
	ReadingTime int `json:"readingTime"`
	WordCount   int `json:"wordCount"`
}

// Permalink is the canonical path of the post with the given slug.
func Permalink(slug string) string {
	return "/blog/" + slug
}

// Library is a read-only set of posts in load order.
type Library struct {
	posts  []Post
	bySlug map[string]int
}

func newLibrary(posts []Post) *Library {
	l := &Library{
		posts:  posts,
		bySlug: make(map[string]int, len(posts)),
	}
	for i, p := range posts {
		l.bySlug[p.Slug] = i
	}
	return l
}

// All returns a copy of the posts in load order.
func (l *Library) All() []Post {
	out := make([]Post, len(l.posts))
	copy(out, l.posts)
	return out
}

func (l *Library) BySlug(slug string) (Post, error) {
	i, ok := l.bySlug[slug]
	if !ok {
		return Post{}, ErrNotFound
	}
	return l.posts[i], nil
}

func (l *Library) Len() int {
	return len(l.posts)
}

// Store holds the current Library. Init must succeed before serving;
// Reload replaces the library only when the new load is valid.
type Store struct {
	dir  string
	opts Options

	current atomic.Pointer[Library]

	// reloading serializes load, swap and notify so an older load never
	// replaces a newer one.
	reloading sync.Mutex

	mu        sync.Mutex
	listeners []func(*Library)
}

func NewStore(dir string, opts Options) *Store {
	return &Store{dir: dir, opts: opts}
}

// NewStaticStore wraps an already built library. Used by tests and tools
// that never reload.
func NewStaticStore(lib *Library) *Store {
	s := &Store{}
	s.current.Store(lib)
	return s
}

func (s *Store) Init() error {
	s.reloading.Lock()
	defer s.reloading.Unlock()

	lib, err := LoadWithOptions(s.dir, s.opts)
	if err != nil {
		return err
	}
	s.current.Store(lib)
	return nil
}

func (s *Store) Reload() error {
	s.reloading.Lock()
	defer s.reloading.Unlock()

	lib, err := LoadWithOptions(s.dir, s.opts)
	if err != nil {
		return err
	}
	s.current.Store(lib)

	s.mu.Lock()
	listeners := append([]func(*Library){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(lib)
	}
	return nil
}

// OnReload registers fn to run after every successful Reload.
func (s *Store) OnReload(fn func(*Library)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Library returns the current library, or an empty one before Init.
func (s *Store) Library() *Library {
	if lib := s.current.Load(); lib != nil {
		return lib
	}
	return newLibrary(nil)
}
