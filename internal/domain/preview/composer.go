package preview

import (
	"encoding/binary"
	"time"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/workspace"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/blake2b"
)

// DefaultCacheSize bounds the render cache when none is configured.
const DefaultCacheSize = 64

// Observer receives render timings. monitoring.Metrics implements it.
type Observer interface {
	ObserveCompose(duration time.Duration, cached bool)
}

type nopObserver struct{}

func (nopObserver) ObserveCompose(time.Duration, bool) {}

// Composer renders previews with a content-addressed cache. Compose is
// deterministic, so a cached document is byte-identical to a fresh one.
type Composer struct {
	cache    *lru.Cache[[32]byte, string]
	observer Observer
}

// NewComposer creates a composer caching up to size documents.
func NewComposer(size int) (*Composer, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[[32]byte, string](size)
	if err != nil {
		return nil, err
	}
	return &Composer{cache: cache, observer: nopObserver{}}, nil
}

// WithObserver adds render metrics to the composer
func (c *Composer) WithObserver(o Observer) *Composer {
	if o != nil {
		c.observer = o
	}
	return c
}

// Render produces the preview for the current selection: the media viewer
// when current is an image or video, else the composed project document.
func (c *Composer) Render(project *workspace.Project, current *workspace.File) string {
	start := time.Now()

	var key [32]byte
	var render func() string
	if current != nil && current.Kind.IsMedia() {
		key = digest("media", current.Kind.String(), current.Name, current.Content)
		render = func() string { return ComposeMedia(current) }
	} else {
		s := Collect(project)
		key = digest("compose", s.HTML, s.CSS, s.JS)
		render = func() string { return ComposeSources(s) }
	}

	if doc, ok := c.cache.Get(key); ok {
		c.observer.ObserveCompose(time.Since(start), true)
		return doc
	}
	doc := render()
	c.cache.Add(key, doc)
	c.observer.ObserveCompose(time.Since(start), false)
	return doc
}

// Len reports how many documents are cached.
func (c *Composer) Len() int {
	return c.cache.Len()
}

// Purge empties the cache.
func (c *Composer) Purge() {
	c.cache.Purge()
}

// digest length-prefixes each part so ("ab", "c") and ("a", "bc") differ.
func digest(parts ...string) [32]byte {
	h, _ := blake2b.New256(nil)
	var n [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(n[:], uint64(len(p)))
		h.Write(n[:])
		h.Write([]byte(p))
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
