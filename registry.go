package ttficon

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
)

// ErrFontNotFound is returned when the registry has no font with the requested family and style.
var ErrFontNotFound = errors.New("font not found")

// Registry resolves fonts by their family and style names.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	fonts map[string]*Font
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// bundledFonts are the Go fonts shipped with golang.org/x/image.
var bundledFonts = [][]byte{
	goregular.TTF,
	gobold.TTF,
	goitalic.TTF,
	gobolditalic.TTF,
	gomedium.TTF,
	gomono.TTF,
	gomonobold.TTF,
	gosmallcaps.TTF,
}

// NewRegistry returns an empty font registry.
func NewRegistry() *Registry {
	return &Registry{
		fonts: make(map[string]*Font),
	}
}

// DefaultRegistry returns the shared registry, populated with the bundled Go fonts on first use.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, data := range bundledFonts {
			f, err := ParseFont(data)
			if err != nil {
				panic(errors.Wrap(err, "could not parse a bundled font"))
			}
			defaultRegistry.Register(f)
		}
	})
	return defaultRegistry
}

// Register adds the font to the registry, replacing any font with the same family and style.
func (r *Registry) Register(f *Font) {
	if f == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fonts[registryKey(f.family, f.style)] = f
}

// Lookup resolves a font by family and style. Names are matched case insensitively
// and an empty style stands for "Regular".
func (r *Registry) Lookup(family, style string) (*Font, error) {
	if style == "" {
		style = defaultStyle
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.fonts[registryKey(family, style)]
	if !ok {
		return nil, errors.Wrapf(ErrFontNotFound, "%s %s", family, style)
	}
	return f, nil
}

// Families returns the sorted list of the registered font families.
func (r *Registry) Families() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	families := make([]string, 0, len(r.fonts))
	for _, f := range r.fonts {
		if _, ok := seen[f.family]; ok {
			continue
		}
		seen[f.family] = struct{}{}
		families = append(families, f.family)
	}
	sort.Strings(families)

	return families
}

func registryKey(family, style string) string {
	return strings.ToLower(strings.TrimSpace(family)) + "/" + strings.ToLower(strings.TrimSpace(style))
}
