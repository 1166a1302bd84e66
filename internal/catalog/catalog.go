package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"bottlecraft/internal/domain"
)

//go:embed data
var embedded embed.FS

const (
	familiesDir  = "families"
	productsFile = "products.yaml"
)

// Registry is the read-only set of product families and ready-made products.
type Registry struct {
	families map[string]*domain.Family
	products []domain.Product
}

// Default loads the catalog compiled into the binary.
func Default() (*Registry, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Load reads families/*.yaml and an optional products.yaml from fsys and
// validates every family.
func Load(fsys fs.FS) (*Registry, error) {
	reg := &Registry{families: map[string]*domain.Family{}}

	names, err := fs.Glob(fsys, path.Join(familiesDir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		fam, err := readFamily(fsys, name)
		if err != nil {
			return nil, err
		}
		if _, dup := reg.families[fam.Key]; dup {
			return nil, fmt.Errorf("%w: family %q defined twice (%s)", domain.ErrInvalidCatalog, fam.Key, name)
		}
		reg.families[fam.Key] = fam
	}

	raw, err := fs.ReadFile(fsys, productsFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", productsFile, err)
	default:
		if err := decodeStrict(raw, &reg.products); err != nil {
			return nil, fmt.Errorf("parse %s: %w", productsFile, err)
		}
		if err := ValidateProducts(reg.products); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// LoadDir layers families and products from dir over base. Entries from dir
// replace base entries with the same key.
func LoadDir(dir string, base *Registry) (*Registry, error) {
	extra, err := Load(os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("load catalog dir %s: %w", dir, err)
	}
	if base == nil {
		return extra, nil
	}
	return Merge(base, extra), nil
}

// Merge returns a registry holding base overlaid with extra.
func Merge(base, extra *Registry) *Registry {
	out := &Registry{families: make(map[string]*domain.Family, len(base.families)+len(extra.families))}
	for k, f := range base.families {
		out.families[k] = f
	}
	for k, f := range extra.families {
		out.families[k] = f
	}

	index := map[string]int{}
	for _, p := range base.products {
		index[p.Key] = len(out.products)
		out.products = append(out.products, p)
	}
	for _, p := range extra.products {
		if i, ok := index[p.Key]; ok {
			out.products[i] = p
			continue
		}
		out.products = append(out.products, p)
	}
	return out
}

// ParseFamily decodes and validates a single family document.
func ParseFamily(raw []byte) (*domain.Family, error) {
	var fam domain.Family
	if err := decodeStrict(raw, &fam); err != nil {
		return nil, err
	}
	if err := Validate(&fam); err != nil {
		return nil, err
	}
	return &fam, nil
}

// MarshalFamily renders a family in the on-disk format.
func MarshalFamily(fam *domain.Family) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fam); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func readFamily(fsys fs.FS, name string) (*domain.Family, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	fam, err := ParseFamily(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return fam, nil
}

func decodeStrict(raw []byte, out interface{}) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Families returns every family ordered by key.
func (r *Registry) Families() []*domain.Family {
	out := make([]*domain.Family, 0, len(r.families))
	for _, f := range r.families {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (r *Registry) Family(key string) (*domain.Family, error) {
	f, ok := r.families[strings.TrimSpace(key)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

func (r *Registry) Products() []domain.Product {
	out := make([]domain.Product, len(r.products))
	copy(out, r.products)
	return out
}

// Product finds a ready-made product by key or SKU.
func (r *Registry) Product(keyOrSKU string) (*domain.Product, error) {
	keyOrSKU = strings.TrimSpace(keyOrSKU)
	for i := range r.products {
		if r.products[i].Key == keyOrSKU || r.products[i].SKU == keyOrSKU {
			p := r.products[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}
