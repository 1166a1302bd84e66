package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bottlecraft/internal/domain"
	"bottlecraft/internal/upsell"
)

const minimalFamily = `
key: tiny
name: Tiny Jar
category: Jars
version: "1"
vessels:
  - {id: clear, name: Clear, skuPrefix: TJCLR}
closures:
  - {id: black, name: Black Cap, skuCode: BK}
pricing:
  metalUpcharge: "0"
  tiers:
    clear:
      - {min: 1, price: 0.50}
      - {min: 50, price: "0.40"}
`

func TestDefault_LoadsEmbeddedCatalog(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	fams := reg.Families()
	require.Len(t, fams, 3)
	assert.Equal(t, "boston-round-30ml", fams[0].Key)
	assert.Equal(t, "roll-on-10ml", fams[1].Key)
	assert.Equal(t, "sample-vial-2ml", fams[2].Key)

	ro, err := reg.Family("roll-on-10ml")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.10").Equal(ro.Pricing.MetalUpcharge))
	require.Len(t, ro.Pricing.Tiers["clear"], 3)
	assert.True(t, decimal.RequireFromString("0.70").Equal(ro.Pricing.Tiers["clear"][1].Price))
	assert.True(t, ro.HasFitmentStep())

	rose, ok := ro.Closure("rose-gold")
	require.True(t, ok)
	assert.False(t, rose.Available())

	vial, err := reg.Family("sample-vial-2ml")
	require.NoError(t, err)
	assert.False(t, vial.HasFitmentStep())
	assert.True(t, vial.Preview.AssembledVessel)

	p, err := reg.Product("ACC-POUCH-VELVET")
	require.NoError(t, err)
	assert.Equal(t, "velvet-pouch", p.Key)
}

func TestRegistry_UnknownKeys(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	_, err = reg.Family("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = reg.Product("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoad_BareNumbersAndStringsDecodeAsDecimal(t *testing.T) {
	reg, err := Load(fstest.MapFS{"families/tiny.yaml": {Data: []byte(minimalFamily)}})
	require.NoError(t, err)
	fam, err := reg.Family("tiny")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.5").Equal(fam.Pricing.Tiers["clear"][0].Price))
	assert.Empty(t, reg.Products())
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	doc := minimalFamily + "colour: red\n"
	_, err := Load(fstest.MapFS{"families/tiny.yaml": {Data: []byte(doc)}})
	assert.Error(t, err)
}

func TestLoad_DuplicateFamilyKey(t *testing.T) {
	_, err := Load(fstest.MapFS{
		"families/a.yaml": {Data: []byte(minimalFamily)},
		"families/b.yaml": {Data: []byte(minimalFamily)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
}

func TestLoadDir_OverridesBase(t *testing.T) {
	base, err := Default()
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "families"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "families", "tiny.yaml"), []byte(minimalFamily), 0o644))
	products := "- {key: funnel-set, sku: ACC-FUNNEL-SET, name: Big Funnel Set, category: Accessories, price: \"3.50\"}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.yaml"), []byte(products), 0o644))

	reg, err := LoadDir(dir, base)
	require.NoError(t, err)
	assert.Len(t, reg.Families(), 4)

	p, err := reg.Product("funnel-set")
	require.NoError(t, err)
	assert.Equal(t, "Big Funnel Set", p.Name)
	assert.Len(t, reg.Products(), len(base.Products()))
}

func TestMarshalFamily_RoundTrips(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	ro, err := reg.Family("roll-on-10ml")
	require.NoError(t, err)

	raw, err := MarshalFamily(ro)
	require.NoError(t, err)
	again, err := ParseFamily(raw)
	require.NoError(t, err)
	assert.Equal(t, ro.SKUMatrix, again.SKUMatrix)
	assert.True(t, ro.Pricing.Tiers["frosted"][2].Price.Equal(again.Pricing.Tiers["frosted"][2].Price))
}

func TestDefault_CarriesUpsellAccessories(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	for _, s := range []upsell.Suggestion{upsell.Sprayer, upsell.Pouch, upsell.Funnel} {
		p, err := reg.Product(s.SKU)
		require.NoError(t, err, s.SKU)
		assert.Equal(t, s.Name, p.Name, s.SKU)
		assert.True(t, s.Price.Equal(p.Price), "%s: %s != %s", s.SKU, s.Price, p.Price)
	}
}
