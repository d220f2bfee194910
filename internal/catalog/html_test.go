package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storefrontPage = `<!doctype html>
<html><body>
<div id="productsGrid">
  <div class="product-card group" data-category="proteina" data-brand="Optimum">
    <h3>Whey Protein Isolate</h3>
    <button class="add-to-cart-btn" data-cart-action="add"
      data-product-id="whey-1"
      data-product-name="Whey Protein Isolate"
      data-product-brand="Optimum"
      data-product-price="25.5"
      data-product-image="/img/whey.jpg"
      data-product-description="Fast absorbing">Agregar</button>
  </div>
  <div class="product-card" data-category="creatina" data-brand="Dymatize">
    <button data-product-id="crea-1" data-product-name="Creatine"
      data-product-category="creatina" data-product-price="null"
      data-product-image="/img/crea.jpg">Agregar</button>
  </div>
  <div class="product-card" data-category="vitaminas">
    <h3>No button here</h3>
  </div>
  <div class="product-card" data-category="ganadores">
    <button data-product-id="broken" data-product-name="Missing image" data-product-brand="X">Agregar</button>
  </div>
</div>
<button data-product-id="whey-1" data-product-name="Duplicate name">Agregar</button>
</body></html>`

func TestParseHTML(t *testing.T) {
	products, err := ParseHTML(context.Background(), strings.NewReader(storefrontPage))
	require.NoError(t, err)
	require.Len(t, products, 2)

	whey := products[0]
	assert.Equal(t, "whey-1", whey.ID)
	assert.Equal(t, "Whey Protein Isolate", whey.Name, "first seen attribute wins")
	assert.Equal(t, "Optimum", whey.Brand)
	assert.Equal(t, "proteina", whey.Category, "category comes from the card")
	require.NotNil(t, whey.Price)
	assert.Equal(t, 25.5, *whey.Price)
	assert.Equal(t, "Fast absorbing", whey.Description)

	crea := products[1]
	assert.Equal(t, "crea-1", crea.ID)
	assert.Equal(t, "Dymatize", crea.Brand, "brand falls back to the card")
	assert.Nil(t, crea.Price)
}

func TestParseHTML_NoProducts(t *testing.T) {
	products, err := ParseHTML(context.Background(), strings.NewReader("<html><body><p>empty</p></body></html>"))
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestHTMLSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte(storefrontPage), 0o644))

	products, err := NewHTMLSource(path).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)

	_, err = NewHTMLSource(filepath.Join(t.TempDir(), "missing.html")).Load(context.Background())
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	src, err := Open("html", "x.html", nil)
	require.NoError(t, err)
	assert.IsType(t, &HTMLSource{}, src)

	src, err = Open("yaml", "x.yaml", nil)
	require.NoError(t, err)
	assert.IsType(t, &YAMLSource{}, src)

	_, err = Open("postgres", "", nil)
	assert.ErrorIs(t, err, ErrNoDatabase)

	_, err = Open("csv", "x.csv", nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

var _ Source = (*HTMLSource)(nil)
var _ Source = (*YAMLSource)(nil)
