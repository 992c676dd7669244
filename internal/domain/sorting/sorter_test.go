package sorting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-ventas/internal/domain/entity"
	"github.com/tu-usuario/almacen-ventas/internal/domain/sorting"
)

func lot(id, item, quality, style, color string, inches int) *entity.StockLot {
	return &entity.StockLot{
		ID:      id,
		Item:    item,
		Quality: quality,
		Style:   style,
		Color:   color,
		Inches:  inches,
	}
}

func ids(lots []*entity.StockLot) []string {
	out := make([]string, len(lots))
	for i, l := range lots {
		out[i] = l.ID
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Agrupación por frecuencia
// ──────────────────────────────────────────────────────────────────────────────

// TestSortLots_ColorMasFrecuentePrimero el color con más lotes va primero,
// aunque aparezca después en la entrada.
func TestSortLots_ColorMasFrecuentePrimero(t *testing.T) {
	in := []*entity.StockLot{
		lot("a", entity.ItemWeft, entity.QualitySDD, "Liso", "Rubio", 18),
		lot("b", entity.ItemWeft, entity.QualitySDD, "Liso", "Negro", 18),
		lot("c", entity.ItemWeft, entity.QualitySDD, "Liso", "Negro", 20),
		lot("d", entity.ItemWeft, entity.QualitySDD, "Liso", "Negro", 22),
	}

	out := sorting.SortLots(in)

	assert.Equal(t, []string{"b", "c", "d", "a"}, ids(out),
		"Negro (3 lotes) debe agrupar antes que Rubio (1 lote)")
}

// TestSortLots_EmpateDeColorPorPrimeraAparicion con frecuencias iguales
// gana el color que apareció primero en la entrada.
func TestSortLots_EmpateDeColorPorPrimeraAparicion(t *testing.T) {
	in := []*entity.StockLot{
		lot("a", entity.ItemWeft, entity.QualitySDD, "Liso", "Rubio", 18),
		lot("b", entity.ItemWeft, entity.QualitySDD, "Liso", "Negro", 18),
	}

	out := sorting.SortLots(in)

	assert.Equal(t, []string{"a", "b"}, ids(out))
}

// TestSortLots_EstiloMasFrecuenteDentroDelColor dentro de un color, el
// estilo con más lotes agrupa primero.
func TestSortLots_EstiloMasFrecuenteDentroDelColor(t *testing.T) {
	in := []*entity.StockLot{
		lot("a", entity.ItemWeft, entity.QualitySDD, "Liso", "Negro", 18),
		lot("b", entity.ItemWeft, entity.QualitySDD, "Ondulado", "Negro", 18),
		lot("c", entity.ItemWeft, entity.QualitySDD, "Ondulado", "Negro", 20),
	}

	out := sorting.SortLots(in)

	assert.Equal(t, []string{"b", "c", "a"}, ids(out))
}

// ──────────────────────────────────────────────────────────────────────────────
// Ranking dentro de (color, estilo)
// ──────────────────────────────────────────────────────────────────────────────

// TestSortLots_CategoriaDeArticulo WEFT antes que CLOSURE antes que FRONTAL.
func TestSortLots_CategoriaDeArticulo(t *testing.T) {
	in := []*entity.StockLot{
		lot("f", entity.ItemFrontal, "HD 13X4", "Liso", "Negro", 18),
		lot("c", entity.ItemClosure, "HD 5X5", "Liso", "Negro", 18),
		lot("w", entity.ItemWeft, entity.QualitySDD, "Liso", "Negro", 18),
	}

	out := sorting.SortLots(in)

	assert.Equal(t, []string{"w", "c", "f"}, ids(out))
}

// TestSortLots_CalidadWeftEnumFijo SDD < DD < VIP < SINGLEDONOR.
func TestSortLots_CalidadWeftEnumFijo(t *testing.T) {
	in := []*entity.StockLot{
		lot("sd", entity.ItemWeft, entity.QualitySingleDonor, "Liso", "Negro", 18),
		lot("vip", entity.ItemWeft, entity.QualityVIP, "Liso", "Negro", 18),
		lot("dd", entity.ItemWeft, entity.QualityDD, "Liso", "Negro", 18),
		lot("sdd", entity.ItemWeft, entity.QualitySDD, "Liso", "Negro", 18),
	}

	out := sorting.SortLots(in)

	assert.Equal(t, []string{"sdd", "dd", "vip", "sd"}, ids(out))
}

// TestSortLots_CalidadPiezasPorCategoriaYArea para closures/frontales:
// simple < HD < SingleDonor < SingleDonor HD, y dentro de cada categoría el
// área AxB ascendente.
func TestSortLots_CalidadPiezasPorCategoriaYArea(t *testing.T) {
	in := []*entity.StockLot{
		lot("sdhd", entity.ItemClosure, "SINGLE DONOR HD 5X5", "Liso", "Negro", 18),
		lot("sd", entity.ItemClosure, "SINGLE DONOR 5X5", "Liso", "Negro", 18),
		lot("hd6", entity.ItemClosure, "HD 6X6", "Liso", "Negro", 18),
		lot("hd4", entity.ItemClosure, "HD 4X4", "Liso", "Negro", 18),
		lot("simple", entity.ItemClosure, "5X5", "Liso", "Negro", 18),
	}

	out := sorting.SortLots(in)

	assert.Equal(t, []string{"simple", "hd4", "hd6", "sd", "sdhd"}, ids(out))
}

// TestSortLots_CalidadPiezasSinPatronAlFinalDeSuCategoria una calidad sin
// AxB reconocible queda al final de su categoría, no al final absoluto.
func TestSortLots_CalidadPiezasSinPatronAlFinalDeSuCategoria(t *testing.T) {
	in := []*entity.StockLot{
		lot("sd", entity.ItemClosure, "SINGLE DONOR 4X4", "Liso", "Negro", 18),
		lot("hdx", entity.ItemClosure, "HD PREMIUM", "Liso", "Negro", 18),
		lot("hd5", entity.ItemClosure, "HD 5X5", "Liso", "Negro", 18),
	}

	out := sorting.SortLots(in)

	assert.Equal(t, []string{"hd5", "hdx", "sd"}, ids(out),
		"HD sin patrón va después de HD 5X5 pero antes de SINGLE DONOR")
}

// TestSortLots_PulgadasAscendentes el último criterio son las pulgadas.
func TestSortLots_PulgadasAscendentes(t *testing.T) {
	in := []*entity.StockLot{
		lot("l22", entity.ItemWeft, entity.QualitySDD, "Liso", "Negro", 22),
		lot("l18", entity.ItemWeft, entity.QualitySDD, "Liso", "Negro", 18),
		lot("l20", entity.ItemWeft, entity.QualitySDD, "Liso", "Negro", 20),
	}

	out := sorting.SortLots(in)

	assert.Equal(t, []string{"l18", "l20", "l22"}, ids(out))
}

// TestSortLots_NormalizaMayusculasYEspacios "single donor hd 13x4" y
// "SINGLEDONOR HD 13X4" deben clasificar idéntico.
func TestSortLots_NormalizaMayusculasYEspacios(t *testing.T) {
	a := []*entity.StockLot{
		lot("x", entity.ItemFrontal, "single donor hd 13x4", "Liso", "Negro", 18),
		lot("y", entity.ItemFrontal, "HD 13X4", "Liso", "Negro", 18),
	}
	b := []*entity.StockLot{
		lot("x", entity.ItemFrontal, "SINGLEDONOR HD 13X4", "Liso", "Negro", 18),
		lot("y", entity.ItemFrontal, "hd 13x4", "Liso", "Negro", 18),
	}

	assert.Equal(t, ids(sorting.SortLots(a)), ids(sorting.SortLots(b)))
	assert.Equal(t, []string{"y", "x"}, ids(sorting.SortLots(a)))
}

// TestSortLots_NoMutaLaEntrada el orden es solo de despliegue: la lista
// original no cambia.
func TestSortLots_NoMutaLaEntrada(t *testing.T) {
	in := []*entity.StockLot{
		lot("b", entity.ItemWeft, entity.QualitySDD, "Liso", "Negro", 20),
		lot("a", entity.ItemWeft, entity.QualitySDD, "Liso", "Negro", 18),
	}

	out := sorting.SortLots(in)

	require.Equal(t, []string{"a", "b"}, ids(out))
	assert.Equal(t, []string{"b", "a"}, ids(in), "la entrada debe conservar su orden")
}

func TestSortLots_EntradaVacia(t *testing.T) {
	assert.Empty(t, sorting.SortLots(nil))
}
