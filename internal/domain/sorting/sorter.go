// Package sorting ordena lotes para presentación: agrupa por frecuencia de
// color y estilo y aplica el ranking de calidad propio del dominio. El orden
// es solo de despliegue (picker del almacén) y nunca afecta la persistencia.
package sorting

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tu-usuario/almacen-ventas/internal/domain/entity"
)

// Ranking de categorías de artículo. Desconocidos al final.
var itemRank = map[string]int{
	entity.ItemWeft:    0,
	entity.ItemClosure: 1,
	entity.ItemFrontal: 2,
}

const unknownItemRank = 3

// Ranking fijo de calidades para WEFT. Desconocidas al final.
var weftQualityRank = map[string]int{
	entity.QualitySDD:         0,
	entity.QualityDD:          1,
	entity.QualityVIP:         2,
	entity.QualitySingleDonor: 3,
}

const unknownWeftRank = 4

// laceSizeRe extrae el patrón "AxB" de una calidad de piezas (ej. "HD 5X5").
var laceSizeRe = regexp.MustCompile(`(\d+)X(\d+)`)

// Dentro de cada categoría de piezas el offset máximo reservado para
// calidades sin patrón AxB reconocible (quedan al final de su categoría).
const pieceCategorySpan = 1 << 20

// SortLots devuelve una copia ordenada para presentación:
//  1. grupos de color, de mayor a menor cantidad de lotes;
//  2. dentro del color, grupos de estilo, de mayor a menor;
//  3. dentro de (color, estilo): categoría de artículo, ranking de calidad
//     y pulgadas ascendentes.
func SortLots(lots []*entity.StockLot) []*entity.StockLot {
	out := make([]*entity.StockLot, len(lots))
	copy(out, lots)

	// Frecuencia y primera aparición por color y por (color, estilo);
	// la primera aparición desempata para mantener el orden estable.
	colorCount := make(map[string]int)
	colorFirst := make(map[string]int)
	styleCount := make(map[string]int)
	styleFirst := make(map[string]int)
	for i, l := range lots {
		colorCount[l.Color]++
		if _, ok := colorFirst[l.Color]; !ok {
			colorFirst[l.Color] = i
		}
		sk := l.Color + "\x00" + l.Style
		styleCount[sk]++
		if _, ok := styleFirst[sk]; !ok {
			styleFirst[sk] = i
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Color != b.Color {
			if colorCount[a.Color] != colorCount[b.Color] {
				return colorCount[a.Color] > colorCount[b.Color]
			}
			return colorFirst[a.Color] < colorFirst[b.Color]
		}
		ak := a.Color + "\x00" + a.Style
		bk := b.Color + "\x00" + b.Style
		if a.Style != b.Style {
			if styleCount[ak] != styleCount[bk] {
				return styleCount[ak] > styleCount[bk]
			}
			return styleFirst[ak] < styleFirst[bk]
		}
		ra, rb := rankItem(a.Item), rankItem(b.Item)
		if ra != rb {
			return ra < rb
		}
		qa, qb := rankQuality(a.Item, a.Quality), rankQuality(b.Item, b.Quality)
		if qa != qb {
			return qa < qb
		}
		return a.Inches < b.Inches
	})
	return out
}

func rankItem(item string) int {
	if r, ok := itemRank[normalize(item)]; ok {
		return r
	}
	return unknownItemRank
}

// rankQuality devuelve un entero comparable dentro de una categoría de
// artículo. WEFT usa el enum fijo; piezas (closures/frontales) derivan el
// ranking de la etiqueta de calidad.
func rankQuality(item, quality string) int {
	if normalize(item) == entity.ItemWeft {
		if r, ok := weftQualityRank[normalize(quality)]; ok {
			return r
		}
		return unknownWeftRank
	}
	return pieceQualityRank(quality)
}

// pieceQualityRank: categoría base por presencia de "HD" y "SINGLEDONOR"
// (simple < solo HD < solo SingleDonor < ambas), con offset dentro de la
// categoría por el área del patrón AxB (5X5 → 25). Sin patrón reconocible,
// la calidad queda al final de su categoría.
func pieceQualityRank(quality string) int {
	q := normalize(quality)
	category := 0
	if strings.Contains(q, "HD") {
		category++
	}
	if strings.Contains(q, "SINGLEDONOR") {
		category += 2
	}
	offset := pieceCategorySpan - 1
	if m := laceSizeRe.FindStringSubmatch(q); m != nil {
		w, _ := strconv.Atoi(m[1])
		h, _ := strconv.Atoi(m[2])
		offset = w * h
	}
	return category*pieceCategorySpan + offset
}

// normalize: mayúsculas y sin espacios, para que "Single Donor HD 13x4"
// y "SINGLEDONOR HD 13X4" clasifiquen igual.
func normalize(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, " ", ""))
}
