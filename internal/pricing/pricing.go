// Package pricing implementa el cálculo de precios y descuentos del carrito.
// Es la única fuente de verdad para descuentos por volumen y ofertas directas:
// POS, tienda web y resúmenes de pedido consumen estas funciones, nunca
// reimplementan la aritmética.
//
// Todas las funciones son puras: sin estado externo, sin efectos secundarios.
// Los montos se manejan con shopspring/decimal a precisión completa; el
// redondeo a 2 decimales ocurre recién en la capa de presentación (DTO).
package pricing

import "github.com/shopspring/decimal"

// UmbralCercaniaDefault es la brecha máxima de unidades para considerar que
// una línea está "cerca" de activar un descuento mayorista. Algunas pantallas
// usan un umbral distinto — ver CalcularLineaUmbral.
const UmbralCercaniaDefault = 2

// tasaIVA es la alícuota fija aplicada una sola vez sobre el subtotal ya
// descontado, nunca por línea.
var tasaIVA = decimal.New(16, -2) // 0.16

var cien = decimal.New(100, 0)

// Regla describe un descuento porcentual con cantidad mínima.
// CantidadMinima == 1 es una oferta directa; > 1 es mayorista.
type Regla struct {
	Porcentaje     decimal.Decimal
	CantidadMinima int
}

// Linea es una línea de carrito lista para calcular.
type Linea struct {
	PrecioLista decimal.Decimal
	Cantidad    int
	Regla       *Regla
}

// LineaCalculada es el resultado financiero de una línea.
type LineaCalculada struct {
	PrecioOriginal   decimal.Decimal
	PrecioFinal      decimal.Decimal
	TotalLinea       decimal.Decimal
	Ahorro           decimal.Decimal
	DescuentoActivo  bool
	EsMayorista      bool
	CercaDeDescuento bool
}

// Carrito es el agregado de un conjunto de líneas.
type Carrito struct {
	Subtotal    decimal.Decimal
	AhorroTotal decimal.Decimal
	Unidades    int
}

// sanear normaliza entradas inválidas en el borde: precio negativo y cantidad
// negativa se llevan a cero, porcentaje se acota a [0,100] y una cantidad
// mínima ausente o menor a 1 se interpreta como oferta directa (1).
// Nunca entra en pánico ni propaga valores sin sentido a los totales.
func sanear(l Linea) (precio decimal.Decimal, cantidad int, pct decimal.Decimal, minima int) {
	precio = l.PrecioLista
	if precio.IsNegative() {
		precio = decimal.Zero
	}
	cantidad = l.Cantidad
	if cantidad < 0 {
		cantidad = 0
	}
	minima = 1
	if l.Regla != nil {
		pct = l.Regla.Porcentaje
		if pct.IsNegative() {
			pct = decimal.Zero
		}
		if pct.GreaterThan(cien) {
			pct = cien
		}
		if l.Regla.CantidadMinima > 1 {
			minima = l.Regla.CantidadMinima
		}
	}
	return precio, cantidad, pct, minima
}

// CalcularLinea calcula una línea con el umbral de cercanía por defecto.
func CalcularLinea(l Linea) LineaCalculada {
	return CalcularLineaUmbral(l, UmbralCercaniaDefault)
}

// CalcularLineaUmbral calcula una línea con un umbral de cercanía explícito.
// Una regla con porcentaje 0 (o sin regla) nunca está activa, sin importar la
// cantidad. EsMayorista se deriva solo de la cantidad mínima, esté o no activo
// el descuento.
func CalcularLineaUmbral(l Linea, umbral int) LineaCalculada {
	precio, cantidad, pct, minima := sanear(l)

	activo := pct.IsPositive() && cantidad >= minima
	mayorista := minima > 1

	final := precio
	if activo {
		final = precio.Mul(cien.Sub(pct)).Div(cien)
	}

	qty := decimal.NewFromInt(int64(cantidad))
	total := final.Mul(qty)
	ahorro := precio.Sub(final).Mul(qty)

	cerca := false
	if mayorista && !activo && pct.IsPositive() {
		brecha := minima - cantidad
		cerca = brecha >= 1 && brecha <= umbral
	}

	return LineaCalculada{
		PrecioOriginal:   precio,
		PrecioFinal:      final,
		TotalLinea:       total,
		Ahorro:           ahorro,
		DescuentoActivo:  activo,
		EsMayorista:      mayorista,
		CercaDeDescuento: cerca,
	}
}

// CalcularCarrito agrega las líneas: subtotal, ahorro total y unidades.
// Unidades es la suma de cantidades, no la cantidad de líneas. El resultado
// es exactamente la suma elemento a elemento de CalcularLinea.
func CalcularCarrito(lineas []Linea) Carrito {
	c := Carrito{Subtotal: decimal.Zero, AhorroTotal: decimal.Zero}
	for _, l := range lineas {
		r := CalcularLinea(l)
		c.Subtotal = c.Subtotal.Add(r.TotalLinea)
		c.AhorroTotal = c.AhorroTotal.Add(r.Ahorro)
		_, cantidad, _, _ := sanear(l)
		c.Unidades += cantidad
	}
	return c
}

// IVA devuelve el impuesto sobre un subtotal ya descontado.
func IVA(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(tasaIVA)
}

// AplicarIVA devuelve subtotal + IVA. Se aplica una única vez sobre el
// subtotal descontado del carrito.
func AplicarIVA(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Add(IVA(subtotal))
}

// TasaIVA expone la alícuota vigente (0.16) para reportes y comprobantes.
func TasaIVA() decimal.Decimal { return tasaIVA }
