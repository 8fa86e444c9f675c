package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func TestCalcularLinea_SinRegla(t *testing.T) {
	r := CalcularLinea(Linea{PrecioLista: d("100"), Cantidad: 3})

	assert.False(t, r.DescuentoActivo)
	assert.False(t, r.EsMayorista)
	assert.True(t, r.PrecioFinal.Equal(d("100")))
	assert.True(t, r.TotalLinea.Equal(d("300")))
	assert.True(t, r.Ahorro.IsZero())
}

func TestCalcularLinea_PorcentajeCero(t *testing.T) {
	// Una regla con porcentaje 0 nunca activa, por más cantidad que haya.
	r := CalcularLinea(Linea{
		PrecioLista: d("100"),
		Cantidad:    9999,
		Regla:       &Regla{Porcentaje: decimal.Zero, CantidadMinima: 1},
	})

	assert.False(t, r.DescuentoActivo)
	assert.True(t, r.PrecioFinal.Equal(d("100")))
	assert.True(t, r.Ahorro.IsZero())
}

func TestCalcularLinea_MayoristaInactivo(t *testing.T) {
	r := CalcularLinea(Linea{
		PrecioLista: d("100"),
		Cantidad:    1,
		Regla:       &Regla{Porcentaje: d("10"), CantidadMinima: 5},
	})

	assert.False(t, r.DescuentoActivo)
	assert.True(t, r.EsMayorista)
	assert.True(t, r.PrecioFinal.Equal(d("100")))
	assert.True(t, r.TotalLinea.Equal(d("100")))
	assert.True(t, r.Ahorro.IsZero())
	// brecha = 4 > umbral default (2)
	assert.False(t, r.CercaDeDescuento)
}

func TestCalcularLinea_MayoristaActivo(t *testing.T) {
	r := CalcularLinea(Linea{
		PrecioLista: d("100"),
		Cantidad:    5,
		Regla:       &Regla{Porcentaje: d("10"), CantidadMinima: 5},
	})

	assert.True(t, r.DescuentoActivo)
	assert.True(t, r.EsMayorista)
	assert.True(t, r.PrecioFinal.Equal(d("90")), "precio final %s", r.PrecioFinal)
	assert.True(t, r.TotalLinea.Equal(d("450")))
	assert.True(t, r.Ahorro.Equal(d("50")))
	assert.False(t, r.CercaDeDescuento)
}

func TestCalcularLinea_OfertaDirecta(t *testing.T) {
	// CantidadMinima 1: activa desde la primera unidad, no es mayorista.
	r := CalcularLinea(Linea{
		PrecioLista: d("50"),
		Cantidad:    3,
		Regla:       &Regla{Porcentaje: d("20"), CantidadMinima: 1},
	})

	assert.True(t, r.DescuentoActivo)
	assert.False(t, r.EsMayorista)
	assert.True(t, r.PrecioFinal.Equal(d("40")))
	assert.True(t, r.TotalLinea.Equal(d("120")))
	assert.True(t, r.Ahorro.Equal(d("30")))
}

func TestCalcularLinea_CantidadMinimaAusente(t *testing.T) {
	// Sin cantidad mínima explícita la regla se trata como oferta directa.
	r := CalcularLinea(Linea{
		PrecioLista: d("10"),
		Cantidad:    1,
		Regla:       &Regla{Porcentaje: d("50")},
	})

	assert.True(t, r.DescuentoActivo)
	assert.False(t, r.EsMayorista)
	assert.True(t, r.PrecioFinal.Equal(d("5")))
}

func TestCalcularLinea_CercaDeDescuento(t *testing.T) {
	casos := []struct {
		nombre   string
		cantidad int
		umbral   int
		cerca    bool
	}{
		{"brecha 1 dentro del umbral", 4, UmbralCercaniaDefault, true},
		{"brecha 2 dentro del umbral", 3, UmbralCercaniaDefault, true},
		{"brecha 3 fuera del umbral", 2, UmbralCercaniaDefault, false},
		{"brecha 4 con umbral amplio", 1, 10, true},
		{"ya activo no es cercano", 5, UmbralCercaniaDefault, false},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			r := CalcularLineaUmbral(Linea{
				PrecioLista: d("100"),
				Cantidad:    c.cantidad,
				Regla:       &Regla{Porcentaje: d("10"), CantidadMinima: 5},
			}, c.umbral)
			assert.Equal(t, c.cerca, r.CercaDeDescuento)
		})
	}
}

func TestCalcularLinea_CercaNoAplicaAPorcentajeCero(t *testing.T) {
	r := CalcularLinea(Linea{
		PrecioLista: d("100"),
		Cantidad:    4,
		Regla:       &Regla{Porcentaje: decimal.Zero, CantidadMinima: 5},
	})
	assert.False(t, r.CercaDeDescuento)
}

func TestCalcularLinea_EntradasInvalidas(t *testing.T) {
	// Precio y cantidad negativos se llevan a cero; nunca pánico ni NaN.
	r := CalcularLinea(Linea{
		PrecioLista: d("-10"),
		Cantidad:    -4,
		Regla:       &Regla{Porcentaje: d("150"), CantidadMinima: -3},
	})

	assert.True(t, r.PrecioOriginal.IsZero())
	assert.True(t, r.TotalLinea.IsZero())
	assert.True(t, r.Ahorro.IsZero())
}

func TestCalcularLinea_EsPura(t *testing.T) {
	l := Linea{
		PrecioLista: d("99.99"),
		Cantidad:    7,
		Regla:       &Regla{Porcentaje: d("12.5"), CantidadMinima: 6},
	}
	a := CalcularLinea(l)
	b := CalcularLinea(l)
	assert.Equal(t, a, b)
}

func TestCalcularCarrito_SumaElementoAElemento(t *testing.T) {
	lineas := []Linea{
		{PrecioLista: d("100"), Cantidad: 1, Regla: &Regla{Porcentaje: d("10"), CantidadMinima: 5}},
		{PrecioLista: d("100"), Cantidad: 5, Regla: &Regla{Porcentaje: d("10"), CantidadMinima: 5}},
	}

	c := CalcularCarrito(lineas)

	assert.True(t, c.Subtotal.Equal(d("550")), "subtotal %s", c.Subtotal)
	assert.True(t, c.AhorroTotal.Equal(d("50")))
	assert.Equal(t, 6, c.Unidades)

	// Consistencia con el cálculo por línea.
	suma := decimal.Zero
	for _, l := range lineas {
		suma = suma.Add(CalcularLinea(l).TotalLinea)
	}
	assert.True(t, c.Subtotal.Equal(suma))
}

func TestCalcularCarrito_Vacio(t *testing.T) {
	c := CalcularCarrito(nil)
	assert.True(t, c.Subtotal.IsZero())
	assert.True(t, c.AhorroTotal.IsZero())
	assert.Equal(t, 0, c.Unidades)
}

func TestIVA(t *testing.T) {
	assert.True(t, IVA(d("100")).Equal(d("16")))
	assert.True(t, AplicarIVA(d("550")).Equal(d("638")))
	// El IVA se aplica una sola vez sobre el subtotal descontado.
	assert.True(t, AplicarIVA(d("0")).IsZero())
}

func TestPrecisionSinRedondeoAcumulado(t *testing.T) {
	// 1000 líneas de 0.10 con 33.33% de descuento: la acumulación interna
	// mantiene precisión completa, sin arrastre de redondeo por línea.
	lineas := make([]Linea, 1000)
	for i := range lineas {
		lineas[i] = Linea{
			PrecioLista: d("0.10"),
			Cantidad:    1,
			Regla:       &Regla{Porcentaje: d("33.33"), CantidadMinima: 1},
		}
	}
	c := CalcularCarrito(lineas)
	// 0.10 * (1 - 0.3333) * 1000 = 66.67 exacto
	assert.True(t, c.Subtotal.Equal(d("66.67")), "subtotal %s", c.Subtotal)
}
