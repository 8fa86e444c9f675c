// Package countdown maneja el tiempo restante de pedidos pendientes: parseo
// del vencimiento, desglose en horas/minutos/segundos para las tarjetas de
// seguimiento, y un temporizador que dispara el callback de expiración
// exactamente una vez.
package countdown

import (
	"context"
	"strings"
	"sync"
	"time"
)

// ParseExpiracion interpreta un timestamp ISO-8601. Backends y clientes suelen
// omitir el sufijo de zona; un timestamp sin zona se interpreta siempre como
// UTC para que el conteo no dependa de la zona del servidor.
func ParseExpiracion(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	// Sin zona: normalizar a UTC agregando la "Z" faltante.
	if t, err := time.Parse(time.RFC3339, s+"Z"); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}

// Restante es el desglose del tiempo que falta hasta un vencimiento.
// Horas no está acotado a 24: un pedido con 3 días de plazo reporta 72+.
type Restante struct {
	Horas    int
	Minutos  int
	Segundos int
	Expirado bool
}

// Hasta calcula los segundos enteros entre ahora y el vencimiento.
func Hasta(expira, ahora time.Time) Restante {
	seg := int(expira.Sub(ahora) / time.Second)
	if seg <= 0 {
		return Restante{Expirado: true}
	}
	return Restante{
		Horas:    seg / 3600,
		Minutos:  (seg % 3600) / 60,
		Segundos: seg % 60,
	}
}

// Temporizador observa un vencimiento y dispara alExpirar una única vez
// cuando el tiempo restante cruza cero, luego deja de actualizar.
type Temporizador struct {
	expira    time.Time
	alExpirar func()
	una       sync.Once
}

func NewTemporizador(expira time.Time, alExpirar func()) *Temporizador {
	return &Temporizador{expira: expira, alExpirar: alExpirar}
}

// Restante devuelve el desglose actual.
func (t *Temporizador) Restante() Restante {
	return Hasta(t.expira, time.Now().UTC())
}

// Iniciar lanza la goroutine de conteo. Respeta el contexto para apagado
// limpio; si el vencimiento ya pasó dispara de inmediato. El callback corre
// a lo sumo una vez aunque Iniciar se llame más de una vez.
func (t *Temporizador) Iniciar(ctx context.Context) {
	go func() {
		resto := time.Until(t.expira)
		if resto <= 0 {
			t.disparar()
			return
		}
		timer := time.NewTimer(resto)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
			t.disparar()
		}
	}()
}

func (t *Temporizador) disparar() {
	t.una.Do(func() {
		if t.alExpirar != nil {
			t.alExpirar()
		}
	})
}
