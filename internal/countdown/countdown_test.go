package countdown

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpiracion_ConZona(t *testing.T) {
	got, err := ParseExpiracion("2026-03-01T12:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), got)
}

func TestParseExpiracion_SinZonaSeAsumeUTC(t *testing.T) {
	// El backend a veces omite la "Z"; debe interpretarse como UTC igual.
	got, err := ParseExpiracion("2026-03-01T12:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), got)
}

func TestParseExpiracion_Invalido(t *testing.T) {
	_, err := ParseExpiracion("no-es-fecha")
	assert.Error(t, err)
}

func TestHasta_Desglose(t *testing.T) {
	ahora := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	r := Hasta(ahora.Add(73*time.Hour+5*time.Minute+9*time.Second), ahora)
	assert.False(t, r.Expirado)
	// Horas sin acotar a 24.
	assert.Equal(t, 73, r.Horas)
	assert.Equal(t, 5, r.Minutos)
	assert.Equal(t, 9, r.Segundos)
}

func TestHasta_Vencido(t *testing.T) {
	ahora := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	r := Hasta(ahora.Add(-10*time.Second), ahora)
	assert.True(t, r.Expirado)
	assert.Zero(t, r.Horas)
	assert.Zero(t, r.Minutos)
	assert.Zero(t, r.Segundos)

	// Exactamente en cero también cuenta como expirado.
	assert.True(t, Hasta(ahora, ahora).Expirado)
}

func TestTemporizador_DisparaUnaSolaVez(t *testing.T) {
	var disparos int32
	tm := NewTemporizador(time.Now().Add(-10*time.Second), func() {
		atomic.AddInt32(&disparos, 1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Iniciar dos veces no duplica el callback.
	tm.Iniciar(ctx)
	tm.Iniciar(ctx)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&disparos) == 1
	}, time.Second, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&disparos))
}

func TestTemporizador_FuturoCercano(t *testing.T) {
	var disparos int32
	tm := NewTemporizador(time.Now().Add(30*time.Millisecond), func() {
		atomic.AddInt32(&disparos, 1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tm.Iniciar(ctx)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&disparos) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestTemporizador_CancelacionNoDispara(t *testing.T) {
	var disparos int32
	tm := NewTemporizador(time.Now().Add(time.Hour), func() {
		atomic.AddInt32(&disparos, 1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	tm.Iniciar(ctx)
	cancel()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&disparos))
}
