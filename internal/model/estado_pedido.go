package model

// Order status state machine. The happy path is strictly ordered:
// Pendiente → Confirmado → EnCamino → Completado, with pickup orders skipping
// EnCamino. Cancelado is a staff action from Pendiente/Confirmado; Expirado is
// a passive transition applied by the expiry sweep to Pendiente orders whose
// ExpiraEn elapsed.

const (
	EstadoPendiente  = 1
	EstadoConfirmado = 2
	EstadoEnCamino   = 3
	EstadoCompletado = 4
	EstadoCancelado  = 5
	EstadoExpirado   = 6
)

// ConfigEstado carries the presentation metadata for one status. Accion is
// the default forward-action label; empty means no action button.
type ConfigEstado struct {
	ID              int    `json:"id"`
	Etiqueta        string `json:"etiqueta"`
	EtiquetaPublica string `json:"etiqueta_publica"`
	Color           string `json:"color"`
	Icono           string `json:"icono"`
	Accion          string `json:"accion,omitempty"`
	Terminal        bool   `json:"terminal"`
}

var configEstados = map[int]ConfigEstado{
	EstadoPendiente: {
		ID: EstadoPendiente, Etiqueta: "Pendiente", EtiquetaPublica: "Recibimos tu pedido",
		Color: "amber", Icono: "clock", Accion: "Confirmar",
	},
	EstadoConfirmado: {
		ID: EstadoConfirmado, Etiqueta: "Confirmado", EtiquetaPublica: "Estamos preparando tu pedido",
		Color: "blue", Icono: "package", Accion: "Despachar",
	},
	EstadoEnCamino: {
		ID: EstadoEnCamino, Etiqueta: "En camino", EtiquetaPublica: "Tu pedido va en camino",
		Color: "indigo", Icono: "truck", Accion: "Entregar",
	},
	EstadoCompletado: {
		ID: EstadoCompletado, Etiqueta: "Completado", EtiquetaPublica: "Pedido entregado",
		Color: "green", Icono: "check", Terminal: true,
	},
	EstadoCancelado: {
		ID: EstadoCancelado, Etiqueta: "Cancelado", EtiquetaPublica: "Pedido cancelado",
		Color: "red", Icono: "x", Terminal: true,
	},
	EstadoExpirado: {
		ID: EstadoExpirado, Etiqueta: "Expirado", EtiquetaPublica: "Pedido expirado sin confirmación",
		Color: "gray", Icono: "hourglass", Terminal: true,
	},
}

// ConfigDeEstado looks up the presentation metadata for a status id.
// Unknown or zero ids fall back to Pendiente's config instead of failing:
// the UI always has something to render.
func ConfigDeEstado(id int) ConfigEstado {
	if c, ok := configEstados[id]; ok {
		return c
	}
	return configEstados[EstadoPendiente]
}

// EsTerminal reports whether a status admits no further transitions.
func EsTerminal(id int) bool { return ConfigDeEstado(id).Terminal }

// transiciones lists the allowed forward moves per status. EnCamino is
// fixed-path: delivery is the only way out.
var transiciones = map[int][]int{
	EstadoPendiente:  {EstadoConfirmado, EstadoCancelado, EstadoExpirado},
	EstadoConfirmado: {EstadoEnCamino, EstadoCompletado, EstadoCancelado},
	EstadoEnCamino:   {EstadoCompletado},
}

// PuedeTransicionar validates a status move. Pickup orders skip EnCamino:
// Confirmado → EnCamino requires a delivery order, and Confirmado →
// Completado requires a pickup order.
func PuedeTransicionar(de, a int, esDomicilio bool) bool {
	permitidos, ok := transiciones[de]
	if !ok {
		return false
	}
	for _, t := range permitidos {
		if t != a {
			continue
		}
		if de == EstadoConfirmado && a == EstadoEnCamino && !esDomicilio {
			return false
		}
		if de == EstadoConfirmado && a == EstadoCompletado && esDomicilio {
			return false
		}
		return true
	}
	return false
}

// SiguienteEstado returns the default forward target for a status, taking
// the delivery/pickup fork into account. Zero means no forward action.
func SiguienteEstado(de int, esDomicilio bool) int {
	switch de {
	case EstadoPendiente:
		return EstadoConfirmado
	case EstadoConfirmado:
		if esDomicilio {
			return EstadoEnCamino
		}
		return EstadoCompletado
	case EstadoEnCamino:
		return EstadoCompletado
	default:
		return 0
	}
}
