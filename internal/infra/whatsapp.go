package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// MensajeWhatsApp is sent to the WhatsApp gateway sidecar, which owns the
// session with the WhatsApp Business API. Keeping that session out of this
// backend isolates gateway failures from checkout.
type MensajeWhatsApp struct {
	Telefono string `json:"telefono"`
	Texto    string `json:"texto"`
}

// RespuestaWhatsApp is returned by the gateway after attempting delivery.
type RespuestaWhatsApp struct {
	Enviado   bool   `json:"enviado"`
	MensajeID string `json:"mensaje_id"`
	Error     string `json:"error,omitempty"`
}

// WhatsAppClient is an HTTP client for the gateway sidecar.
type WhatsAppClient struct {
	gatewayURL string
	httpClient *http.Client
}

func NewWhatsAppClient(gatewayURL string) *WhatsAppClient {
	return &WhatsAppClient{
		gatewayURL: gatewayURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Enviar posts a message to the gateway and returns its delivery result.
func (c *WhatsAppClient) Enviar(ctx context.Context, msg MensajeWhatsApp) (*RespuestaWhatsApp, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: marshal mensaje: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL+"/enviar", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("whatsapp: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whatsapp: gateway returned %d", resp.StatusCode)
	}

	var result RespuestaWhatsApp
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("whatsapp: decode response: %w", err)
	}
	if !result.Enviado {
		return &result, fmt.Errorf("whatsapp: gateway rechazó el mensaje: %s", result.Error)
	}
	return &result, nil
}
