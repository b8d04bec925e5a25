package paddle

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	paddlesdk "github.com/PaddleHQ/paddle-go-sdk/v4"
	"github.com/jhoicas/privat-admin-api/internal/application/payments"
)

var _ payments.WebhookVerifier = (*SignatureVerifier)(nil)

// DefaultMaxSkew tolerancia entre el ts firmado y el reloj local.
const DefaultMaxSkew = 5 * time.Minute

const signatureHeaderName = "Paddle-Signature"

// SignatureVerifier valida el header Paddle-Signature ("ts=<unix>;h1=<hex>") con el verificador
// del SDK. Antes descarta firmas cuyo ts cae fuera de la ventana configurada.
type SignatureVerifier struct {
	sdk     *paddlesdk.WebhookVerifier
	enabled bool
	maxSkew time.Duration
	now     func() time.Time
}

// NewSignatureVerifier maxSkew <= 0 usa DefaultMaxSkew.
func NewSignatureVerifier(secret string, maxSkew time.Duration) *SignatureVerifier {
	if maxSkew <= 0 {
		maxSkew = DefaultMaxSkew
	}
	return &SignatureVerifier{
		sdk:     paddlesdk.NewWebhookVerifier(secret),
		enabled: secret != "",
		maxSkew: maxSkew,
		now:     time.Now,
	}
}

// WithClock reloj inyectable (tests).
func (v *SignatureVerifier) WithClock(now func() time.Time) *SignatureVerifier {
	v.now = now
	return v
}

// Verify comprueba antigüedad y firma.
func (v *SignatureVerifier) Verify(rawBody []byte, header string) error {
	if !v.enabled {
		return errors.New("PADDLE_WEBHOOK_SECRET no configurado")
	}
	ts, err := signatureTimestamp(header)
	if err != nil {
		return err
	}
	skew := v.now().Sub(ts)
	if skew < 0 {
		skew = -skew
	}
	if skew > v.maxSkew {
		return fmt.Errorf("firma fuera de la ventana de %s", v.maxSkew)
	}

	// El SDK verifica sobre un *http.Request; Fiber entrega el cuerpo crudo.
	req, err := http.NewRequest(http.MethodPost, "/", bytes.NewReader(rawBody))
	if err != nil {
		return fmt.Errorf("armar request de verificación: %w", err)
	}
	req.Header.Set(signatureHeaderName, header)
	ok, err := v.sdk.Verify(req)
	if err != nil {
		return fmt.Errorf("firma inválida: %w", err)
	}
	if !ok {
		return errors.New("h1 no coincide")
	}
	return nil
}

// SignatureHeader arma el header para ts y cuerpo, igual que Paddle (tests y herramientas de
// reenvío). El SDK solo expone la verificación.
func SignatureHeader(secret string, ts time.Time, rawBody []byte) string {
	unix := strconv.FormatInt(ts.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(unix))
	mac.Write([]byte(":"))
	mac.Write(rawBody)
	return "ts=" + unix + ";h1=" + hex.EncodeToString(mac.Sum(nil))
}

func signatureTimestamp(header string) (time.Time, error) {
	if header == "" {
		return time.Time{}, errors.New("header Paddle-Signature ausente")
	}
	for _, part := range strings.Split(header, ";") {
		k, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || k != "ts" {
			continue
		}
		sec, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("ts inválido: %q", val)
		}
		return time.Unix(sec, 0), nil
	}
	return time.Time{}, errors.New("header Paddle-Signature sin ts")
}
