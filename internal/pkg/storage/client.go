// Package storage é o cliente do serviço de armazenamento de objetos
// (API REST compatível com Supabase Storage). Dois buckets são usados:
// `produtos` para imagens e `pdfs` para os arquivos vendidos.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client define o contrato de armazenamento consumido pelos serviços.
type Client interface {
	// Upload envia o objeto e retorna a URL pública.
	Upload(ctx context.Context, bucket, path, contentType string, body io.Reader) (string, error)
	// CreateSignedURL gera uma URL temporária de download para o objeto.
	CreateSignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error)
	// Delete remove o objeto do bucket.
	Delete(ctx context.Context, bucket, path string) error
}

// HTTPClient implementa Client contra a API REST do serviço de storage.
type HTTPClient struct {
	baseURL string // e.g. https://xyz.supabase.co/storage/v1
	apiKey  string
	http    *http.Client
}

// NewHTTPClient cria o cliente com timeout explícito nas chamadas.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Upload envia o objeto via POST /object/{bucket}/{path}.
func (c *HTTPClient) Upload(ctx context.Context, bucket, path, contentType string, body io.Reader) (string, error) {
	url := fmt.Sprintf("%s/object/%s/%s", c.baseURL, bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", fmt.Errorf("falha ao montar requisição de upload: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=3600")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("falha no upload para o bucket %s: %w", bucket, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("upload rejeitado pelo storage (status %d)", resp.StatusCode)
	}

	// URL pública do objeto recém-criado.
	return fmt.Sprintf("%s/object/public/%s/%s", c.baseURL, bucket, path), nil
}

// CreateSignedURL pede ao storage uma URL assinada via POST /object/sign/{bucket}/{path}.
func (c *HTTPClient) CreateSignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
	url := fmt.Sprintf("%s/object/sign/%s/%s", c.baseURL, bucket, path)

	payload, err := json.Marshal(map[string]int{"expiresIn": int(ttl.Seconds())})
	if err != nil {
		return "", fmt.Errorf("falha ao serializar pedido de URL assinada: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("falha ao montar requisição de URL assinada: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("falha ao pedir URL assinada: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pedido de URL assinada rejeitado (status %d)", resp.StatusCode)
	}

	var signed struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&signed); err != nil {
		return "", fmt.Errorf("resposta inválida do storage: %w", err)
	}
	if signed.SignedURL == "" {
		return "", fmt.Errorf("storage não retornou URL assinada para %s/%s", bucket, path)
	}

	// O serviço devolve o caminho relativo (/object/sign/...?token=...).
	return c.baseURL + signed.SignedURL, nil
}

// Delete remove o objeto via DELETE /object/{bucket}/{path}.
func (c *HTTPClient) Delete(ctx context.Context, bucket, path string) error {
	url := fmt.Sprintf("%s/object/%s/%s", c.baseURL, bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("falha ao montar requisição de remoção: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("falha ao remover objeto %s/%s: %w", bucket, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("remoção rejeitada pelo storage (status %d)", resp.StatusCode)
	}
	return nil
}
