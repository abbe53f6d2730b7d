package executor

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/studiowebux/treeplot/internal/collector"
	"github.com/studiowebux/treeplot/internal/types"
)

// ContentTypeForm is the request content type for insertions
const ContentTypeForm = "application/x-www-form-urlencoded"

// DefaultTimeout applies when no timeout is configured
const DefaultTimeout = 30 * time.Second

// Dispatcher posts insertions to the tree service
type Dispatcher struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewDispatcher creates a dispatcher for the service at baseURL
func NewDispatcher(baseURL string, tlsConfig *types.TLSConfig, timeout time.Duration) (*Dispatcher, error) {
	client, err := buildHTTPClient(tlsConfig, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
	}
	return &Dispatcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  slog.New(slog.DiscardHandler),
	}, nil
}

// WithLogger sets the logger used for request tracing
func (d *Dispatcher) WithLogger(l *slog.Logger) *Dispatcher {
	d.logger = l
	return d
}

// BaseURL returns the service address
func (d *Dispatcher) BaseURL() string {
	return d.baseURL
}

// Dispatch sends one insertion and waits for the response. Transport
// failures are reported in the result; the error is non-nil only when the
// request cannot be built, e.g. for a malformed base URL.
func (d *Dispatcher) Dispatch(ctx context.Context, sub collector.Submission) (*types.RequestResult, error) {
	url := d.baseURL + sub.Endpoint
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(sub.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", ContentTypeForm)

	result := &types.RequestResult{
		Seq:         sub.Seq,
		Mode:        sub.Record.Mode(),
		URL:         url,
		RequestSize: len(sub.Body),
	}

	d.logger.Debug("dispatch", "seq", sub.Seq, "url", url, "body", sub.Body)

	startTime := time.Now()
	resp, err := d.client.Do(httpReq)
	if err != nil {
		result.Duration = time.Since(startTime).Milliseconds()
		result.Error = err.Error()
		d.logger.Debug("dispatch failed", "seq", sub.Seq, "error", err)
		return result, nil
	}
	defer resp.Body.Close()

	result.Status = resp.StatusCode
	result.StatusText = resp.Status

	bodyBytes, err := io.ReadAll(resp.Body)
	result.Duration = time.Since(startTime).Milliseconds()
	if err != nil {
		result.Error = fmt.Sprintf("failed to read response body: %v", err)
		return result, nil
	}

	result.Body = string(bodyBytes)
	result.ResponseSize = len(bodyBytes)

	d.logger.Debug("dispatch complete", "seq", sub.Seq, "status", resp.StatusCode, "bytes", len(bodyBytes), "ms", result.Duration)
	return result, nil
}

// Fetch issues a GET to path on the tree service and returns the body. Unlike
// Dispatch, a transport failure or a non-200 status is an error.
func (d *Dispatcher) Fetch(ctx context.Context, path string) (string, error) {
	url := d.baseURL + path
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET %s: %s", path, resp.Status)
	}
	return string(body), nil
}

// buildHTTPClient creates an HTTP client with optional TLS/mTLS configuration
func buildHTTPClient(tlsConfig *types.TLSConfig, timeout time.Duration) (*http.Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := &http.Transport{}

	if tlsConfig != nil {
		tlsCfg := &tls.Config{
			InsecureSkipVerify: tlsConfig.InsecureSkipVerify,
		}

		// Load client certificate if provided (for mTLS)
		if tlsConfig.CertFile != "" && tlsConfig.KeyFile != "" {
			cert, err := tls.LoadX509KeyPair(tlsConfig.CertFile, tlsConfig.KeyFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load client certificate: %w", err)
			}
			tlsCfg.Certificates = []tls.Certificate{cert}
		}

		if tlsConfig.CAFile != "" {
			caCert, err := os.ReadFile(tlsConfig.CAFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read CA certificate: %w", err)
			}
			caCertPool := x509.NewCertPool()
			if !caCertPool.AppendCertsFromPEM(caCert) {
				return nil, fmt.Errorf("failed to parse CA certificate")
			}
			tlsCfg.RootCAs = caCertPool
		}

		transport.TLSClientConfig = tlsCfg
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, nil
}
