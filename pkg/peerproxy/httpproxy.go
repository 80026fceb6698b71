package peerproxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cyberforage/aprofile-scavenger/pkg/models"
)

// HTTPProxy is the reference Proxy implementation: each operation is a
// single JSON-over-HTTP request against a surrogate's scavenger
// endpoint. It is the working transport behind the interface
// pkg/colonyos/client.go modeled with TODO-stubbed method bodies —
// here those bodies are real requests.
type HTTPProxy struct {
	baseURL string
	client  *http.Client
}

// NewHTTPProxy dials nothing up front (HTTP is connectionless per
// call); it simply binds the base URL for a peer's address.
func NewHTTPProxy(addr models.Address) *HTTPProxy {
	return &HTTPProxy{
		baseURL: fmt.Sprintf("http://%s:%d", addr.Host, addr.Port),
		client:  &http.Client{},
	}
}

var _ Proxy = (*HTTPProxy)(nil)

func (p *HTTPProxy) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("peerproxy: %s %s: status %d: %s", method, path, resp.StatusCode, string(data))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (p *HTTPProxy) HasTask(ctx context.Context, name string) (bool, error) {
	var out struct {
		Has bool `json:"has"`
	}
	if err := p.do(ctx, http.MethodGet, "/tasks/"+name, nil, &out); err != nil {
		return false, err
	}
	return out.Has, nil
}

func (p *HTTPProxy) InstallTask(ctx context.Context, name, code string) error {
	body := struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}{Name: name, Code: code}
	return p.do(ctx, http.MethodPost, "/tasks", body, nil)
}

func (p *HTTPProxy) PerformTask(ctx context.Context, req PerformRequest) (PerformResult, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	wire := struct {
		TaskName    string       `json:"task_name"`
		Input       models.Input `json:"input"`
		Store       bool         `json:"store"`
		ProfileMode bool         `json:"profile_mode"`
	}{TaskName: req.TaskName, Input: req.Input, Store: req.Store, ProfileMode: req.ProfileMode}

	var out struct {
		Output             interface{} `json:"output"`
		ObservedComplexity float64     `json:"observed_complexity"`
	}
	if err := p.do(callCtx, http.MethodPost, "/tasks/"+req.TaskName+"/perform", wire, &out); err != nil {
		return PerformResult{}, err
	}
	return PerformResult{Output: out.Output, ObservedComplexity: out.ObservedComplexity}, nil
}

func (p *HTTPProxy) StoreData(ctx context.Context, data []byte) (models.RemoteDataHandle, error) {
	var out models.RemoteDataHandle
	if err := p.do(ctx, http.MethodPost, "/data", data, &out); err != nil {
		return models.RemoteDataHandle{}, err
	}
	return out, nil
}

func (p *HTTPProxy) FetchData(ctx context.Context, handle models.RemoteDataHandle) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/data/"+handle.HandleID, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("peerproxy: fetch %s: status %d: %s", handle.HandleID, resp.StatusCode, string(data))
	}
	return io.ReadAll(resp.Body)
}

func (p *HTTPProxy) RetainData(ctx context.Context, handle models.RemoteDataHandle) error {
	return p.do(ctx, http.MethodPatch, "/data/"+handle.HandleID+"/retain", nil, nil)
}

func (p *HTTPProxy) ExpireData(ctx context.Context, handle models.RemoteDataHandle) error {
	return p.do(ctx, http.MethodDelete, "/data/"+handle.HandleID, nil, nil)
}

func (p *HTTPProxy) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

// HTTPDialer builds an HTTPProxy for a given address.
type HTTPDialer struct{}

var _ Dialer = HTTPDialer{}

func (HTTPDialer) Dial(ctx context.Context, addr models.Address) (Proxy, error) {
	return NewHTTPProxy(addr), nil
}
