// Package pinata pins files and JSON documents to IPFS through the Pinata
// pinning API.
package pinata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/raise3/raise3/util/logger"
	"github.com/raise3/raise3/util/metrics"
)

var ErrMissingCredential = errors.New("pinata jwt is not configured")

type Config struct {
	JWT     string
	APIURL  string
	Timeout time.Duration
}

type Client struct {
	jwt    string
	apiURL string
	client *http.Client
	log    *zap.Logger
}

// NewClient fails with ErrMissingCredential when no JWT is set, so a
// command that needs pinning can stop before doing any work.
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.JWT) == "" {
		return nil, ErrMissingCredential
	}
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.pinata.cloud"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		jwt:    strings.TrimSpace(cfg.JWT),
		apiURL: strings.TrimRight(cfg.APIURL, "/"),
		client: &http.Client{Timeout: cfg.Timeout},
		log:    logger.OrNop(log).Named("pinata"),
	}, nil
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

type pinataMetadata struct {
	Name string `json:"name"`
}

func defaultName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "raise3-" + uuid.NewString()
	}
	return name
}

// PinFile uploads content as a file named name and returns its ipfs:// uri.
func (self *Client) PinFile(ctx context.Context, name string, content io.Reader) (uri string, err error) {
	defer func() { metrics.ObservePin("file", err) }()
	name = defaultName(name)

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		defer pw.Close()
		part, err := writer.CreateFormFile("file", name)
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, content); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		meta, _ := json.Marshal(pinataMetadata{Name: name})
		if err := writer.WriteField("pinataMetadata", string(meta)); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		_ = writer.Close()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, self.apiURL+"/pinning/pinFileToIPFS", pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return self.do(req, "pinFileToIPFS")
}

// PinJSON uploads document as JSON and returns its ipfs:// uri.
func (self *Client) PinJSON(ctx context.Context, name string, document any) (uri string, err error) {
	defer func() { metrics.ObservePin("json", err) }()
	body, err := json.Marshal(struct {
		PinataContent  any            `json:"pinataContent"`
		PinataMetadata pinataMetadata `json:"pinataMetadata"`
	}{
		PinataContent:  document,
		PinataMetadata: pinataMetadata{Name: defaultName(name)},
	})
	if err != nil {
		return "", fmt.Errorf("couldn't encode document: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, self.apiURL+"/pinning/pinJSONToIPFS", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	return self.do(req, "pinJSONToIPFS")
}

func (self *Client) do(req *http.Request, endpoint string) (string, error) {
	req.Header.Set("Authorization", "Bearer "+self.jwt)
	resp, err := self.client.Do(req)
	if err != nil {
		// the multipart writer may still be blocked on the pipe
		if pr, ok := req.Body.(*io.PipeReader); ok {
			_ = pr.CloseWithError(err)
		}
		return "", fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s failed: %s: %s", endpoint, resp.Status, strings.TrimSpace(string(body)))
	}
	var pinned pinResponse
	if err := json.Unmarshal(body, &pinned); err != nil {
		return "", fmt.Errorf("%s: couldn't decode response: %w", endpoint, err)
	}
	if pinned.IpfsHash == "" {
		return "", fmt.Errorf("%s returned an empty hash", endpoint)
	}
	self.log.Debug("pinned", zap.String("endpoint", endpoint), zap.String("hash", pinned.IpfsHash), zap.Int64("size", pinned.PinSize))
	return "ipfs://" + pinned.IpfsHash, nil
}
