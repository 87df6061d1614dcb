// Package mirror reads the network address book from a mirror node REST API and keeps
// the node directory in sync with it.
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerexec/ledgerexec/model/ledger"
)

const (
	nodesPath = "/api/v1/network/nodes"
	pageLimit = 25

	// plaintext gRPC port of consensus nodes
	preferredPort = 50211
)

// ErrNotFound is returned for HTTP 404 from the mirror.
var ErrNotFound = errors.New("mirror resource not found")

// StatusError is a non-success HTTP status from the mirror.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("mirror returned HTTP %d for %s", e.StatusCode, e.URL)
}

// Retryable reports whether the request may succeed if repeated.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// RequestError is a failure to exchange a request with the mirror: connection refused,
// reset, or timed out.
type RequestError struct {
	URL string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("mirror request to %s failed: %v", e.URL, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err, returned by a Client, may go away if the request
// is repeated.
func IsRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	var requestErr *RequestError
	return errors.As(err, &requestErr)
}

// Client is a mirror node REST client.
type Client struct {
	log     zerolog.Logger
	baseURL *url.URL
	http    *http.Client
}

// NewClient returns a client for the mirror at baseURL, e.g. https://mirror.example.com.
func NewClient(log zerolog.Logger, baseURL string, timeout time.Duration) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid mirror url %q: %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid mirror url %q: scheme and host are required", baseURL)
	}
	return &Client{
		log:     log.With().Str("component", "mirror_client").Str("mirror", parsed.Host).Logger(),
		baseURL: parsed,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

type nodesPage struct {
	Nodes []struct {
		NodeAccountID    string `json:"node_account_id"`
		ServiceEndpoints []struct {
			IPAddressV4 string `json:"ip_address_v4"`
			DomainName  string `json:"domain_name"`
			Port        int    `json:"port"`
		} `json:"service_endpoints"`
	} `json:"nodes"`
	Links struct {
		Next *string `json:"next"`
	} `json:"links"`
}

// AddressBook returns every node listed by the mirror, following pagination. Nodes
// without a usable endpoint are skipped.
func (c *Client) AddressBook(ctx context.Context) (ledger.NodeIdentityList, error) {
	next := c.baseURL.ResolveReference(&url.URL{
		Path:     nodesPath,
		RawQuery: url.Values{"limit": {strconv.Itoa(pageLimit)}}.Encode(),
	})

	var nodes ledger.NodeIdentityList
	for next != nil {
		var page nodesPage
		err := c.getJSON(ctx, next, &page)
		if err != nil {
			return nil, err
		}

		for _, node := range page.Nodes {
			id, err := ledger.AccountIDFromString(node.NodeAccountID)
			if err != nil {
				c.log.Warn().Err(err).Str("node_account_id", node.NodeAccountID).Msg("skipping node with malformed account id")
				continue
			}
			address := ""
			for _, endpoint := range node.ServiceEndpoints {
				host := endpoint.IPAddressV4
				if host == "" {
					host = endpoint.DomainName
				}
				if host == "" || endpoint.Port == 0 {
					continue
				}
				candidate := net.JoinHostPort(host, strconv.Itoa(endpoint.Port))
				if address == "" || endpoint.Port == preferredPort {
					address = candidate
				}
				if endpoint.Port == preferredPort {
					break
				}
			}
			if address == "" {
				c.log.Debug().Str("node_account_id", node.NodeAccountID).Msg("skipping node without service endpoint")
				continue
			}
			nodes = append(nodes, ledger.NodeIdentity{AccountID: id, Address: address})
		}

		next = nil
		if page.Links.Next != nil && *page.Links.Next != "" {
			ref, err := url.Parse(*page.Links.Next)
			if err != nil {
				return nil, fmt.Errorf("invalid next link %q: %w", *page.Links.Next, err)
			}
			next = c.baseURL.ResolveReference(ref)
		}
	}
	return nodes, nil
}

func (c *Client) getJSON(ctx context.Context, u *url.URL, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("could not build mirror request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{URL: u.String(), Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", u, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return &StatusError{StatusCode: resp.StatusCode, URL: u.String()}
	}

	err = json.NewDecoder(resp.Body).Decode(v)
	if err != nil {
		return fmt.Errorf("could not decode mirror response: %w", err)
	}
	return nil
}
