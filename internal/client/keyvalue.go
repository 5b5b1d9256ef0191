package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/scrapeworks-io/sapi/internal/http"
	"github.com/scrapeworks-io/sapi/pkg/sapi"
)

// KeyValueStoresClient implements sapi.KeyValueStoresClient.
type KeyValueStoresClient struct {
	httpClient *http.Client
}

// NewKeyValueStoresClient creates a new key-value stores client.
func NewKeyValueStoresClient(httpClient *http.Client) *KeyValueStoresClient {
	return &KeyValueStoresClient{httpClient: httpClient}
}

// Get implements sapi.KeyValueStoresClient.Get.
func (c *KeyValueStoresClient) Get(ctx context.Context, storeID string) (*sapi.KeyValueStore, error) {
	path := "/v2/key-value-stores/" + storeID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting key-value store: %w", err)
	}

	var store sapi.KeyValueStore

	err = json.Unmarshal(resp.Body, &store)
	if err != nil {
		return nil, fmt.Errorf("parsing key-value store: %w", err)
	}

	return &store, nil
}

// GetOrCreate implements sapi.KeyValueStoresClient.GetOrCreate.
func (c *KeyValueStoresClient) GetOrCreate(ctx context.Context, name string) (*sapi.KeyValueStore, error) {
	if name == "" {
		return nil, sapi.ErrStoreNameRequired
	}

	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method: "POST",
		Path:   "/v2/key-value-stores",
		Query:  url.Values{"name": []string{name}},
	})
	if err != nil {
		return nil, fmt.Errorf("creating key-value store: %w", err)
	}

	var store sapi.KeyValueStore

	err = json.Unmarshal(resp.Body, &store)
	if err != nil {
		return nil, fmt.Errorf("parsing key-value store: %w", err)
	}

	return &store, nil
}

// Delete implements sapi.KeyValueStoresClient.Delete.
func (c *KeyValueStoresClient) Delete(ctx context.Context, storeID string) error {
	path := "/v2/key-value-stores/" + storeID

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting key-value store: %w", err)
	}

	return nil
}

// List implements sapi.KeyValueStoresClient.List.
func (c *KeyValueStoresClient) List(ctx context.Context, opts *sapi.ListOptions) (*sapi.PaginatedList[sapi.KeyValueStore], error) {
	resp, err := c.httpClient.Get(ctx, "/v2/key-value-stores", opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing key-value stores: %w", err)
	}

	var result sapi.PaginatedList[sapi.KeyValueStore]

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing key-value stores list: %w", err)
	}

	return &result, nil
}

// ListKeys implements sapi.KeyValueStoresClient.ListKeys. Key listings page
// by exclusive start key rather than numeric offset.
func (c *KeyValueStoresClient) ListKeys(ctx context.Context, storeID string, opts *sapi.ListOptions) (*sapi.PaginatedList[sapi.StoreKey], error) {
	path := "/v2/key-value-stores/" + storeID + "/keys"

	resp, err := c.httpClient.Get(ctx, path, opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing store keys: %w", err)
	}

	var result sapi.PaginatedList[sapi.StoreKey]

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing store keys: %w", err)
	}

	return &result, nil
}

// GetRecord implements sapi.KeyValueStoresClient.GetRecord. Record bodies
// are opaque; the content type comes from the response headers.
func (c *KeyValueStoresClient) GetRecord(ctx context.Context, storeID, key string) (*sapi.StoreRecord, error) {
	if key == "" {
		return nil, sapi.ErrRecordKeyRequired
	}

	path := "/v2/key-value-stores/" + storeID + "/records/" + url.PathEscape(key)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}

	return &sapi.StoreRecord{
		Key:         key,
		Value:       resp.Body,
		ContentType: resp.Headers.Get("Content-Type"),
	}, nil
}

// StreamRecord implements sapi.KeyValueStoresClient.StreamRecord.
func (c *KeyValueStoresClient) StreamRecord(ctx context.Context, storeID, key string) (sapi.ByteStream, error) {
	if key == "" {
		return nil, sapi.ErrRecordKeyRequired
	}

	path := "/v2/key-value-stores/" + storeID + "/records/" + url.PathEscape(key)

	stream, err := c.httpClient.OpenStream(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("streaming record: %w", err)
	}

	return stream, nil
}

// DownloadRecord implements sapi.KeyValueStoresClient.DownloadRecord: it
// streams a record into a local file. Filesystem failures surface as file
// errors.
func (c *KeyValueStoresClient) DownloadRecord(ctx context.Context, storeID, key, path string) error {
	stream, err := c.StreamRecord(ctx, storeID, key)
	if err != nil {
		return err
	}

	defer func() { _ = stream.Close() }()

	file, err := os.Create(path)
	if err != nil {
		return sapi.NewFileError(err)
	}

	defer func() { _ = file.Close() }()

	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			return nil
		}

		if err != nil {
			return fmt.Errorf("downloading record: %w", err)
		}

		_, err = file.Write(chunk)
		if err != nil {
			return sapi.NewFileError(err)
		}
	}
}

// SetRecord implements sapi.KeyValueStoresClient.SetRecord.
func (c *KeyValueStoresClient) SetRecord(ctx context.Context, storeID, key string, value []byte, contentType string) error {
	if key == "" {
		return sapi.ErrRecordKeyRequired
	}

	path := "/v2/key-value-stores/" + storeID + "/records/" + url.PathEscape(key)

	_, err := c.httpClient.PutRaw(ctx, path, value, contentType)
	if err != nil {
		return fmt.Errorf("setting record: %w", err)
	}

	return nil
}

// DeleteRecord implements sapi.KeyValueStoresClient.DeleteRecord.
func (c *KeyValueStoresClient) DeleteRecord(ctx context.Context, storeID, key string) error {
	if key == "" {
		return sapi.ErrRecordKeyRequired
	}

	path := "/v2/key-value-stores/" + storeID + "/records/" + url.PathEscape(key)

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}

	return nil
}
