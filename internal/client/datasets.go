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

// DatasetsClient implements sapi.DatasetsClient.
type DatasetsClient struct {
	httpClient *http.Client
}

// NewDatasetsClient creates a new datasets client.
func NewDatasetsClient(httpClient *http.Client) *DatasetsClient {
	return &DatasetsClient{httpClient: httpClient}
}

// Get implements sapi.DatasetsClient.Get.
func (c *DatasetsClient) Get(ctx context.Context, datasetID string) (*sapi.Dataset, error) {
	path := "/v2/datasets/" + datasetID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting dataset: %w", err)
	}

	var dataset sapi.Dataset

	err = json.Unmarshal(resp.Body, &dataset)
	if err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}

	return &dataset, nil
}

// GetOrCreate implements sapi.DatasetsClient.GetOrCreate. The endpoint is
// idempotent on the name.
func (c *DatasetsClient) GetOrCreate(ctx context.Context, name string) (*sapi.Dataset, error) {
	if name == "" {
		return nil, sapi.ErrDatasetNameRequired
	}

	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method: "POST",
		Path:   "/v2/datasets",
		Query:  url.Values{"name": []string{name}},
	})
	if err != nil {
		return nil, fmt.Errorf("creating dataset: %w", err)
	}

	var dataset sapi.Dataset

	err = json.Unmarshal(resp.Body, &dataset)
	if err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}

	return &dataset, nil
}

// Update implements sapi.DatasetsClient.Update.
func (c *DatasetsClient) Update(ctx context.Context, datasetID, name string) (*sapi.Dataset, error) {
	if name == "" {
		return nil, sapi.ErrDatasetNameRequired
	}

	path := "/v2/datasets/" + datasetID

	resp, err := c.httpClient.Put(ctx, path, map[string]string{"name": name})
	if err != nil {
		return nil, fmt.Errorf("updating dataset: %w", err)
	}

	var dataset sapi.Dataset

	err = json.Unmarshal(resp.Body, &dataset)
	if err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}

	return &dataset, nil
}

// Delete implements sapi.DatasetsClient.Delete.
func (c *DatasetsClient) Delete(ctx context.Context, datasetID string) error {
	path := "/v2/datasets/" + datasetID

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting dataset: %w", err)
	}

	return nil
}

// List implements sapi.DatasetsClient.List.
func (c *DatasetsClient) List(ctx context.Context, opts *sapi.ListOptions) (*sapi.DatasetList, error) {
	resp, err := c.httpClient.Get(ctx, "/v2/datasets", opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}

	var result sapi.DatasetList

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing datasets list: %w", err)
	}

	return &result, nil
}

// ListItems implements sapi.DatasetsClient.ListItems.
func (c *DatasetsClient) ListItems(ctx context.Context, datasetID string, opts *sapi.ListOptions) (*sapi.PaginatedList[sapi.DatasetItem], error) {
	path := "/v2/datasets/" + datasetID + "/items"

	resp, err := c.httpClient.Get(ctx, path, opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing dataset items: %w", err)
	}

	var result sapi.PaginatedList[sapi.DatasetItem]

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing dataset items: %w", err)
	}

	return &result, nil
}

// IterateItems implements sapi.DatasetsClient.IterateItems: a pull-driven
// iterator that fetches pages on demand.
func (c *DatasetsClient) IterateItems(ctx context.Context, datasetID string, opts *sapi.ListOptions) *sapi.Iterator[sapi.DatasetItem] {
	fetch := func(ctx context.Context, opts *sapi.ListOptions) (*sapi.PaginatedList[sapi.DatasetItem], error) {
		return c.ListItems(ctx, datasetID, opts)
	}

	return sapi.NewIterator(ctx, fetch, opts)
}

// CollectItems implements sapi.DatasetsClient.CollectItems.
func (c *DatasetsClient) CollectItems(ctx context.Context, datasetID string, opts *sapi.ListOptions) ([]sapi.DatasetItem, error) {
	return c.IterateItems(ctx, datasetID, opts).All()
}

// PushItems implements sapi.DatasetsClient.PushItems.
func (c *DatasetsClient) PushItems(ctx context.Context, datasetID string, items ...sapi.DatasetItem) error {
	if len(items) == 0 {
		return nil
	}

	path := "/v2/datasets/" + datasetID + "/items"

	_, err := c.httpClient.Post(ctx, path, items)
	if err != nil {
		return fmt.Errorf("pushing dataset items: %w", err)
	}

	return nil
}

// StreamItems implements sapi.DatasetsClient.StreamItems. The format is one
// of the server's export formats (json, jsonl, csv, xlsx).
func (c *DatasetsClient) StreamItems(ctx context.Context, datasetID, format string) (sapi.ByteStream, error) {
	path := "/v2/datasets/" + datasetID + "/items"

	query := url.Values{}
	if format != "" {
		query.Set("format", format)
	}

	stream, err := c.httpClient.OpenStream(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("streaming dataset items: %w", err)
	}

	return stream, nil
}

// DownloadItems implements sapi.DatasetsClient.DownloadItems: it streams an
// export into a local file. Filesystem failures surface as file errors.
func (c *DatasetsClient) DownloadItems(ctx context.Context, datasetID, format, path string) error {
	stream, err := c.StreamItems(ctx, datasetID, format)
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
			return fmt.Errorf("downloading dataset items: %w", err)
		}

		_, err = file.Write(chunk)
		if err != nil {
			return sapi.NewFileError(err)
		}
	}
}
