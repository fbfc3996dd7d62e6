package cosmos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
	"go.uber.org/zap"

	"github.com/atinyakov/chat-prompt-store/internal/storage"
)

// containerAPI is the part of *azcosmos.ContainerClient the container uses.
type containerAPI interface {
	CreateItem(ctx context.Context, partitionKey azcosmos.PartitionKey, item []byte, o *azcosmos.ItemOptions) (azcosmos.ItemResponse, error)
	ReplaceItem(ctx context.Context, partitionKey azcosmos.PartitionKey, itemId string, item []byte, o *azcosmos.ItemOptions) (azcosmos.ItemResponse, error)
	NewQueryItemsPager(query string, partitionKey azcosmos.PartitionKey, o *azcosmos.QueryOptions) *runtime.Pager[azcosmos.QueryItemsResponse]
	Read(ctx context.Context, o *azcosmos.ReadContainerOptions) (azcosmos.ContainerResponse, error)
}

// Container implements storage.Container against a Cosmos DB container.
type Container struct {
	api    containerAPI
	logger *zap.Logger
}

func newContainer(api containerAPI, logger *zap.Logger) *Container {
	return &Container{
		api:    api,
		logger: logger,
	}
}

// systemFields are the server-managed properties we read back.
type systemFields struct {
	ETag string `json:"_etag"`
}

func (c *Container) Create(ctx context.Context, r storage.PromptRecord) error {
	body, err := json.Marshal(r)
	if err != nil {
		return err
	}

	resp, err := c.api.CreateItem(ctx, azcosmos.NewPartitionKeyString(r.Dept), body, nil)
	if err != nil {
		return mapError(err)
	}

	c.logger.Debug("item created", zap.String("id", r.ID), zap.Float32("requestCharge", resp.RequestCharge))
	return nil
}

func (c *Container) Query(ctx context.Context, f storage.Filter) ([]storage.PromptRecord, error) {
	query, params := buildQuery(f)

	records := make([]storage.PromptRecord, 0)
	err := c.drain(ctx, query, azcosmos.NewPartitionKeyString(f.Dept), params, func(item []byte) error {
		var r storage.PromptRecord
		if err := json.Unmarshal(item, &r); err != nil {
			return err
		}
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// Read looks the id up across partitions, since callers only know the id.
func (c *Container) Read(ctx context.Context, id string) (*storage.Document, error) {
	var doc *storage.Document

	params := []azcosmos.QueryParameter{{Name: "@id", Value: id}}
	err := c.drain(ctx, queryByID, azcosmos.NewPartitionKey(), params, func(item []byte) error {
		d, err := decodeDocument(item, "")
		if err != nil {
			return err
		}
		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	if doc == nil {
		return nil, storage.ErrDocumentNotFound
	}

	return doc, nil
}

func (c *Container) Replace(ctx context.Context, d storage.Document, opts storage.ReplaceOptions) (*storage.Document, error) {
	body, err := json.Marshal(d.Record)
	if err != nil {
		return nil, err
	}

	itemOpts := &azcosmos.ItemOptions{EnableContentResponseOnWrite: true}
	if opts.IfMatch != "" {
		etag := azcore.ETag(opts.IfMatch)
		itemOpts.IfMatchEtag = &etag
	}

	resp, err := c.api.ReplaceItem(ctx, azcosmos.NewPartitionKeyString(d.Record.Dept), d.Record.ID, body, itemOpts)
	if err != nil {
		return nil, mapError(err)
	}

	c.logger.Debug("item replaced", zap.String("id", d.Record.ID), zap.Float32("requestCharge", resp.RequestCharge))

	if len(resp.Value) == 0 {
		return &storage.Document{Record: d.Record, ETag: string(resp.ETag)}, nil
	}

	return decodeDocument(resp.Value, string(resp.ETag))
}

func (c *Container) PingContext(ctx context.Context) error {
	_, err := c.api.Read(ctx, nil)
	return mapError(err)
}

func (c *Container) drain(ctx context.Context, query string, pk azcosmos.PartitionKey, params []azcosmos.QueryParameter, each func([]byte) error) error {
	pager := c.api.NewQueryItemsPager(query, pk, &azcosmos.QueryOptions{QueryParameters: params})

	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return mapError(err)
		}

		for _, item := range page.Items {
			if err := each(item); err != nil {
				return err
			}
		}
	}

	return nil
}

// decodeDocument parses a stored item. A non-empty etag (from response
// headers) takes precedence over the _etag property in the body.
func decodeDocument(item []byte, etag string) (*storage.Document, error) {
	var d storage.Document
	if err := json.Unmarshal(item, &d.Record); err != nil {
		return nil, err
	}

	if etag == "" {
		var sys systemFields
		if err := json.Unmarshal(item, &sys); err != nil {
			return nil, err
		}
		etag = sys.ETag
	}
	d.ETag = etag

	return &d, nil
}

// mapError tags Cosmos status codes with the storage sentinels while keeping
// the *azcore.ResponseError reachable through errors.As.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var respErr *azcore.ResponseError
	if !errors.As(err, &respErr) {
		return err
	}

	switch respErr.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", storage.ErrDocumentNotFound, err)
	case http.StatusConflict:
		return fmt.Errorf("%w: %w", storage.ErrConflict, err)
	case http.StatusPreconditionFailed:
		return fmt.Errorf("%w: %w", storage.ErrPreconditionFailed, err)
	}

	return err
}
