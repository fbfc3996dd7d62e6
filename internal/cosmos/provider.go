// Package cosmos backs the prompt container with an Azure Cosmos DB SQL API
// container partitioned by /dept.
package cosmos

import (
	"errors"

	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned by NewProvider when neither a connection
// string nor an endpoint and key were supplied.
var ErrNotConfigured = errors.New("cosmos: no connection string or endpoint/key configured")

// Options describe how to reach the account and which container to use.
type Options struct {
	ConnectionString string
	Endpoint         string
	Key              string
	Database         string
	Container        string
}

// Enabled reports whether o carries enough to build a client.
func (o Options) Enabled() bool {
	return o.ConnectionString != "" || (o.Endpoint != "" && o.Key != "")
}

// Provider owns the account client. Build one at start-up and hand the
// container it returns to whoever needs it.
type Provider struct {
	client    *azcosmos.Client
	database  string
	container string
}

func NewProvider(opts Options) (*Provider, error) {
	var (
		client *azcosmos.Client
		err    error
	)

	switch {
	case opts.ConnectionString != "":
		client, err = azcosmos.NewClientFromConnectionString(opts.ConnectionString, nil)
	case opts.Endpoint != "" && opts.Key != "":
		var cred azcosmos.KeyCredential
		cred, err = azcosmos.NewKeyCredential(opts.Key)
		if err != nil {
			return nil, err
		}
		client, err = azcosmos.NewClientWithKey(opts.Endpoint, cred, nil)
	default:
		return nil, ErrNotConfigured
	}
	if err != nil {
		return nil, err
	}

	return &Provider{
		client:    client,
		database:  opts.Database,
		container: opts.Container,
	}, nil
}

// Container returns the prompt container handle.
func (p *Provider) Container(logger *zap.Logger) (*Container, error) {
	cc, err := p.client.NewContainer(p.database, p.container)
	if err != nil {
		return nil, err
	}

	return newContainer(cc, logger.With(zap.String("database", p.database), zap.String("container", p.container))), nil
}
