package clientutils

import (
	"revq/internal/pkg/bitbucket"
	"revq/internal/pkg/client"
)

type ClientFactory struct{}

func (cf ClientFactory) DefaultClient(provider client.RepositoryProvider) (client.Client, error) {
	switch provider {
	case client.RepositoryProviderEnum.BITBUCKET:
		return bitbucket.DefaultClient()
	}

	return nil, client.ErrUnknownRepositoryProvider
}
