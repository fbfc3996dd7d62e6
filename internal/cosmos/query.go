package cosmos

import (
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"

	"github.com/atinyakov/chat-prompt-store/internal/storage"
)

const (
	queryByUser = "SELECT * FROM c WHERE c.dept = @dept AND c.usename = @usename AND c.isDeleted = @isDeleted ORDER BY c.sortOrder ASC"
	queryByDept = "SELECT * FROM c WHERE c.dept = @dept AND c.isDeleted = @isDeleted ORDER BY c.sortOrder ASC"
	queryByID   = "SELECT * FROM c WHERE c.id = @id"
)

// buildQuery returns the SQL text and parameters selecting active prompts
// for f. Both forms stay inside the f.Dept partition.
func buildQuery(f storage.Filter) (string, []azcosmos.QueryParameter) {
	if f.ByUser {
		return queryByUser, []azcosmos.QueryParameter{
			{Name: "@dept", Value: f.Dept},
			{Name: "@usename", Value: f.Usename},
			{Name: "@isDeleted", Value: false},
		}
	}

	return queryByDept, []azcosmos.QueryParameter{
		{Name: "@dept", Value: f.Dept},
		{Name: "@isDeleted", Value: false},
	}
}
