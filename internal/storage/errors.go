package storage

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// ErrNotFound indicates the (tipo, id) key does not exist in the table.
var ErrNotFound = errors.New("record not found")

// ErrConditionFailed indicates a conditional write lost (e.g. insert-if-absent
// hit an existing key).
var ErrConditionFailed = errors.New("conditional check failed")

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException"
}
