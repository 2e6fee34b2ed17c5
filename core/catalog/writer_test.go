package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUpdatePrice_Success tests a clean price mutation.
func TestUpdatePrice_Success(t *testing.T) {
	runner := &fakeRunner{responses: []string{`{
		"productVariantsBulkUpdate": {
			"productVariants": [{"id": "gid://variant/1", "price": "12.00"}],
			"userErrors": []
		}
	}`}}

	err := newTestCatalogClient(runner).UpdatePrice(context.Background(),
		"gid://product/1", "gid://variant/1", decimal.NewFromInt(12))
	assert.NoError(t, err)
}

// TestUpdatePrice_UserErrors tests that API validation errors surface as a
// structured *WriteError.
func TestUpdatePrice_UserErrors(t *testing.T) {
	runner := &fakeRunner{responses: []string{`{
		"productVariantsBulkUpdate": {
			"productVariants": [],
			"userErrors": [{"field": ["variants", "price"], "message": "Price must be positive"}]
		}
	}`}}

	err := newTestCatalogClient(runner).UpdatePrice(context.Background(),
		"gid://product/1", "gid://variant/1", decimal.NewFromInt(-1))
	require.Error(t, err)

	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, "gid://variant/1", we.VariantID)
	require.Len(t, we.UserErrors, 1)
	assert.Equal(t, "Price must be positive", we.UserErrors[0].Message)
	assert.Contains(t, we.Error(), "variants.price")
}

// TestUpdatePrice_TransportError tests that a transport failure is also a
// *WriteError, never a panic or an abort.
func TestUpdatePrice_TransportError(t *testing.T) {
	runner := &fakeRunner{errs: []error{errors.New("timeout")}}

	err := newTestCatalogClient(runner).UpdatePrice(context.Background(),
		"gid://product/1", "gid://variant/1", decimal.NewFromInt(12))
	require.Error(t, err)

	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.Empty(t, we.UserErrors)
	assert.ErrorContains(t, we, "timeout")
}
