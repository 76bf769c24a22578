package queries_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

func Test_NewGetOrdersQuery(t *testing.T) {
	id := kernel.NewUUID()
	failed := order.Failed

	query, err := queries.NewGetOrdersQuery(id, &failed, 50)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.True(t, id.IsEqual(query.BatchID()))
	assert.Equal(t, order.Failed, *query.Status())
	assert.Equal(t, 50, query.Limit())
}

func Test_NewGetOrdersQuery_DefaultLimit(t *testing.T) {
	query, err := queries.NewGetOrdersQuery(kernel.NewUUID(), nil, 0)
	require.NoError(t, err)
	assert.Equal(t, queries.DefaultOrdersLimit, query.Limit())

	query, err = queries.NewGetOrdersQuery(kernel.NewUUID(), nil, -5)
	require.NoError(t, err)
	assert.Equal(t, queries.DefaultOrdersLimit, query.Limit())
}

func Test_NewGetOrdersQuery_InvalidStatus(t *testing.T) {
	badStatus := order.Unknown
	_, err := queries.NewGetOrdersQuery(kernel.NewUUID(), &badStatus, 10)
	assert.Error(t, err)
}

func Test_GetOrdersQuery_NotConstructed(t *testing.T) {
	var query queries.GetOrdersQuery
	assert.ErrorIs(t, query.Validate(), queries.ErrGetOrdersQueryIsNotConstructed)
}
