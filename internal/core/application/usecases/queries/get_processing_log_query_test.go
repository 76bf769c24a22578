package queries_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
)

func Test_NewGetProcessingLogQuery(t *testing.T) {
	id := kernel.NewUUID()
	query, err := queries.NewGetProcessingLogQuery(id)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.True(t, id.IsEqual(query.OrderID()))
}

func Test_NewGetProcessingLogQuery_InvalidID(t *testing.T) {
	_, err := queries.NewGetProcessingLogQuery(kernel.UUID{})
	assert.Error(t, err)
}

func Test_GetCityMetricsQuery_Validate(t *testing.T) {
	query := queries.NewGetCityMetricsQuery()
	require.NoError(t, query.Validate())

	var notConstructed queries.GetCityMetricsQuery
	assert.ErrorIs(t, notConstructed.Validate(), queries.ErrGetCityMetricsQueryIsNotConstructed)
}
