package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"marketlens/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestFromDomain_ClassifiesSentinels(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{core.NewColumnNotFoundError("price"), CodeColumnNotFound},
		{core.NewMissingColumnsError([]string{"brand"}), CodeMissingColumns},
		{core.NewEmptyDatasetError("cleaning"), CodeEmptyDataset},
		{core.NewNoValidPricesError("price"), CodeNoValidPrices},
		{core.ErrNoFeatureSource, CodeNoFeatureSource},
		{core.NewUnknownStrategyError("fill"), CodeInvalidInput},
		{stderrors.New("boom"), CodeInternalError},
	}
	for _, tt := range tests {
		got := FromDomain(tt.err)
		assert.Equal(t, tt.code, got.Code, tt.err.Error())
		assert.ErrorIs(t, got, tt.err)
	}
	assert.Nil(t, FromDomain(nil))
}

func TestWrapKeepsDomainCode(t *testing.T) {
	err := Wrap(core.NewColumnNotFoundError("brand"), "brand aggregation failed")

	assert.Equal(t, CodeColumnNotFound, GetCode(err))
	assert.Contains(t, err.Error(), "column 'brand' not found")
	assert.True(t, core.IsColumnNotFound(err))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeExternalService, stderrors.New("timeout"))
	assert.Equal(t, CodeExternalService, GetCode(err))
	assert.True(t, IsAppError(err))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(CodeColumnNotFound))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(CodeInvalidInput))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(CodeExternalService))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus("UNKNOWN"))
}
