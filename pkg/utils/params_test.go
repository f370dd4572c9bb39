package utils

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestIDParam(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int
		wantErr error
	}{
		{name: "valid id", value: "42", want: 42},
		{name: "not a number", value: "abc", wantErr: ErrInvalidID},
		{name: "zero", value: "0", wantErr: ErrInvalidID},
		{name: "negative", value: "-3", wantErr: ErrInvalidID},
		{name: "missing", value: "", wantErr: ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.value)
			req := httptest.NewRequest("GET", "/artworks/"+tt.value, nil)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			id, err := IDParam(req, "id")

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, id)
		})
	}
}
