package upload_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/lease-tracker/upload"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestPlaceholder_AlwaysSucceeds(t *testing.T) {
	p := upload.NewPlaceholder("")

	for _, f := range []upload.File{
		{},
		{Name: "contrato.pdf", Size: 11, Content: strings.NewReader("%PDF-1.7...")},
	} {
		res, err := p.Upload(context.Background(), f)
		require.NoError(t, err)
		assert.True(t, res.OK)
		assert.Equal(t, upload.PlaceholderURL, res.URL)
		assert.Equal(t, upload.PlaceholderMessage, res.Message)
	}
}

func TestPlaceholder_CustomURL(t *testing.T) {
	res, err := upload.NewPlaceholder("https://files.internal/placeholder.pdf").Upload(context.Background(), upload.File{})

	require.NoError(t, err)
	assert.Equal(t, "https://files.internal/placeholder.pdf", res.URL)
}

func TestPlaceholder_ReadFailure(t *testing.T) {
	_, err := upload.NewPlaceholder("").Upload(context.Background(), upload.File{Content: failingReader{}})

	assert.Error(t, err)
}
