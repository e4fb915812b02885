package presentation

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/kiln/internal/domain/registry"
)

func testEntry(t *testing.T) *registry.Entry {
	t.Helper()
	entry, err := registry.NewBuilder("Writer").
		Library("pkg1").
		Label("db_writer").
		Description("Writes rows to the database").
		Defaults(registry.Args{"batch_size": 100}).
		Factory(func(ctx context.Context, args registry.Args) (any, error) {
			return nil, nil
		}).
		Build()
	require.NoError(t, err)
	return entry
}

func TestFromDomainEntry(t *testing.T) {
	dto := FromDomainEntry(testEntry(t))

	require.Equal(t, "writer", dto.Key, "key should be normalized")
	require.Equal(t, "pkg1", dto.Library)
	require.Equal(t, "db_writer", dto.Label)
	require.Equal(t, "Writes rows to the database", dto.Description)
	require.Equal(t, 100, dto.Defaults["batch_size"])
}

func TestFormatEntries(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewFormatter(&buf)

	err := formatter.FormatEntries(FromDomainEntries([]*registry.Entry{testEntry(t)}))
	require.NoError(t, err)

	var decoded []EntryDTO
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	require.Equal(t, "writer", decoded[0].Key)
	require.Equal(t, "pkg1", decoded[0].Library)
}

func TestFormatEntries_OmitsEmptyQualifiers(t *testing.T) {
	entry, err := registry.NewBuilder("plain").
		Factory(func(ctx context.Context, args registry.Args) (any, error) {
			return nil, nil
		}).
		Build()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf).FormatEntry(FromDomainEntry(entry)))

	require.NotContains(t, buf.String(), "library")
	require.NotContains(t, buf.String(), "label")
	require.NotContains(t, buf.String(), "defaults")
}
