package shared_test

import (
	"encoding/csv"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportportal/portal/internal/shared"
)

func TestCSVStream(t *testing.T) {
	rr := httptest.NewRecorder()
	stream, err := shared.NewCSVStream(rr, "news", []string{"id", "title"})
	require.NoError(t, err)
	require.NoError(t, stream.Row("1", "Cup final, recap"))
	require.NoError(t, stream.Row("2", `Say "hi"`))
	require.NoError(t, stream.Flush())

	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Disposition"), `attachment; filename="news-`))

	records, err := csv.NewReader(rr.Body).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id", "title"}, {"1", "Cup final, recap"}, {"2", `Say "hi"`}}, records)
}
