package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func testContext(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestParseDefaults(t *testing.T) {
	p := Parse(testContext(""))
	require.Equal(t, DefaultPage, p.Page)
	require.Equal(t, DefaultLimit, p.Limit)
	require.Equal(t, 0, p.Offset)
}

func TestParseClampsLimit(t *testing.T) {
	p := Parse(testContext("page=3&limit=500"))
	require.Equal(t, 3, p.Page)
	require.Equal(t, MaxLimit, p.Limit)
	require.Equal(t, 2*MaxLimit, p.Offset)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	p := Parse(testContext("page=-1&limit=0"))
	require.Equal(t, DefaultPage, p.Page)
	require.Equal(t, DefaultLimit, p.Limit)
}

func TestTotalPages(t *testing.T) {
	p := Params{Page: 1, Limit: 20}
	require.EqualValues(t, 0, p.TotalPages(0))
	require.EqualValues(t, 1, p.TotalPages(20))
	require.EqualValues(t, 2, p.TotalPages(21))
}
