package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moostafaa/NRedis/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doRequest(t *testing.T, r *gin.Engine, method, path string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	body := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestStringEndpoints(t *testing.T) {
	r := NewRouter(storage.NewRedisDb())

	code, _ := doRequest(t, r, http.MethodPost, "/string/greeting/hello")
	assert.Equal(t, http.StatusOK, code)

	code, body := doRequest(t, r, http.MethodGet, "/string/greeting")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "hello", body["value"])

	code, _ = doRequest(t, r, http.MethodGet, "/string/missing")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestInfoAndDelete(t *testing.T) {
	r := NewRouter(storage.NewRedisDb())

	doRequest(t, r, http.MethodPost, "/string/n/12345")
	code, body := doRequest(t, r, http.MethodGet, "/info/n")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "string", body["type"])
	assert.Equal(t, "int", body["encoding"])

	code, body = doRequest(t, r, http.MethodDelete, "/key/n")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["deleted"])

	code, _ = doRequest(t, r, http.MethodGet, "/info/n")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHashEndpoints(t *testing.T) {
	r := NewRouter(storage.NewRedisDb())

	code, _ := doRequest(t, r, http.MethodPost, "/hash/h/name/redis")
	assert.Equal(t, http.StatusOK, code)

	code, body := doRequest(t, r, http.MethodGet, "/hash/h/name")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "redis", body["value"])

	code, _ = doRequest(t, r, http.MethodGet, "/hash/h/missing")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestWrongTypeConflict(t *testing.T) {
	r := NewRouter(storage.NewRedisDb())

	doRequest(t, r, http.MethodPost, "/string/k/v")

	code, _ := doRequest(t, r, http.MethodPost, "/hash/k/f/v")
	assert.Equal(t, http.StatusConflict, code)
	code, _ = doRequest(t, r, http.MethodPost, "/set/k/m")
	assert.Equal(t, http.StatusConflict, code)
	code, _ = doRequest(t, r, http.MethodPost, "/list/k/tail/v")
	assert.Equal(t, http.StatusConflict, code)
	code, _ = doRequest(t, r, http.MethodPost, "/zset/k/m/1")
	assert.Equal(t, http.StatusConflict, code)
}

func TestSetEndpoints(t *testing.T) {
	r := NewRouter(storage.NewRedisDb())

	doRequest(t, r, http.MethodPost, "/set/s/3")
	doRequest(t, r, http.MethodPost, "/set/s/1")
	doRequest(t, r, http.MethodPost, "/set/s/2")

	code, body := doRequest(t, r, http.MethodGet, "/set/s")
	assert.Equal(t, http.StatusOK, code)
	// intset 编码下成员升序返回
	assert.Equal(t, []interface{}{"1", "2", "3"}, body["members"])

	code, body = doRequest(t, r, http.MethodGet, "/info/s")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "intset", body["encoding"])
}

func TestListEndpoints(t *testing.T) {
	r := NewRouter(storage.NewRedisDb())

	doRequest(t, r, http.MethodPost, "/list/l/tail/a")
	doRequest(t, r, http.MethodPost, "/list/l/tail/b")
	doRequest(t, r, http.MethodPost, "/list/l/head/z")

	code, body := doRequest(t, r, http.MethodGet, "/list/l")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{"z", "a", "b"}, body["values"])

	code, body = doRequest(t, r, http.MethodGet, "/list/l?start=1&stop=2")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{"a", "b"}, body["values"])

	doRequest(t, r, http.MethodPost, "/list/l/rotate")
	code, body = doRequest(t, r, http.MethodGet, "/list/l")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{"b", "z", "a"}, body["values"])

	code, _ = doRequest(t, r, http.MethodGet, "/list/l?start=bad")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestZSetEndpoints(t *testing.T) {
	r := NewRouter(storage.NewRedisDb())

	doRequest(t, r, http.MethodPost, "/zset/z/c/3")
	doRequest(t, r, http.MethodPost, "/zset/z/a/1")
	doRequest(t, r, http.MethodPost, "/zset/z/b/2")

	code, body := doRequest(t, r, http.MethodGet, "/zset/z/rank/b")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["rank"])

	code, body = doRequest(t, r, http.MethodGet, "/zset/z/byrank/0")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "a", body["member"])
	assert.Equal(t, float64(1), body["score"])

	code, _ = doRequest(t, r, http.MethodGet, "/zset/z/rank/missing")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = doRequest(t, r, http.MethodGet, "/zset/z/byrank/99")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = doRequest(t, r, http.MethodPost, "/zset/z/x/notanumber")
	assert.Equal(t, http.StatusBadRequest, code)
}
