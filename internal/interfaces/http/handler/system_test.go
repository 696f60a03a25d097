package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bloodbank/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping() error {
	return p.err
}

func TestNewSystemHandler(t *testing.T) {
	h := NewSystemHandler(&fakePinger{})
	assert.NotNil(t, h)
	assert.False(t, h.startTime.IsZero())
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler(&fakePinger{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/system/info", nil)

	h.GetSystemInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Blood Bank Reagent Inventory API", data["name"])
	assert.Equal(t, "1.0.0", data["version"])
	assert.NotEmpty(t, data["go_version"])
	assert.NotEmpty(t, data["uptime"])
}

func TestSystemHandler_Ping(t *testing.T) {
	h := NewSystemHandler(&fakePinger{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/system/ping", nil)

	h.Ping(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "pong", data["message"])

	timestamp := data["timestamp"].(string)
	_, err = time.Parse(time.RFC3339, timestamp)
	assert.NoError(t, err)
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("healthy when database reachable", func(t *testing.T) {
		h := NewSystemHandler(&fakePinger{})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

		h.Health(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)

		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "ok", data["status"])
		assert.Equal(t, "ok", data["database"])
	})

	t.Run("degraded when database unreachable", func(t *testing.T) {
		h := NewSystemHandler(&fakePinger{err: errors.New("connection refused")})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

		h.Health(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var resp dto.Response
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)

		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "degraded", data["status"])
		assert.Equal(t, "unreachable", data["database"])
	})

	t.Run("healthy when no database configured", func(t *testing.T) {
		h := NewSystemHandler(nil)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

		h.Health(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
