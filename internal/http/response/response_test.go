package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func TestErrorAttachesRequestID(t *testing.T) {
	c, w := newTestContext()
	c.Set(requestIDKey, "req-1")

	Error(c, CodeBadRequest, "Your cart is empty")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, CodeBadRequest, body["status_code"])
	assert.Equal(t, "Your cart is empty", body["msg"])
	assert.Equal(t, "req-1", body["data"].(map[string]interface{})["request_id"])
}

func TestErrorWithDataWrapsStruct(t *testing.T) {
	c, w := newTestContext()
	c.Set(requestIDKey, "req-2")

	ErrorWithData(c, CodeBadRequest, "Coupon not found", struct {
		Code string `json:"code"`
	}{Code: "NONE"})

	var body struct {
		Data struct {
			RequestID string            `json:"request_id"`
			Data      map[string]string `json:"data"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "req-2", body.Data.RequestID)
	assert.Equal(t, "NONE", body.Data.Data["code"])
}

func TestSuccessWithPageFlattensEnvelope(t *testing.T) {
	c, w := newTestContext()

	SuccessWithPage(c, []string{"TK1"}, Pagination{Page: 1, PageSize: 20, Total: 1, TotalPage: 1})

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, CodeOK, body["status_code"])
	assert.Equal(t, "success", body["msg"])
	assert.Contains(t, body, "pagination")
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("db down")
	err := NewAppError(CodeInternal, "error.internal", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "error.internal: db down", err.Error())

	err.Message = "Internal error"
	assert.Equal(t, "Internal error: db down", err.Error())
}
