package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const requestIDKey = "request_id"

// Response 统一响应结构，HTTP 状态恒为 200，业务结果看 status_code
type Response struct {
	StatusCode int         `json:"status_code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	Response
	Pagination Pagination `json:"pagination"`
}

// Pagination 分页信息
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	SuccessWithMsg(c, "success", data)
}

// SuccessWithMsg 成功响应，msg 通常是面向顾客的提示
func SuccessWithMsg(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Response{StatusCode: CodeOK, Msg: msg, Data: data})
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, PageResponse{
		Response:   Response{StatusCode: CodeOK, Msg: "success", Data: data},
		Pagination: pagination,
	})
}

// Error 错误响应，data 中附带 request_id 便于排查
func Error(c *gin.Context, statusCode int, msg string) {
	ErrorWithData(c, statusCode, msg, nil)
}

// ErrorWithData 错误响应（带数据），如优惠码校验失败时返回的购物车快照
func ErrorWithData(c *gin.Context, statusCode int, msg string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		StatusCode: statusCode,
		Msg:        msg,
		Data:       withRequestID(c, data),
	})
}

func withRequestID(c *gin.Context, data interface{}) interface{} {
	requestID := ""
	if c != nil {
		requestID = c.GetString(requestIDKey)
	}
	if requestID == "" {
		return data
	}
	switch v := data.(type) {
	case nil:
		return gin.H{requestIDKey: requestID}
	case gin.H:
		if _, ok := v[requestIDKey]; !ok {
			v[requestIDKey] = requestID
		}
		return v
	default:
		return gin.H{requestIDKey: requestID, "data": data}
	}
}
