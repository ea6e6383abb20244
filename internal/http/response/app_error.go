package response

// AppError 接口错误：业务码、国际化键与已翻译消息
type AppError struct {
	Code    int
	Key     string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Key
	}
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError 创建接口错误，Message 由调用方按语言填充
func NewAppError(code int, key string, err error) *AppError {
	return &AppError{Code: code, Key: key, Err: err}
}
