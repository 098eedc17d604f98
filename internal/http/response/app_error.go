package response

// AppError 处理器错误：业务码、文案键与已翻译文案
type AppError struct {
	Code    int
	Key     string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// IsServerError 5xx 类错误需要按 error 级别记录
func (e *AppError) IsServerError() bool {
	return e != nil && e.Code >= CodeInternal
}

// WrapError 包装错误
func WrapError(code int, key, message string, err error) *AppError {
	return &AppError{Code: code, Key: key, Message: message, Err: err}
}
