package response

// 业务状态码，HTTP 状态固定为 200，由 status_code 区分结果
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeGone            = 410
	CodeTooManyRequests = 429
	CodeInternal        = 500
)
