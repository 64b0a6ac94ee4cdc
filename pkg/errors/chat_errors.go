package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// ServiceChatEngine is the service code for the conversational memory
// engine, in the 20-79 business-service range (see errno.go).
const ServiceChatEngine = 30

func init() {
	RegisterService(ServiceChatEngine, "chat-engine")
}

// The seven error kinds raised by the core pipeline, each
// registered once as a stable Errno so callers can compare by identity.
var (
	ErrChatAuthRequired = NewAuthErr(ServiceChatEngine, 1,
		"authentication required", "需要身份验证")

	ErrChatInvalidCredential = NewAuthErr(ServiceChatEngine, 2,
		"invalid credential", "凭证无效")

	ErrChatNotFound = NewNotFoundErr(ServiceChatEngine, 1,
		"conversation not found", "会话不存在")

	ErrChatValidation = NewRequestErr(ServiceChatEngine, 1,
		"invalid request", "请求无效")

	ErrChatUpstreamUnavailable = NewNetworkErr(ServiceChatEngine, 1,
		"upstream provider unavailable", "上游服务不可用")

	ErrChatRefused = NewError(ServiceChatEngine, CategoryRequest, 2,
		http.StatusOK, codes.OK,
		"message refused by content policy", "内容已被拒绝")

	ErrChatRateLimited = NewRateLimitErr(ServiceChatEngine, 1,
		"rate limit exceeded", "请求过于频繁")

	ErrChatInternal = NewInternalErr(ServiceChatEngine, 1,
		"internal error", "内部错误")
)
