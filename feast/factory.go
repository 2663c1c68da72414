package feast

import (
	"strconv"
	"strings"
)

// NewClient 统一的客户端创建入口。
//
// 示例：
//
//	client, err := feast.NewClient("localhost:6565", "mallkit")
//	client, err := feast.NewClient("grpc://feast.internal:6565", "mallkit",
//	    feast.WithAuth(&feast.AuthConfig{Type: "static", Token: "..."}))
func NewClient(endpoint, project string, opts ...ClientOption) (Client, error) {
	host, port := parseEndpoint(endpoint)
	return NewGrpcClient(host, port, project, opts...)
}

// parseEndpoint 解析端点地址，返回 host 和 port（缺省端口返回 0）
func parseEndpoint(endpoint string) (string, int) {
	endpoint = strings.TrimPrefix(endpoint, "grpc://")
	endpoint = strings.TrimPrefix(endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	parts := strings.Split(endpoint, ":")
	if len(parts) == 2 {
		if port, err := strconv.Atoi(parts[1]); err == nil {
			return parts[0], port
		}
	}
	return endpoint, 0
}
